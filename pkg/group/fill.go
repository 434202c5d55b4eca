package group

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	j "github.com/wdm0006/stratafill/pkg/frame"
	imp "github.com/wdm0006/stratafill/pkg/transform/impute"
)

// Filler is the grouped imputation as a pipeline step.
type Filler struct {
	Key      string
	Strategy imp.Strategy
	// Logger is optional.
	Logger *zap.Logger
}

func (g *Filler) Name() string { return "group_fill" }

// Apply partitions f on g.Key, imputes each partition from its own values and
// recombines them in first-seen key order. Cancellation is checked before
// each partition. On any error no frame is returned.
func (g *Filler) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	log := g.Logger
	if log == nil {
		log = zap.NewNop()
	}
	parts, err := PartitionBy(f, g.Key)
	if err != nil {
		return nil, err
	}
	var filled int
	for i, p := range parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		missing := floatNulls(p.Frame)
		out, err := imp.Impute(p.Frame, g.Strategy)
		if err != nil {
			return nil, fmt.Errorf("partition %s=%s: %w", g.Key, p.Key, err)
		}
		parts[i].Frame = out
		filled += missing
		log.Debug("partition imputed",
			zap.String("key", g.Key),
			zap.Stringer("value", p.Key),
			zap.Int("rows", p.Frame.Rows()),
			zap.Int("filled", missing))
	}
	out, err := Recombine(parts)
	if err != nil {
		return nil, err
	}
	log.Info("group fill complete",
		zap.String("key", g.Key),
		zap.Stringer("strategy", g.Strategy),
		zap.Int("partitions", len(parts)),
		zap.Int("rows", out.Rows()),
		zap.Int("filled", filled))
	return out, nil
}

// Fill runs a grouped imputation of f on key without logging.
func Fill(ctx context.Context, f *j.Frame, key string, s imp.Strategy) (*j.Frame, error) {
	return (&Filler{Key: key, Strategy: s}).Apply(ctx, f)
}

func floatNulls(f *j.Frame) int {
	var n int
	for _, name := range f.Schema().ColumnsOfKind(j.KindFloat) {
		if c, err := f.Float(name); err == nil {
			n += j.MissingFloats(c)
		}
	}
	return n
}
