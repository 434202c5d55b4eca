package impute

import (
	"context"
	"fmt"

	j "github.com/wdm0006/stratafill/pkg/frame"
)

// Mean fills one float column with its mean over the whole frame.
type Mean struct{ Column string }

func (t *Mean) Name() string { return "impute_mean" }

func (t *Mean) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	return fillColumn(f, t.Column, StrategyMean)
}

// Median fills one float column with its median over the whole frame.
type Median struct{ Column string }

func (t *Median) Name() string { return "impute_median" }

func (t *Median) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	return fillColumn(f, t.Column, StrategyMedian)
}

// Constant fills one float column with a fixed value.
type Constant struct {
	Column string
	Value  float64
}

func (t *Constant) Name() string { return "impute_constant" }

func (t *Constant) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	if _, err := floatColumn(f, t.Column); err != nil {
		return nil, err
	}
	out := f.Clone()
	c, _ := out.Float(t.Column)
	fillNulls(c, t.Value)
	return out, nil
}

func fillColumn(f *j.Frame, name string, s Strategy) (*j.Frame, error) {
	c, err := floatColumn(f, name)
	if err != nil {
		return nil, err
	}
	fn, err := s.statistic()
	if err != nil {
		return nil, err
	}
	v, ok := fn(j.ObservedFloats(c))
	if !ok {
		return nil, fmt.Errorf("%w: column %q has no observed values", ErrStatisticUndefined, name)
	}
	out := f.Clone()
	oc, _ := out.Float(name)
	fillNulls(oc, v)
	return out, nil
}

func floatColumn(f *j.Frame, name string) (*j.FloatColumn, error) {
	col, err := f.Lookup(name)
	if err != nil {
		return nil, err
	}
	c, ok := col.(*j.FloatColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotFloat, name, col.Kind())
	}
	return c, nil
}
