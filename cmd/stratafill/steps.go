package main

import (
	"fmt"

	"go.uber.org/zap"

	j "github.com/wdm0006/stratafill/pkg/frame"
	"github.com/wdm0006/stratafill/pkg/group"
	imp "github.com/wdm0006/stratafill/pkg/transform/impute"
	std "github.com/wdm0006/stratafill/pkg/transform/standardize"
)

// buildPipeline turns the configured steps into a pipeline. With no steps a
// single grouped fill on KeyColumn is built.
func buildPipeline(cfg Config, log *zap.Logger) (*j.Pipeline, error) {
	p := j.NewPipeline()
	if len(cfg.Steps) == 0 {
		if cfg.KeyColumn == "" {
			return nil, fmt.Errorf("key_column is required when no steps are configured")
		}
		s, err := imp.ParseStrategy(cfg.Strategy)
		if err != nil {
			return nil, err
		}
		return p.Add(&group.Filler{Key: cfg.KeyColumn, Strategy: s, Logger: log}), nil
	}
	for i, step := range cfg.Steps {
		if len(step) != 1 {
			return nil, fmt.Errorf("step %d: want exactly one step kind, got %d", i, len(step))
		}
		for kind, a := range step {
			t, err := newStep(kind, a, cfg, log)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
			p.Add(t)
		}
	}
	return p, nil
}

func newStep(kind string, a StepArgs, cfg Config, log *zap.Logger) (j.Transform, error) {
	switch kind {
	case "group_fill":
		key, strategy := a.Key, a.Strategy
		if key == "" {
			key = cfg.KeyColumn
		}
		if strategy == "" {
			strategy = cfg.Strategy
		}
		if key == "" {
			return nil, fmt.Errorf("group_fill: key is required")
		}
		s, err := imp.ParseStrategy(strategy)
		if err != nil {
			return nil, err
		}
		return &group.Filler{Key: key, Strategy: s, Logger: log}, nil
	case "impute_mean":
		return &imp.Mean{Column: a.Column}, nil
	case "impute_median":
		return &imp.Median{Column: a.Column}, nil
	case "impute_constant":
		if a.Value == nil {
			return nil, fmt.Errorf("impute_constant: value is required")
		}
		return &imp.Constant{Column: a.Column, Value: *a.Value}, nil
	case "trim":
		return &std.Trim{Column: a.Column}, nil
	case "lower":
		return &std.Lower{Column: a.Column}, nil
	case "blank_to_null":
		return &std.BlankToNull{Column: a.Column}, nil
	case "map_values":
		return &std.MapValues{Column: a.Column, Map: a.Map}, nil
	case "regex_replace":
		rr, err := std.NewRegexReplace(a.Column, a.Pattern, a.Replace)
		if err != nil {
			return nil, fmt.Errorf("regex_replace: %w", err)
		}
		return rr, nil
	default:
		return nil, fmt.Errorf("unknown step %q", kind)
	}
}
