package impute

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownStrategy is returned for a strategy name other than mean or median.
	ErrUnknownStrategy = errors.New("unknown imputation strategy")
	// ErrStatisticUndefined is returned when a float column has no observed
	// values to compute a fill statistic from.
	ErrStatisticUndefined = errors.New("fill statistic undefined")
	// ErrEmptyPartition is returned when asked to impute a frame with no rows.
	ErrEmptyPartition = errors.New("empty partition")
	// ErrNotFloat is returned by the single-column imputers for non-float columns.
	ErrNotFloat = errors.New("column is not float")
)

// Strategy selects the fill statistic.
type Strategy string

const (
	StrategyMean   Strategy = "mean"
	StrategyMedian Strategy = "median"

	DefaultStrategy = StrategyMedian
)

// ParseStrategy maps a configuration value onto a Strategy. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyMean, StrategyMedian:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

func (s Strategy) String() string { return string(s) }

// statistic returns the pure function behind s.
func (s Strategy) statistic() (func([]float64) (float64, bool), error) {
	switch s {
	case StrategyMean:
		return MeanOf, nil
	case StrategyMedian:
		return MedianOf, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(s))
	}
}
