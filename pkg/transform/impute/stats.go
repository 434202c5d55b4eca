package impute

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	j "github.com/wdm0006/stratafill/pkg/frame"
)

// MeanOf returns the arithmetic mean of vals. ok is false for an empty slice.
func MeanOf(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	return stat.Mean(vals, nil), true
}

// MedianOf returns the median of vals, averaging the two middle values for an
// even count. vals is not modified. ok is false for an empty slice.
func MedianOf(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, true
	}
	return sorted[mid], true
}

// Statistics computes the fill statistic of every float column of f from
// that column's observed values. NaN cells count as missing. Nothing is retained between calls.
func Statistics(f *j.Frame, s Strategy) (map[string]float64, error) {
	fn, err := s.statistic()
	if err != nil {
		return nil, err
	}
	names := f.Schema().ColumnsOfKind(j.KindFloat)
	out := make(map[string]float64, len(names))
	for _, name := range names {
		c, err := f.Float(name)
		if err != nil {
			return nil, err
		}
		v, ok := fn(j.ObservedFloats(c))
		if !ok {
			return nil, fmt.Errorf("%w: column %q has no observed values", ErrStatisticUndefined, name)
		}
		out[name] = v
	}
	return out, nil
}
