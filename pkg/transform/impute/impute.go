// Package impute fills missing float values with central-tendency statistics.
package impute

import (
	j "github.com/wdm0006/stratafill/pkg/frame"
)

// Impute returns a copy of f in which every missing cell of every float
// column holds that column's fill statistic. Statistics come from f alone.
// Columns of other kinds are copied as they are, nulls included.
func Impute(f *j.Frame, s Strategy) (*j.Frame, error) {
	if f.Rows() == 0 {
		return nil, ErrEmptyPartition
	}
	stats, err := Statistics(f, s)
	if err != nil {
		return nil, err
	}
	out := f.Clone()
	for name, v := range stats {
		c, err := out.Float(name)
		if err != nil {
			return nil, err
		}
		fillNulls(c, v)
	}
	return out, nil
}

func fillNulls(c *j.FloatColumn, v float64) {
	for i := 0; i < c.Len(); i++ {
		if j.FloatMissing(c, i) {
			c.Set(i, v)
		}
	}
}
