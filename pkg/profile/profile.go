// Package profile summarizes the float columns of each partition, mainly to
// show where the missing values sit before a grouped fill.
package profile

import (
	"fmt"
	"io"
	"math"
	"strings"

	j "github.com/wdm0006/stratafill/pkg/frame"
	"github.com/wdm0006/stratafill/pkg/group"
)

type NumStats struct {
	Count int     `json:"count"`
	Nulls int     `json:"nulls"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Sum   float64 `json:"sum"`
}

// Mean of the observed values; NaN when there are none.
func (s NumStats) Mean() float64 {
	if s.Count == 0 {
		return math.NaN()
	}
	return s.Sum / float64(s.Count)
}

type ColumnProfile struct {
	Name string   `json:"name"`
	Num  NumStats `json:"num"`
}

type GroupProfile struct {
	Key     string          `json:"key"`
	Rows    int             `json:"rows"`
	Columns []ColumnProfile `json:"columns"`
}

// Report is the profile of every partition, in partition order.
type Report struct {
	KeyColumn string         `json:"key_column"`
	Groups    []GroupProfile `json:"groups"`
}

// Collect profiles the float columns of each partition.
func Collect(keyColumn string, parts group.Partitions) Report {
	rep := Report{KeyColumn: keyColumn, Groups: make([]GroupProfile, 0, len(parts))}
	for _, p := range parts {
		gp := GroupProfile{Key: p.Key.String(), Rows: p.Frame.Rows()}
		for _, name := range p.Frame.Schema().ColumnsOfKind(j.KindFloat) {
			c, err := p.Frame.Float(name)
			if err != nil {
				continue
			}
			gp.Columns = append(gp.Columns, ColumnProfile{Name: name, Num: numStats(c)})
		}
		rep.Groups = append(rep.Groups, gp)
	}
	return rep
}

func numStats(c *j.FloatColumn) NumStats {
	s := NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Get(i)
		if !ok || math.IsNaN(v) {
			s.Nulls++
			continue
		}
		s.Count++
		s.Sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	if s.Count == 0 {
		s.Min, s.Max = 0, 0
	}
	return s
}

// Undefined lists "key/column" pairs whose column has no observed values in
// that partition; a grouped fill over them would fail.
func (r Report) Undefined() []string {
	var out []string
	for _, g := range r.Groups {
		for _, c := range g.Columns {
			if c.Num.Count == 0 {
				out = append(out, g.Key+"/"+c.Name)
			}
		}
	}
	return out
}

func (r Report) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Profile by %s\n", r.KeyColumn)
	for _, g := range r.Groups {
		fmt.Fprintf(&b, "- %s (%d rows)\n", g.Key, g.Rows)
		for _, c := range g.Columns {
			fmt.Fprintf(&b, "    %s: count=%d nulls=%d min=%.6g max=%.6g mean=%.6g\n",
				c.Name, c.Num.Count, c.Num.Nulls, c.Num.Min, c.Num.Max, c.Num.Mean())
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
