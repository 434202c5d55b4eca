package group

import (
	"fmt"
	"math"

	j "github.com/wdm0006/stratafill/pkg/frame"
)

// Key is the key-column value shared by every row of a partition. Null keys
// form a partition of their own.
type Key struct {
	Value any
	Null  bool
}

// NullKey is the key of the partition of rows with a missing key cell.
var NullKey = Key{Null: true}

// KeyOf wraps a non-null key value.
func KeyOf(v any) Key { return Key{Value: v} }

func (k Key) String() string {
	if k.Null {
		return "<null>"
	}
	return fmt.Sprint(k.Value)
}

// Partition is an independently owned copy of the rows sharing one key.
type Partition struct {
	Key   Key
	Frame *j.Frame
}

// Partitions is ordered by first appearance of each key in the source frame.
type Partitions []Partition

// Get returns the frame of the partition for k.
func (ps Partitions) Get(k Key) (*j.Frame, bool) {
	for _, p := range ps {
		if p.Key == k {
			return p.Frame, true
		}
	}
	return nil, false
}

func (ps Partitions) Keys() []Key {
	out := make([]Key, len(ps))
	for i, p := range ps {
		out[i] = p.Key
	}
	return out
}

// Rows is the total row count across partitions.
func (ps Partitions) Rows() int {
	var n int
	for _, p := range ps {
		n += p.Frame.Rows()
	}
	return n
}

// PartitionBy splits f on the values of column. The source frame is not
// modified and shares no storage with the result.
func PartitionBy(f *j.Frame, column string) (Partitions, error) {
	col, err := f.Lookup(column)
	if err != nil {
		return nil, fmt.Errorf("partition by %q: %w", column, err)
	}
	var order []Key
	rows := make(map[Key][]int)
	for i := 0; i < col.Len(); i++ {
		k := NullKey
		if v, ok := col.Value(i); ok && !isNaN(v) {
			k = KeyOf(v)
		}
		if _, seen := rows[k]; !seen {
			order = append(order, k)
		}
		rows[k] = append(rows[k], i)
	}
	out := make(Partitions, len(order))
	for i, k := range order {
		out[i] = Partition{Key: k, Frame: f.Take(rows[k])}
	}
	return out, nil
}

// NaN never equals itself, so it cannot index a partition; it joins the null key.
func isNaN(v any) bool {
	x, ok := v.(float64)
	return ok && math.IsNaN(x)
}
