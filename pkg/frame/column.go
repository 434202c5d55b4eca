package frame

import (
	"fmt"
	"math"
	"time"
)

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	AppendNull()
	// Value returns the cell as an untyped value; ok is false for null.
	Value(i int) (v any, ok bool)
	Clone() Column
	Take(rows []int) Column
	AppendColumn(src Column) error
}

// Vector is the storage shared by every column kind: values plus a
// parallel null mask.
type Vector[T any] struct {
	name  string
	kind  Kind
	data  []T
	nulls []bool
}

type (
	BoolColumn   = Vector[bool]
	IntColumn    = Vector[int64]
	FloatColumn  = Vector[float64]
	StringColumn = Vector[string]
	TimeColumn   = Vector[time.Time]
)

func newVector[T any](name string, kind Kind, n int) *Vector[T] {
	return &Vector[T]{name: name, kind: kind, data: make([]T, n), nulls: make([]bool, n)}
}

// New columns start with n null cells.
func NewBoolColumn(name string, n int) *BoolColumn     { return nullVector[bool](name, KindBool, n) }
func NewIntColumn(name string, n int) *IntColumn       { return nullVector[int64](name, KindInt, n) }
func NewFloatColumn(name string, n int) *FloatColumn   { return nullVector[float64](name, KindFloat, n) }
func NewStringColumn(name string, n int) *StringColumn { return nullVector[string](name, KindString, n) }
func NewTimeColumn(name string, n int) *TimeColumn     { return nullVector[time.Time](name, KindTime, n) }

func nullVector[T any](name string, kind Kind, n int) *Vector[T] {
	v := newVector[T](name, kind, n)
	for i := range v.nulls {
		v.nulls[i] = true
	}
	return v
}

func (c *Vector[T]) Name() string      { return c.name }
func (c *Vector[T]) Kind() Kind        { return c.kind }
func (c *Vector[T]) Len() int          { return len(c.data) }
func (c *Vector[T]) IsNull(i int) bool { return c.nulls[i] }
func (c *Vector[T]) Get(i int) (T, bool) {
	return c.data[i], !c.nulls[i]
}
func (c *Vector[T]) Set(i int, v T) { c.data[i] = v; c.nulls[i] = false }
func (c *Vector[T]) Append(v T)     { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }

func (c *Vector[T]) SetNull(i int) {
	var zero T
	c.data[i] = zero
	c.nulls[i] = true
}

func (c *Vector[T]) AppendNull() {
	var zero T
	c.data = append(c.data, zero)
	c.nulls = append(c.nulls, true)
}

func (c *Vector[T]) Value(i int) (any, bool) {
	if c.nulls[i] {
		return nil, false
	}
	return c.data[i], true
}

// NullCount returns the number of missing cells.
func (c *Vector[T]) NullCount() int {
	n := 0
	for _, null := range c.nulls {
		if null {
			n++
		}
	}
	return n
}

// Observed returns the non-null values in row order.
func (c *Vector[T]) Observed() []T {
	out := make([]T, 0, len(c.data))
	for i, v := range c.data {
		if !c.nulls[i] {
			out = append(out, v)
		}
	}
	return out
}

// FloatMissing reports whether cell i of c is null or holds NaN. Both count
// as missing for every fill statistic.
func FloatMissing(c *FloatColumn, i int) bool {
	v, ok := c.Get(i)
	return !ok || math.IsNaN(v)
}

// ObservedFloats returns the values of c that are neither null nor NaN.
func ObservedFloats(c *FloatColumn) []float64 {
	out := make([]float64, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if !FloatMissing(c, i) {
			out = append(out, c.data[i])
		}
	}
	return out
}

// MissingFloats counts the null and NaN cells of c.
func MissingFloats(c *FloatColumn) int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if FloatMissing(c, i) {
			n++
		}
	}
	return n
}

func (c *Vector[T]) Clone() Column {
	out := newVector[T](c.name, c.kind, len(c.data))
	copy(out.data, c.data)
	copy(out.nulls, c.nulls)
	return out
}

func (c *Vector[T]) Take(rows []int) Column {
	out := newVector[T](c.name, c.kind, len(rows))
	for i, r := range rows {
		out.data[i] = c.data[r]
		out.nulls[i] = c.nulls[r]
	}
	return out
}

func (c *Vector[T]) AppendColumn(src Column) error {
	s, ok := src.(*Vector[T])
	if !ok || s.kind != c.kind {
		return fmt.Errorf("%w: column %q is %s, want %s", ErrSchemaMismatch, src.Name(), src.Kind(), c.kind)
	}
	c.data = append(c.data, s.data...)
	c.nulls = append(c.nulls, s.nulls...)
	return nil
}
