package frame

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrColumnNotFound is returned when a named column is absent from a frame.
	ErrColumnNotFound = errors.New("column not found")
	// ErrSchemaMismatch is returned when frames or columns disagree on shape.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Nullable bool
}

// Names returns the column names in declaration order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		out[i] = cs.Name
	}
	return out
}

// ColumnsOfKind returns the names of columns declared with kind k.
func (s Schema) ColumnsOfKind(k Kind) []string {
	var out []string
	for _, cs := range s.Columns {
		if cs.Type == k {
			out = append(out, cs.Name)
		}
	}
	return out
}

// Equal reports whether both schemas declare the same names and kinds in the same order.
func (s Schema) Equal(o Schema) bool {
	if len(s.Columns) != len(o.Columns) {
		return false
	}
	for i := range s.Columns {
		if s.Columns[i].Name != o.Columns[i].Name || s.Columns[i].Type != o.Columns[i].Type {
			return false
		}
	}
	return true
}

// Kind enumerates supported logical types.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "invalid"
	}
}

// Frame is a columnar container for tabular data.
type Frame struct {
	schema Schema
	cols   []Column
	index  map[string]int
	nrows  int
}

func NewFrame(s Schema) *Frame {
	cols := make([]Column, len(s.Columns))
	for i, cs := range s.Columns {
		cols[i] = newColumn(cs, 0)
	}
	return build(s, cols, 0)
}

func build(s Schema, cols []Column, nrows int) *Frame {
	f := &Frame{schema: s, cols: cols, index: make(map[string]int, len(cols)), nrows: nrows}
	for i, cs := range s.Columns {
		f.index[cs.Name] = i
	}
	return f
}

func newColumn(cs ColumnSchema, n int) Column {
	switch cs.Type {
	case KindBool:
		return NewBoolColumn(cs.Name, n)
	case KindInt:
		return NewIntColumn(cs.Name, n)
	case KindFloat:
		return NewFloatColumn(cs.Name, n)
	case KindString:
		return NewStringColumn(cs.Name, n)
	case KindTime:
		return NewTimeColumn(cs.Name, n)
	default:
		panic("invalid column kind")
	}
}

func (f *Frame) Schema() Schema { return f.schema }
func (f *Frame) Rows() int      { return f.nrows }
func (f *Frame) Cols() int      { return len(f.cols) }

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Lookup is ColumnByName with an ErrColumnNotFound error for absent names.
func (f *Frame) Lookup(name string) (Column, error) {
	c, ok := f.ColumnByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return c, nil
}

// Float returns the named column as a *FloatColumn.
func (f *Frame) Float(name string) (*FloatColumn, error) {
	c, err := f.Lookup(name)
	if err != nil {
		return nil, err
	}
	fc, ok := c.(*FloatColumn)
	if !ok {
		return nil, fmt.Errorf("%w: column %q is %s, not float", ErrSchemaMismatch, name, c.Kind())
	}
	return fc, nil
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		c.AppendNull()
	}
	f.nrows++
}

// Value returns the cell at (row, name); ok is false for a null cell.
func (f *Frame) Value(row int, name string) (v any, ok bool, err error) {
	c, err := f.Lookup(name)
	if err != nil {
		return nil, false, err
	}
	v, ok = c.Value(row)
	return v, ok, nil
}

// SetCell sets a single cell value by name (row must exist). A nil value,
// or NaN in a float column, marks the cell missing.
func (f *Frame) SetCell(row int, name string, v any) error {
	c, err := f.Lookup(name)
	if err != nil {
		return err
	}
	if v == nil {
		c.SetNull(row)
		return nil
	}
	switch col := c.(type) {
	case *BoolColumn:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("column %s expects bool, got %T", name, v)
		}
		col.Set(row, b)
	case *IntColumn:
		switch t := v.(type) {
		case int:
			col.Set(row, int64(t))
		case int64:
			col.Set(row, t)
		case float64:
			col.Set(row, int64(t))
		default:
			return fmt.Errorf("column %s expects int/int64, got %T", name, v)
		}
	case *FloatColumn:
		switch t := v.(type) {
		case float32:
			setFloat(col, row, float64(t))
		case float64:
			setFloat(col, row, t)
		case int:
			col.Set(row, float64(t))
		case int64:
			col.Set(row, float64(t))
		default:
			return fmt.Errorf("column %s expects float64, got %T", name, v)
		}
	case *StringColumn:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("column %s expects string, got %T", name, v)
		}
		col.Set(row, s)
	case *TimeColumn:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("column %s expects time.Time, got %T", name, v)
		}
		col.Set(row, t)
	default:
		return fmt.Errorf("unknown column kind %s", c.Kind())
	}
	return nil
}

// setFloat stores x, reading NaN as the missing marker.
func setFloat(c *FloatColumn, row int, x float64) {
	if math.IsNaN(x) {
		c.SetNull(row)
		return
	}
	c.Set(row, x)
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	cols := make([]Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.Clone()
	}
	return build(f.schema, cols, f.nrows)
}

// Take returns a new frame holding copies of the given rows, in the order given.
func (f *Frame) Take(rows []int) *Frame {
	cols := make([]Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.Take(rows)
	}
	return build(f.schema, cols, len(rows))
}

// Concat appends the rows of every frame, in order, into a new frame. The
// first frame fixes the column order; the others must declare the same set
// of names and kinds, in any order.
func Concat(frames ...*Frame) (*Frame, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: nothing to concatenate", ErrSchemaMismatch)
	}
	schema := frames[0].Schema()
	out := NewFrame(schema)
	for n, fr := range frames {
		if fr.Cols() != len(schema.Columns) {
			return nil, fmt.Errorf("%w: frame %d has %d columns, want %d", ErrSchemaMismatch, n, fr.Cols(), len(schema.Columns))
		}
		for i, cs := range schema.Columns {
			src, ok := fr.ColumnByName(cs.Name)
			if !ok {
				return nil, fmt.Errorf("%w: frame %d lacks column %q", ErrSchemaMismatch, n, cs.Name)
			}
			if err := out.cols[i].AppendColumn(src); err != nil {
				return nil, fmt.Errorf("frame %d: %w", n, err)
			}
		}
		out.nrows += fr.Rows()
	}
	return out, nil
}
