// Package jsonlio reads and writes frames as JSON Lines, one object per row.
package jsonlio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	j "github.com/wdm0006/stratafill/pkg/frame"
	iox "github.com/wdm0006/stratafill/pkg/io/ioutils"
)

type ReaderOptions struct {
	SampleRows int // objects used for inference; 0 = all
}

type Reader struct {
	dec  *json.Decoder
	opt  ReaderOptions
	buf  []map[string]any
	keys []string
}

// Open opens a (possibly gzipped) JSON Lines file, or stdin for "-".
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, err
	}
	return NewReaderFrom(rc, opt), rc, nil
}

func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Reader{dec: dec, opt: opt}
}

// InferSchema collects keys and kinds from every object, or from the first
// SampleRows when set. Columns are sorted by key so that the schema does not
// depend on map order.
func (r *Reader) InferSchema() (j.Schema, error) {
	max := r.opt.SampleRows
	keysSet := map[string]struct{}{}
	for max <= 0 || len(r.buf) < max {
		m, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return j.Schema{}, err
		}
		r.buf = append(r.buf, m)
		for k := range m {
			keysSet[k] = struct{}{}
		}
	}
	r.keys = make([]string, 0, len(keysSet))
	for k := range keysSet {
		r.keys = append(r.keys, k)
	}
	sort.Strings(r.keys)
	schema := j.Schema{Columns: make([]j.ColumnSchema, len(r.keys))}
	for i, k := range r.keys {
		schema.Columns[i] = j.ColumnSchema{Name: k, Type: inferKind(r.buf, k), Nullable: true}
	}
	return schema, nil
}

func (r *Reader) next() (map[string]any, error) {
	var m map[string]any
	if err := r.dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadAll loads the buffered objects and the rest of the input. A key absent
// from schema, or a value that does not fit its column's kind, is an error.
func (r *Reader) ReadAll(schema j.Schema) (*j.Frame, error) {
	f := j.NewFrame(schema)
	for _, m := range r.buf {
		if err := setRow(f, m); err != nil {
			return nil, fmt.Errorf("jsonl row %d: %w", f.Rows()-1, err)
		}
	}
	r.buf = nil
	for {
		m, err := r.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("jsonl row %d: %w", f.Rows(), err)
		}
		if err := setRow(f, m); err != nil {
			return nil, fmt.Errorf("jsonl row %d: %w", f.Rows()-1, err)
		}
	}
	return f, nil
}

func setRow(f *j.Frame, m map[string]any) error {
	f.AppendNullRow()
	row := f.Rows() - 1
	for k := range m {
		if _, ok := f.ColumnByName(k); !ok {
			return fmt.Errorf("%w: key %q", j.ErrColumnNotFound, k)
		}
	}
	for _, cs := range f.Schema().Columns {
		v, ok := m[cs.Name]
		if !ok || v == nil {
			continue
		}
		var err error
		switch t := v.(type) {
		case json.Number:
			err = setNumber(f, row, cs, t)
		case bool:
			switch cs.Type {
			case j.KindBool:
				err = f.SetCell(row, cs.Name, t)
			case j.KindString:
				err = f.SetCell(row, cs.Name, strconv.FormatBool(t))
			default:
				err = mismatch(cs, t)
			}
		case string:
			err = iox.SetText(f, row, cs, t, nulls)
		default:
			if cs.Type != j.KindString {
				return mismatch(cs, t)
			}
			b, _ := json.Marshal(t)
			err = f.SetCell(row, cs.Name, string(b))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

var nulls = iox.NewNullSet(nil)

func mismatch(cs j.ColumnSchema, v any) error {
	return fmt.Errorf("%w: %v in %s column %q", iox.ErrCellKind, v, cs.Type, cs.Name)
}

func setNumber(f *j.Frame, row int, cs j.ColumnSchema, n json.Number) error {
	switch cs.Type {
	case j.KindFloat:
		x, err := n.Float64()
		if err != nil {
			return mismatch(cs, n)
		}
		return f.SetCell(row, cs.Name, x)
	case j.KindInt:
		x, err := n.Int64()
		if err != nil {
			return mismatch(cs, n)
		}
		return f.SetCell(row, cs.Name, x)
	case j.KindString:
		return f.SetCell(row, cs.Name, n.String())
	default:
		return mismatch(cs, n)
	}
}

func inferKind(sample []map[string]any, key string) j.Kind {
	var t iox.KindTally
	for _, m := range sample {
		v, ok := m[key]
		if !ok || v == nil {
			t.ObserveNull()
			continue
		}
		switch x := v.(type) {
		case json.Number:
			t.Observe(x.String())
		case bool:
			t.Bool++
		case string:
			if nulls.IsNull(x) {
				t.ObserveNull()
				continue
			}
			t.Observe(x)
		default:
			t.Str++
		}
	}
	return t.Kind()
}
