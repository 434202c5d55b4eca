// Package parquetio reads frames from Parquet files and writes them back.
package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"

	parquet "github.com/segmentio/parquet-go"

	j "github.com/wdm0006/stratafill/pkg/frame"
)

// ReadAll loads every row group of a flat Parquet file. The schema comes
// from the file: boolean, int32/int64, float/double and byte-array leaves
// map to bool, int, float and string columns.
func ReadAll(path string) (*j.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("parquet open %s: %w", path, err)
	}
	schema, err := frameSchema(pf.Schema())
	if err != nil {
		return nil, err
	}
	fr := j.NewFrame(schema)
	buf := make([]parquet.Row, 1024)
	for _, rg := range pf.RowGroups() {
		if err := readGroup(fr, rg, buf); err != nil {
			return nil, err
		}
	}
	return fr, nil
}

func readGroup(fr *j.Frame, rg parquet.RowGroup, buf []parquet.Row) error {
	rows := rg.Rows()
	defer func() { _ = rows.Close() }()
	for {
		n, err := rows.ReadRows(buf)
		for i := 0; i < n; i++ {
			setRow(fr, buf[i])
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parquet read rows: %w", err)
		}
		if n == 0 {
			return nil
		}
	}
}

func frameSchema(s *parquet.Schema) (j.Schema, error) {
	fields := s.Fields()
	out := j.Schema{Columns: make([]j.ColumnSchema, len(fields))}
	for i, fd := range fields {
		if !fd.Leaf() || fd.Repeated() {
			return j.Schema{}, fmt.Errorf("parquet column %q: only flat, non-repeated columns are supported", fd.Name())
		}
		var k j.Kind
		switch fd.Type().Kind() {
		case parquet.Boolean:
			k = j.KindBool
		case parquet.Int32, parquet.Int64:
			k = j.KindInt
		case parquet.Float, parquet.Double:
			k = j.KindFloat
		default:
			k = j.KindString
		}
		out.Columns[i] = j.ColumnSchema{Name: fd.Name(), Type: k, Nullable: fd.Optional()}
	}
	return out, nil
}

func setRow(fr *j.Frame, row parquet.Row) {
	fr.AppendNullRow()
	r := fr.Rows() - 1
	cols := fr.Schema().Columns
	for _, v := range row {
		ci := v.Column()
		if ci < 0 || ci >= len(cols) || v.IsNull() {
			continue
		}
		name := cols[ci].Name
		switch v.Kind() {
		case parquet.Boolean:
			_ = fr.SetCell(r, name, v.Boolean())
		case parquet.Int32:
			_ = fr.SetCell(r, name, int64(v.Int32()))
		case parquet.Int64:
			_ = fr.SetCell(r, name, v.Int64())
		case parquet.Float:
			_ = fr.SetCell(r, name, float64(v.Float()))
		case parquet.Double:
			_ = fr.SetCell(r, name, v.Double())
		default:
			_ = fr.SetCell(r, name, string(v.ByteArray()))
		}
	}
}
