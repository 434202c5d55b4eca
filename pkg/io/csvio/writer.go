package csvio

import (
	"encoding/csv"
	"io"

	j "github.com/wdm0006/stratafill/pkg/frame"
	iox "github.com/wdm0006/stratafill/pkg/io/ioutils"
)

type WriterOptions struct {
	Delimiter rune // default ','
}

// WriteAll writes a Frame with a header row to path ("-" for stdout, .gz to
// compress). Null cells are written empty.
func WriteAll(path string, f *j.Frame, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f, opt); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Write writes f as CSV to w.
func Write(w io.Writer, f *j.Frame, opt WriterOptions) error {
	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}
	names := f.Schema().Names()
	if err := cw.Write(names); err != nil {
		return err
	}
	cols := make([]j.Column, len(names))
	for i, name := range names {
		cols[i], _ = f.ColumnByName(name)
	}
	row := make([]string, len(names))
	for r := 0; r < f.Rows(); r++ {
		for c, col := range cols {
			row[c], _ = iox.FormatCell(col, r)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
