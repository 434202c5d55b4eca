// Package xlsxio reads and writes frames as Excel workbooks.
package xlsxio

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	j "github.com/wdm0006/stratafill/pkg/frame"
	iox "github.com/wdm0006/stratafill/pkg/io/ioutils"
)

type ReaderOptions struct {
	Sheet      string // default: first sheet
	HasHeader  bool
	SampleRows int // rows used for inference; 0 = all rows
	NullValues []string
}

// ReadAll loads one sheet of a workbook. Kinds are inferred as with CSV
// input, from every data row unless SampleRows is set.
func ReadAll(path string, opt ReaderOptions) (*j.Frame, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = wb.Close() }()

	sheet := opt.Sheet
	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx %s: no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx %s sheet %q: %w", path, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("xlsx %s sheet %q: empty", path, sheet)
	}

	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	names := make([]string, width)
	for i := range names {
		names[i] = "col_" + strconv.Itoa(i)
	}
	if opt.HasHeader {
		for i, h := range rows[0] {
			if h != "" {
				names[i] = h
			}
		}
		rows = rows[1:]
	}

	nulls := iox.NewNullSet(opt.NullValues)
	max := opt.SampleRows
	if max <= 0 {
		max = len(rows)
	}
	schema := j.Schema{Columns: make([]j.ColumnSchema, width)}
	for c := range names {
		var t iox.KindTally
		for i, r := range rows {
			if i >= max {
				break
			}
			// GetRows drops trailing empty cells
			if c >= len(r) || nulls.IsNull(r[c]) {
				t.ObserveNull()
				continue
			}
			t.Observe(r[c])
		}
		schema.Columns[c] = j.ColumnSchema{Name: names[c], Type: t.Kind(), Nullable: true}
	}

	f := j.NewFrame(schema)
	for _, r := range rows {
		f.AppendNullRow()
		row := f.Rows() - 1
		for c, cs := range schema.Columns {
			if c >= len(r) {
				continue
			}
			if err := iox.SetText(f, row, cs, r[c], nulls); err != nil {
				return nil, fmt.Errorf("xlsx %s row %d: %w", path, row, err)
			}
		}
	}
	return f, nil
}

type WriterOptions struct {
	Sheet string // default "Sheet1"
}

// WriteAll writes f with a header row to a new workbook. Null cells are left
// blank.
func WriteAll(path string, f *j.Frame, opt WriterOptions) error {
	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	sheet := opt.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := wb.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	}

	names := f.Schema().Names()
	header := make([]any, len(names))
	for i, n := range names {
		header[i] = n
	}
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	cols := make([]j.Column, len(names))
	for i, n := range names {
		cols[i], _ = f.ColumnByName(n)
	}
	for r := 0; r < f.Rows(); r++ {
		vals := make([]any, len(cols))
		for c, col := range cols {
			if v, ok := col.Value(r); ok {
				vals[c] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(sheet, cell, &vals); err != nil {
			return fmt.Errorf("xlsx write row %d: %w", r, err)
		}
	}
	return wb.SaveAs(path)
}
