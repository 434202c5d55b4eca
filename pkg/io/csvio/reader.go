// Package csvio reads and writes frames as delimited text.
package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	j "github.com/wdm0006/stratafill/pkg/frame"
	iox "github.com/wdm0006/stratafill/pkg/io/ioutils"
)

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune     // 0 = sniff
	SampleRows int      // rows used for inference; 0 = all rows
	Strict     bool     // if true, error on short/long records
	NullValues []string // nil = ioutils.DefaultNullValues
}

type Reader struct {
	r     *csv.Reader
	opt   ReaderOptions
	nulls iox.NullSet
	buf   [][]string
	// repair counters
	shortRecords int
	longRecords  int
}

// Open opens a (possibly gzipped) CSV file, or stdin for "-". The returned
// closer releases the underlying file.
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, err
	}
	var src io.Reader = rc
	if opt.Delimiter == 0 {
		br := bufio.NewReaderSize(rc, 8192)
		sample, _ := br.Peek(4096)
		opt.Delimiter = sniffDelimiter(sample)
		src = br
	}
	return NewReaderFrom(src, opt), rc, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe).
func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	rr := csv.NewReader(r)
	if opt.Delimiter != 0 {
		rr.Comma = opt.Delimiter
	}
	rr.FieldsPerRecord = -1
	rr.LazyQuotes = true
	return &Reader{r: rr, opt: opt, nulls: iox.NewNullSet(opt.NullValues)}
}

// InferSchema reads the header (if present) and the rows used to determine
// column kinds, every row unless SampleRows is set. The rows read are kept
// for ReadAll. With a partial sample, a later cell that does not fit its
// column's kind fails ReadAll with ioutils.ErrCellKind.
func (r *Reader) InferSchema() (j.Schema, []string, error) {
	rec, err := r.r.Read()
	if err != nil {
		return j.Schema{}, nil, err
	}
	names := make([]string, len(rec))
	if r.opt.HasHeader {
		for i := range rec {
			names[i] = strings.TrimSpace(strings.ToValidUTF8(rec[i], "?"))
		}
		if len(names) > 0 {
			names[0] = strings.TrimPrefix(names[0], "\ufeff")
		}
		rec, err = r.r.Read()
		if err == io.EOF {
			return r.buildSchema(names, nil), names, nil
		}
		if err != nil {
			return j.Schema{}, nil, err
		}
	} else {
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
	}

	sample := [][]string{rec}
	max := r.opt.SampleRows
	for max <= 0 || len(sample) < max {
		rr, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return j.Schema{}, nil, err
		}
		sample = append(sample, rr)
	}
	r.buf = append(r.buf, sample...)
	return r.buildSchema(names, sample), names, nil
}

func (r *Reader) buildSchema(names []string, sample [][]string) j.Schema {
	schema := j.Schema{Columns: make([]j.ColumnSchema, len(names))}
	for c := range names {
		var t iox.KindTally
		for _, row := range sample {
			if c >= len(row) || r.nulls.IsNull(row[c]) {
				t.ObserveNull()
				continue
			}
			t.Observe(row[c])
		}
		schema.Columns[c] = j.ColumnSchema{Name: names[c], Type: t.Kind(), Nullable: true}
	}
	return schema
}

// ReadAll loads the buffered sample and the rest of the input into a Frame.
func (r *Reader) ReadAll(schema j.Schema) (*j.Frame, error) {
	f := j.NewFrame(schema)
	for _, rec := range r.buf {
		if err := r.appendRecord(f, schema, rec); err != nil {
			return nil, err
		}
	}
	r.buf = nil
	for {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := r.appendRecord(f, schema, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (r *Reader) appendRecord(f *j.Frame, schema j.Schema, rec []string) error {
	want := len(schema.Columns)
	if len(rec) > want {
		r.longRecords++
		if r.opt.Strict {
			return fmt.Errorf("csv long record at row %d: need %d fields, got %d", f.Rows(), want, len(rec))
		}
	}
	if len(rec) < want {
		r.shortRecords++
		if r.opt.Strict {
			return fmt.Errorf("csv short record at row %d: need %d fields, got %d", f.Rows(), want, len(rec))
		}
	}
	f.AppendNullRow()
	row := f.Rows() - 1
	for i, cs := range schema.Columns {
		if i >= len(rec) {
			break
		}
		if err := iox.SetText(f, row, cs, rec[i], r.nulls); err != nil {
			return fmt.Errorf("csv row %d: %w", row, err)
		}
	}
	return nil
}

func sniffDelimiter(sample []byte) rune {
	if len(sample) == 0 {
		return ','
	}
	// only the first line: quoted fields further down skew counts
	if i := bytes.IndexByte(sample, '\n'); i > 0 {
		sample = sample[:i]
	}
	best, bestCount := ',', 0
	for _, c := range []rune{',', '\t', ';', '|'} {
		if n := bytes.Count(sample, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	var parts []string
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	return strings.Join(parts, ", ")
}
