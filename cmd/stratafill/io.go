package main

import (
	"fmt"
	"io"

	j "github.com/wdm0006/stratafill/pkg/frame"
	"github.com/wdm0006/stratafill/pkg/io/csvio"
	"github.com/wdm0006/stratafill/pkg/io/jsonlio"
	"github.com/wdm0006/stratafill/pkg/io/parquetio"
	"github.com/wdm0006/stratafill/pkg/io/xlsxio"
)

func readFrame(in InputConfig) (*j.Frame, error) {
	switch in.Type {
	case "csv":
		rdr, file, err := csvio.Open(in.Path, csvio.ReaderOptions{
			HasHeader:  *in.HasHeader,
			Delimiter:  delimiter(in.Delimiter),
			NullValues: in.NullValues,
		})
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()
		schema, _, err := rdr.InferSchema()
		if err != nil {
			return nil, err
		}
		return rdr.ReadAll(schema)
	case "jsonl":
		rdr, file, err := jsonlio.Open(in.Path, jsonlio.ReaderOptions{})
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()
		schema, err := rdr.InferSchema()
		if err != nil {
			return nil, err
		}
		return rdr.ReadAll(schema)
	case "parquet":
		return parquetio.ReadAll(in.Path)
	case "xlsx":
		return xlsxio.ReadAll(in.Path, xlsxio.ReaderOptions{
			Sheet:      in.Sheet,
			HasHeader:  *in.HasHeader,
			NullValues: in.NullValues,
		})
	default:
		return nil, fmt.Errorf("unsupported input type %q", in.Type)
	}
}

// writeFrame writes f per out; a "-" path goes to stdout for the text formats.
func writeFrame(out OutputConfig, f *j.Frame, stdout io.Writer) error {
	switch out.Type {
	case "csv":
		opt := csvio.WriterOptions{Delimiter: delimiter(out.Delimiter)}
		if out.Path == "-" {
			return csvio.Write(stdout, f, opt)
		}
		return csvio.WriteAll(out.Path, f, opt)
	case "jsonl":
		if out.Path == "-" {
			return jsonlio.Write(stdout, f)
		}
		return jsonlio.WriteAll(out.Path, f)
	case "parquet":
		return parquetio.WriteAll(out.Path, f)
	case "xlsx":
		return xlsxio.WriteAll(out.Path, f, xlsxio.WriterOptions{Sheet: out.Sheet})
	default:
		return fmt.Errorf("unsupported output type %q", out.Type)
	}
}
