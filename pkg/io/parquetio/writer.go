package parquetio

import (
	"encoding/json"
	"fmt"
	"time"

	pw "github.com/xitongsys/parquet-go/writer"
	local "github.com/xitongsys/parquet-go-source/local"

	j "github.com/wdm0006/stratafill/pkg/frame"
)

type field struct {
	Tag string `json:"Tag"`
}

type jsonSchema struct {
	Tag    string  `json:"Tag"`
	Fields []field `json:"Fields"`
}

// schemaJSON builds the JSON schema understood by the parquet-go JSONWriter.
// Every column is OPTIONAL; time columns are stored as RFC 3339 strings.
func schemaJSON(s j.Schema) (string, error) {
	sc := jsonSchema{Tag: "name=parquet_go_root, repetitiontype=REQUIRED"}
	for _, cs := range s.Columns {
		tag := "name=" + cs.Name + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case j.KindFloat:
			tag += "DOUBLE"
		case j.KindInt:
			tag += "INT64"
		case j.KindBool:
			tag += "BOOLEAN"
		default:
			tag += "BYTE_ARRAY, convertedtype=UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, err := json.Marshal(sc)
	return string(b), err
}

// WriteAll writes a Frame to a Parquet file. Null cells become Parquet nulls.
func WriteAll(path string, f *j.Frame) (err error) {
	schema, err := schemaJSON(f.Schema())
	if err != nil {
		return err
	}
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fw.Close(); err == nil {
			err = cerr
		}
	}()
	w, err := pw.NewJSONWriter(schema, fw, 4)
	if err != nil {
		return fmt.Errorf("parquet writer init: %w", err)
	}
	names := f.Schema().Names()
	for r := 0; r < f.Rows(); r++ {
		rec := make(map[string]any, len(names))
		for _, name := range names {
			col, _ := f.ColumnByName(name)
			v, ok := col.Value(r)
			if !ok {
				continue
			}
			if t, isTime := v.(time.Time); isTime {
				v = t.Format(time.RFC3339)
			}
			rec[name] = v
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := w.Write(string(b)); err != nil {
			return fmt.Errorf("parquet write row %d: %w", r, err)
		}
	}
	if err := w.WriteStop(); err != nil {
		return fmt.Errorf("parquet write stop: %w", err)
	}
	return nil
}
