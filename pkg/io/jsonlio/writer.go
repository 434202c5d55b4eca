package jsonlio

import (
	"bufio"
	"encoding/json"
	"io"

	j "github.com/wdm0006/stratafill/pkg/frame"
	iox "github.com/wdm0006/stratafill/pkg/io/ioutils"
)

// WriteAll writes one JSON object per row to path. Null cells are omitted.
func WriteAll(path string, f *j.Frame) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func Write(w io.Writer, f *j.Frame) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	names := f.Schema().Names()
	for r := 0; r < f.Rows(); r++ {
		m := make(map[string]any, len(names))
		for _, name := range names {
			col, _ := f.ColumnByName(name)
			if v, ok := col.Value(r); ok {
				m[name] = v
			}
		}
		if err := enc.Encode(m); err != nil {
			return err
		}
	}
	return bw.Flush()
}
