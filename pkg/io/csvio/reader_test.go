package csvio

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	j "github.com/wdm0006/stratafill/pkg/frame"
	"github.com/wdm0006/stratafill/pkg/group"
	iox "github.com/wdm0006/stratafill/pkg/io/ioutils"
	imp "github.com/wdm0006/stratafill/pkg/transform/impute"
)

func TestInferAndRead(t *testing.T) {
	r, c, err := Open(filepath.FromSlash("testdata/income.csv"), ReaderOptions{HasHeader: true})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	schema, names, err := r.InferSchema()
	require.NoError(t, err)
	require.Equal(t, []string{"id", "incomeLevel", "age", "score", "region"}, names)

	kinds := map[string]j.Kind{}
	for _, cs := range schema.Columns {
		kinds[cs.Name] = cs.Type
	}
	assert.Equal(t, j.KindInt, kinds["id"])
	assert.Equal(t, j.KindString, kinds["incomeLevel"])
	assert.Equal(t, j.KindFloat, kinds["age"], "an int column with gaps is read as float")
	assert.Equal(t, j.KindFloat, kinds["score"])
	assert.Equal(t, j.KindString, kinds["region"])

	fr, err := r.ReadAll(schema)
	require.NoError(t, err)
	require.Equal(t, 6, fr.Rows())

	score, err := fr.Float("score")
	require.NoError(t, err)
	assert.True(t, score.IsNull(2), "NA is a null marker")
	assert.True(t, score.IsNull(4))
	assert.Equal(t, 2, score.NullCount())

	_, ok, _ := fr.Value(3, "region")
	assert.False(t, ok)
	assert.Empty(t, r.Warnings())
}

func TestSniffAndShortRecords(t *testing.T) {
	in := "a;b;c\n1;x;2.5\n2;y\n"
	r := NewReaderFrom(strings.NewReader(in), ReaderOptions{HasHeader: true, Delimiter: sniffDelimiter([]byte(in))})
	schema, _, err := r.InferSchema()
	require.NoError(t, err)
	fr, err := r.ReadAll(schema)
	require.NoError(t, err)
	assert.Equal(t, 2, fr.Rows())
	assert.Equal(t, "short_records=1", r.Warnings())

	strict := NewReaderFrom(strings.NewReader(in), ReaderOptions{HasHeader: true, Delimiter: ';', Strict: true})
	schema, _, err = strict.InferSchema()
	require.NoError(t, err)
	_, err = strict.ReadAll(schema)
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	r, c, err := Open("testdata/income.csv", ReaderOptions{HasHeader: true})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()
	schema, _, err := r.InferSchema()
	require.NoError(t, err)
	fr, err := r.ReadAll(schema)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, fr, WriterOptions{}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "id,incomeLevel,age,score,region", lines[0])
	assert.Equal(t, "3,high,41,,north", lines[3])

	path := filepath.Join(t.TempDir(), "out.csv.gz")
	require.NoError(t, WriteAll(path, fr, WriterOptions{}))
	r2, c2, err := Open(path, ReaderOptions{HasHeader: true})
	require.NoError(t, err)
	defer func() { _ = c2.Close() }()
	schema2, _, err := r2.InferSchema()
	require.NoError(t, err)
	fr2, err := r2.ReadAll(schema2)
	require.NoError(t, err)
	assert.Equal(t, fr.Rows(), fr2.Rows())
	assert.True(t, schema.Equal(schema2))
}

// longAgeCSV has 150 whole-number ages before the first gap and decimal.
func longAgeCSV() string {
	var b strings.Builder
	b.WriteString("g,age\n")
	for i := 0; i < 150; i++ {
		fmt.Fprintf(&b, "a,%d\n", 20+i%10)
	}
	b.WriteString("a,NA\na,2.5\n")
	return b.String()
}

func TestInferenceSeesEveryRow(t *testing.T) {
	r := NewReaderFrom(strings.NewReader(longAgeCSV()), ReaderOptions{HasHeader: true, Delimiter: ','})
	schema, _, err := r.InferSchema()
	require.NoError(t, err)
	require.Equal(t, j.KindFloat, schema.Columns[1].Type, "a late gap still widens int to float")

	fr, err := r.ReadAll(schema)
	require.NoError(t, err)
	require.Equal(t, 152, fr.Rows())
	v, ok, _ := fr.Value(151, "age")
	require.True(t, ok)
	assert.Equal(t, 2.5, v)

	out, err := group.Fill(context.Background(), fr, "g", imp.StrategyMedian)
	require.NoError(t, err)
	age, err := out.Float("age")
	require.NoError(t, err)
	assert.Zero(t, age.NullCount())
}

func TestPartialSampleRejectsMisfitCell(t *testing.T) {
	r := NewReaderFrom(strings.NewReader(longAgeCSV()), ReaderOptions{HasHeader: true, Delimiter: ',', SampleRows: 100})
	schema, _, err := r.InferSchema()
	require.NoError(t, err)
	require.Equal(t, j.KindInt, schema.Columns[1].Type)
	_, err = r.ReadAll(schema)
	assert.ErrorIs(t, err, iox.ErrCellKind)
}
