package profile

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	j "github.com/wdm0006/stratafill/pkg/frame"
	"github.com/wdm0006/stratafill/pkg/group"
)

func makeFrame() *j.Frame {
	s := j.Schema{Columns: []j.ColumnSchema{
		{Name: "incomeLevel", Type: j.KindString},
		{Name: "x", Type: j.KindFloat, Nullable: true},
		{Name: "label", Type: j.KindString, Nullable: true},
	}}
	f := j.NewFrame(s)
	rows := []struct {
		level string
		x     any
	}{{"A", 1.0}, {"A", nil}, {"A", 3.0}, {"B", nil}}
	for i, r := range rows {
		f.AppendNullRow()
		_ = f.SetCell(i, "incomeLevel", r.level)
		_ = f.SetCell(i, "x", r.x)
	}
	return f
}

func TestCollect(t *testing.T) {
	parts, err := group.PartitionBy(makeFrame(), "incomeLevel")
	require.NoError(t, err)
	rep := Collect("incomeLevel", parts)
	require.Len(t, rep.Groups, 2)

	a := rep.Groups[0]
	assert.Equal(t, "A", a.Key)
	assert.Equal(t, 3, a.Rows)
	require.Len(t, a.Columns, 1, "only float columns are profiled")
	assert.Equal(t, NumStats{Count: 2, Nulls: 1, Min: 1, Max: 3, Sum: 4}, a.Columns[0].Num)
	assert.Equal(t, 2.0, a.Columns[0].Num.Mean())

	assert.Equal(t, []string{"B/x"}, rep.Undefined())
}

func TestReportRendering(t *testing.T) {
	parts, err := group.PartitionBy(makeFrame(), "incomeLevel")
	require.NoError(t, err)
	rep := Collect("incomeLevel", parts)

	var b strings.Builder
	require.NoError(t, rep.WriteText(&b))
	assert.Contains(t, b.String(), "- A (3 rows)")
	assert.Contains(t, b.String(), "x: count=2 nulls=1")

	raw, err := json.Marshal(rep)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"key_column":"incomeLevel"`)
}
