package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/stratafill/pkg/group"
	imp "github.com/wdm0006/stratafill/pkg/transform/impute"
)

func TestGenerateIsFillable(t *testing.T) {
	f := generate(genOptions{rows: 500, groups: 7, floatCols: 3, stringCols: 1, missing: 0.3, seed: 1})
	require.Equal(t, 500, f.Rows())

	parts, err := group.PartitionBy(f, "group")
	require.NoError(t, err)
	assert.Len(t, parts, 7)

	out, err := group.Fill(context.Background(), f, "group", imp.StrategyMean)
	require.NoError(t, err)
	for _, name := range []string{"f0", "f1", "f2"} {
		c, err := out.Float(name)
		require.NoError(t, err)
		assert.Zero(t, c.NullCount(), name)
	}
	s0, _ := out.ColumnByName("s0")
	before, _ := f.ColumnByName("s0")
	assert.Equal(t, nulls(before), nulls(s0), "string nulls are left alone")
}

func TestGenOptionsValidate(t *testing.T) {
	assert.Error(t, genOptions{rows: 10, groups: 0}.validate())
	assert.Error(t, genOptions{rows: 3, groups: 5}.validate())
	assert.NoError(t, genOptions{rows: 5, groups: 5}.validate())
}

func nulls(c interface {
	Len() int
	IsNull(int) bool
}) int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			n++
		}
	}
	return n
}
