package impute

import (
	"context"
	"errors"
	"math"
	"testing"

	j "github.com/wdm0006/stratafill/pkg/frame"
)

// makeFloatFrame builds x = [1, null, 3, null, 5] next to a string column
// with one null.
func makeFloatFrame() *j.Frame {
	s := j.Schema{Columns: []j.ColumnSchema{
		{Name: "x", Type: j.KindFloat, Nullable: true},
		{Name: "s", Type: j.KindString, Nullable: true},
		{Name: "n", Type: j.KindInt, Nullable: true},
	}}
	f := j.NewFrame(s)
	for i := 0; i < 5; i++ {
		f.AppendNullRow()
	}
	c, _ := f.Float("x")
	c.Set(0, 1.0)
	c.Set(2, 3.0)
	c.Set(4, 5.0)
	_ = f.SetCell(0, "s", "a")
	_ = f.SetCell(1, "s", "b")
	_ = f.SetCell(3, "n", int64(4))
	return f
}

func TestParseStrategy(t *testing.T) {
	cases := []struct {
		in   string
		want Strategy
		err  bool
	}{
		{"mean", StrategyMean, false},
		{" Median ", StrategyMedian, false},
		{"MEAN", StrategyMean, false},
		{"mode", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseStrategy(tc.in)
		if tc.err {
			if !errors.Is(err, ErrUnknownStrategy) {
				t.Fatalf("ParseStrategy(%q): expected ErrUnknownStrategy, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseStrategy(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func TestStatisticFunctions(t *testing.T) {
	if _, ok := MeanOf(nil); ok {
		t.Fatal("mean of nothing should be undefined")
	}
	if _, ok := MedianOf(nil); ok {
		t.Fatal("median of nothing should be undefined")
	}
	if v, _ := MeanOf([]float64{1, 2, 6}); v != 3 {
		t.Fatalf("mean = %v, want 3", v)
	}
	vals := []float64{9, 1, 5}
	if v, _ := MedianOf(vals); v != 5 {
		t.Fatalf("odd median = %v, want 5", v)
	}
	if vals[0] != 9 {
		t.Fatal("MedianOf reordered its input")
	}
	if v, _ := MedianOf([]float64{4, 1, 3, 2}); v != 2.5 {
		t.Fatalf("even median = %v, want 2.5", v)
	}
}

func TestImputeMedian(t *testing.T) {
	f := makeFloatFrame()
	out, err := Impute(f, StrategyMedian)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := out.Float("x")
	for _, i := range []int{1, 3} {
		v, ok := c.Get(i)
		if !ok || v != 3.0 {
			t.Fatalf("row %d = (%v,%v), want 3", i, v, ok)
		}
	}
}

func TestImputeMean(t *testing.T) {
	f := makeFloatFrame()
	out, err := Impute(f, StrategyMean)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := out.Float("x")
	if v, _ := c.Get(1); v != 3.0 {
		t.Fatalf("mean fill = %v, want 3", v)
	}
}

func TestImputeLeavesInputAndOtherKinds(t *testing.T) {
	f := makeFloatFrame()
	out, err := Impute(f, StrategyMedian)
	if err != nil {
		t.Fatal(err)
	}
	src, _ := f.Float("x")
	if !src.IsNull(1) {
		t.Fatal("Impute mutated its input")
	}
	for _, name := range []string{"s", "n"} {
		for r := 0; r < f.Rows(); r++ {
			want, wok, _ := f.Value(r, name)
			got, gok, _ := out.Value(r, name)
			if want != got || wok != gok {
				t.Fatalf("%s[%d] changed: (%v,%v) -> (%v,%v)", name, r, want, wok, got, gok)
			}
		}
	}
}

func TestImputeUndefined(t *testing.T) {
	s := j.Schema{Columns: []j.ColumnSchema{{Name: "x", Type: j.KindFloat, Nullable: true}}}
	f := j.NewFrame(s)
	f.AppendNullRow()
	f.AppendNullRow()
	out, err := Impute(f, StrategyMedian)
	if !errors.Is(err, ErrStatisticUndefined) {
		t.Fatalf("expected ErrStatisticUndefined, got %v", err)
	}
	if out != nil {
		t.Fatal("expected no output on failure")
	}
}

func TestImputeEmptyPartition(t *testing.T) {
	f := j.NewFrame(makeFloatFrame().Schema())
	if _, err := Impute(f, StrategyMean); !errors.Is(err, ErrEmptyPartition) {
		t.Fatalf("expected ErrEmptyPartition, got %v", err)
	}
}

func TestImputeNoFloatColumns(t *testing.T) {
	s := j.Schema{Columns: []j.ColumnSchema{{Name: "s", Type: j.KindString, Nullable: true}}}
	f := j.NewFrame(s)
	f.AppendNullRow()
	out, err := Impute(f, StrategyMedian)
	if err != nil {
		t.Fatal(err)
	}
	if out == f {
		t.Fatal("expected a distinct copy")
	}
	if v, ok, _ := out.Value(0, "s"); ok || v != nil {
		t.Fatal("string null should pass through")
	}
}

func TestImputeUnknownStrategy(t *testing.T) {
	if _, err := Impute(makeFloatFrame(), Strategy("mode")); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestColumnImputers(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		tform j.Transform
		want  float64
	}{
		{&Constant{Column: "x", Value: 2.5}, 2.5},
		{&Mean{Column: "x"}, 3},
		{&Median{Column: "x"}, 3},
	}
	for _, tc := range cases {
		f := makeFloatFrame()
		out, err := tc.tform.Apply(ctx, f)
		if err != nil {
			t.Fatalf("%s: %v", tc.tform.Name(), err)
		}
		c, _ := out.Float("x")
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				t.Fatalf("%s left null at row %d", tc.tform.Name(), i)
			}
		}
		if v, _ := c.Get(3); v != tc.want {
			t.Fatalf("%s filled %v, want %v", tc.tform.Name(), v, tc.want)
		}
		if src, _ := f.Float("x"); !src.IsNull(3) {
			t.Fatalf("%s mutated its input", tc.tform.Name())
		}
	}
}

func TestColumnImputerErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := (&Mean{Column: "nope"}).Apply(ctx, makeFloatFrame()); !errors.Is(err, j.ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
	if _, err := (&Median{Column: "s"}).Apply(ctx, makeFloatFrame()); !errors.Is(err, ErrNotFloat) {
		t.Fatalf("expected ErrNotFloat, got %v", err)
	}
}

func TestImputeTreatsNaNAsMissing(t *testing.T) {
	for _, st := range []Strategy{StrategyMean, StrategyMedian} {
		s := j.Schema{Columns: []j.ColumnSchema{{Name: "x", Type: j.KindFloat, Nullable: true}}}
		f := j.NewFrame(s)
		for i := 0; i < 4; i++ {
			f.AppendNullRow()
		}
		c, _ := f.Float("x")
		c.Set(0, 1)
		c.Set(1, math.NaN())
		c.Set(2, 3)

		out, err := Impute(f, st)
		if err != nil {
			t.Fatalf("%s: %v", st, err)
		}
		oc, _ := out.Float("x")
		for _, i := range []int{1, 3} {
			v, ok := oc.Get(i)
			if !ok || v != 2 {
				t.Fatalf("%s: row %d = (%v,%v), want 2", st, i, v, ok)
			}
		}
	}
}

func TestColumnImputerSkipsNaN(t *testing.T) {
	s := j.Schema{Columns: []j.ColumnSchema{{Name: "x", Type: j.KindFloat, Nullable: true}}}
	f := j.NewFrame(s)
	for i := 0; i < 3; i++ {
		f.AppendNullRow()
	}
	c, _ := f.Float("x")
	c.Set(0, 2)
	c.Set(1, math.NaN())
	c.Set(2, 4)
	out, err := (&Mean{Column: "x"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	oc, _ := out.Float("x")
	if v, _ := oc.Get(1); v != 3 {
		t.Fatalf("NaN cell = %v, want 3", v)
	}
}
