package golearn

import (
	"context"
	"math"
	"testing"

	"github.com/sjwhitworth/golearn/base"
	"github.com/smartystreets/goconvey/convey"

	j "github.com/wdm0006/stratafill/pkg/frame"
	"github.com/wdm0006/stratafill/pkg/group"
	imp "github.com/wdm0006/stratafill/pkg/transform/impute"
)

func makeSurvey() *j.Frame {
	s := j.Schema{Columns: []j.ColumnSchema{
		{Name: "score", Type: j.KindFloat, Nullable: true},
		{Name: "incomeLevel", Type: j.KindString},
	}}
	f := j.NewFrame(s)
	rows := []struct {
		score any
		level string
	}{{1.0, "low"}, {nil, "low"}, {9.0, "high"}, {nil, "high"}, {11.0, "high"}}
	for i, r := range rows {
		f.AppendNullRow()
		_ = f.SetCell(i, "score", r.score)
		_ = f.SetCell(i, "incomeLevel", r.level)
	}
	return f
}

func TestDenseInstances(t *testing.T) {
	convey.Convey("Given a survey frame with missing scores", t, func() {
		f := makeSurvey()

		convey.Convey("Nulls become NaN in golearn and come back as nulls", func() {
			inst, err := ToDenseInstances(f, "incomeLevel")
			convey.So(err, convey.ShouldBeNil)
			cols, rows := inst.Size()
			convey.So(cols, convey.ShouldEqual, 2)
			convey.So(rows, convey.ShouldEqual, 5)

			spec, err := inst.GetAttribute(inst.AllAttributes()[0])
			convey.So(err, convey.ShouldBeNil)
			convey.So(math.IsNaN(base.UnpackBytesToFloat(inst.Get(spec, 1))), convey.ShouldBeTrue)

			back, err := FromDenseInstances(inst)
			convey.So(err, convey.ShouldBeNil)
			score, err := back.Float("score")
			convey.So(err, convey.ShouldBeNil)
			convey.So(score.NullCount(), convey.ShouldEqual, 2)
			level, _, _ := back.Value(2, "incomeLevel")
			convey.So(level, convey.ShouldEqual, "high")
		})

		convey.Convey("After a grouped fill no NaN reaches golearn", func() {
			clean, err := group.Fill(context.Background(), f, "incomeLevel", imp.StrategyMedian)
			convey.So(err, convey.ShouldBeNil)
			inst, err := ToDenseInstances(clean, "incomeLevel")
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(inst.AllClassAttributes()), convey.ShouldEqual, 1)

			spec, _ := inst.GetAttribute(inst.AllAttributes()[0])
			_, rows := inst.Size()
			for r := 0; r < rows; r++ {
				convey.So(math.IsNaN(base.UnpackBytesToFloat(inst.Get(spec, r))), convey.ShouldBeFalse)
			}
		})

		convey.Convey("An unknown class column is rejected", func() {
			_, err := ToDenseInstances(f, "region")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestNullCategoryRoundTrip(t *testing.T) {
	convey.Convey("Given a class column with a missing label", t, func() {
		s := j.Schema{Columns: []j.ColumnSchema{
			{Name: "score", Type: j.KindFloat, Nullable: true},
			{Name: "incomeLevel", Type: j.KindString, Nullable: true},
		}}
		f := j.NewFrame(s)
		for i, lvl := range []any{"low", nil, "high"} {
			f.AppendNullRow()
			_ = f.SetCell(i, "score", float64(i))
			_ = f.SetCell(i, "incomeLevel", lvl)
		}

		inst, err := ToDenseInstances(f, "incomeLevel")
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("The missing label is a category of its own", func() {
			class := inst.AllClassAttributes()[0]
			spec, err := inst.GetAttribute(class)
			convey.So(err, convey.ShouldBeNil)
			convey.So(class.GetStringFromSysVal(inst.Get(spec, 1)), convey.ShouldEqual, "<null>")
			convey.So(class.GetStringFromSysVal(inst.Get(spec, 0)), convey.ShouldEqual, "low")
		})

		convey.Convey("It reads back as null", func() {
			back, err := FromDenseInstances(inst)
			convey.So(err, convey.ShouldBeNil)
			for row, want := range []any{"low", nil, "high"} {
				v, ok, err := back.Value(row, "incomeLevel")
				convey.So(err, convey.ShouldBeNil)
				convey.So(ok, convey.ShouldEqual, want != nil)
				convey.So(v, convey.ShouldEqual, want)
			}
		})
	})
}
