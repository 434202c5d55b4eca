// Package golearn converts between stratafill frames and golearn
// DenseInstances so that a cleaned table can go straight into a classifier.
package golearn

import (
	"fmt"
	"math"

	"github.com/sjwhitworth/golearn/base"

	j "github.com/wdm0006/stratafill/pkg/frame"
	"github.com/wdm0006/stratafill/pkg/group"
)

// nullCategory stands in for a missing categorical cell, spelled like the
// null partition key so a null class stays its own label.
var nullCategory = group.NullKey.String()

// ToDenseInstances converts f into golearn DenseInstances. Float and int
// columns become FloatAttributes (null as NaN); everything else becomes a
// CategoricalAttribute via its text form, with null as the "<null>" category. classColumn, when non-empty, is
// registered as the class attribute.
func ToDenseInstances(f *j.Frame, classColumn string) (*base.DenseInstances, error) {
	cols := f.Schema().Columns
	attrs := make([]base.Attribute, len(cols))
	for i, cs := range cols {
		switch cs.Type {
		case j.KindFloat, j.KindInt:
			attrs[i] = base.NewFloatAttribute(cs.Name)
		default:
			ca := new(base.CategoricalAttribute)
			ca.SetName(cs.Name)
			attrs[i] = ca
		}
	}
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		specs[i] = inst.AddAttribute(a)
	}
	if err := inst.Extend(f.Rows()); err != nil {
		return nil, err
	}

	for c, cs := range cols {
		col, _ := f.ColumnByName(cs.Name)
		for r := 0; r < f.Rows(); r++ {
			v, ok := col.Value(r)
			switch t := v.(type) {
			case float64:
				inst.Set(specs[c], r, base.PackFloatToBytes(t))
			case int64:
				inst.Set(specs[c], r, base.PackFloatToBytes(float64(t)))
			default:
				if !ok {
					if cs.Type == j.KindFloat || cs.Type == j.KindInt {
						inst.Set(specs[c], r, base.PackFloatToBytes(math.NaN()))
					} else {
						inst.Set(specs[c], r, attrs[c].GetSysValFromString(nullCategory))
					}
					continue
				}
				inst.Set(specs[c], r, attrs[c].GetSysValFromString(fmt.Sprint(t)))
			}
		}
	}

	if classColumn != "" {
		i, ok := indexOf(cols, classColumn)
		if !ok {
			return nil, fmt.Errorf("%w: class column %q", j.ErrColumnNotFound, classColumn)
		}
		if err := inst.AddClassAttribute(attrs[i]); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func indexOf(cols []j.ColumnSchema, name string) (int, bool) {
	for i, cs := range cols {
		if cs.Name == name {
			return i, true
		}
	}
	return 0, false
}

// FromDenseInstances converts golearn DenseInstances into a Frame. Float
// attributes become float columns with NaN read back as null; all others
// become string columns with the "<null>" category read back as null.
func FromDenseInstances(inst *base.DenseInstances) (*j.Frame, error) {
	attrs := inst.AllAttributes()
	schema := j.Schema{Columns: make([]j.ColumnSchema, len(attrs))}
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		k := j.KindString
		if a.GetType() == base.Float64Type {
			k = j.KindFloat
		}
		schema.Columns[i] = j.ColumnSchema{Name: a.GetName(), Type: k, Nullable: true}
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}
	f := j.NewFrame(schema)
	_, nrows := inst.Size()
	for r := 0; r < nrows; r++ {
		f.AppendNullRow()
		for c, cs := range schema.Columns {
			raw := inst.Get(specs[c], r)
			if cs.Type == j.KindFloat {
				if v := base.UnpackBytesToFloat(raw); !math.IsNaN(v) {
					_ = f.SetCell(r, cs.Name, v)
				}
				continue
			}
			if v := specs[c].GetAttribute().GetStringFromSysVal(raw); v != nullCategory {
				_ = f.SetCell(r, cs.Name, v)
			}
		}
	}
	return f, nil
}
