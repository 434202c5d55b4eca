// Package standardize normalizes string columns, typically the grouping key,
// so that spellings such as "Low " and "low" land in the same partition.
package standardize

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	j "github.com/wdm0006/stratafill/pkg/frame"
)

// ErrNotString is returned when a step targets a column that is not string kind.
var ErrNotString = errors.New("column is not string")

type Trim struct{ Column string }

func (t *Trim) Name() string { return "trim" }

func (t *Trim) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	return mapStrings(f, t.Column, func(s string) (string, bool) { return strings.TrimSpace(s), true })
}

type Lower struct{ Column string }

func (t *Lower) Name() string { return "lower" }

func (t *Lower) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	return mapStrings(f, t.Column, func(s string) (string, bool) { return strings.ToLower(s), true })
}

// MapValues rewrites exact matches; unmatched values pass through.
type MapValues struct {
	Column string
	Map    map[string]string
}

func (t *MapValues) Name() string { return "map_values" }

func (t *MapValues) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	return mapStrings(f, t.Column, func(s string) (string, bool) {
		if nv, ok := t.Map[s]; ok {
			return nv, true
		}
		return s, true
	})
}

// RegexReplace rewrites every match of Pattern. Build it with
// NewRegexReplace to compile once; a literal value compiles on each Apply.
type RegexReplace struct {
	Column  string
	Pattern string
	Replace string
	re      *regexp.Regexp
}

// NewRegexReplace compiles pattern up front so a bad pattern fails before
// any frame is read. The result is safe to apply concurrently.
func NewRegexReplace(column, pattern, replace string) (*RegexReplace, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexReplace{Column: column, Pattern: pattern, Replace: replace, re: re}, nil
}

func (t *RegexReplace) Name() string { return "regex_replace" }

func (t *RegexReplace) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	re := t.re
	if re == nil {
		var err error
		if re, err = regexp.Compile(t.Pattern); err != nil {
			return nil, err
		}
	}
	return mapStrings(f, t.Column, func(s string) (string, bool) { return re.ReplaceAllString(s, t.Replace), true })
}

// BlankToNull turns empty and whitespace-only cells into missing markers, so
// they share the null-key partition instead of forming a "" group.
type BlankToNull struct{ Column string }

func (t *BlankToNull) Name() string { return "blank_to_null" }

func (t *BlankToNull) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	return mapStrings(f, t.Column, func(s string) (string, bool) { return s, strings.TrimSpace(s) != "" })
}

// mapStrings applies fn to every non-null cell of column in a copy of f. A
// false second result nulls the cell.
func mapStrings(f *j.Frame, column string, fn func(string) (string, bool)) (*j.Frame, error) {
	if _, err := f.Lookup(column); err != nil {
		return nil, err
	}
	out := f.Clone()
	col, _ := out.ColumnByName(column)
	c, ok := col.(*j.StringColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotString, column, col.Kind())
	}
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Get(i)
		if !ok {
			continue
		}
		if nv, keep := fn(v); keep {
			c.Set(i, nv)
		} else {
			c.SetNull(i)
		}
	}
	return out, nil
}
