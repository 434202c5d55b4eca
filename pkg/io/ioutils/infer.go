package ioutils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	j "github.com/wdm0006/stratafill/pkg/frame"
)

var numre = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

// ErrCellKind is returned when a non-missing cell does not parse as the kind
// its column was inferred or declared with.
var ErrCellKind = errors.New("cell does not match column kind")

// DefaultNullValues are the tokens read as a missing cell besides the empty
// string.
var DefaultNullValues = []string{"NA", "N/A", "NaN", "nan", "null", "NULL", "None"}

// NullSet recognizes missing-value tokens.
type NullSet map[string]struct{}

// NewNullSet builds a NullSet from tokens, or from DefaultNullValues when
// tokens is nil. The empty string is always null.
func NewNullSet(tokens []string) NullSet {
	if tokens == nil {
		tokens = DefaultNullValues
	}
	s := make(NullSet, len(tokens)+1)
	s[""] = struct{}{}
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

// IsNull reports whether the trimmed cell is a missing marker.
func (s NullSet) IsNull(v string) bool {
	_, ok := s[strings.TrimSpace(v)]
	return ok
}

// KindTally counts what the cells of one column look like.
type KindTally struct {
	Num, Int, Bool, Str, Null int
}

// Observe classifies one textual cell. Callers filter null markers first
// and report them with ObserveNull.
func (t *KindTally) Observe(v string) {
	v = strings.TrimSpace(v)
	switch {
	case numre.MatchString(v):
		t.Num++
		if !strings.ContainsAny(v, ".eE") {
			// out of int64 range reads as float
			if _, err := strconv.ParseInt(v, 10, 64); err == nil {
				t.Int++
			}
		}
	case isBool(v):
		t.Bool++
	default:
		t.Str++
	}
}

func (t *KindTally) ObserveNull() { t.Null++ }

// ObserveFloat classifies an already-numeric cell, as decoded from JSON.
func (t *KindTally) ObserveFloat(x float64) {
	t.Num++
	if x == float64(int64(x)) {
		t.Int++
	}
}

// Kind picks the narrowest kind that holds every observed cell: any text
// makes a string column and bools mixed with numbers do too. Integer columns
// with missing cells become float so that they can be imputed, as do
// all-missing columns.
func (t KindTally) Kind() j.Kind {
	switch {
	case t.Num == 0 && t.Bool == 0 && t.Str == 0:
		return j.KindFloat
	case t.Str > 0, t.Num > 0 && t.Bool > 0:
		return j.KindString
	case t.Bool > 0:
		return j.KindBool
	case t.Int == t.Num && t.Null == 0:
		return j.KindInt
	default:
		return j.KindFloat
	}
}

func isBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "true" || lv == "false"
}

// SetText parses a textual cell into row of the named column according to
// its kind. Null markers leave the cell null; any other value that does not
// parse is an ErrCellKind error rather than a silent null.
func SetText(f *j.Frame, row int, cs j.ColumnSchema, val string, nulls NullSet) error {
	if nulls.IsNull(val) {
		return nil
	}
	val = strings.ToValidUTF8(strings.TrimSpace(val), "?")
	var v any
	var err error
	switch cs.Type {
	case j.KindFloat:
		v, err = strconv.ParseFloat(val, 64)
	case j.KindInt:
		v, err = strconv.ParseInt(val, 10, 64)
	case j.KindBool:
		v, err = strconv.ParseBool(strings.ToLower(val))
	default:
		v = val
	}
	if err != nil {
		return fmt.Errorf("%w: %q in %s column %q", ErrCellKind, val, cs.Type, cs.Name)
	}
	return f.SetCell(row, cs.Name, v)
}

// FormatCell renders a cell as text; ok is false for null.
func FormatCell(c j.Column, row int) (string, bool) {
	v, ok := c.Value(row)
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	case string:
		return t, true
	case time.Time:
		return t.Format(time.RFC3339), true
	default:
		return "", false
	}
}
