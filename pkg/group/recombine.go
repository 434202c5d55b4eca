package group

import (
	"errors"

	j "github.com/wdm0006/stratafill/pkg/frame"
)

// ErrEmptyInput is returned when there are no partitions to recombine.
var ErrEmptyInput = errors.New("no partitions to recombine")

// Recombine concatenates the partitions in the order given into a new frame.
// Every partition must carry the same column names and kinds; otherwise the
// error wraps frame.ErrSchemaMismatch.
func Recombine(ps Partitions) (*j.Frame, error) {
	if len(ps) == 0 {
		return nil, ErrEmptyInput
	}
	frames := make([]*j.Frame, len(ps))
	for i, p := range ps {
		frames[i] = p.Frame
	}
	return j.Concat(frames...)
}
