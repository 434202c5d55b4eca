package frame

import (
	"context"
	"fmt"
)

// Transform is a step applied to a Frame. Implementations return a new
// frame and leave their input untouched.
type Transform interface {
	Name() string
	Apply(ctx context.Context, f *Frame) (*Frame, error)
}

// Pipeline composes a sequence of Transforms.
type Pipeline struct {
	steps []Transform
}

func NewPipeline() *Pipeline { return &Pipeline{} }

func (p *Pipeline) Add(t Transform) *Pipeline {
	p.steps = append(p.steps, t)
	return p
}

// Steps returns the names of the configured steps in run order.
func (p *Pipeline) Steps() []string {
	out := make([]string, len(p.steps))
	for i, t := range p.steps {
		out[i] = t.Name()
	}
	return out
}

// Run applies every step in order. Any failure aborts the run and no frame
// is returned.
func (p *Pipeline) Run(ctx context.Context, f *Frame) (*Frame, error) {
	cur := f
	for i, t := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := t.Apply(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, t.Name(), err)
		}
		cur = next
	}
	return cur, nil
}
