package frame

import (
	"context"
	"errors"
	"testing"
)

type noopTransform struct{}

func (n *noopTransform) Name() string { return "noop" }
func (n *noopTransform) Apply(ctx context.Context, f *Frame) (*Frame, error) {
	return f, nil
}

type failTransform struct{ err error }

func (t *failTransform) Name() string { return "fail" }
func (t *failTransform) Apply(ctx context.Context, f *Frame) (*Frame, error) {
	return nil, t.err
}

func TestPipelineStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	p := NewPipeline().Add(&noopTransform{}).Add(&failTransform{err: boom}).Add(&noopTransform{})
	out, err := p.Run(context.Background(), makeMixedFrame())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if out != nil {
		t.Fatal("expected no frame on failure")
	}
	if got := p.Steps(); len(got) != 3 || got[1] != "fail" {
		t.Fatalf("steps = %v", got)
	}
}

func TestPipelineHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPipeline().Add(&noopTransform{}).Run(ctx, makeMixedFrame())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
