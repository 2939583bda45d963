package pipes

import (
	"context"
	"strings"
)

// Pipeline runs its pipes left to right on the same Context. Nested
// pipelines are flattened, so (a.Then(b)).Then(c) and a.Then(b.Then(c))
// hold the same stages in the same order.
type Pipeline struct {
	pipes []Pipe
	err   error
}

// Chain composes pipes into a Pipeline. A pipe without a usable call entry
// point is recorded and reported by Err and by the first Call.
func Chain(pipes ...Pipe) *Pipeline {
	p := &Pipeline{}
	for _, next := range pipes {
		p.append(next)
	}
	return p
}

func (p *Pipeline) append(next Pipe) {
	if err := checkInterface(next); err != nil {
		if p.err == nil {
			p.err = err
		}
		return
	}

	nested, ok := next.(*Pipeline)
	if !ok {
		p.pipes = append(p.pipes, next)
		return
	}
	if nested.err != nil && p.err == nil {
		p.err = nested.err
	}
	p.pipes = append(p.pipes, nested.pipes...)
}

func checkInterface(p Pipe) error {
	if IsNil(p) {
		return missingCallMethod(pipeName(p))
	}
	if c, ok := p.(callable); ok && !c.hasCall() {
		return missingCallMethod(p.Name())
	}
	return nil
}

// Then returns a new Pipeline running p and then next.
func (p *Pipeline) Then(next Pipe) *Pipeline {
	return Chain(p, next)
}

// Err reports a composition defect, if any.
func (p *Pipeline) Err() error {
	return p.err
}

// Pipes returns the flattened stages.
func (p *Pipeline) Pipes() []Pipe {
	return append([]Pipe(nil), p.pipes...)
}

func (p *Pipeline) Name() string {
	names := make([]string, len(p.pipes))
	for i, s := range p.pipes {
		names[i] = s.Name()
	}
	return strings.Join(names, " | ")
}

// Call runs each stage on pc in order. It stops when pc records a failure or
// a stage returns an error; pc keeps the fields written so far.
func (p *Pipeline) Call(ctx context.Context, pc *Context) (*Context, error) {
	if p.err != nil {
		return pc, p.err
	}
	for _, s := range p.pipes {
		if pc != nil && pc.Failure() {
			return pc, nil
		}
		if _, err := s.Call(ctx, pc); err != nil {
			return pc, err
		}
	}
	return pc, nil
}
