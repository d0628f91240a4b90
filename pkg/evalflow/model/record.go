package model

import "context"

// Record is a single row, mapping column names to values. A missing
// column reads as nil.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}

	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}

	return out
}

// Parameter describes one input taken by a Callable. A parameter without
// a default must be satisfiable from the row passed to Call.
type Parameter struct {
	Name       string
	HasDefault bool
}

// Callable is a target or evaluator invoked once per row of a dataset.
// The declared parameters replace runtime signature inspection: they are
// the only contract between a callable and the tables wired into it.
type Callable interface {
	Parameters() []Parameter
	Call(ctx context.Context, inputs Record) (Record, error)
}

// Func adapts a plain function to a Callable.
type Func struct {
	fn     func(ctx context.Context, inputs Record) (Record, error)
	params []Parameter
}

// NewFunc creates a Callable from fn and its declared parameters.
func NewFunc(fn func(ctx context.Context, inputs Record) (Record, error), params ...Parameter) *Func {
	return &Func{
		fn:     fn,
		params: params,
	}
}

// Parameters returns the declared parameters.
func (f *Func) Parameters() []Parameter {
	return f.params
}

// Call invokes the wrapped function.
func (f *Func) Call(ctx context.Context, inputs Record) (Record, error) {
	return f.fn(ctx, inputs)
}

var _ Callable = (*Func)(nil)
