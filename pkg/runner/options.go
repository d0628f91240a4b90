package runner

import "log/slog"

// SubmitOption customises one batch run.
type SubmitOption func(*Run)

// WithPreviousRun chains the run to a prior run so ${run.outputs.F}
// expressions and unsatisfied parameters resolve against its outputs.
func WithPreviousRun(previous *Run) SubmitOption {
	return func(r *Run) {
		r.previous = previous
	}
}

// WithName names the run. Unnamed runs get a name derived from their ID.
func WithName(name string) SubmitOption {
	return func(r *Run) {
		r.Name = name
	}
}

// Option customises a Local runner.
type Option func(*Local)

// WithWorkers fixes the number of concurrent workers of a run. Zero or
// negative picks a default from the machine size.
func WithWorkers(workers int) Option {
	return func(l *Local) {
		l.workers = workers
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(l *Local) {
		l.log = log
	}
}
