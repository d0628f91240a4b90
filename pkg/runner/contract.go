package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Runner executes a callable once per row of a table.
type Runner interface {
	// Submit starts a batch run and returns immediately.
	Submit(ctx context.Context, callable model.Callable, data *model.Table, mapping model.ColumnMapping, opts ...SubmitOption) (*Run, error)
	// Results blocks until the run finishes and returns its result table.
	// When some rows failed the partial table is returned together with a
	// *RunError.
	Results(ctx context.Context, run *Run) (*model.Table, error)
}

// Run is the handle of one batch execution. It is mutated by the runner
// until the done channel closes and is read-only afterwards.
type Run struct {
	ID   string
	Name string

	callable model.Callable
	data     *model.Table
	mapping  model.ColumnMapping
	previous *Run

	inputs    []model.Record
	outputs   []model.Record
	rowErrs   []error
	durations []time.Duration

	status Status
	result *model.Table
	err    error
	done   chan struct{}
}

// Status returns the state of the run. It is only stable once Results
// has returned.
func (r *Run) Status() Status {
	return r.status
}

// RowDurations returns the processing time of every row, indexed by row
// position. Call it after Results returned.
func (r *Run) RowDurations() []time.Duration {
	return append([]time.Duration{}, r.durations...)
}

// RowErrors returns the per-row errors, nil entries for rows that
// succeeded. Call it after Results returned.
func (r *Run) RowErrors() []error {
	return append([]error{}, r.rowErrs...)
}

// RunError reports a batch run where some or all rows failed. The result
// table of such a run still carries the rows that succeeded.
type RunError struct {
	Name   string
	Total  int
	Failed int
	Errs   []error
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("run %s: %d of %d rows failed", e.Name, e.Failed, e.Total)
	if len(e.Errs) > 0 {
		msg += ": " + e.Errs[0].Error()
	}

	return msg
}

// AllFailed reports whether every row of the run failed.
func (e *RunError) AllFailed() bool {
	return e.Failed == e.Total
}
