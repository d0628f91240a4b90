package runner

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-evalflow/internal/autoscaler"
	"github.com/askiada/go-evalflow/pkg/evalflow/model"
	"github.com/askiada/go-evalflow/pkg/logging"
)

var (
	ErrCallableMustBeSet = errors.New("callable must be set")
	ErrDataMustBeSet     = errors.New("data must be set")
	ErrRunMustBeSet      = errors.New("run must be set")
)

var referencePattern = regexp.MustCompile(`^\$\{([^{}]+)\}$`)

const (
	dataReferenceRoot = "data."
	runOutputsRoot    = "run.outputs."
)

// Local executes batch runs in-process over a worker pool.
type Local struct {
	workers int
	log     *slog.Logger
}

// NewLocal creates a local runner.
func NewLocal(opts ...Option) *Local {
	l := &Local{
		log: logging.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Submit starts one run of the callable over every row of data and
// returns without waiting for it.
func (l *Local) Submit(ctx context.Context, callable model.Callable, data *model.Table, mapping model.ColumnMapping, opts ...SubmitOption) (*Run, error) {
	if callable == nil {
		return nil, ErrCallableMustBeSet
	}

	if data == nil {
		return nil, ErrDataMustBeSet
	}

	run := &Run{
		ID:       uuid.NewString(),
		callable: callable,
		data:     data,
		mapping:  mapping.Clone(),
		status:   StatusRunning,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(run)
	}

	if run.Name == "" {
		run.Name = "run_" + run.ID[:8]
	}

	rows := data.NumRows()
	run.inputs = make([]model.Record, rows)
	run.outputs = make([]model.Record, rows)
	run.rowErrs = make([]error, rows)
	run.durations = make([]time.Duration, rows)

	workers := autoscaler.Workers(l.workers, rows)

	l.log.Debug("run submitted", "run", run.Name, "rows", rows, "workers", workers)

	go l.execute(ctx, run, workers)

	return run, nil
}

// Results blocks until the run finished. When some rows failed the
// partial result table is returned together with a *RunError; a canceled
// run returns no table.
func (l *Local) Results(ctx context.Context, run *Run) (*model.Table, error) {
	if run == nil {
		return nil, ErrRunMustBeSet
	}

	select {
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "waiting for run %s", run.Name)
	case <-run.done:
	}

	if run.status == StatusCanceled {
		return nil, errors.Wrapf(run.err, "run %s canceled", run.Name)
	}

	// a completed run is immutable, callers get their own copy
	return run.result.Clone(), run.err
}

func (l *Local) execute(ctx context.Context, run *Run, workers int) {
	defer close(run.done)

	jobs := make(chan int)
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(workers)

	go func() {
		defer close(jobs)

		for idx := 0; idx < run.data.NumRows(); idx++ {
			select {
			case <-dCtx.Done():
				return
			case jobs <- idx:
			}
		}
	}()

	// starts many consumers concurrently
	// row errors are recorded per slot, only a canceled context stops them
	for goIdx := 0; goIdx < workers; goIdx++ {
		errGrp.Go(func() error {
			return l.work(dCtx, run, jobs)
		})
	}

	err := errGrp.Wait()

	failed := 0

	var errs []error

	for idx, rowErr := range run.rowErrs {
		if rowErr != nil {
			failed++

			errs = append(errs, errors.Wrapf(rowErr, "row %d", idx))
		}
	}

	run.result = buildResult(run)

	switch {
	case err != nil:
		run.status = StatusCanceled
		run.err = err
	case failed > 0:
		run.status = StatusFailed
		run.err = &RunError{
			Name:   run.Name,
			Total:  run.data.NumRows(),
			Failed: failed,
			Errs:   errs,
		}
	default:
		run.status = StatusCompleted
	}
}

func (l *Local) work(ctx context.Context, run *Run, jobs <-chan int) error {
	for {
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "run %s:", run.Name)
		case idx, ok := <-jobs:
			if !ok {
				return nil
			}

			start := time.Now()

			inputs, err := resolveRowInputs(run, idx)
			if err != nil {
				run.durations[idx] = time.Since(start)
				run.rowErrs[idx] = err

				l.log.Warn("row failed", "run", run.Name, "row", idx, "error", err)

				continue
			}

			run.inputs[idx] = inputs

			out, err := run.callable.Call(ctx, inputs)
			run.durations[idx] = time.Since(start)

			if err != nil {
				run.rowErrs[idx] = err

				l.log.Warn("row failed", "run", run.Name, "row", idx, "error", err)

				continue
			}

			run.outputs[idx] = out
		}
	}
}

// resolveRowInputs builds the inputs of one row. Mapped expressions win,
// then a dataset column with the parameter's own name, then the previous
// run's outputs. A required parameter left unresolved fails the row.
func resolveRowInputs(run *Run, idx int) (model.Record, error) {
	row := run.data.Row(idx)
	inputs := model.Record{}

	for dest, expr := range run.mapping {
		match := referencePattern.FindStringSubmatch(expr)
		if match == nil {
			continue
		}

		reference := match[1]

		switch {
		case strings.HasPrefix(reference, dataReferenceRoot):
			col := strings.TrimPrefix(reference, dataReferenceRoot)
			if run.data.HasColumn(col) {
				inputs[dest] = row[col]
			}
		case strings.HasPrefix(reference, runOutputsRoot):
			field := strings.TrimPrefix(reference, runOutputsRoot)
			if v, ok := previousOutput(run, idx, field); ok {
				inputs[dest] = v
			}
		}
	}

	for _, param := range run.callable.Parameters() {
		if _, ok := inputs[param.Name]; ok {
			continue
		}

		if run.data.HasColumn(param.Name) {
			inputs[param.Name] = row[param.Name]

			continue
		}

		if v, ok := previousOutput(run, idx, param.Name); ok {
			inputs[param.Name] = v

			continue
		}

		if !param.HasDefault {
			return nil, errors.Errorf("unable to resolve required input %s", param.Name)
		}
	}

	return inputs, nil
}

func previousOutput(run *Run, idx int, field string) (any, bool) {
	if run.previous == nil || idx >= len(run.previous.outputs) {
		return nil, false
	}

	out := run.previous.outputs[idx]
	if out == nil {
		return nil, false
	}

	v, ok := out[field]

	return v, ok
}

// buildResult shapes the run outcome as a table: the row index, the
// resolved inputs and the produced outputs, one namespaced column each.
func buildResult(run *Run) *model.Table {
	inputNames := make(map[string]struct{})
	outputNames := make(map[string]struct{})

	for idx := range run.inputs {
		for name := range run.inputs[idx] {
			inputNames[name] = struct{}{}
		}

		for name := range run.outputs[idx] {
			outputNames[name] = struct{}{}
		}
	}

	columns := []string{model.LineNumberColumn}
	for _, name := range sortedKeys(inputNames) {
		columns = append(columns, model.InputsPrefix+name)
	}

	for _, name := range sortedKeys(outputNames) {
		columns = append(columns, model.OutputsPrefix+name)
	}

	result := model.NewTable(columns...)

	for idx := 0; idx < run.data.NumRows(); idx++ {
		rec := model.Record{model.LineNumberColumn: idx}

		for name, v := range run.inputs[idx] {
			rec[model.InputsPrefix+name] = v
		}

		for name, v := range run.outputs[idx] {
			rec[model.OutputsPrefix+name] = v
		}

		result.AppendRow(rec)
	}

	return result
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

var _ Runner = (*Local)(nil)
