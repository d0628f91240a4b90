package evalflow

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
	"github.com/askiada/go-evalflow/pkg/runner"
)

// evaluatorOutcome is the collected state of one evaluator run.
type evaluatorOutcome struct {
	run     *runner.Run
	elapsed time.Duration
}

// runEvaluators fans the evaluators out as independent batch runs and
// merges their result tables column-wise by row position. Every run is
// submitted before any result is collected. The merge order is the
// sorted evaluator names, so the merged column order is deterministic.
//
// An evaluator that failed on some rows keeps its table with null
// cells. An evaluator without any result table is excluded from the
// merge and returned in the failed list. A canceled context aborts
// everything.
func runEvaluators(ctx context.Context, r runner.Runner, evaluators map[string]model.Callable, cfg Config, data *model.Table, targetRun *runner.Run, log *slog.Logger) (*model.Table, []string, map[string]evaluatorOutcome, error) {
	names := sortedEvaluatorNames(evaluators)

	runs := make(map[string]*runner.Run, len(names))

	for _, name := range names {
		mapping, ok := cfg[name]
		if !ok {
			mapping = cfg[defaultMappingKey]
		}

		opts := []runner.SubmitOption{runner.WithName(name)}
		if targetRun != nil {
			opts = append(opts, runner.WithPreviousRun(targetRun))
		}

		run, err := r.Submit(ctx, evaluators[name], data, mapping, opts...)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "unable to submit evaluator %s", name)
		}

		runs[name] = run
	}

	tables := make([]*model.Table, len(names))
	runErrs := make([]error, len(names))
	elapsed := make([]time.Duration, len(names))

	errGrp, dCtx := errgroup.WithContext(ctx)

	for i, name := range names {
		i, name := i, name

		errGrp.Go(func() error {
			start := time.Now()

			res, err := r.Results(dCtx, runs[name])
			elapsed[i] = time.Since(start)
			tables[i] = res
			runErrs[i] = err

			// row-level failures stay in their slot, only a canceled
			// context stops the other collectors
			var runErr *runner.RunError
			if err != nil && !errors.As(err, &runErr) {
				return errors.Wrapf(err, "evaluator %s", name)
			}

			return nil
		})
	}

	err := errGrp.Wait()
	if err != nil {
		return nil, nil, nil, err
	}

	var (
		merged *model.Table
		failed []string
	)

	outcomes := make(map[string]evaluatorOutcome, len(names))

	for i, name := range names {
		res := tables[i]

		if runErrs[i] != nil {
			var runErr *runner.RunError
			if errors.As(runErrs[i], &runErr) && res != nil && !runErr.AllFailed() {
				log.Warn("evaluator failed on some rows", "evaluator", name, "failed", runErr.Failed, "total", runErr.Total)
			} else {
				log.Error("evaluator run failed", "evaluator", name, "error", runErrs[i])

				failed = append(failed, name)

				continue
			}
		}

		outcomes[name] = evaluatorOutcome{run: runs[name], elapsed: elapsed[i]}

		// the runner contract only promises a row-index column, not order
		err := res.SortByIntColumn(model.LineNumberColumn)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "unable to sort results of evaluator %s", name)
		}

		res.DropPrefixed(model.InputsPrefix)

		renames := make(map[string]string)
		for _, col := range res.Columns() {
			renames[col] = model.OutputsPrefix + name + "." + strings.ReplaceAll(col, model.OutputsPrefix, "")
		}

		res.Rename(renames)

		if merged == nil {
			merged = res

			continue
		}

		next, err := model.Concat(merged, res)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "unable to merge results of evaluator %s", name)
		}

		merged = next
	}

	if merged == nil {
		return nil, nil, nil, errors.Wrapf(ErrAllEvaluatorsFailed, "%s", strings.Join(failed, ", "))
	}

	return merged, failed, outcomes, nil
}
