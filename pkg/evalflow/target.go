package evalflow

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
	"github.com/askiada/go-evalflow/pkg/runner"
)

// applyTargetToData runs the target once over every dataset row and
// merges the generated columns back onto the dataset. It returns the
// augmented table, the set of column names the target produced and the
// run handle so evaluators can chain to it.
//
// Generated names are tracked before the collision pruning: when the
// dataset already has a column of the same name, the target's value
// stays under its outputs. name and the user's column is untouched.
func applyTargetToData(ctx context.Context, r runner.Runner, target model.Callable, data *model.Table, name string, log *slog.Logger) (*model.Table, map[string]struct{}, *runner.Run, error) {
	run, err := r.Submit(ctx, target, data, nil, runner.WithName(name))
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "unable to submit target run")
	}

	targetOutput, err := r.Results(ctx, run)
	if err != nil {
		var runErr *runner.RunError
		if errors.As(err, &runErr) && targetOutput != nil && !runErr.AllFailed() {
			// failed rows keep null outputs, scoring continues on the rest
			log.Warn("target failed on some rows", "run", run.Name, "failed", runErr.Failed, "total", runErr.Total)
		} else {
			return nil, nil, nil, errors.Wrap(err, "target run failed")
		}
	}

	renameDict := make(map[string]string)

	for _, col := range targetOutput.Columns() {
		if strings.HasPrefix(col, model.OutputsPrefix) {
			renameDict[col] = strings.TrimPrefix(col, model.OutputsPrefix)
		}
	}

	generated := make(map[string]struct{}, len(renameDict))
	for _, stripped := range renameDict {
		generated[stripped] = struct{}{}
	}

	for _, col := range data.Columns() {
		if _, ok := generated[col]; ok {
			delete(renameDict, model.OutputsPrefix+col)
		}
	}

	err = targetOutput.SortByIntColumn(model.LineNumberColumn)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "unable to sort target output")
	}

	// the result mirrors the inputs the target consumed, only its
	// outputs are merged back
	targetOutput.DropPrefixed(model.InputsPrefix)
	targetOutput.Rename(renameDict)

	augmented, err := model.Concat(targetOutput, data)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "unable to merge target output into the dataset")
	}

	return augmented, generated, run, nil
}
