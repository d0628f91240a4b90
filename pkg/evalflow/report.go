package evalflow

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

// Result is the terminal artifact of one evaluation: the fully
// namespaced row records, the aggregate metrics and an optional external
// report reference.
type Result struct {
	Rows             []model.Record     `json:"rows"`
	Metrics          map[string]float64 `json:"metrics"`
	StudioURL        string             `json:"studio_url,omitempty"`
	FailedEvaluators []string           `json:"failed_evaluators,omitempty"`
}

// Reporter publishes an evaluation to an external destination and
// returns a reference to it.
type Reporter interface {
	Report(ctx context.Context, name string, rows *model.Table, metrics map[string]float64) (string, error)
}

// renameColumnsConditionally normalises the dataset columns before the
// final merge. A column generated by the target keeps, or gains, its
// outputs. prefix, everything else gets an inputs. prefix. The change
// happens in place.
func renameColumnsConditionally(table *model.Table, generated map[string]struct{}) *model.Table {
	renames := make(map[string]string)

	for _, col := range table.Columns() {
		outputsCol := model.OutputsPrefix + col

		if strings.Contains(col, model.OutputsPrefix) {
			if _, ok := generated[col[len(model.OutputsPrefix):]]; ok {
				continue
			}
		}

		if _, ok := generated[col]; ok && !table.HasColumn(outputsCol) {
			renames[col] = outputsCol
		} else {
			renames[col] = model.InputsPrefix + col
		}
	}

	table.Rename(renames)

	return table
}

const defaultResultFile = "evaluation_results.json"

// writeOutput persists the result as indented JSON. A path naming an
// existing directory gets the default file name appended.
func writeOutput(path string, result *Result) error {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		path = filepath.Join(path, defaultResultFile)
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Wrap(err, "unable to encode result")
	}

	err = os.WriteFile(path, payload, 0o644)
	if err != nil {
		return errors.Wrapf(err, "unable to write result to %s", path)
	}

	return nil
}
