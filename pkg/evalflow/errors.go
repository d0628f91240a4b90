package evalflow

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNoData is returned when no dataset path was provided.
	ErrNoData = errors.New("data must be provided for evaluation")
	// ErrNoEvaluators is returned when no evaluator was provided.
	ErrNoEvaluators = errors.New("at least one evaluator must be provided")
	// ErrUnexpectedReference is returned when a column mapping references
	// anything other than ${target.} or ${data.}.
	ErrUnexpectedReference = errors.New("unexpected references in column mapping, ensure only ${target.} and ${data.} are used")
	// ErrAllEvaluatorsFailed is returned when no evaluator produced a
	// result table.
	ErrAllEvaluatorsFailed = errors.New("all evaluator runs failed")
)

// DataLoadError reports a dataset that could not be read or parsed.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("failed to load data from %s, expected valid jsonl: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// MissingInputsError reports required parameters of a target or
// evaluator that no column satisfies after mapping.
type MissingInputsError struct {
	Label   string
	Missing []string
}

func (e *MissingInputsError) Error() string {
	return fmt.Sprintf("missing required inputs for %s: %s", e.Label, strings.Join(e.Missing, ", "))
}
