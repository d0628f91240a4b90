package evaluators

import (
	"context"
	"strings"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

// ExactMatch scores 1.0 when the answer and the ground truth are the
// same string, ignoring surrounding whitespace, and 0.0 otherwise.
type ExactMatch struct{}

func NewExactMatch() *ExactMatch {
	return &ExactMatch{}
}

// Parameters returns the required inputs.
func (e *ExactMatch) Parameters() []model.Parameter {
	return requiredParams
}

// Call scores one row.
func (e *ExactMatch) Call(_ context.Context, inputs model.Record) (model.Record, error) {
	answer := strings.TrimSpace(asString(inputs["answer"]))
	truth := strings.TrimSpace(asString(inputs["ground_truth"]))

	score := 0.0
	if answer == truth {
		score = 1.0
	}

	return model.Record{"exact_match": score}, nil
}

var _ model.Callable = (*ExactMatch)(nil)
