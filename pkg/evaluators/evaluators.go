// Package evaluators provides the built-in evaluators shipped with the
// module. They cover the common ground-truth comparisons so a
// configuration can reference them by name without any custom code.
package evaluators

import (
	"github.com/askiada/go-evalflow/pkg/evalflow"
	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

var requiredParams = []model.Parameter{
	{Name: "answer"},
	{Name: "ground_truth"},
}

// RegisterBuiltins installs every built-in evaluator under its
// canonical name.
func RegisterBuiltins(reg *evalflow.Registry) error {
	builtins := map[string]model.Callable{
		"exact_match": NewExactMatch(),
		"f1_score":    NewF1Score(),
	}

	for name, callable := range builtins {
		err := reg.Register(name, callable)
		if err != nil {
			return err
		}
	}

	return nil
}

func asString(v any) string {
	s, _ := v.(string)

	return s
}
