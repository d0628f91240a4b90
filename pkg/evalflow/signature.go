package evalflow

import (
	"sort"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

// validateRequiredInputs checks that every declared parameter without a
// default exists as a column of the table. Missing names are reported in
// declaration order.
func validateRequiredInputs(callable model.Callable, table *model.Table, label string) error {
	var missing []string

	for _, param := range callable.Parameters() {
		if param.HasDefault {
			continue
		}

		if !table.HasColumn(param.Name) {
			missing = append(missing, param.Name)
		}
	}

	if len(missing) > 0 {
		return &MissingInputsError{Label: label, Missing: missing}
	}

	return nil
}

// validateColumns checks that the table can satisfy what is about to run
// against it. With a target only the target's inputs are checked, its
// result shape is unknowable before it ran. Without one, each evaluator
// is checked against a working copy with its own mapping applied.
func validateColumns(table *model.Table, evaluators map[string]model.Callable, target model.Callable, cfg Config) error {
	if target != nil {
		return validateRequiredInputs(target, table, "target")
	}

	for _, name := range sortedEvaluatorNames(evaluators) {
		mapping, ok := cfg[name]
		if !ok {
			mapping = cfg[defaultMappingKey]
		}

		mapped := applyColumnMapping(table, mapping, false)

		err := validateRequiredInputs(evaluators[name], mapped, "evaluator "+name)
		if err != nil {
			return err
		}
	}

	return nil
}

func sortedEvaluatorNames(evaluators map[string]model.Callable) []string {
	names := make([]string, 0, len(evaluators))
	for name := range evaluators {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
