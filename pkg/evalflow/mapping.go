package evalflow

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

// Config maps evaluator names to column mappings. The "default" entry
// applies to every evaluator without an explicit one.
type Config map[string]model.ColumnMapping

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}

	out := make(Config, len(c))
	for name, mapping := range c {
		out[name] = mapping.Clone()
	}

	return out
}

const defaultMappingKey = "default"

var (
	referencePattern    = regexp.MustCompile(`^\$\{([^{}]+)\}$`)
	referenceOccurrence = regexp.MustCompile(`\$\{.+?\}`)
)

const (
	dataReferenceRoot   = "data."
	targetReferenceRoot = "target."
	runOutputsRoot      = "run.outputs."
)

// applyColumnMapping resolves the mapping expressions into drop and
// rename operations over src. With inplace false the source table is
// left untouched and a modified clone is returned.
//
// A destination that already exists as a column is dropped before the
// rename, except when it is itself the source of another entry. Chained
// mappings lean on that exception and on the one-pass rename; the edge
// cases when three or more entries chain through one name are kept
// exactly as they behave, see the package tests.
func applyColumnMapping(src *model.Table, mapping model.ColumnMapping, inplace bool) *model.Table {
	result := src
	if !inplace {
		result = src.Clone()
	}

	if len(mapping) == 0 {
		return result
	}

	renames := make(map[string]string, len(mapping))
	toDrop := make(map[string]struct{})

	destinations := make([]string, 0, len(mapping))
	for dest := range mapping {
		destinations = append(destinations, dest)
	}

	sort.Strings(destinations)

	for _, dest := range destinations {
		match := referencePattern.FindStringSubmatch(mapping[dest])
		if match == nil {
			continue
		}

		reference := match[1]

		switch {
		case strings.HasPrefix(reference, dataReferenceRoot):
			renames[strings.TrimPrefix(reference, dataReferenceRoot)] = dest
		case strings.HasPrefix(reference, runOutputsRoot):
			source := strings.TrimPrefix(reference, runOutputsRoot)

			// A dataset that already went through a target run carries
			// the generated column under its outputs. name. Prefer it.
			runColumn := model.OutputsPrefix + source
			if src.HasColumn(runColumn) {
				source = runColumn
			}

			if src.HasColumn(dest) {
				toDrop[dest] = struct{}{}
			}

			renames[source] = dest
		}
	}

	var drops []string

	for col := range toDrop {
		if _, ok := renames[col]; !ok {
			drops = append(drops, col)
		}
	}

	sort.Strings(drops)

	result.Drop(drops...)
	result.Rename(renames)

	return result
}

// processEvaluatorConfig validates every mapping expression and rewrites
// ${target.F} references to ${run.outputs.F}. Any ${...} occurrence
// whose root is not target. or data. fails before any run starts. The
// caller's config is never mutated.
func processEvaluatorConfig(cfg Config) (Config, error) {
	processed := make(Config, len(cfg))

	for evaluatorName, mapping := range cfg {
		if mapping == nil {
			continue
		}

		out := make(model.ColumnMapping, len(mapping))

		for dest, expr := range mapping {
			for _, occurrence := range referenceOccurrence.FindAllString(expr, -1) {
				inner := strings.TrimSuffix(strings.TrimPrefix(occurrence, "${"), "}")
				if !strings.HasPrefix(inner, targetReferenceRoot) && !strings.HasPrefix(inner, dataReferenceRoot) {
					return nil, errors.Wrapf(ErrUnexpectedReference, "evaluator %s, column %s", evaluatorName, dest)
				}
			}

			out[dest] = strings.ReplaceAll(expr, "${target.", "${run.outputs.")
		}

		processed[evaluatorName] = out
	}

	return processed, nil
}
