package evalflow

import (
	"log/slog"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
	"github.com/askiada/go-evalflow/pkg/runner"
)

// Option configures an evaluation.
type Option func(e *Evaluation)

// WithEvaluationName sets the display name of the evaluation. The name
// is passed to the target run and to the reporter.
func WithEvaluationName(name string) Option {
	return func(e *Evaluation) {
		e.name = name
	}
}

// WithData sets the path of the dataset, a newline-delimited JSON file.
func WithData(path string) Option {
	return func(e *Evaluation) {
		e.dataPath = path
	}
}

// WithTarget sets the callable applied to the dataset before any
// evaluator runs.
func WithTarget(target model.Callable) Option {
	return func(e *Evaluation) {
		e.target = target
	}
}

// WithEvaluator adds one named evaluator.
func WithEvaluator(name string, evaluator model.Callable) Option {
	return func(e *Evaluation) {
		e.evaluators[name] = evaluator
	}
}

// WithEvaluators adds every evaluator of the map.
func WithEvaluators(evaluators map[string]model.Callable) Option {
	return func(e *Evaluation) {
		for name, evaluator := range evaluators {
			e.evaluators[name] = evaluator
		}
	}
}

// WithEvaluatorConfig sets the per-evaluator column mappings. The config
// is processed into a copy, the caller's maps are never changed.
func WithEvaluatorConfig(cfg Config) Option {
	return func(e *Evaluation) {
		e.config = cfg
	}
}

// WithOutputPath persists the result as JSON. A path naming an existing
// directory gets a default file name appended.
func WithOutputPath(path string) Option {
	return func(e *Evaluation) {
		e.outputPath = path
	}
}

// WithRunner replaces the default local runner.
func WithRunner(r runner.Runner) Option {
	return func(e *Evaluation) {
		e.runner = r
	}
}

// WithWorkers fixes the per-run worker count of the default runner.
func WithWorkers(workers int) Option {
	return func(e *Evaluation) {
		e.workers = workers
	}
}

// WithReporter publishes the finished evaluation externally. The
// returned reference becomes the result's studio URL.
func WithReporter(reporter Reporter) Option {
	return func(e *Evaluation) {
		e.reporter = reporter
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(e *Evaluation) {
		e.log = log
	}
}

// WithMonitors attaches lifecycle monitors, such as the measure and
// drawer implementations.
func WithMonitors(monitors ...model.Monitor) Option {
	return func(e *Evaluation) {
		e.monitors = append(e.monitors, monitors...)
	}
}
