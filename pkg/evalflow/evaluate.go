package evalflow

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-evalflow/internal/autoscaler"
	"github.com/askiada/go-evalflow/pkg/evalflow/model"
	"github.com/askiada/go-evalflow/pkg/logging"
	"github.com/askiada/go-evalflow/pkg/runner"
)

// Evaluation carries the configuration of one Evaluate call.
type Evaluation struct {
	name       string
	dataPath   string
	target     model.Callable
	evaluators map[string]model.Callable
	config     Config
	outputPath string
	runner     runner.Runner
	workers    int
	reporter   Reporter
	log        *slog.Logger
	monitors   monitorSet
}

// Evaluate scores a dataset with every configured evaluator, optionally
// after a target produced additional columns first, and assembles the
// merged rows and the aggregate metrics into a single result.
//
// Configuration, load, missing-input and column-collision errors abort
// the whole invocation. Evaluators failing at run time degrade to a
// partial result flagged with their names.
func Evaluate(ctx context.Context, opts ...Option) (*Result, error) {
	eval := &Evaluation{
		evaluators: make(map[string]model.Callable),
		config:     Config{},
		log:        logging.Nop(),
	}

	for _, opt := range opts {
		opt(eval)
	}

	return eval.run(ctx)
}

func (e *Evaluation) run(ctx context.Context) (*Result, error) {
	startTime := time.Now()

	if e.dataPath == "" {
		return nil, ErrNoData
	}

	if len(e.evaluators) == 0 {
		return nil, ErrNoEvaluators
	}

	if e.runner == nil {
		e.runner = runner.NewLocal(runner.WithWorkers(e.workers), runner.WithLogger(e.log))
	}

	err := e.monitors.initialise()
	if err != nil {
		return nil, err
	}

	concurrent := autoscaler.Workers(e.workers, 0)

	dataStage := &model.StageInfo{Type: model.DataStageType, Name: "data", Concurrent: 1}

	err = e.monitors.prepareStage(nil, dataStage)
	if err != nil {
		return nil, err
	}

	loadStart := time.Now()

	data, err := loadData(e.dataPath)
	if err != nil {
		return nil, err
	}

	err = e.monitors.afterStage(dataStage, time.Since(loadStart))
	if err != nil {
		return nil, err
	}

	e.log.Info("data loaded", "path", e.dataPath, "rows", data.NumRows(), "columns", len(data.Columns()))

	cfg, err := processEvaluatorConfig(e.config)
	if err != nil {
		return nil, err
	}

	err = validateColumns(data, e.evaluators, e.target, cfg)
	if err != nil {
		return nil, err
	}

	generated := make(map[string]struct{})
	lastStage := dataStage

	var targetRun *runner.Run

	if e.target != nil {
		targetStage := &model.StageInfo{Type: model.TargetStageType, Name: "target", Concurrent: concurrent}

		err = e.monitors.prepareStage([]*model.StageInfo{dataStage}, targetStage)
		if err != nil {
			return nil, err
		}

		targetStart := time.Now()

		data, generated, targetRun, err = applyTargetToData(ctx, e.runner, e.target, data, e.name, e.log)
		if err != nil {
			return nil, err
		}

		err = e.monitors.stageRows(targetStage, targetRun.RowDurations())
		if err != nil {
			return nil, err
		}

		err = e.monitors.afterStage(targetStage, time.Since(targetStart))
		if err != nil {
			return nil, err
		}

		e.log.Info("target applied", "generated", len(generated))

		ensureDefaultMapping(cfg)
		injectGeneratedMappings(cfg, generated)

		// the target introduced columns the first check could not see
		err = validateColumns(data, e.evaluators, nil, cfg)
		if err != nil {
			return nil, err
		}

		lastStage = targetStage
	}

	evaluatorStages := make(map[string]*model.StageInfo, len(e.evaluators))

	for _, name := range sortedEvaluatorNames(e.evaluators) {
		stage := &model.StageInfo{Type: model.EvaluatorStageType, Name: "evaluator." + name, Concurrent: concurrent}
		evaluatorStages[name] = stage

		err = e.monitors.prepareStage([]*model.StageInfo{lastStage}, stage)
		if err != nil {
			return nil, err
		}
	}

	merged, failedEvaluators, outcomes, err := runEvaluators(ctx, e.runner, e.evaluators, cfg, data, targetRun, e.log)
	if err != nil {
		return nil, err
	}

	for _, name := range sortedEvaluatorNames(e.evaluators) {
		outcome, ok := outcomes[name]
		if !ok {
			continue
		}

		err = e.monitors.stageRows(evaluatorStages[name], outcome.run.RowDurations())
		if err != nil {
			return nil, err
		}

		err = e.monitors.afterStage(evaluatorStages[name], outcome.elapsed)
		if err != nil {
			return nil, err
		}
	}

	reportStage := &model.StageInfo{Type: model.ReportStageType, Name: "report", Concurrent: 1}

	reportParents := make([]*model.StageInfo, 0, len(evaluatorStages))
	for _, name := range sortedEvaluatorNames(e.evaluators) {
		reportParents = append(reportParents, evaluatorStages[name])
	}

	err = e.monitors.prepareStage(reportParents, reportStage)
	if err != nil {
		return nil, err
	}

	reportStart := time.Now()

	metrics := calculateMean(merged)

	data = renameColumnsConditionally(data, generated)

	resultTable, err := model.Concat(data, merged)
	if err != nil {
		return nil, err
	}

	var studioURL string

	if e.reporter != nil {
		studioURL, err = e.reporter.Report(ctx, e.name, resultTable, metrics)
		if err != nil {
			return nil, errors.Wrap(err, "unable to report evaluation")
		}
	}

	result := &Result{
		Rows:             resultTable.Records(),
		Metrics:          metrics,
		StudioURL:        studioURL,
		FailedEvaluators: failedEvaluators,
	}

	if e.outputPath != "" {
		err = writeOutput(e.outputPath, result)
		if err != nil {
			return nil, err
		}
	}

	err = e.monitors.afterStage(reportStage, time.Since(reportStart))
	if err != nil {
		return nil, err
	}

	err = e.monitors.finish(time.Since(startTime))
	if err != nil {
		return nil, err
	}

	e.log.Info("evaluation finished", "rows", len(result.Rows), "metrics", len(result.Metrics), "failed_evaluators", len(result.FailedEvaluators))

	return result, nil
}

// ensureDefaultMapping makes sure the default entry exists so implicit
// target wirings always have a place to land.
func ensureDefaultMapping(cfg Config) {
	if _, ok := cfg[defaultMappingKey]; !ok {
		cfg[defaultMappingKey] = model.ColumnMapping{}
	}
}

// injectGeneratedMappings wires every generated column into every
// mapping as ${run.outputs.col}. A column the caller already mapped, or
// an output another destination already points at, is left alone.
func injectGeneratedMappings(cfg Config, generated map[string]struct{}) {
	cols := make([]string, 0, len(generated))
	for col := range generated {
		cols = append(cols, col)
	}

	sort.Strings(cols)

	for name, mapping := range cfg {
		if mapping == nil {
			mapping = model.ColumnMapping{}
		}

		mappedValues := make(map[string]struct{}, len(mapping))
		for _, v := range mapping {
			mappedValues[v] = struct{}{}
		}

		for _, col := range cols {
			runOutput := fmt.Sprintf("${run.outputs.%s}", col)

			if _, ok := mapping[col]; ok {
				continue
			}

			if _, ok := mappedValues[runOutput]; ok {
				continue
			}

			mapping[col] = runOutput
		}

		cfg[name] = mapping
	}
}
