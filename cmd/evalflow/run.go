package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-evalflow/internal/config"
	"github.com/askiada/go-evalflow/pkg/evalflow"
	"github.com/askiada/go-evalflow/pkg/evalflow/drawer"
	"github.com/askiada/go-evalflow/pkg/evalflow/measure"
	"github.com/askiada/go-evalflow/pkg/evalflow/model"
	"github.com/askiada/go-evalflow/pkg/evaluators"
)

var (
	runConfigPath string
	runDataPath   string
	runOutputPath string
	runWorkers    int
	runDrawPath   string

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run every evaluator in a configuration against a dataset",
		RunE:  runEvaluation,
	}
)

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to the evaluation config (yaml)")
	runCmd.Flags().StringVar(&runDataPath, "data", "", "jsonl dataset, overrides the config")
	runCmd.Flags().StringVar(&runOutputPath, "output", "", "result file or directory, overrides the config")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "max rows evaluated in parallel, overrides the config")
	runCmd.Flags().StringVar(&runDrawPath, "draw", "", "write the evaluation graph to this dot file")

	_ = runCmd.MarkFlagRequired("config")
}

func runEvaluation(cmd *cobra.Command, _ []string) error {
	log := newLogger("evalflow")

	conf, err := config.Load(runConfigPath)
	if err != nil {
		return err
	}

	if runDataPath != "" {
		conf.Data = runDataPath
	}

	if runOutputPath != "" {
		conf.Output = runOutputPath
	}

	if runWorkers > 0 {
		conf.Workers = runWorkers
	}

	err = conf.Validate()
	if err != nil {
		return errors.Wrapf(err, "invalid config %s", runConfigPath)
	}

	registry := evalflow.NewRegistry()

	err = evaluators.RegisterBuiltins(registry)
	if err != nil {
		return err
	}

	opts, err := buildOptions(conf, registry, log)
	if err != nil {
		return err
	}

	res, err := evalflow.Evaluate(cmd.Context(), opts...)
	if err != nil {
		return err
	}

	printResult(cmd, res)

	return nil
}

func buildOptions(conf *config.Evaluation, registry *evalflow.Registry, log *slog.Logger) ([]evalflow.Option, error) {
	opts := []evalflow.Option{
		evalflow.WithEvaluationName(conf.Name),
		evalflow.WithData(conf.Data),
		evalflow.WithWorkers(conf.Workers),
		evalflow.WithLogger(log),
	}

	if conf.Output != "" {
		opts = append(opts, evalflow.WithOutputPath(conf.Output))
	}

	if conf.Target != "" {
		target, ok := registry.Lookup(conf.Target)
		if !ok {
			return nil, errors.Errorf("unknown target %s, registered: %s", conf.Target, strings.Join(registry.Names(), ", "))
		}

		opts = append(opts, evalflow.WithTarget(target))
	}

	for runName, registered := range conf.Evaluators {
		callable, ok := registry.Lookup(registered)
		if !ok {
			return nil, errors.Errorf("unknown evaluator %s, registered: %s", registered, strings.Join(registry.Names(), ", "))
		}

		opts = append(opts, evalflow.WithEvaluator(runName, callable))
	}

	if len(conf.ColumnMapping) > 0 {
		mapping := evalflow.Config{}
		for name, cols := range conf.ColumnMapping {
			mapping[name] = model.ColumnMapping(cols)
		}

		opts = append(opts, evalflow.WithEvaluatorConfig(mapping))
	}

	if runDrawPath != "" {
		msr := measure.NewDefaultMeasure()
		opts = append(opts, evalflow.WithMonitors(
			measure.EvaluationMeasure(msr),
			drawer.EvaluationDrawer(drawer.NewSVGDrawer(runDrawPath), msr),
		))
	}

	return opts, nil
}

func printResult(cmd *cobra.Command, res *evalflow.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "rows: %d\n", len(res.Rows))

	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(out, "%s: %g\n", name, res.Metrics[name])
	}

	if len(res.FailedEvaluators) > 0 {
		fmt.Fprintf(out, "failed evaluators: %s\n", strings.Join(res.FailedEvaluators, ", "))
	}

	if res.StudioURL != "" {
		fmt.Fprintf(out, "studio url: %s\n", res.StudioURL)
	}
}
