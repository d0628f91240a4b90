package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/askiada/go-evalflow/pkg/logging"
)

var (
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "evalflow",
		Short: "Batch evaluation of flows against jsonl datasets",
		Long: `evalflow scores every row of a dataset with a set of evaluators,
optionally running a target flow over the rows first, and reports the
merged row results together with per-evaluator mean metrics.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(runCmd, serveCmd)
}

func newLogger(component string) *slog.Logger {
	return logging.New(component, logging.ParseLevel(logLevel))
}
