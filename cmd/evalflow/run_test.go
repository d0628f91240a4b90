package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetRunFlags() {
	runConfigPath = ""
	runDataPath = ""
	runOutputPath = ""
	runWorkers = 0
	runDrawPath = ""
}

func TestRunCommand(t *testing.T) {
	resetRunFlags()

	dir := t.TempDir()

	dataPath := filepath.Join(dir, "data.jsonl")
	lines := `{"answer":"Paris","ground_truth":"Paris"}` + "\n" + `{"answer":"Lyon","ground_truth":"Paris"}` + "\n"
	require.NoError(t, os.WriteFile(dataPath, []byte(lines), 0o600))

	confPath := filepath.Join(dir, "eval.yaml")
	conf := fmt.Sprintf("name: cli-test\ndata: %s\nevaluators:\n  exact: exact_match\n", dataPath)
	require.NoError(t, os.WriteFile(confPath, []byte(conf), 0o600))

	outDir := filepath.Join(dir, "results")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	dotPath := filepath.Join(dir, "evaluation.gv")

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"run", "-c", confPath, "--output", outDir, "--draw", dotPath})

	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "rows: 2")
	assert.Contains(t, out.String(), "exact.exact_match: 0.5")

	_, err := os.Stat(filepath.Join(outDir, "evaluation_results.json"))
	require.NoError(t, err)

	graph, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	assert.Contains(t, string(graph), `"evaluator.exact"`)
}

func TestRunCommandUnknownEvaluator(t *testing.T) {
	resetRunFlags()

	dir := t.TempDir()

	dataPath := filepath.Join(dir, "data.jsonl")
	require.NoError(t, os.WriteFile(dataPath, []byte(`{"answer":"Paris"}`+"\n"), 0o600))

	confPath := filepath.Join(dir, "eval.yaml")
	conf := fmt.Sprintf("data: %s\nevaluators:\n  exact: no_such_evaluator\n", dataPath)
	require.NoError(t, os.WriteFile(confPath, []byte(conf), 0o600))

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"run", "-c", confPath})

	err := rootCmd.Execute()
	require.ErrorContains(t, err, "unknown evaluator no_such_evaluator")
}
