package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-evalflow/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "eval.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
name: qa-eval
data: data.jsonl
output: results
target: answer_flow
workers: 8
evaluators:
  exact: exact_match
  f1: f1_score
column_mapping:
  default:
    answer: ${target.answer}
  exact:
    ground_truth: ${data.truth}
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "qa-eval", cfg.Name)
	assert.Equal(t, "data.jsonl", cfg.Data)
	assert.Equal(t, "results", cfg.Output)
	assert.Equal(t, "answer_flow", cfg.Target)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, map[string]string{"exact": "exact_match", "f1": "f1_score"}, cfg.Evaluators)
	assert.Equal(t, map[string]map[string]string{
		"default": {"answer": "${target.answer}"},
		"exact":   {"ground_truth": "${data.truth}"},
	}, cfg.ColumnMapping)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(filepath.Join(t.TempDir(), "nowhere.yaml"))
		require.ErrorContains(t, err, "unable to read config")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(writeConfig(t, "data: [broken\n"))
		require.ErrorContains(t, err, "unable to parse config")
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *config.Evaluation {
		return &config.Evaluation{
			Data:       "data.jsonl",
			Evaluators: map[string]string{"exact": "exact_match"},
		}
	}

	tcs := map[string]struct {
		mutate      func(e *config.Evaluation)
		expectedErr string
	}{
		"valid": {
			mutate: func(_ *config.Evaluation) {},
		},
		"no data": {
			mutate:      func(e *config.Evaluation) { e.Data = "" },
			expectedErr: "data must be set",
		},
		"no evaluators": {
			mutate:      func(e *config.Evaluation) { e.Evaluators = nil },
			expectedErr: "at least one evaluator must be set",
		},
		"empty run name": {
			mutate:      func(e *config.Evaluation) { e.Evaluators = map[string]string{"": "exact_match"} },
			expectedErr: "run names must be set",
		},
		"empty registered name": {
			mutate:      func(e *config.Evaluation) { e.Evaluators = map[string]string{"exact": ""} },
			expectedErr: "must name a registered evaluator",
		},
		"negative workers": {
			mutate:      func(e *config.Evaluation) { e.Workers = -1 },
			expectedErr: "workers must not be negative",
		},
	}

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.expectedErr == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorContains(t, err, tc.expectedErr)
		})
	}
}
