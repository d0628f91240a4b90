// Package config loads the YAML evaluation description driving the CLI.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Evaluation describes one evaluation run: the dataset, the evaluators
// to score it with and how their inputs are wired. Evaluator values
// name callables registered with the CLI, keyed by the name the run
// results appear under.
type Evaluation struct {
	Name          string                       `yaml:"name"`
	Data          string                       `yaml:"data"`
	Output        string                       `yaml:"output"`
	Target        string                       `yaml:"target"`
	Workers       int                          `yaml:"workers"`
	Evaluators    map[string]string            `yaml:"evaluators"`
	ColumnMapping map[string]map[string]string `yaml:"column_mapping"`
}

// Load reads an evaluation description. The description is not
// validated here, callers may still override parts of it.
func Load(path string) (*Evaluation, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config %s", path)
	}

	cfg := &Evaluation{}

	err = yaml.Unmarshal(payload, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse config %s", path)
	}

	return cfg, nil
}

// Validate checks the description is complete enough to run.
func (e *Evaluation) Validate() error {
	if e.Data == "" {
		return errors.New("data must be set")
	}

	if len(e.Evaluators) == 0 {
		return errors.New("at least one evaluator must be set")
	}

	for runName, registered := range e.Evaluators {
		if runName == "" {
			return errors.New("evaluator run names must be set")
		}

		if registered == "" {
			return errors.Errorf("evaluator %s must name a registered evaluator", runName)
		}
	}

	if e.Workers < 0 {
		return errors.New("workers must not be negative")
	}

	return nil
}
