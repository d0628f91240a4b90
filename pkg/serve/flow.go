package serve

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// LanguagePython marks a flow served by a python script.
	LanguagePython = "python"
	// LanguageCSharp marks a flow served by the dotnet executor service.
	LanguageCSharp = "csharp"
)

var flowFileNames = []string{"flow.yaml", "flow.yml"}

type flowManifest struct {
	Language string `yaml:"language"`
	Entry    string `yaml:"entry"`
}

// resolveFlowPath normalises a flow source into its directory and
// manifest file name. A directory must contain flow.yaml or flow.yml.
func resolveFlowPath(source string) (string, string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return "", "", errors.Wrapf(err, "unable to resolve flow %s", source)
	}

	if !info.IsDir() {
		return filepath.Dir(source), filepath.Base(source), nil
	}

	for _, name := range flowFileNames {
		_, err := os.Stat(filepath.Join(source, name))
		if err == nil {
			return source, name, nil
		}
	}

	return "", "", errors.Errorf("no flow manifest found in %s", source)
}

// readManifest parses a flow manifest. A missing language defaults to
// python.
func readManifest(path string) (*flowManifest, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read flow manifest %s", path)
	}

	manifest := &flowManifest{}

	err = yaml.Unmarshal(payload, manifest)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse flow manifest %s", path)
	}

	if manifest.Language == "" {
		manifest.Language = LanguagePython
	}

	return manifest, nil
}
