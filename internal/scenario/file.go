// Package scenario loads what-if scenario definitions from YAML files.
package scenario

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/wapp-insights/internal/model"
)

// File is a named scenario definition as stored on disk.
type File struct {
	Name     string              `yaml:"name"`
	Scenario model.ScenarioInput `yaml:"scenario"`
}

// Load reads a scenario definition from a YAML file. Fields left unset in
// the file keep their zero values; the caller applies defaults before
// validation.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scenario: read file %s", path)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "scenario: parse file %s", path)
	}

	if f.Scenario.Role != "" {
		role, err := model.ParseRole(string(f.Scenario.Role))
		if err != nil {
			return nil, err
		}
		f.Scenario.Role = role
	}

	return &f, nil
}
