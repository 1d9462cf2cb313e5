package common

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/chris-arsenault/illuminator/internal/domain/model/narrative"
)

// briefsFile is the on-disk shape of a prep-briefs YAML file
type briefsFile struct {
	Briefs []narrative.PrepBrief `yaml:"briefs"`
}

// LoadPrepBriefs reads chronicle prep briefs from a YAML file. An empty
// path yields no briefs, which is a valid run configuration.
func LoadPrepBriefs(fs afero.Fs, path string) ([]narrative.PrepBrief, error) {
	if path == "" {
		return nil, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read briefs file: %w", err)
	}

	var f briefsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse briefs file %s: %w", path, err)
	}
	return f.Briefs, nil
}

// LoadWorldContext reads the world context from a YAML file. An empty
// path yields an empty context.
func LoadWorldContext(fs afero.Fs, path string) (narrative.WorldContext, error) {
	var world narrative.WorldContext
	if path == "" {
		return world, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return world, fmt.Errorf("failed to read world context file: %w", err)
	}

	if err := yaml.Unmarshal(data, &world); err != nil {
		return world, fmt.Errorf("failed to parse world context file %s: %w", path, err)
	}
	return world, nil
}
