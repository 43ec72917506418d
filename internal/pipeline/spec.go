package pipeline

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stage names, in their fixed order.
const (
	StageLearningPath    = "learning_path"
	StageProgressSummary = "progress_summary"
	StageSchedule        = "schedule"
	StageAdaptive        = "adaptive_analysis"
)

const pipelineName = "coach"

//go:embed stages.yaml
var stageFS embed.FS

// fallbackStageOrder is used when the stage file is missing or invalid.
var fallbackStageOrder = []string{StageLearningPath, StageProgressSummary, StageSchedule, StageAdaptive}

type yamlPipelineSpec struct {
	Pipeline string          `yaml:"pipeline"`
	Version  int             `yaml:"version"`
	Stages   []yamlStageSpec `yaml:"stages"`
}

type yamlStageSpec struct {
	Name    string `yaml:"name"`
	Enabled *bool  `yaml:"enabled"`
}

// readStageFile returns the stage file at path, or the embedded one when
// path is empty.
func readStageFile(path string) ([]byte, error) {
	if path = strings.TrimSpace(path); path != "" {
		return os.ReadFile(path)
	}
	return stageFS.ReadFile("stages.yaml")
}

// parseStageOrder returns the enabled stages of a stage file. Stages must
// be known, unique and in their fixed relative order.
func parseStageOrder(data []byte) ([]string, error) {
	var spec yamlPipelineSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	if strings.TrimSpace(spec.Pipeline) != pipelineName {
		return nil, fmt.Errorf("unexpected pipeline: %q", spec.Pipeline)
	}
	if len(spec.Stages) == 0 {
		return nil, errors.New("no stages defined")
	}

	seen := map[string]bool{}
	last := -1
	order := make([]string, 0, len(spec.Stages))
	for _, stage := range spec.Stages {
		name := strings.TrimSpace(stage.Name)
		if name == "" {
			return nil, errors.New("stage name is required")
		}
		idx := slices.Index(fallbackStageOrder, name)
		if idx < 0 {
			return nil, fmt.Errorf("unknown stage: %s", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate stage name: %s", name)
		}
		seen[name] = true
		if idx < last {
			return nil, fmt.Errorf("stage %s appears out of order", name)
		}
		last = idx
		if stage.Enabled != nil && !*stage.Enabled {
			continue
		}
		order = append(order, name)
	}
	return order, nil
}
