package quest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hollowmoor/duskmud/internal/logger"
	"gopkg.in/yaml.v3"
)

// questsConfig represents the quests YAML structure.
type questsConfig struct {
	Quests map[string]*Template `yaml:"quests"`
}

// LoadTemplatesFromYAML loads quest templates from a single YAML file and
// normalizes legacy single-objective quests into one-stage quests.
func LoadTemplatesFromYAML(filename string) (map[string]*Template, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read quests file: %w", err)
	}

	var config questsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse quests YAML: %w", err)
	}

	templates := make(map[string]*Template, len(config.Quests))
	for id, tmpl := range config.Quests {
		if tmpl == nil {
			continue
		}
		tmpl.ID = id
		if err := normalizeTemplate(tmpl); err != nil {
			logger.Warning("Skipping invalid quest template", "quest", id, "error", err)
			continue
		}
		templates[id] = tmpl
	}

	logger.Info("Loaded quest templates", "file", filepath.Base(filename), "count", len(templates))
	return templates, nil
}

// LoadTemplatesFromDirectory loads every .yaml/.yml quest file in a
// directory, merging them into one template table. Later files win on
// duplicate IDs.
func LoadTemplatesFromDirectory(dir string) (map[string]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read quests directory: %w", err)
	}

	templates := make(map[string]*Template)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		loaded, err := LoadTemplatesFromYAML(filepath.Join(dir, name))
		if err != nil {
			logger.Error("Failed to load quest file", "file", name, "error", err)
			continue
		}
		for id, tmpl := range loaded {
			if _, exists := templates[id]; exists {
				logger.Warning("Duplicate quest template ID", "quest", id, "file", name)
			}
			templates[id] = tmpl
		}
	}
	return templates, nil
}

// normalizeTemplate folds the legacy single-objective form into a one-stage
// quest and validates the result has at least one stage.
func normalizeTemplate(tmpl *Template) error {
	if tmpl.Objective != nil {
		if len(tmpl.Stages) > 0 {
			return fmt.Errorf("quest declares both objective and stages")
		}
		tmpl.Stages = []StageTemplate{{
			Description: tmpl.Description,
			Objective:   *tmpl.Objective,
		}}
		tmpl.Objective = nil
	}
	if len(tmpl.Stages) == 0 {
		return fmt.Errorf("quest has no stages")
	}
	for i := range tmpl.Stages {
		if tmpl.Stages[i].Objective.Type == "" {
			return fmt.Errorf("stage %d has no objective type", i)
		}
	}
	return nil
}
