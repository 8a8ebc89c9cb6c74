package campaign

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hollowmoor/duskmud/internal/logger"
	"gopkg.in/yaml.v3"
)

// campaignsConfig represents the campaigns YAML structure.
type campaignsConfig struct {
	Campaigns map[string]*Definition `yaml:"campaigns"`
}

// LoadCampaignsFromYAML loads campaign definitions from a single YAML file.
// Malformed campaigns are skipped with a warning rather than failing the
// whole file.
func LoadCampaignsFromYAML(filename string) (map[string]*Definition, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read campaigns file: %w", err)
	}

	var config campaignsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse campaigns YAML: %w", err)
	}

	defs := make(map[string]*Definition, len(config.Campaigns))
	for id, def := range config.Campaigns {
		if def == nil {
			continue
		}
		def.ID = id
		if err := normalizeDefinition(def); err != nil {
			logger.Warning("Skipping invalid campaign", "campaign", id, "error", err)
			continue
		}
		defs[id] = def
	}

	logger.Info("Loaded campaigns", "file", filepath.Base(filename), "count", len(defs))
	return defs, nil
}

// LoadCampaignsFromDirectory loads every .yaml/.yml campaign file in a
// directory, merging them into one table.
func LoadCampaignsFromDirectory(dir string) (map[string]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read campaigns directory: %w", err)
	}

	defs := make(map[string]*Definition)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		loaded, err := LoadCampaignsFromYAML(filepath.Join(dir, name))
		if err != nil {
			logger.Error("Failed to load campaign file", "file", name, "error", err)
			continue
		}
		for id, def := range loaded {
			if _, exists := defs[id]; exists {
				logger.Warning("Duplicate campaign ID", "campaign", id, "file", name)
			}
			defs[id] = def
		}
	}
	return defs, nil
}

// normalizeDefinition validates the graph shape and applies defaults: node
// IDs come from map keys, and an unset transition chance means certain.
func normalizeDefinition(def *Definition) error {
	if len(def.Nodes) == 0 {
		return fmt.Errorf("campaign has no nodes")
	}
	if def.StartNode == "" {
		return fmt.Errorf("campaign has no start_node")
	}
	if _, ok := def.Nodes[def.StartNode]; !ok {
		return fmt.Errorf("start_node %q does not exist", def.StartNode)
	}

	for id, node := range def.Nodes {
		if node == nil {
			return fmt.Errorf("node %q is empty", id)
		}
		node.ID = id
		if node.Type == NodeQuest && node.QuestTemplateID == "" {
			return fmt.Errorf("quest node %q has no quest_template_id", id)
		}
		for i := range node.Transitions {
			tr := &node.Transitions[i]
			if tr.Chance <= 0 {
				tr.Chance = 1.0
			}
			if _, ok := def.Nodes[tr.TargetNode]; !ok {
				return fmt.Errorf("node %q transition %d targets unknown node %q", id, i, tr.TargetNode)
			}
		}
	}
	return nil
}
