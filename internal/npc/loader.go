package npc

import (
	"fmt"
	"os"

	"github.com/hollowmoor/duskmud/internal/logger"
	"gopkg.in/yaml.v3"
)

// NPCDefinition represents an NPC definition in YAML format.
type NPCDefinition struct {
	Name                 string             `yaml:"name"`
	Description          string             `yaml:"description"`
	Level                int                `yaml:"level"`
	Faction              string             `yaml:"faction"`
	LootTable            map[string]float64 `yaml:"loot_table"`
	CanGiveGenericQuests bool               `yaml:"can_give_generic_quests"`
	QuestInterests       []string           `yaml:"quest_interests"`
}

// NPCsConfig represents the npcs.yaml structure.
type NPCsConfig struct {
	NPCs map[string]NPCDefinition `yaml:"npcs"`
}

// LoadTemplatesFromYAML loads NPC templates from a YAML file. Interest tags
// are validated against the closed tag set; unknown tags are dropped with a
// warning. fallbackInterests supplies interests for templates that declare
// none (keyed by template ID).
func LoadTemplatesFromYAML(filename string, fallbackInterests map[string][]string) (map[string]*Template, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read NPCs file: %w", err)
	}

	var config NPCsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse NPCs YAML: %w", err)
	}

	templates := make(map[string]*Template, len(config.NPCs))
	for id, def := range config.NPCs {
		raw := def.QuestInterests
		if len(raw) == 0 && fallbackInterests != nil {
			raw = fallbackInterests[id]
		}

		var interests []InterestTag
		for _, tag := range raw {
			if !ValidInterestTag(tag) {
				logger.Warning("Unknown quest interest tag dropped", "npc", id, "tag", tag)
				continue
			}
			interests = append(interests, InterestTag(tag))
		}

		templates[id] = &Template{
			ID:                   id,
			Name:                 def.Name,
			Description:          def.Description,
			Level:                def.Level,
			Faction:              def.Faction,
			LootTable:            def.LootTable,
			CanGiveGenericQuests: def.CanGiveGenericQuests,
			QuestInterests:       interests,
		}
	}

	logger.Info("Loaded NPC templates", "file", filename, "count", len(templates))
	return templates, nil
}
