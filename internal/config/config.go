package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// QuestType identifies a quest generation flavor.
type QuestType string

const (
	QuestTypeKill     QuestType = "kill"
	QuestTypeFetch    QuestType = "fetch"
	QuestTypeDeliver  QuestType = "deliver"
	QuestTypeInstance QuestType = "instance"
	QuestTypeSaga     QuestType = "saga"
)

// QuestTypesAll are the types the board generator draws from.
var QuestTypesAll = []QuestType{QuestTypeKill, QuestTypeFetch, QuestTypeDeliver, QuestTypeInstance}

// QuestTypesNonInstance are the ad-hoc generated types.
var QuestTypesNonInstance = []QuestType{QuestTypeKill, QuestTypeFetch, QuestTypeDeliver}

// Config holds all quest system tuning values. Nothing in the quest or region
// packages hardcodes a balance constant; it all flows from here.
type Config struct {
	// MaxQuestsOnBoard is the ceiling for the shared quest board.
	MaxQuestsOnBoard int `yaml:"max_quests_on_board"`

	// QuestLevelRange bounds generated targets to player level +/- this value.
	QuestLevelRange int `yaml:"quest_level_range"`

	// Reward scaling.
	RewardBaseXP          int `yaml:"reward_base_xp"`
	RewardXPPerLevel      int `yaml:"reward_xp_per_level"`
	RewardXPPerQuantity   int `yaml:"reward_xp_per_quantity"`
	RewardBaseGold        int `yaml:"reward_base_gold"`
	RewardGoldPerLevel    int `yaml:"reward_gold_per_level"`
	RewardGoldPerQuantity int `yaml:"reward_gold_per_quantity"`

	// Objective quantity scaling.
	KillQuantityBase      float64 `yaml:"kill_quest_quantity_base"`
	KillQuantityPerLevel  float64 `yaml:"kill_quest_quantity_per_level"`
	FetchQuantityBase     float64 `yaml:"fetch_quest_quantity_base"`
	FetchQuantityPerLevel float64 `yaml:"fetch_quest_quantity_per_level"`

	// NPCQuestInterests maps an NPC template ID to the quest types it offers.
	// Used as a fallback when the template itself declares no interests.
	NPCQuestInterests map[string][]string `yaml:"npc_quest_interests"`

	// Logging configuration is loaded alongside quest tuning so a single file
	// configures the engine.
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig mirrors logger.Config so the logger package stays free of
// YAML-loading concerns.
type LoggingConfig struct {
	Level          string `yaml:"level"`
	ConsoleEnabled bool   `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"`
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
}

// DefaultConfig returns the baseline tuning values.
func DefaultConfig() *Config {
	return &Config{
		MaxQuestsOnBoard:      5,
		QuestLevelRange:       3,
		RewardBaseXP:          50,
		RewardXPPerLevel:      15,
		RewardXPPerQuantity:   5,
		RewardBaseGold:        10,
		RewardGoldPerLevel:    5,
		RewardGoldPerQuantity: 2,
		KillQuantityBase:      3,
		KillQuantityPerLevel:  0.5,
		FetchQuantityBase:     5,
		FetchQuantityPerLevel: 1,
		NPCQuestInterests: map[string][]string{
			"blacksmith":    {"kill", "deliver", "fetch"},
			"tavern_keeper": {"kill", "deliver", "fetch"},
			"merchant":      {"kill", "deliver", "fetch"},
			"village_elder": {"kill", "deliver", "fetch"},
			"guard":         {"kill", "deliver"},
			"villager":      {"kill", "deliver", "fetch"},
		},
		Logging: LoggingConfig{
			Level:          "INFO",
			ConsoleEnabled: true,
			ConsoleFormat:  "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file, overlaying it onto the
// defaults. A missing file is not an error; defaults are returned.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return config, nil
}
