package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Missing file should not be an error: %v", err)
	}
	if cfg.MaxQuestsOnBoard != 5 || cfg.QuestLevelRange != 3 {
		t.Errorf("Defaults wrong: %+v", cfg)
	}
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
max_quests_on_board: 8
reward_base_xp: 75
logging:
  level: DEBUG
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MaxQuestsOnBoard != 8 {
		t.Errorf("Override lost: %d", cfg.MaxQuestsOnBoard)
	}
	if cfg.RewardBaseXP != 75 {
		t.Errorf("Override lost: %d", cfg.RewardBaseXP)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Logging override lost: %q", cfg.Logging.Level)
	}
	// Untouched keys keep their defaults.
	if cfg.QuestLevelRange != 3 || cfg.RewardBaseGold != 10 {
		t.Errorf("Defaults clobbered: %+v", cfg)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("max_quests_on_board: [not an int"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err == nil {
		t.Error("Expected a parse error")
	}
	if cfg == nil || cfg.MaxQuestsOnBoard != 5 {
		t.Error("Malformed config should still yield usable defaults")
	}
}
