package region

import (
	"fmt"
	"os"
	"strings"

	"github.com/hollowmoor/duskmud/internal/world"
	"gopkg.in/yaml.v3"
)

// ThemeDefinition represents one generation theme in YAML format.
type ThemeDefinition struct {
	Description      string               `yaml:"description"`
	NameTemplates    []string             `yaml:"name_templates"`
	RoomNames        []string             `yaml:"room_names"`
	RoomDescriptions []string             `yaml:"room_descriptions"`
	Spawner          *world.SpawnerConfig `yaml:"spawner"`
}

// ThemeConfig represents the themes.yaml structure: named themes plus a
// shared placeholder word list keyed by category.
type ThemeConfig struct {
	Themes       map[string]ThemeDefinition `yaml:"themes"`
	Placeholders map[string][]string        `yaml:"placeholders"`
}

// LoadThemesFromYAML loads region generation themes from a YAML file.
func LoadThemesFromYAML(filename string) (*ThemeConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read themes file: %w", err)
	}

	var config ThemeConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse themes YAML: %w", err)
	}

	if config.Themes == nil {
		config.Themes = make(map[string]ThemeDefinition)
	}
	if config.Placeholders == nil {
		config.Placeholders = make(map[string][]string)
	}
	return &config, nil
}

// DefaultThemes returns a built-in theme set so the generator works without a
// data directory. File-loaded themes take the same shape.
func DefaultThemes() *ThemeConfig {
	return &ThemeConfig{
		Themes: map[string]ThemeDefinition{
			"caves": {
				Description:   "A winding network of natural caverns.",
				NameTemplates: []string{"The {Adjective} Caves", "Caverns of {Noun}"},
				RoomNames: []string{
					"Narrow Passage", "Dripping Grotto", "Fungal Hollow",
					"Collapsed Gallery", "Echoing Chamber",
				},
				RoomDescriptions: []string{
					"Water drips from the {adjective} ceiling.",
					"The air smells of damp stone and {noun}.",
					"Loose rubble shifts underfoot.",
				},
			},
			"crypt": {
				Description:   "A buried complex of burial chambers.",
				NameTemplates: []string{"The {Adjective} Crypt", "Tomb of the {Noun}"},
				RoomNames: []string{
					"Ossuary", "Burial Niche", "Sunken Vestibule", "Broken Sarcophagus Hall",
				},
				RoomDescriptions: []string{
					"Dust lies thick over {adjective} carvings.",
					"Faded murals depict the {noun}.",
				},
			},
		},
		Placeholders: map[string][]string{
			"adjective": {"forgotten", "cursed", "shining", "ancient", "broken", "whispering"},
			"noun":      {"hope", "despair", "light", "shadow", "king", "truth"},
		},
	}
}

// formatPlaceholders substitutes {Key} and {key} tokens from the placeholder
// word lists. A capitalized token gets a capitalized word.
func (g *Generator) formatPlaceholders(text string) string {
	for key, words := range g.themes.Placeholders {
		if len(words) == 0 {
			continue
		}
		upperToken := "{" + capitalize(key) + "}"
		lowerToken := "{" + strings.ToLower(key) + "}"
		if strings.Contains(text, upperToken) {
			word := words[g.rng.Intn(len(words))]
			text = strings.ReplaceAll(text, upperToken, capitalize(word))
		}
		if strings.Contains(text, lowerToken) {
			word := words[g.rng.Intn(len(words))]
			text = strings.ReplaceAll(text, lowerToken, strings.ToLower(word))
		}
	}
	return text
}

// capitalize upper-cases the first byte of an ASCII word.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
