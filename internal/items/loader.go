package items

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemDefinition represents an item definition in YAML format.
type ItemDefinition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	Value       int    `yaml:"value"`
}

// ItemsConfig represents the items.yaml structure.
type ItemsConfig struct {
	Items map[string]ItemDefinition `yaml:"items"`
}

// LoadItemsFromYAML loads item templates from a YAML file.
func LoadItemsFromYAML(filename string) (map[string]Template, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}

	var config ItemsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse items YAML: %w", err)
	}

	templates := make(map[string]Template, len(config.Items))
	for id, def := range config.Items {
		templates[id] = Template{
			ID:          id,
			Name:        def.Name,
			Description: def.Description,
			Type:        ItemType(def.Type),
			Value:       def.Value,
		}
	}
	return templates, nil
}
