package items

import (
	"math/rand"

	"github.com/google/uuid"
)

// CreateFromTemplate builds a concrete item from a template. Returns nil when
// the template is unknown; callers treat that as "skip this step", never as a
// crash.
func CreateFromTemplate(templates map[string]Template, templateID string) *Item {
	tmpl, ok := templates[templateID]
	if !ok {
		return nil
	}
	return &Item{
		InstanceID:  "item_" + uuid.NewString()[:8],
		TemplateID:  tmpl.ID,
		Name:        tmpl.Name,
		Description: tmpl.Description,
		Type:        tmpl.Type,
		Value:       tmpl.Value,
		Quantity:    1,
	}
}

var lootPrefixes = []string{"Worn", "Sturdy", "Fine", "Gleaming", "Masterwork"}
var lootSuffixes = []string{"of the Fox", "of Embers", "of the Deep", "of Clarity", "of Storms"}

// GenerateLoot builds an item from a base template, scaling its value with
// level and possibly decorating its name based on the rarity roll. Rarity is
// in [0,1]; higher means better affix odds.
func GenerateLoot(templates map[string]Template, baseTemplateID string, level int, rarity float64, rng *rand.Rand) *Item {
	item := CreateFromTemplate(templates, baseTemplateID)
	if item == nil {
		return nil
	}

	chanceMod := min(0.5, float64(level)/20.0)
	affixChance := 0.2 + rarity*0.3 + chanceMod

	if rng.Float64() < affixChance {
		prefix := lootPrefixes[rng.Intn(len(lootPrefixes))]
		item.Name = prefix + " " + item.Name
		item.Value += level * 2
	}
	if rng.Float64() < affixChance {
		suffix := lootSuffixes[rng.Intn(len(lootSuffixes))]
		item.Name = item.Name + " " + suffix
		item.Value += level * 3
	}

	item.Value += level
	return item
}
