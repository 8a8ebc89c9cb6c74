package quest

import (
	"fmt"

	"github.com/hollowmoor/duskmud/internal/items"
	"github.com/hollowmoor/duskmud/internal/npc"
)

// generateKillObjective picks a hostile template within the level band around
// the player and scales the quantity with level. Returns nil when no hostile
// template qualifies.
func (g *Generator) generateKillObjective(playerLevel int, giver *npc.NPC) *KillObjective {
	var candidates []*npc.Template
	for _, tmpl := range g.world.NPCTemplates() {
		if tmpl.Faction != npc.FactionHostile {
			continue
		}
		if abs(tmpl.Level-playerLevel) > g.cfg.QuestLevelRange {
			continue
		}
		candidates = append(candidates, tmpl)
	}
	if len(candidates) == 0 {
		return nil
	}

	target := candidates[g.rng.Intn(len(candidates))]
	quantity := int(g.cfg.KillQuantityBase + float64(playerLevel)*g.cfg.KillQuantityPerLevel)
	if quantity < 1 {
		quantity = 1
	}

	return &KillObjective{
		TargetTemplateID: target.ID,
		TargetNamePlural: pluralize(target.Name),
		Required:         quantity,
		LocationHint:     g.regionNameOf(giver),
		DifficultyLevel:  target.Level,
	}
}

// regionNameOf names the region an NPC stands in, or "".
func (g *Generator) regionNameOf(n *npc.NPC) string {
	if n == nil {
		return ""
	}
	regionID, _ := n.Location()
	if rg := g.world.GetRegion(regionID); rg != nil {
		return rg.Name
	}
	return ""
}

// generateFetchObjective picks an (item, source enemy) pair from hostile loot
// tables. Key items never become fetch targets. Returns nil when no pair
// qualifies.
func (g *Generator) generateFetchObjective(playerLevel int, giver *npc.NPC) *FetchObjective {
	type pair struct {
		item  items.Template
		enemy *npc.Template
	}

	itemTemplates := g.world.ItemTemplates()
	var candidates []pair
	for _, enemy := range g.world.NPCTemplates() {
		if enemy.Faction != npc.FactionHostile || len(enemy.LootTable) == 0 {
			continue
		}
		if abs(enemy.Level-playerLevel) > g.cfg.QuestLevelRange {
			continue
		}
		for itemID := range enemy.LootTable {
			item, ok := itemTemplates[itemID]
			if !ok || item.Type == items.TypeKey {
				continue
			}
			candidates = append(candidates, pair{item: item, enemy: enemy})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	chosen := candidates[g.rng.Intn(len(candidates))]
	// Quantity scales with level but shrinks for valuable items.
	quantity := int(g.cfg.FetchQuantityBase + float64(playerLevel)*g.cfg.FetchQuantityPerLevel)
	if chosen.item.Value > 0 {
		quantity /= 1 + chosen.item.Value/25
	}
	if quantity < 1 {
		quantity = 1
	}

	return &FetchObjective{
		ItemID:                chosen.item.ID,
		ItemName:              chosen.item.Name,
		ItemNamePlural:        pluralize(chosen.item.Name),
		Required:              quantity,
		SourceEnemyNamePlural: pluralize(chosen.enemy.Name),
		LocationHint:          g.locationHintFor(chosen.enemy.ID, giver),
		DifficultyLevel:       chosen.enemy.Level,
	}
}

// generateDeliverObjective picks a living non-hostile recipient other than the
// giver and creates the package to carry. Returns nil when nobody qualifies.
func (g *Generator) generateDeliverObjective(playerLevel int, giver *npc.NPC) *DeliverObjective {
	var candidates []*npc.NPC
	for _, n := range g.world.NPCs() {
		if !n.IsAlive() || n.Faction == npc.FactionHostile {
			continue
		}
		if giver != nil && n.InstanceID == giver.InstanceID {
			continue
		}
		candidates = append(candidates, n)
	}
	if len(candidates) == 0 {
		return nil
	}

	recipient := candidates[g.rng.Intn(len(candidates))]
	regionID, _ := recipient.Location()
	location := ""
	if rg := g.world.GetRegion(regionID); rg != nil {
		location = rg.Name
	}

	itemName := fmt.Sprintf("Package for %s", recipient.Name)
	return &DeliverObjective{
		ItemTemplateID:    DeliveryItemTemplateID,
		ItemInstanceID:    fmt.Sprintf("delivery_%s", shortID()),
		ItemName:          itemName,
		ItemDescription:   fmt.Sprintf("A sealed parcel addressed to %s.", recipient.Name),
		RecipientID:       recipient.InstanceID,
		RecipientName:     recipient.Name,
		RecipientLocation: location,
		DifficultyLevel:   playerLevel,
	}
}

// DeliveryItemTemplateID is the stock item template used for generated
// delivery packages.
const DeliveryItemTemplateID = "quest_package_generic"

// locationHintFor names the region where a living NPC of the template stands,
// preferring regions other than the giver's own.
func (g *Generator) locationHintFor(templateID string, giver *npc.NPC) string {
	giverRegion := ""
	if giver != nil {
		giverRegion, _ = giver.Location()
	}

	fallback := ""
	for _, n := range g.world.NPCs() {
		if n.TemplateID != templateID || !n.IsAlive() {
			continue
		}
		regionID, _ := n.Location()
		rg := g.world.GetRegion(regionID)
		if rg == nil {
			continue
		}
		if regionID != giverRegion {
			return rg.Name
		}
		fallback = rg.Name
	}
	return fallback
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// sampleTemplateIDs picks up to n distinct entries from pool.
func sampleTemplateIDs(pool []string, n int, rng interface{ Intn(int) int }) []string {
	if n > len(pool) {
		n = len(pool)
	}
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, pool[idx[i]])
	}
	return out
}
