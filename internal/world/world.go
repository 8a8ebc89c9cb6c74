// Package world holds the shared game state the quest and campaign systems
// operate on: regions and their room graphs, live NPCs, and the static NPC
// and item template tables.
package world

import (
	"sync"

	"github.com/hollowmoor/duskmud/internal/items"
	"github.com/hollowmoor/duskmud/internal/logger"
	"github.com/hollowmoor/duskmud/internal/npc"
)

// World is the single game context passed to the quest, campaign, and region
// components at construction time. There is no ambient global state.
type World struct {
	mu sync.RWMutex

	regions       map[string]*Region
	npcs          map[string]*npc.NPC
	npcTemplates  map[string]*npc.Template
	itemTemplates map[string]items.Template
	safeRegions   map[string]bool
}

// New creates an empty world.
func New() *World {
	return &World{
		regions:       make(map[string]*Region),
		npcs:          make(map[string]*npc.NPC),
		npcTemplates:  make(map[string]*npc.Template),
		itemTemplates: make(map[string]items.Template),
		safeRegions:   make(map[string]bool),
	}
}

// SetNPCTemplates installs the static NPC template table.
func (w *World) SetNPCTemplates(templates map[string]*npc.Template) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.npcTemplates = templates
}

// NPCTemplates returns the static NPC template table.
func (w *World) NPCTemplates() map[string]*npc.Template {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.npcTemplates
}

// NPCTemplate returns one NPC template, or nil.
func (w *World) NPCTemplate(templateID string) *npc.Template {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.npcTemplates[templateID]
}

// SetItemTemplates installs the static item template table.
func (w *World) SetItemTemplates(templates map[string]items.Template) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.itemTemplates = templates
}

// ItemTemplates returns the static item template table.
func (w *World) ItemTemplates() map[string]items.Template {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.itemTemplates
}

// AddRegion registers a region under its ID.
func (w *World) AddRegion(region *Region) {
	if region == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.regions[region.ID] = region
}

// GetRegion returns a region by ID, or nil.
func (w *World) GetRegion(regionID string) *Region {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.regions[regionID]
}

// Regions returns a snapshot of the region map.
func (w *World) Regions() map[string]*Region {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make(map[string]*Region, len(w.regions))
	for id, rg := range w.regions {
		out[id] = rg
	}
	return out
}

// RemoveRegion deletes a region.
func (w *World) RemoveRegion(regionID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.regions, regionID)
}

// AddNPC registers a live NPC.
func (w *World) AddNPC(n *npc.NPC) {
	if n == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.npcs[n.InstanceID] = n
}

// GetNPC returns a live NPC by instance ID, or nil.
func (w *World) GetNPC(instanceID string) *npc.NPC {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.npcs[instanceID]
}

// RemoveNPC deletes an NPC from the world.
func (w *World) RemoveNPC(instanceID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.npcs, instanceID)
}

// NPCs returns a snapshot of the live NPC list.
func (w *World) NPCs() []*npc.NPC {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*npc.NPC, 0, len(w.npcs))
	for _, n := range w.npcs {
		out = append(out, n)
	}
	return out
}

// CountLivingByTemplate counts living NPCs of the given template within a
// region. Used by clear-region objective sweeps.
func (w *World) CountLivingByTemplate(regionID, templateID string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	count := 0
	for _, n := range w.npcs {
		if n.IsAlive() && n.TemplateID == templateID {
			if rid, _ := n.Location(); rid == regionID {
				count++
			}
		}
	}
	return count
}

// MarkRegionSafe flags a region as a safe zone.
func (w *World) MarkRegionSafe(regionID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.safeRegions[regionID] = true
}

// IsLocationSafe reports whether the region is a safe zone.
func (w *World) IsLocationSafe(regionID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.safeRegions[regionID]
}

// IsLocationOutdoors reports whether a room is outdoors. Missing locations
// are not outdoors.
func (w *World) IsLocationOutdoors(regionID, roomID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	rg := w.regions[regionID]
	if rg == nil {
		return false
	}
	room := rg.GetRoom(roomID)
	return room != nil && room.Outdoors
}

// AddItemToRoom drops an item into the given room. Returns false when the
// location does not exist.
func (w *World) AddItemToRoom(regionID, roomID string, item *items.Item) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	rg := w.regions[regionID]
	if rg == nil {
		return false
	}
	room := rg.GetRoom(roomID)
	if room == nil {
		return false
	}
	room.AddItem(item)
	return true
}

// CleanupQuestRegion tears down a quest-private region: the region itself and
// every NPC standing in it.
func (w *World) CleanupQuestRegion(regionID string) {
	if regionID == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.regions[regionID]; !ok {
		return
	}
	delete(w.regions, regionID)
	for id, n := range w.npcs {
		if rid, _ := n.Location(); rid == regionID {
			delete(w.npcs, id)
		}
	}
	logger.Debug("Tore down quest region", "region", regionID)
}
