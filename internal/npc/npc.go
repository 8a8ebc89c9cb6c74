package npc

import (
	"sync"
)

// Faction identifies which side an NPC is on. The quest system only cares
// whether a faction is hostile.
const FactionHostile = "hostile"

// InterestTag is a closed set of quest flavors an NPC template may offer.
// Unknown tags are rejected at data-load time rather than carried as loose
// strings.
type InterestTag string

const (
	InterestKill    InterestTag = "kill"
	InterestFetch   InterestTag = "fetch"
	InterestDeliver InterestTag = "deliver"
)

// ValidInterestTag reports whether s names a known interest tag.
func ValidInterestTag(s string) bool {
	switch InterestTag(s) {
	case InterestKill, InterestFetch, InterestDeliver:
		return true
	}
	return false
}

// Template is a static NPC definition.
type Template struct {
	ID          string
	Name        string
	Description string
	Level       int
	Faction     string
	// LootTable maps item template ID to drop chance (0-100).
	LootTable map[string]float64
	// CanGiveGenericQuests marks templates eligible as ad-hoc quest givers.
	CanGiveGenericQuests bool
	// QuestInterests are the quest types this template will hand out.
	QuestInterests []InterestTag
}

// HasInterest reports whether the template offers the given quest type.
func (t *Template) HasInterest(tag InterestTag) bool {
	for _, i := range t.QuestInterests {
		if i == tag {
			return true
		}
	}
	return false
}

// NPC is a live NPC instance placed in the world.
type NPC struct {
	mu sync.RWMutex

	InstanceID      string `json:"instance_id"`
	TemplateID      string `json:"template_id"`
	Name            string `json:"name"`
	Level           int    `json:"level"`
	Faction         string `json:"faction"`
	Alive           bool   `json:"alive"`
	CurrentRegionID string `json:"current_region_id"`
	CurrentRoomID   string `json:"current_room_id"`
	BehaviorType    string `json:"behavior_type,omitempty"`

	// Properties carries quest bookkeeping flags such as escort markers.
	Properties map[string]string `json:"properties,omitempty"`
}

// IsAlive reports whether the NPC is still alive.
func (n *NPC) IsAlive() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Alive
}

// Kill marks the NPC dead.
func (n *NPC) Kill() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Alive = false
}

// MoveTo places the NPC at a location.
func (n *NPC) MoveTo(regionID, roomID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.CurrentRegionID = regionID
	n.CurrentRoomID = roomID
}

// Location returns the NPC's current region and room.
func (n *NPC) Location() (string, string) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.CurrentRegionID, n.CurrentRoomID
}

// SetProperty records a quest bookkeeping flag on the NPC.
func (n *NPC) SetProperty(key, value string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Properties == nil {
		n.Properties = make(map[string]string)
	}
	n.Properties[key] = value
}

// Property reads a bookkeeping flag, returning "" when unset.
func (n *NPC) Property(key string) string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Properties[key]
}
