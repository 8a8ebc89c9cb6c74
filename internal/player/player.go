// Package player provides the concrete player the quest and campaign systems
// operate on. The systems themselves only see the narrow interfaces they
// declare; this type satisfies both.
package player

import (
	"sync"

	"github.com/hollowmoor/duskmud/internal/campaign"
	"github.com/hollowmoor/duskmud/internal/items"
	"github.com/hollowmoor/duskmud/internal/quest"
)

// Player holds a character's quest-facing state.
type Player struct {
	mu sync.RWMutex

	name       string
	level      int
	experience int
	gold       int

	currentRegionID string
	currentRoomID   string

	inventory *items.Inventory

	questLog          map[string]*quest.Instance
	completedQuestLog map[string]*quest.Instance

	activeCampaigns    map[string]*campaign.Progress
	completedCampaigns map[string]*campaign.Completed
}

// New creates a player at the given level.
func New(name string, level int) *Player {
	if level < 1 {
		level = 1
	}
	return &Player{
		name:               name,
		level:              level,
		inventory:          items.NewInventory(),
		questLog:           make(map[string]*quest.Instance),
		completedQuestLog:  make(map[string]*quest.Instance),
		activeCampaigns:    make(map[string]*campaign.Progress),
		completedCampaigns: make(map[string]*campaign.Completed),
	}
}

// Name returns the player's name.
func (p *Player) Name() string { return p.name }

// Level returns the player's level.
func (p *Player) Level() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

// SetLevel sets the player's level, used when loading a saved game.
func (p *Player) SetLevel(level int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if level >= 1 {
		p.level = level
	}
}

// Location returns the player's current region and room.
func (p *Player) Location() (string, string) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentRegionID, p.currentRoomID
}

// MoveTo places the player at a location. Callers follow up with the quest
// manager's HandleRoomEntry to fire location-based quest logic.
func (p *Player) MoveTo(regionID, roomID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentRegionID = regionID
	p.currentRoomID = roomID
}

// Inventory returns the player's inventory.
func (p *Player) Inventory() *items.Inventory { return p.inventory }

// GainExperience adds experience. Accumulation is unbounded; leveling rules
// live outside the quest core.
func (p *Player) GainExperience(xp int) {
	if xp <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.experience += xp
}

// Experience returns the accumulated experience.
func (p *Player) Experience() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.experience
}

// AddGold adds to the player's purse.
func (p *Player) AddGold(amount int) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gold += amount
}

// Gold returns the player's gold.
func (p *Player) Gold() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gold
}

// QuestLog returns the active quest map, keyed by instance ID.
func (p *Player) QuestLog() map[string]*quest.Instance { return p.questLog }

// CompletedQuestLog returns the completed quest map.
func (p *Player) CompletedQuestLog() map[string]*quest.Instance { return p.completedQuestLog }

// ActiveCampaigns returns the active campaign progress map.
func (p *Player) ActiveCampaigns() map[string]*campaign.Progress { return p.activeCampaigns }

// CompletedCampaigns returns the completed campaign map.
func (p *Player) CompletedCampaigns() map[string]*campaign.Completed { return p.completedCampaigns }
