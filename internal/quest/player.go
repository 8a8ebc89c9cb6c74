// Package quest implements quest generation, the shared quest board, the
// per-player quest lifecycle, and progress tracking against world events.
package quest

import (
	"github.com/hollowmoor/duskmud/internal/items"
)

// Player is the view of a player the quest system needs. The concrete player
// type lives elsewhere; the quest packages never import it.
type Player interface {
	Name() string
	Level() int
	Location() (regionID, roomID string)
	Inventory() *items.Inventory

	GainExperience(xp int)
	AddGold(amount int)

	// QuestLog and CompletedQuestLog expose the player's quest state keyed by
	// instance ID. The maps are owned by the player; the manager mutates them.
	QuestLog() map[string]*Instance
	CompletedQuestLog() map[string]*Instance
}

// CampaignResolver receives quest completions that carry campaign context and
// returns narrative text describing what happens next. It exists so the quest
// package never imports the campaign package.
type CampaignResolver interface {
	HandleQuestCompletion(campaignID, nodeID, resolution string, p Player) string
}
