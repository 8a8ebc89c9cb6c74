// Package save persists a player's progression as a JSON snapshot in a
// single-row-per-player table, on SQLite or PostgreSQL.
package save

import (
	"strings"

	"github.com/hollowmoor/duskmud/internal/campaign"
	"github.com/hollowmoor/duskmud/internal/player"
	"github.com/hollowmoor/duskmud/internal/quest"
	"github.com/hollowmoor/duskmud/internal/world"
)

// Snapshot is the persisted shape of a player's progression: the quest logs
// and campaign maps verbatim, plus the shared board and any quest-private
// regions so they survive a restart.
type Snapshot struct {
	PlayerName string `json:"player_name"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
	Gold       int    `json:"gold"`

	RegionID string `json:"current_region_id"`
	RoomID   string `json:"current_room_id"`

	QuestLog          map[string]*quest.Instance `json:"quest_log"`
	CompletedQuestLog map[string]*quest.Instance `json:"completed_quest_log"`

	ActiveCampaigns    map[string]*campaign.Progress  `json:"active_campaigns"`
	CompletedCampaigns map[string]*campaign.Completed `json:"completed_campaigns"`

	QuestBoard []*quest.Instance `json:"quest_board"`

	// GeneratedRegions holds the full room data of quest-private regions
	// referenced by the logs above, keyed by region ID.
	GeneratedRegions map[string]*world.Region `json:"generated_regions,omitempty"`
}

// Capture builds a snapshot of the player, the board, and every quest-private
// region referenced by an active quest.
func Capture(p *player.Player, board []*quest.Instance, w *world.World) *Snapshot {
	regionID, roomID := p.Location()
	snap := &Snapshot{
		PlayerName:         p.Name(),
		Level:              p.Level(),
		Experience:         p.Experience(),
		Gold:               p.Gold(),
		RegionID:           regionID,
		RoomID:             roomID,
		QuestLog:           p.QuestLog(),
		CompletedQuestLog:  p.CompletedQuestLog(),
		ActiveCampaigns:    p.ActiveCampaigns(),
		CompletedCampaigns: p.CompletedCampaigns(),
		QuestBoard:         board,
		GeneratedRegions:   map[string]*world.Region{},
	}

	capture := func(regionID string) {
		if regionID == "" {
			return
		}
		if rg := w.GetRegion(regionID); rg != nil {
			snap.GeneratedRegions[regionID] = rg
		}
	}
	for _, q := range p.QuestLog() {
		capture(q.InstanceRegionID)
		for _, id := range q.GeneratedRegionIDs {
			capture(id)
		}
	}
	return snap
}

// Restore applies a snapshot: player state, quest logs, campaign maps, the
// board, and the quest-private regions are put back where Capture found them.
func Restore(snap *Snapshot, p *player.Player, m *quest.Manager, w *world.World) {
	if snap == nil {
		return
	}

	p.SetLevel(snap.Level)
	p.GainExperience(snap.Experience)
	p.AddGold(snap.Gold)
	if snap.RegionID != "" {
		p.MoveTo(snap.RegionID, snap.RoomID)
	}

	restoreMap(p.QuestLog(), snap.QuestLog)
	restoreMap(p.CompletedQuestLog(), snap.CompletedQuestLog)
	restoreMap(p.ActiveCampaigns(), snap.ActiveCampaigns)
	restoreMap(p.CompletedCampaigns(), snap.CompletedCampaigns)

	m.RestoreBoard(snap.QuestBoard)
	for _, rg := range snap.GeneratedRegions {
		w.AddRegion(rg)
	}
}

func restoreMap[V any](dst, src map[string]V) {
	for k := range dst {
		delete(dst, k)
	}
	for k, v := range src {
		dst[k] = v
	}
}

// normalizeName keys snapshots case-insensitively across both backends.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
