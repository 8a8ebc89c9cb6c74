package quest

import (
	"encoding/json"

	"github.com/hollowmoor/duskmud/internal/items"
)

// State is the lifecycle state of a quest instance.
type State string

const (
	StateAvailable       State = "available"
	StateActive          State = "active"
	StateReadyToComplete State = "ready_to_complete"
	StateCompleted       State = "completed"
)

// RewardItem is a fixed item grant resolved against the item templates when
// the quest completes.
type RewardItem struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Rewards is what a completed quest grants.
type Rewards struct {
	XP            int         `json:"xp"`
	Gold          int         `json:"gold"`
	Items         []RewardItem `json:"items,omitempty"`
	GeneratedItem *items.Item  `json:"generated_item,omitempty"`
}

// CampaignContext links a quest instance back to the campaign node that
// started it. Empty for standalone quests.
type CampaignContext struct {
	CampaignID string `json:"campaign_id"`
	NodeID     string `json:"node_id"`
}

// EntryPoint is where an instance quest's private region attaches to the
// persistent world.
type EntryPoint struct {
	RegionID    string `json:"region_id"`
	RoomID      string `json:"room_id"`
	ExitCommand string `json:"exit_command,omitempty"`
	Description string `json:"description_when_visible,omitempty"`
}

// MetaInstanceData carries the generation parameters of an instance quest so
// its private region can be materialized on accept.
type MetaInstanceData struct {
	Layout          *LayoutConfig `json:"layout,omitempty"`
	EntryPoint      *EntryPoint   `json:"entry_point,omitempty"`
	GiverTemplateID string        `json:"giver_template_id,omitempty"`
}

// Stage is one live step of a quest instance.
type Stage struct {
	Index       int       `json:"index"`
	Description string    `json:"description"`
	Objective   Objective `json:"-"`
	TurnInID    string    `json:"turn_in_id,omitempty"`

	StartDialogue      string `json:"start_dialogue,omitempty"`
	CompletionDialogue string `json:"completion_dialogue,omitempty"`

	SpawnOnEntry     *SpawnDirective `json:"spawn_on_entry,omitempty"`
	SpawnOnStart     *SpawnDirective `json:"spawn_on_start,omitempty"`
	SpawnOnEntryDone bool            `json:"spawn_on_entry_done,omitempty"`
}

// stageJSON is the persisted form of Stage; the objective rides in its
// tagged envelope.
type stageJSON struct {
	Index              int             `json:"index"`
	Description        string          `json:"description"`
	Objective          json.RawMessage `json:"objective,omitempty"`
	TurnInID           string          `json:"turn_in_id,omitempty"`
	StartDialogue      string          `json:"start_dialogue,omitempty"`
	CompletionDialogue string          `json:"completion_dialogue,omitempty"`
	SpawnOnEntry       *SpawnDirective `json:"spawn_on_entry,omitempty"`
	SpawnOnStart       *SpawnDirective `json:"spawn_on_start,omitempty"`
	SpawnOnEntryDone   bool            `json:"spawn_on_entry_done,omitempty"`
}

func (s *Stage) MarshalJSON() ([]byte, error) {
	obj, err := MarshalObjective(s.Objective)
	if err != nil {
		return nil, err
	}
	return json.Marshal(stageJSON{
		Index:              s.Index,
		Description:        s.Description,
		Objective:          obj,
		TurnInID:           s.TurnInID,
		StartDialogue:      s.StartDialogue,
		CompletionDialogue: s.CompletionDialogue,
		SpawnOnEntry:       s.SpawnOnEntry,
		SpawnOnStart:       s.SpawnOnStart,
		SpawnOnEntryDone:   s.SpawnOnEntryDone,
	})
}

func (s *Stage) UnmarshalJSON(b []byte) error {
	var raw stageJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	obj, err := UnmarshalObjective(raw.Objective)
	if err != nil {
		return err
	}
	s.Index = raw.Index
	s.Description = raw.Description
	s.Objective = obj
	s.TurnInID = raw.TurnInID
	s.StartDialogue = raw.StartDialogue
	s.CompletionDialogue = raw.CompletionDialogue
	s.SpawnOnEntry = raw.SpawnOnEntry
	s.SpawnOnStart = raw.SpawnOnStart
	s.SpawnOnEntryDone = raw.SpawnOnEntryDone
	return nil
}

// Instance is a live quest held on the board or in a player's log.
type Instance struct {
	InstanceID string `json:"instance_id"`
	TemplateID string `json:"template_id"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	State      State  `json:"state"`

	// GiverInstanceID is the NPC (or quest_board) the quest came from.
	// TemporaryGiver marks givers spawned just for this quest; they despawn
	// when the quest resolves.
	GiverInstanceID string `json:"giver_instance_id"`
	TemporaryGiver  bool   `json:"temporary_giver,omitempty"`

	CurrentStageIndex int      `json:"current_stage_index"`
	Stages            []*Stage `json:"stages"`

	Rewards         Rewards          `json:"rewards"`
	CampaignContext *CampaignContext `json:"campaign_context,omitempty"`
	Meta            *MetaInstanceData `json:"meta,omitempty"`

	// GeneratedRegionIDs are the procedural regions created at instantiation;
	// InstanceRegionID is the private region of an instance quest once
	// materialized. All are torn down on completion.
	GeneratedRegionIDs []string `json:"generated_region_ids,omitempty"`
	InstanceRegionID   string   `json:"instance_region_id,omitempty"`

	// CompletionCheckEnabled gates the clear-region sweep until the player has
	// actually entered the instance region.
	CompletionCheckEnabled bool `json:"completion_check_enabled,omitempty"`
}

// CurrentStage returns the active stage, or nil when the index is out of
// range.
func (q *Instance) CurrentStage() *Stage {
	if q.CurrentStageIndex < 0 || q.CurrentStageIndex >= len(q.Stages) {
		return nil
	}
	return q.Stages[q.CurrentStageIndex]
}

// CurrentObjective returns the active stage's objective, or nil.
func (q *Instance) CurrentObjective() Objective {
	stage := q.CurrentStage()
	if stage == nil {
		return nil
	}
	return stage.Objective
}

// IsFinalStage reports whether the active stage is the last one.
func (q *Instance) IsFinalStage() bool {
	return q.CurrentStageIndex == len(q.Stages)-1
}
