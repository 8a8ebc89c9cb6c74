package quest

import (
	"encoding/json"
	"fmt"
)

// ObjectiveKind discriminates the objective sum type.
type ObjectiveKind string

const (
	KindKill        ObjectiveKind = "kill"
	KindGroupKill   ObjectiveKind = "group_kill"
	KindFetch       ObjectiveKind = "fetch"
	KindDeliver     ObjectiveKind = "deliver"
	KindScout       ObjectiveKind = "scout"
	KindClearRegion ObjectiveKind = "clear_region"
	KindDialogue    ObjectiveKind = "dialogue_choice"
	KindEscort      ObjectiveKind = "escort"
)

// Objective is the concrete condition a stage must satisfy. Each kind is its
// own struct; consumers switch on the concrete type rather than poking at
// stringly-keyed fields.
type Objective interface {
	Kind() ObjectiveKind
}

// KillObjective requires slaying a quantity of one NPC template.
type KillObjective struct {
	TargetTemplateID string `json:"target_template_id"`
	TargetNamePlural string `json:"target_name_plural"`
	Required         int    `json:"required_quantity"`
	Current          int    `json:"current_quantity"`
	LocationHint     string `json:"location_hint,omitempty"`
	DifficultyLevel  int    `json:"difficulty_level,omitempty"`
}

func (o *KillObjective) Kind() ObjectiveKind { return KindKill }

// IsComplete reports whether the kill count has been met.
func (o *KillObjective) IsComplete() bool { return o.Current >= o.Required }

// GroupKillTarget tracks one template within a group kill.
type GroupKillTarget struct {
	Required int    `json:"required"`
	Current  int    `json:"current"`
	Name     string `json:"name"`
}

// GroupKillObjective requires slaying quantities of several NPC templates.
type GroupKillObjective struct {
	Targets map[string]*GroupKillTarget `json:"targets"`
}

func (o *GroupKillObjective) Kind() ObjectiveKind { return KindGroupKill }

// IsComplete reports whether every target count has been met.
func (o *GroupKillObjective) IsComplete() bool {
	for _, t := range o.Targets {
		if t.Current < t.Required {
			return false
		}
	}
	return true
}

// FetchObjective requires holding a quantity of an item. The current count is
// computed live from the player's inventory and never stored.
type FetchObjective struct {
	ItemID                string `json:"item_id,omitempty"`
	ItemName              string `json:"item_name"`
	ItemNamePlural        string `json:"item_name_plural,omitempty"`
	Required              int    `json:"required_quantity"`
	SourceEnemyNamePlural string `json:"source_enemy_name_plural,omitempty"`
	LocationHint          string `json:"location_hint,omitempty"`
	DifficultyLevel       int    `json:"difficulty_level,omitempty"`

	// Procedural fetch items are synthesized at instantiation time and placed
	// into the world when the stage begins.
	Procedural     bool   `json:"is_procedural_item,omitempty"`
	BaseTemplateID string `json:"base_template_id,omitempty"`
}

func (o *FetchObjective) Kind() ObjectiveKind { return KindFetch }

// DeliverObjective requires carrying an item to a recipient NPC.
type DeliverObjective struct {
	ItemTemplateID    string `json:"item_template_id"`
	ItemInstanceID    string `json:"item_instance_id"`
	ItemName          string `json:"item_to_deliver_name"`
	ItemDescription   string `json:"item_to_deliver_description,omitempty"`
	RecipientID       string `json:"recipient_instance_id"`
	RecipientName     string `json:"recipient_name"`
	RecipientLocation string `json:"recipient_location_description,omitempty"`
	DifficultyLevel   int    `json:"difficulty_level,omitempty"`
}

func (o *DeliverObjective) Kind() ObjectiveKind { return KindDeliver }

// ScoutObjective requires standing in a target room.
type ScoutObjective struct {
	TargetRegionID string `json:"target_region"`
	TargetRoomID   string `json:"target_room_id"`
	LocationHint   string `json:"location_hint,omitempty"`
}

func (o *ScoutObjective) Kind() ObjectiveKind { return KindScout }

// ClearRegionObjective is satisfied when no living NPCs of the target
// template remain in the quest's instance region.
type ClearRegionObjective struct {
	TargetTemplateID        string `json:"target_template_id"`
	CompletionNPCTemplateID string `json:"completion_npc_template_id,omitempty"`
}

func (o *ClearRegionObjective) Kind() ObjectiveKind { return KindClearRegion }

// DialogueChoice maps a player choice to the stage it branches to.
type DialogueChoice struct {
	NextStage   int    `json:"next_stage"`
	Description string `json:"description,omitempty"`
}

// DialogueObjective advances by player choice rather than world events.
type DialogueObjective struct {
	Prompt  string                    `json:"prompt,omitempty"`
	Choices map[string]DialogueChoice `json:"choices"`
}

func (o *DialogueObjective) Kind() ObjectiveKind { return KindDialogue }

// EscortObjective spawns a protected NPC that must reach safety.
type EscortObjective struct {
	SpawnTemplateID string `json:"spawn_template_id"`
	SpawnName       string `json:"spawn_name,omitempty"`
	SpawnRegionID   string `json:"spawn_region_id"`
	SpawnRoomID     string `json:"spawn_room_id"`
	TargetNPCID     string `json:"target_npc_instance_id,omitempty"`
}

func (o *EscortObjective) Kind() ObjectiveKind { return KindEscort }

// objectiveEnvelope is the persisted form of an Objective.
type objectiveEnvelope struct {
	Kind ObjectiveKind   `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// MarshalObjective serializes an objective with its kind tag.
func MarshalObjective(o Objective) ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	data, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return json.Marshal(objectiveEnvelope{Kind: o.Kind(), Data: data})
}

// UnmarshalObjective restores an objective from its tagged form.
func UnmarshalObjective(b []byte) (Objective, error) {
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	var env objectiveEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}

	var o Objective
	switch env.Kind {
	case KindKill:
		o = &KillObjective{}
	case KindGroupKill:
		o = &GroupKillObjective{}
	case KindFetch:
		o = &FetchObjective{}
	case KindDeliver:
		o = &DeliverObjective{}
	case KindScout:
		o = &ScoutObjective{}
	case KindClearRegion:
		o = &ClearRegionObjective{}
	case KindDialogue:
		o = &DialogueObjective{}
	case KindEscort:
		o = &EscortObjective{}
	default:
		return nil, fmt.Errorf("unknown objective kind %q", env.Kind)
	}
	if err := json.Unmarshal(env.Data, o); err != nil {
		return nil, err
	}
	return o, nil
}
