package quest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Turn-in policy sentinels used in stage templates.
const (
	TurnInSameAsPrevious = "SAME_AS_PREVIOUS"
	TurnInQuestBoard     = "quest_board"
)

// TurnInConfig describes where a stage is turned in. Exactly one form is
// populated: a sentinel/explicit ID, or a pool filter sampled from living
// NPCs at instantiation time.
type TurnInConfig struct {
	// Target is SAME_AS_PREVIOUS, quest_board, or an explicit NPC instance ID.
	Target string
	// Pool filters candidate NPCs by faction and/or region.
	Pool *TurnInPool
}

// TurnInPool filters turn-in candidates.
type TurnInPool struct {
	Faction string `yaml:"npc_pool_faction"`
	Region  string `yaml:"npc_pool_region"`
}

// UnmarshalYAML accepts either a scalar target or a pool filter mapping.
func (t *TurnInConfig) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&t.Target)
	case yaml.MappingNode:
		t.Pool = &TurnInPool{}
		return value.Decode(t.Pool)
	default:
		return fmt.Errorf("turn_in must be a string or a pool mapping")
	}
}

// IsZero reports whether no turn-in policy was declared.
func (t *TurnInConfig) IsZero() bool {
	return t.Target == "" && t.Pool == nil
}

// SpawnDirective declares an NPC spawn tied to a stage.
type SpawnDirective struct {
	TemplateID   string `yaml:"template_id" json:"template_id"`
	RegionID     string `yaml:"region_id" json:"region_id"`
	RoomID       string `yaml:"room_id" json:"room_id"`
	NameOverride string `yaml:"name_override" json:"name_override,omitempty"`
	BehaviorType string `yaml:"behavior_type" json:"behavior_type,omitempty"`
}

// KillPoolConfig resolves to one concrete kill target at instantiation.
type KillPoolConfig struct {
	MonsterPool []string `yaml:"monster_pool"`
	Count       int      `yaml:"count"`
}

// GroupTargetsConfig explodes into a concrete per-template kill map.
type GroupTargetsConfig struct {
	MonsterPool       []string `yaml:"monster_pool"`
	TotalTypes        int      `yaml:"total_types"`
	CountPerTypeRange []int    `yaml:"count_per_type_range"`
}

// DialogueChoiceTemplate is the authored form of a dialogue branch.
type DialogueChoiceTemplate struct {
	NextStage   int    `yaml:"next_stage"`
	Description string `yaml:"description"`
}

// ObjectiveTemplate is the authored objective descriptor. Which fields apply
// depends on Type; instantiation resolves it into a concrete Objective.
type ObjectiveTemplate struct {
	Type string `yaml:"type"`

	// kill / clear_region / instance
	TargetTemplateID          string          `yaml:"target_template_id"`
	RequiredQuantity          int             `yaml:"required_quantity"`
	TargetConfig              *KillPoolConfig `yaml:"target_config"`
	PossibleTargetTemplateIDs []string        `yaml:"possible_target_template_ids"`
	CompletionNPCTemplateID   string          `yaml:"completion_npc_template_id"`

	// group_kill
	TargetsConfig *GroupTargetsConfig `yaml:"targets_config"`

	// fetch / fetch_procedural
	ItemID         string `yaml:"item_id"`
	BaseTemplateID string `yaml:"base_template_id"`
	NamePattern    string `yaml:"name_pattern"`

	// scout
	TargetRegion       string   `yaml:"target_region"`
	TargetRoomKeywords []string `yaml:"target_room_keywords"`

	// dialogue_choice
	Prompt  string                            `yaml:"prompt"`
	Choices map[string]DialogueChoiceTemplate `yaml:"choices"`

	// escort
	SpawnConfig *SpawnDirective `yaml:"spawn_config"`
}

// StageTemplate is one authored step of a quest.
type StageTemplate struct {
	Description        string            `yaml:"description"`
	Objective          ObjectiveTemplate `yaml:"objective"`
	TurnIn             TurnInConfig      `yaml:"turn_in"`
	SpawnOnEntry       *SpawnDirective   `yaml:"spawn_on_entry"`
	SpawnOnStart       *SpawnDirective   `yaml:"spawn_on_start"`
	StartDialogue      string            `yaml:"start_dialogue"`
	CompletionDialogue string            `yaml:"completion_dialogue"`
}

// RewardItemTemplate is a fixed item grant.
type RewardItemTemplate struct {
	ItemID   string `yaml:"item_id"`
	Quantity int    `yaml:"quantity"`
}

// RewardsTemplate is a fixed reward declaration.
type RewardsTemplate struct {
	XP    int                  `yaml:"xp"`
	Gold  int                  `yaml:"gold"`
	Items []RewardItemTemplate `yaml:"items"`
}

// GenerateItemConfig asks the loot generator for a reward item.
type GenerateItemConfig struct {
	BaseTemplateID string  `yaml:"base_template_id"`
	Level          int     `yaml:"level"`
	Rarity         float64 `yaml:"rarity"`
}

// GenerateRewardsConfig rolls rewards at instantiation time.
type GenerateRewardsConfig struct {
	GoldRange    []int               `yaml:"gold_range"`
	XPRange      []int               `yaml:"xp_range"`
	GenerateItem *GenerateItemConfig `yaml:"generate_item"`
}

// LayoutConfig sizes the linear instance-quest layout.
type LayoutConfig struct {
	MinRooms          int      `yaml:"min_rooms" json:"min_rooms"`
	MaxRooms          int      `yaml:"max_rooms" json:"max_rooms"`
	PossibleRoomNames []string `yaml:"possible_room_names" json:"possible_room_names,omitempty"`
	RegionName        string   `yaml:"region_name" json:"region_name,omitempty"`
}

// RegionLink names the parent room a procedural region hangs off.
type RegionLink struct {
	Region string `yaml:"region"`
	Room   string `yaml:"room"`
}

// ProceduralRegionConfig declares a region to generate at instantiation.
type ProceduralRegionConfig struct {
	Theme      string      `yaml:"theme"`
	Rooms      int         `yaml:"rooms"`
	IDKey      string      `yaml:"id_key"`
	EntryPoint *RegionLink `yaml:"entry_point"`
}

// Template is a static quest definition. Immutable after load.
type Template struct {
	ID          string
	Title       string `yaml:"title"`
	Type        string `yaml:"type"`
	Level       int    `yaml:"level"`
	Description string `yaml:"description"`

	Stages []StageTemplate `yaml:"stages"`

	Rewards         *RewardsTemplate       `yaml:"rewards"`
	GenerateRewards *GenerateRewardsConfig `yaml:"generate_rewards"`

	// Instance quest fields.
	PossibleEntryRegions []string      `yaml:"possible_entry_regions"`
	LayoutConfig         *LayoutConfig `yaml:"layout_generation_config"`
	GiverNPCTemplateID   string        `yaml:"giver_npc_template_id"`

	// Saga fields.
	ProceduralRegions []ProceduralRegionConfig `yaml:"procedural_regions"`

	// Legacy single-objective form; the loader normalizes it into one stage.
	Objective *ObjectiveTemplate `yaml:"objective"`
}
