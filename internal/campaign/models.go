// Package campaign sequences quests into branching storylines. A campaign is
// a node graph; completing a node's quest selects a transition by matching
// the quest's resolution string, optionally gated by a probability roll.
package campaign

import (
	"github.com/hollowmoor/duskmud/internal/quest"
)

// NodeType discriminates campaign graph nodes.
type NodeType string

const (
	NodeQuest    NodeType = "QUEST"
	NodeDialogue NodeType = "DIALOGUE"
	NodeCutscene NodeType = "CUTSCENE"
	NodeEnd      NodeType = "END"
)

// TriggerAuto advances dialogue and cutscene nodes without a quest
// resolution.
const TriggerAuto = "AUTO"

// Transition is a graph edge. Trigger matches the quest resolution string;
// Chance below 1.0 makes the edge probabilistic. Declaration order matters:
// the first matching transition wins, so authors put specific triggers before
// generic fallbacks.
type Transition struct {
	Trigger       string  `yaml:"trigger"`
	TargetNode    string  `yaml:"target_node"`
	Chance        float64 `yaml:"chance"`
	NarrativeText string  `yaml:"narrative_text"`
}

// Node is one point in a campaign graph.
type Node struct {
	ID              string
	Type            NodeType     `yaml:"type"`
	QuestTemplateID string       `yaml:"quest_template_id"`
	Text            string       `yaml:"text"`
	Outcome         string       `yaml:"outcome"`
	Transitions     []Transition `yaml:"transitions"`
}

// Definition is a static campaign loaded from data. Immutable after load.
type Definition struct {
	ID          string
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	StartNode   string           `yaml:"start_node"`
	Nodes       map[string]*Node `yaml:"nodes"`
}

// Player is the view of a player the campaign system needs, extending the
// quest-side surface with campaign progress maps.
type Player interface {
	quest.Player
	ActiveCampaigns() map[string]*Progress
	CompletedCampaigns() map[string]*Completed
}

// QuestStarter is the quest-side operation campaigns depend on. Satisfied by
// the quest manager.
type QuestStarter interface {
	StartQuest(templateID string, p quest.Player, campaignContext *quest.CampaignContext) (string, error)
}
