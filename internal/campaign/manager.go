package campaign

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/hollowmoor/duskmud/internal/logger"
	"github.com/hollowmoor/duskmud/internal/quest"
)

// DeadEndMessage is returned when no transition matches a resolution. The
// campaign stays on its current node; authors are expected to provide
// exhaustive transitions.
const DeadEndMessage = "The campaign path ends here."

// Manager owns the static campaign definitions and drives per-player
// campaign progress. It implements quest.CampaignResolver.
type Manager struct {
	mu sync.Mutex

	defs   map[string]*Definition
	quests QuestStarter
	rng    *rand.Rand
}

// NewManager creates a campaign manager. A nil rng gets a time-seeded
// source.
func NewManager(defs map[string]*Definition, quests QuestStarter, rng *rand.Rand) *Manager {
	if defs == nil {
		defs = make(map[string]*Definition)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Manager{defs: defs, quests: quests, rng: rng}
}

// Definitions returns the loaded campaign table.
func (m *Manager) Definitions() map[string]*Definition { return m.defs }

// StartCampaign begins a campaign for the player and triggers its start
// node. Starting a campaign that is already active or completed is rejected,
// so duplicate starts never double-insert quests.
func (m *Manager) StartCampaign(campaignID string, p Player) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	def, ok := m.defs[campaignID]
	if !ok {
		return "", fmt.Errorf("unknown campaign %q", campaignID)
	}
	if _, active := p.ActiveCampaigns()[campaignID]; active {
		return "", fmt.Errorf("campaign %q is already active", campaignID)
	}
	if _, done := p.CompletedCampaigns()[campaignID]; done {
		return "", fmt.Errorf("campaign %q is already completed", campaignID)
	}

	p.ActiveCampaigns()[campaignID] = &Progress{
		CurrentNode: def.StartNode,
		History:     []HistoryEntry{},
		Variables:   map[string]string{},
	}

	logger.Info("Campaign started", "campaign", campaignID, "player", p.Name())

	var msgs []string
	if def.Title != "" {
		msgs = append(msgs, fmt.Sprintf("Campaign started: %s", def.Title))
	}
	if text := m.triggerNode(def, def.Nodes[def.StartNode], p); text != "" {
		msgs = append(msgs, text)
	}
	return strings.Join(msgs, "\n"), nil
}

// triggerNode runs a node's effect: QUEST nodes start their quest with
// campaign context attached, DIALOGUE and CUTSCENE nodes emit their text and
// auto-advance, END nodes finalize the campaign. Returns display text.
func (m *Manager) triggerNode(def *Definition, node *Node, p Player) string {
	switch node.Type {
	case NodeQuest:
		text, err := m.quests.StartQuest(node.QuestTemplateID, p, &quest.CampaignContext{
			CampaignID: def.ID,
			NodeID:     node.ID,
		})
		if err != nil {
			logger.Error("Campaign quest start failed",
				"campaign", def.ID, "node", node.ID, "quest", node.QuestTemplateID, "error", err)
			return ""
		}
		return text

	case NodeDialogue, NodeCutscene:
		msgs := []string{node.Text}
		if next := m.advanceOnTrigger(def, node, TriggerAuto, p); next != "" {
			msgs = append(msgs, next)
		}
		return strings.Join(msgs, "\n")

	case NodeEnd:
		progress, ok := p.ActiveCampaigns()[def.ID]
		if !ok {
			return node.Text
		}
		delete(p.ActiveCampaigns(), def.ID)
		p.CompletedCampaigns()[def.ID] = &Completed{
			Outcome: node.Outcome,
			EndTime: time.Now(),
			History: progress.History,
		}
		logger.Info("Campaign completed", "campaign", def.ID, "player", p.Name(), "outcome", node.Outcome)
		return node.Text
	}

	logger.Warning("Unknown campaign node type", "campaign", def.ID, "node", node.ID, "type", node.Type)
	return ""
}

// advanceOnTrigger follows the first matching transition out of a node and
// triggers the target. Used for the AUTO advance of narrative nodes.
func (m *Manager) advanceOnTrigger(def *Definition, node *Node, trigger string, p Player) string {
	progress, ok := p.ActiveCampaigns()[def.ID]
	if !ok {
		return ""
	}
	for _, tr := range node.Transitions {
		if tr.Trigger != trigger {
			continue
		}
		if tr.Chance < 1.0 && m.rng.Float64() > tr.Chance {
			continue
		}
		progress.CurrentNode = tr.TargetNode
		text := m.triggerNode(def, def.Nodes[tr.TargetNode], p)
		if tr.NarrativeText != "" {
			if text != "" {
				return tr.NarrativeText + "\n" + text
			}
			return tr.NarrativeText
		}
		return text
	}
	return ""
}

// HandleQuestCompletion resolves a campaign-linked quest completion. The
// node's transitions are scanned in declared order; a transition matches on
// exact trigger equality, or when a generic "SUCCESS"/"FAILURE" trigger is a
// substring of the resolution (so "VIOLENT_SUCCESS" satisfies a plain
// "SUCCESS" fallback). Chance rolls that fail skip the transition and keep
// scanning. The first surviving match advances the campaign; with no match
// the node pointer stays put and a terminal message is returned.
func (m *Manager) HandleQuestCompletion(campaignID, nodeID, resolution string, qp quest.Player) string {
	p, ok := qp.(Player)
	if !ok {
		logger.Error("Player lacks campaign state", "campaign", campaignID)
		return ""
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	def, ok := m.defs[campaignID]
	if !ok {
		logger.Error("Completion for unknown campaign", "campaign", campaignID)
		return ""
	}
	progress, ok := p.ActiveCampaigns()[campaignID]
	if !ok {
		logger.Warning("Completion for inactive campaign", "campaign", campaignID, "player", p.Name())
		return ""
	}
	node, ok := def.Nodes[nodeID]
	if !ok {
		logger.Error("Completion for unknown node", "campaign", campaignID, "node", nodeID)
		return ""
	}

	progress.History = append(progress.History, HistoryEntry{NodeID: nodeID, Resolution: resolution})

	for _, tr := range node.Transitions {
		if !triggerMatches(tr.Trigger, resolution) {
			continue
		}
		if tr.Chance < 1.0 && m.rng.Float64() > tr.Chance {
			logger.Debug("Transition chance roll failed",
				"campaign", campaignID, "node", nodeID, "trigger", tr.Trigger)
			continue
		}

		progress.CurrentNode = tr.TargetNode
		logger.Info("Campaign advanced", "campaign", campaignID,
			"from", nodeID, "to", tr.TargetNode, "resolution", resolution)

		text := m.triggerNode(def, def.Nodes[tr.TargetNode], p)
		if tr.NarrativeText != "" {
			if text != "" {
				return tr.NarrativeText + "\n" + text
			}
			return tr.NarrativeText
		}
		return text
	}

	logger.Warning("Campaign dead end", "campaign", campaignID, "node", nodeID, "resolution", resolution)
	return DeadEndMessage
}

// triggerMatches implements the transition matching rule: exact equality, or
// generic SUCCESS/FAILURE triggers matching as substrings of the resolution.
func triggerMatches(trigger, resolution string) bool {
	if trigger == resolution {
		return true
	}
	if trigger == "SUCCESS" && strings.Contains(resolution, "SUCCESS") {
		return true
	}
	if trigger == "FAILURE" && strings.Contains(resolution, "FAILURE") {
		return true
	}
	return false
}
