package quest

import (
	"fmt"

	"github.com/hollowmoor/duskmud/internal/logger"
	"github.com/hollowmoor/duskmud/internal/npc"
)

// HandleNPCKilled updates kill and group-kill objectives across the player's
// active quests. Counters only ever increase by one per matching kill and
// never pass their requirement; the completion notification fires exactly
// once, at the kill that crosses the threshold.
func (m *Manager) HandleNPCKilled(p Player, killed *npc.NPC) []string {
	if killed == nil {
		return nil
	}

	var msgs []string
	for _, q := range p.QuestLog() {
		if q.State != StateActive {
			continue
		}

		switch o := q.CurrentObjective().(type) {
		case *KillObjective:
			if o.TargetTemplateID != killed.TemplateID || o.Current >= o.Required {
				continue
			}
			o.Current++
			if o.Current == o.Required {
				q.State = StateReadyToComplete
				msgs = append(msgs, fmt.Sprintf("[Quest Update] %s: objective complete! Report to %s.",
					q.Title, m.ResolveTurnInName(q)))
			} else {
				msgs = append(msgs, fmt.Sprintf("[Quest Update] %s (%d/%d killed)",
					q.Title, o.Current, o.Required))
			}

		case *GroupKillObjective:
			target, ok := o.Targets[killed.TemplateID]
			if !ok || target.Current >= target.Required {
				continue
			}
			target.Current++
			if o.IsComplete() {
				q.State = StateReadyToComplete
				msgs = append(msgs, fmt.Sprintf("[Quest Update] %s: objective complete! Report to %s.",
					q.Title, m.ResolveTurnInName(q)))
			} else {
				msgs = append(msgs, fmt.Sprintf("[Quest Update] %s: %s (%d/%d killed)",
					q.Title, target.Name, target.Current, target.Required))
			}
		}
	}
	return msgs
}

// CheckQuestCompletion is the periodic sweep over objectives that complete
// without a discrete event: clear-region counts, live fetch counts, delivery
// co-location, and escort safety. Returns any notification lines.
func (m *Manager) CheckQuestCompletion(p Player) []string {
	var msgs []string
	for _, q := range p.QuestLog() {
		if q.State != StateActive {
			continue
		}

		switch o := q.CurrentObjective().(type) {
		case *ClearRegionObjective:
			msgs = append(msgs, m.checkClearRegion(p, q, o)...)

		case *FetchObjective:
			if m.fetchCount(p, o) >= o.Required {
				q.State = StateReadyToComplete
				msgs = append(msgs, fmt.Sprintf("[Quest Update] %s: you have everything you need. Report to %s.",
					q.Title, m.ResolveTurnInName(q)))
			}

		case *DeliverObjective:
			recipient := m.world.GetNPC(o.RecipientID)
			if recipient == nil || !recipient.IsAlive() {
				continue
			}
			pRegion, pRoom := p.Location()
			nRegion, nRoom := recipient.Location()
			if pRegion == nRegion && pRoom == nRoom && p.Inventory().CountByTemplate(o.ItemTemplateID) > 0 {
				q.State = StateReadyToComplete
				msgs = append(msgs, fmt.Sprintf("[Quest Update] %s: hand the %s to %s.",
					q.Title, o.ItemName, o.RecipientName))
			}

		case *EscortObjective:
			escort := m.world.GetNPC(o.TargetNPCID)
			if escort == nil || !escort.IsAlive() {
				continue
			}
			regionID, _ := escort.Location()
			if m.world.IsLocationSafe(regionID) {
				q.State = StateReadyToComplete
				msgs = append(msgs, fmt.Sprintf("[Quest Update] %s: %s has reached safety.",
					q.Title, escort.Name))
			}
		}
	}
	return msgs
}

// checkClearRegion sweeps an instance region for remaining hostiles. When the
// region is clear, the quest flips to ready and the completion NPC takes over
// as the turn-in target at the entry point.
func (m *Manager) checkClearRegion(p Player, q *Instance, o *ClearRegionObjective) []string {
	if !q.CompletionCheckEnabled || q.InstanceRegionID == "" {
		return nil
	}
	if m.world.CountLivingByTemplate(q.InstanceRegionID, o.TargetTemplateID) > 0 {
		return nil
	}

	q.State = StateReadyToComplete

	msgs := []string{fmt.Sprintf("[Quest Update] %s: the place is clear.", q.Title)}

	if o.CompletionNPCTemplateID != "" && q.Meta != nil && q.Meta.EntryPoint != nil {
		entry := q.Meta.EntryPoint
		completion := npc.CreateFromTemplate(m.world.NPCTemplates(), o.CompletionNPCTemplateID, "",
			npc.WithLocation(entry.RegionID, entry.RoomID))
		if completion == nil {
			logger.Warning("Completion NPC template missing",
				"quest", q.InstanceID, "template", o.CompletionNPCTemplateID)
			return msgs
		}
		m.world.AddNPC(completion)

		// The spawned NPC becomes the quest's giver and turn-in target, and is
		// despawned when the quest resolves.
		q.GiverInstanceID = completion.InstanceID
		q.TemporaryGiver = true
		if stage := q.CurrentStage(); stage != nil {
			stage.TurnInID = completion.InstanceID
		}

		pRegion, pRoom := p.Location()
		if pRegion == entry.RegionID && pRoom == entry.RoomID {
			msgs = append(msgs, fmt.Sprintf("%s returns and looks around in relief.", completion.Name))
		} else {
			msgs = append(msgs, fmt.Sprintf("Report to %s outside.", completion.Name))
		}
	}
	return msgs
}
