package quest

import (
	"strings"
	"testing"

	"github.com/hollowmoor/duskmud/internal/config"
	"github.com/hollowmoor/duskmud/internal/items"
	"github.com/hollowmoor/duskmud/internal/npc"
)

func killQuest(required int) *Instance {
	return &Instance{
		InstanceID: "q_kill",
		Title:      "Cull the Giant Rats",
		Type:       string(config.QuestTypeKill),
		State:      StateActive,
		Stages: []*Stage{{
			Objective: &KillObjective{
				TargetTemplateID: "rat",
				TargetNamePlural: "Giant Rats",
				Required:         required,
			},
		}},
	}
}

func TestHandleNPCKilledProgression(t *testing.T) {
	w := newTestWorld()
	m := newTestManager(w, nil, 1)
	p := newTestPlayer(3)
	q := killQuest(3)
	p.log[q.InstanceID] = q

	rat := npc.CreateFromTemplate(w.NPCTemplates(), "rat", "rat_victim")
	o := q.CurrentObjective().(*KillObjective)

	for kill := 1; kill <= 3; kill++ {
		msgs := m.HandleNPCKilled(p, rat)
		if o.Current != kill {
			t.Fatalf("After kill %d: current = %d", kill, o.Current)
		}
		if len(msgs) != 1 {
			t.Fatalf("After kill %d: expected 1 message, got %d", kill, len(msgs))
		}
		if kill < 3 {
			if q.State != StateActive {
				t.Errorf("After kill %d: state flipped early to %s", kill, q.State)
			}
			if !strings.Contains(msgs[0], "killed") {
				t.Errorf("After kill %d: expected progress message, got %q", kill, msgs[0])
			}
		} else {
			if q.State != StateReadyToComplete {
				t.Errorf("After final kill: state = %s", q.State)
			}
			if !strings.Contains(msgs[0], "objective complete") {
				t.Errorf("After final kill: expected completion message, got %q", msgs[0])
			}
		}
	}

	// Further kills never re-trigger the completion notification or push the
	// counter past its requirement.
	if msgs := m.HandleNPCKilled(p, rat); len(msgs) != 0 {
		t.Errorf("Expected no messages after completion, got %v", msgs)
	}
	if o.Current != 3 {
		t.Errorf("Counter moved past requirement: %d", o.Current)
	}
}

func TestHandleNPCKilledWrongTemplate(t *testing.T) {
	w := newTestWorld()
	m := newTestManager(w, nil, 1)
	p := newTestPlayer(3)
	q := killQuest(3)
	p.log[q.InstanceID] = q

	dragon := npc.CreateFromTemplate(w.NPCTemplates(), "dragon", "dragon_1")
	if msgs := m.HandleNPCKilled(p, dragon); len(msgs) != 0 {
		t.Errorf("Expected no progress for non-target kill, got %v", msgs)
	}
	if o := q.CurrentObjective().(*KillObjective); o.Current != 0 {
		t.Errorf("Counter moved for non-target kill: %d", o.Current)
	}
}

func TestGroupKillCompletion(t *testing.T) {
	w := newTestWorld()
	m := newTestManager(w, nil, 1)
	p := newTestPlayer(3)
	q := &Instance{
		InstanceID: "q_group",
		Title:      "Purge the Fields",
		State:      StateActive,
		Stages: []*Stage{{
			Objective: &GroupKillObjective{Targets: map[string]*GroupKillTarget{
				"rat":    {Required: 2, Name: "Giant Rats"},
				"dragon": {Required: 1, Name: "Dragons"},
			}},
		}},
	}
	p.log[q.InstanceID] = q

	rat := npc.CreateFromTemplate(w.NPCTemplates(), "rat", "r1")
	dragon := npc.CreateFromTemplate(w.NPCTemplates(), "dragon", "d1")

	m.HandleNPCKilled(p, rat)
	m.HandleNPCKilled(p, dragon)
	if q.State != StateActive {
		t.Fatalf("State flipped before all targets met: %s", q.State)
	}
	msgs := m.HandleNPCKilled(p, rat)
	if q.State != StateReadyToComplete {
		t.Errorf("Expected ready_to_complete after all targets, got %s", q.State)
	}
	if len(msgs) != 1 || !strings.Contains(msgs[0], "objective complete") {
		t.Errorf("Expected a single completion message, got %v", msgs)
	}
}

func TestCompleteQuestRewardsAndReplenish(t *testing.T) {
	w := newTestWorld()
	m := newTestManager(w, map[string]*Template{"clear_the_cellar": bountyTemplate()}, 2)
	p := newTestPlayer(3)

	q := killQuest(3)
	q.State = StateReadyToComplete
	q.Rewards = Rewards{XP: 100, Gold: 50}
	p.log[q.InstanceID] = q

	text, err := m.CompleteQuest(p, q.InstanceID, "SUCCESS")
	if err != nil {
		t.Fatalf("CompleteQuest failed: %v", err)
	}
	if p.xp != 100 || p.gold != 50 {
		t.Errorf("Expected 100 xp / 50 gold, got %d / %d", p.xp, p.gold)
	}
	if !strings.Contains(text, "Quest complete") {
		t.Errorf("Expected completion text, got %q", text)
	}

	// Exactly-one membership: the instance moved, not copied.
	if _, inLog := p.log[q.InstanceID]; inLog {
		t.Error("Completed quest still in quest log")
	}
	if _, inDone := p.done[q.InstanceID]; !inDone {
		t.Error("Completed quest missing from completed log")
	}

	// A standalone completion replenishes the board to its ceiling.
	if got := len(m.Board()); got != m.cfg.MaxQuestsOnBoard {
		t.Errorf("Expected board of %d after replenish, got %d", m.cfg.MaxQuestsOnBoard, got)
	}
}

func TestCompleteQuestUnknown(t *testing.T) {
	m := newTestManager(newTestWorld(), nil, 1)
	if _, err := m.CompleteQuest(newTestPlayer(3), "nope", "SUCCESS"); err == nil {
		t.Error("Expected error for unknown quest")
	}
}

func TestEnsureInitialQuestsCeiling(t *testing.T) {
	m := newTestManager(newTestWorld(), map[string]*Template{"clear_the_cellar": bountyTemplate()}, 3)

	m.EnsureInitialQuests(3)
	if got := len(m.Board()); got != m.cfg.MaxQuestsOnBoard {
		t.Fatalf("Expected full board of %d, got %d", m.cfg.MaxQuestsOnBoard, got)
	}
	// Idempotent: filling again never exceeds the ceiling.
	m.EnsureInitialQuests(3)
	if got := len(m.Board()); got != m.cfg.MaxQuestsOnBoard {
		t.Errorf("Board exceeded ceiling: %d", got)
	}
}

func TestEnsureInitialQuestsStopsOnStarvedWorld(t *testing.T) {
	w := newTestWorld()
	w.RemoveNPC("npc_blacksmith")
	w.RemoveNPC("npc_villager")
	m := newTestManager(w, nil, 3)

	m.EnsureInitialQuests(3)
	if got := len(m.Board()); got != 0 {
		t.Errorf("Expected empty board on a world with no givers, got %d", got)
	}
}

func TestAcceptQuest(t *testing.T) {
	m := newTestManager(newTestWorld(), nil, 4)
	p := newTestPlayer(3)
	m.EnsureInitialQuests(3)

	board := m.Board()
	if len(board) == 0 {
		t.Fatal("Expected a non-empty board")
	}
	target := board[0]

	if _, err := m.AcceptQuest(p, target.InstanceID); err != nil {
		t.Fatalf("AcceptQuest failed: %v", err)
	}
	if m.BoardQuest(target.InstanceID) != nil {
		t.Error("Accepted quest still on the board")
	}
	q, ok := p.log[target.InstanceID]
	if !ok {
		t.Fatal("Accepted quest missing from quest log")
	}
	if q.State != StateActive {
		t.Errorf("Expected active state, got %s", q.State)
	}

	if _, err := m.AcceptQuest(p, target.InstanceID); err == nil {
		t.Error("Expected error accepting the same quest twice")
	}
}

func TestAcceptDeliveryQuestGrantsPackage(t *testing.T) {
	m := newTestManager(newTestWorld(), nil, 5)
	p := newTestPlayer(3)

	q := m.gen.GenerateNonInstanceQuest(3, config.QuestTypeDeliver)
	if q == nil {
		t.Fatal("Expected a delivery quest")
	}
	m.RestoreBoard([]*Instance{q})

	if _, err := m.AcceptQuest(p, q.InstanceID); err != nil {
		t.Fatalf("AcceptQuest failed: %v", err)
	}
	o := q.CurrentObjective().(*DeliverObjective)
	if p.inv.CountByTemplate(o.ItemTemplateID) != 1 {
		t.Error("Expected the package in the player's inventory")
	}
}

func TestAdvanceQuestStageDialogue(t *testing.T) {
	m := newTestManager(newTestWorld(), nil, 1)
	p := newTestPlayer(3)
	q := &Instance{
		InstanceID: "q_branch",
		Title:      "A Fork in the Road",
		State:      StateActive,
		Stages: []*Stage{
			{Index: 0, Objective: &DialogueObjective{
				Prompt: "Fight or talk?",
				Choices: map[string]DialogueChoice{
					"fight": {NextStage: 1},
					"talk":  {NextStage: 2},
				},
			}},
			{Index: 1, Description: "Blades out.", Objective: &KillObjective{TargetTemplateID: "rat", Required: 1}},
			{Index: 2, Description: "Words first.", Objective: &ScoutObjective{TargetRegionID: "town"}},
		},
	}
	p.log[q.InstanceID] = q

	if _, err := m.AdvanceQuestStage(p, q.InstanceID, ""); err == nil {
		t.Error("Expected error advancing a dialogue stage without a choice")
	}
	if _, err := m.AdvanceQuestStage(p, q.InstanceID, "flee"); err == nil {
		t.Error("Expected error for unknown choice")
	}

	text, err := m.AdvanceQuestStage(p, q.InstanceID, "talk")
	if err != nil {
		t.Fatalf("AdvanceQuestStage failed: %v", err)
	}
	if q.CurrentStageIndex != 2 {
		t.Errorf("Expected branch to stage 2, got %d", q.CurrentStageIndex)
	}
	if !strings.Contains(text, "Words first.") {
		t.Errorf("Expected new stage description, got %q", text)
	}

	// The scout branch is the final stage; advancing past it signals
	// completion.
	signal, err := m.AdvanceQuestStage(p, q.InstanceID, "")
	if err != nil {
		t.Fatalf("AdvanceQuestStage failed: %v", err)
	}
	if signal != QuestCompleteSignal {
		t.Errorf("Expected %q, got %q", QuestCompleteSignal, signal)
	}
}

func TestHandleRoomEntryScout(t *testing.T) {
	m := newTestManager(newTestWorld(), nil, 1)
	p := newTestPlayer(3)
	q := &Instance{
		InstanceID: "q_scout",
		Title:      "Eyes on the Fields",
		State:      StateActive,
		Stages: []*Stage{{
			Objective: &ScoutObjective{TargetRegionID: "fields", TargetRoomID: "field_path"},
		}},
	}
	p.log[q.InstanceID] = q

	p.moveTo("town", "town_square")
	if msgs := m.HandleRoomEntry(p); len(msgs) != 0 {
		t.Errorf("Expected no messages away from the target, got %v", msgs)
	}

	p.moveTo("fields", "field_path")
	msgs := m.HandleRoomEntry(p)
	if len(msgs) != 1 || !strings.Contains(msgs[0], "[Quest Update]") {
		t.Fatalf("Expected one quest update, got %v", msgs)
	}
	if q.State != StateReadyToComplete {
		t.Errorf("Expected ready_to_complete, got %s", q.State)
	}

	// The notification fires once, on the transition.
	if msgs := m.HandleRoomEntry(p); len(msgs) != 0 {
		t.Errorf("Expected no repeat notification, got %v", msgs)
	}
}

func TestHandleRoomEntrySpawnExactRoom(t *testing.T) {
	w := newTestWorld()
	m := newTestManager(w, nil, 1)
	p := newTestPlayer(3)
	q := &Instance{
		InstanceID: "q_ambush",
		Title:      "Something in the Forge",
		State:      StateActive,
		Stages: []*Stage{{
			Objective: &KillObjective{TargetTemplateID: "rat", TargetNamePlural: "Giant Rats", Required: 1},
			SpawnOnEntry: &SpawnDirective{
				TemplateID: "rat", RegionID: "town", RoomID: "forge",
			},
		}},
	}
	p.log[q.InstanceID] = q

	// Same region, wrong room: the directive stays armed.
	p.moveTo("town", "town_square")
	if msgs := m.HandleRoomEntry(p); len(msgs) != 0 {
		t.Errorf("Expected no spawn away from the directive's room, got %v", msgs)
	}
	if q.Stages[0].SpawnOnEntryDone {
		t.Fatal("Directive consumed without a spawn")
	}
	if got := w.CountLivingByTemplate("town", "rat"); got != 0 {
		t.Fatalf("Expected no rats in town yet, got %d", got)
	}

	p.moveTo("town", "forge")
	msgs := m.HandleRoomEntry(p)
	if len(msgs) != 1 || !strings.Contains(msgs[0], "appears") {
		t.Fatalf("Expected a spawn message, got %v", msgs)
	}
	if got := w.CountLivingByTemplate("town", "rat"); got != 1 {
		t.Errorf("Expected 1 rat, got %d", got)
	}

	// One-shot: re-entering does not spawn again.
	if msgs := m.HandleRoomEntry(p); len(msgs) != 0 {
		t.Errorf("Expected no repeat spawn, got %v", msgs)
	}
	if got := w.CountLivingByTemplate("town", "rat"); got != 1 {
		t.Errorf("Expected 1 rat after re-entry, got %d", got)
	}
}

func TestFetchCompletionLiveCount(t *testing.T) {
	w := newTestWorld()
	m := newTestManager(w, nil, 1)
	p := newTestPlayer(3)
	q := &Instance{
		InstanceID: "q_fetch",
		Title:      "Gather Rat Tails",
		State:      StateActive,
		Stages: []*Stage{{
			Objective: &FetchObjective{ItemID: "rat_tail", ItemName: "Rat Tail", Required: 2},
		}},
	}
	p.log[q.InstanceID] = q

	if msgs := m.CheckQuestCompletion(p); len(msgs) != 0 {
		t.Errorf("Expected no completion with an empty inventory, got %v", msgs)
	}

	p.inv.AddItem(items.CreateFromTemplate(w.ItemTemplates(), "rat_tail"), 2)

	msgs := m.CheckQuestCompletion(p)
	if len(msgs) != 1 {
		t.Fatalf("Expected one message, got %v", msgs)
	}
	if q.State != StateReadyToComplete {
		t.Errorf("Expected ready_to_complete, got %s", q.State)
	}
}

func TestInstanceQuestFullLoop(t *testing.T) {
	w := newTestWorld()
	m := newTestManager(w, map[string]*Template{"clear_the_cellar": bountyTemplate()}, 7)
	p := newTestPlayer(3)

	q := m.gen.GenerateInstanceQuest(3)
	if q == nil {
		t.Fatal("Expected an instance quest")
	}
	m.RestoreBoard([]*Instance{q})

	if _, err := m.AcceptQuest(p, q.InstanceID); err != nil {
		t.Fatalf("AcceptQuest failed: %v", err)
	}
	if q.InstanceRegionID == "" {
		t.Fatal("Expected a materialized instance region")
	}
	rg := w.GetRegion(q.InstanceRegionID)
	if rg == nil {
		t.Fatal("Instance region missing from the world")
	}
	if rg.RoomCount() < 3 || rg.RoomCount() > 5 {
		t.Errorf("Room count %d outside layout bounds", rg.RoomCount())
	}

	o := q.CurrentObjective().(*ClearRegionObjective)
	if w.CountLivingByTemplate(q.InstanceRegionID, o.TargetTemplateID) == 0 {
		t.Fatal("Expected hostiles in the instance region")
	}

	// The sweep stays quiet until the player has entered the instance.
	if msgs := m.CheckQuestCompletion(p); len(msgs) != 0 {
		t.Errorf("Sweep ran before the player entered: %v", msgs)
	}

	p.moveTo(q.InstanceRegionID, "room_1")
	m.HandleRoomEntry(p)
	if !q.CompletionCheckEnabled {
		t.Fatal("Entering the instance should arm the completion sweep")
	}

	for _, n := range w.NPCs() {
		if regionID, _ := n.Location(); regionID == q.InstanceRegionID && n.TemplateID == o.TargetTemplateID {
			n.Kill()
		}
	}

	msgs := m.CheckQuestCompletion(p)
	if q.State != StateReadyToComplete {
		t.Fatalf("Expected ready_to_complete after clearing, got %s", q.State)
	}
	if len(msgs) == 0 {
		t.Fatal("Expected clear notification")
	}
	if !q.TemporaryGiver {
		t.Error("Expected a temporary completion giver")
	}
	giver := w.GetNPC(q.GiverInstanceID)
	if giver == nil {
		t.Fatal("Completion NPC was not spawned")
	}
	if regionID, roomID := giver.Location(); regionID != "town" || roomID != "town_square" {
		t.Errorf("Completion NPC at %s/%s, expected the entry point", regionID, roomID)
	}

	if _, err := m.CompleteQuest(p, q.InstanceID, "SUCCESS"); err != nil {
		t.Fatalf("CompleteQuest failed: %v", err)
	}
	if w.GetRegion(q.InstanceRegionID) != nil {
		t.Error("Instance region survived completion")
	}
	if w.GetNPC(q.GiverInstanceID) != nil {
		t.Error("Temporary giver survived completion")
	}
}

func TestResolveTurnInName(t *testing.T) {
	w := newTestWorld()
	m := newTestManager(w, nil, 1)

	q := killQuest(1)
	q.GiverInstanceID = GiverQuestBoard
	if got := m.ResolveTurnInName(q); got != "the Quest Board" {
		t.Errorf("Expected board name, got %q", got)
	}

	q.Stages[0].TurnInID = "npc_blacksmith"
	if got := m.ResolveTurnInName(q); got != "Maren the Blacksmith" {
		t.Errorf("Expected NPC name, got %q", got)
	}

	q.Stages[0].TurnInID = "npc_gone"
	if got := m.ResolveTurnInName(q); got != q.Title {
		t.Errorf("Expected title fallback, got %q", got)
	}
}
