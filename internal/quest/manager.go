package quest

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/hollowmoor/duskmud/internal/config"
	"github.com/hollowmoor/duskmud/internal/items"
	"github.com/hollowmoor/duskmud/internal/logger"
	"github.com/hollowmoor/duskmud/internal/npc"
	"github.com/hollowmoor/duskmud/internal/world"
)

// QuestCompleteSignal is returned by AdvanceQuestStage when the quest has no
// further stages and should be completed.
const QuestCompleteSignal = "QUEST_COMPLETE"

// Manager owns the shared quest board and drives the quest lifecycle for
// every player: accepting, advancing, tracking, and completing quests.
type Manager struct {
	mu sync.Mutex

	world *world.World
	cfg   *config.Config
	gen   *Generator
	rng   *rand.Rand

	board []*Instance

	// resolver handles completions that carry campaign context. Set after
	// construction to break the quest/campaign dependency cycle.
	resolver CampaignResolver
}

// NewManager creates a quest manager. A nil rng gets a time-seeded source.
func NewManager(w *world.World, cfg *config.Config, gen *Generator, rng *rand.Rand) *Manager {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Manager{world: w, cfg: cfg, gen: gen, rng: rng}
}

// SetCampaignResolver wires in the campaign side. Must be called before any
// campaign-linked quest completes.
func (m *Manager) SetCampaignResolver(r CampaignResolver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolver = r
}

// Generator exposes the quest generator, mainly for template lookups.
func (m *Manager) Generator() *Generator { return m.gen }

// Board returns a snapshot of the current board entries.
func (m *Manager) Board() []*Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Instance, len(m.board))
	copy(out, m.board)
	return out
}

// BoardQuest returns a board entry by instance ID, or nil.
func (m *Manager) BoardQuest(instanceID string) *Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.board {
		if q.InstanceID == instanceID {
			return q
		}
	}
	return nil
}

// RestoreBoard replaces the board contents, used when loading a saved game.
func (m *Manager) RestoreBoard(quests []*Instance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.board = append([]*Instance(nil), quests...)
}

// EnsureInitialQuests fills the board up to its ceiling. Early slots favor
// type variety; a failed generation attempt stops the fill so a data-starved
// world cannot loop forever.
func (m *Manager) EnsureInitialQuests(playerLevel int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(m.board) < m.cfg.MaxQuestsOnBoard {
		questType := m.nextBoardType()

		var q *Instance
		if questType == config.QuestTypeInstance {
			q = m.gen.GenerateInstanceQuest(playerLevel)
			if q == nil {
				// No instance template fits; fall back to an ad-hoc type.
				questType = config.QuestTypesNonInstance[m.rng.Intn(len(config.QuestTypesNonInstance))]
				q = m.gen.GenerateNonInstanceQuest(playerLevel, questType)
			}
		} else {
			q = m.gen.GenerateNonInstanceQuest(playerLevel, questType)
		}

		if q == nil {
			logger.Debug("Board fill stopped; generation failed", "type", questType)
			return
		}
		m.board = append(m.board, q)
	}
}

// nextBoardType prefers quest types not yet represented on the board.
func (m *Manager) nextBoardType() config.QuestType {
	present := map[config.QuestType]bool{}
	for _, q := range m.board {
		present[config.QuestType(q.Type)] = true
	}

	var missing []config.QuestType
	for _, qt := range config.QuestTypesAll {
		if !present[qt] {
			missing = append(missing, qt)
		}
	}
	if len(missing) > 0 {
		return missing[m.rng.Intn(len(missing))]
	}
	return config.QuestTypesAll[m.rng.Intn(len(config.QuestTypesAll))]
}

// ReplenishBoard drops the completed quest's board entry, if it still has
// one, and refills the board.
func (m *Manager) ReplenishBoard(completedID string, playerLevel int) {
	m.mu.Lock()
	kept := m.board[:0]
	for _, q := range m.board {
		if q.InstanceID != completedID {
			kept = append(kept, q)
		}
	}
	m.board = kept
	m.mu.Unlock()

	m.EnsureInitialQuests(playerLevel)
}

// StartQuest instantiates an authored template straight into the player's
// quest log, bypassing the board. Campaign-started quests pass their context
// here. Returns the display text for the quest start.
func (m *Manager) StartQuest(templateID string, p Player, campaignContext *CampaignContext) (string, error) {
	tmpl, ok := m.gen.Templates()[templateID]
	if !ok {
		return "", fmt.Errorf("unknown quest template %q", templateID)
	}

	q, err := m.gen.InstantiateQuest(tmpl, p.Level())
	if err != nil {
		return "", err
	}
	q.State = StateActive
	q.CampaignContext = campaignContext
	p.QuestLog()[q.InstanceID] = q

	var msgs []string
	msgs = append(msgs, fmt.Sprintf("New quest: %s", q.Title))
	if stage := q.CurrentStage(); stage != nil && stage.StartDialogue != "" {
		msgs = append(msgs, stage.StartDialogue)
	}
	msgs = append(msgs, m.setupStageMechanics(p, q)...)
	msgs = append(msgs, m.checkScoutObjective(p, q)...)

	logger.Info("Quest started", "quest", templateID, "instance", q.InstanceID,
		"player", p.Name(), "campaign", campaignContext != nil)
	return strings.Join(msgs, "\n"), nil
}

// AcceptQuest moves a board quest into the player's log and activates it.
// Instance quests materialize their private region here, and delivery quests
// hand the player the package to carry.
func (m *Manager) AcceptQuest(p Player, instanceID string) (string, error) {
	m.mu.Lock()
	var q *Instance
	kept := m.board[:0]
	for _, entry := range m.board {
		if entry.InstanceID == instanceID && q == nil {
			q = entry
			continue
		}
		kept = append(kept, entry)
	}
	m.board = kept
	m.mu.Unlock()

	if q == nil {
		return "", fmt.Errorf("quest %q is not on the board", instanceID)
	}

	q.State = StateActive
	p.QuestLog()[q.InstanceID] = q

	var msgs []string
	msgs = append(msgs, fmt.Sprintf("Quest accepted: %s", q.Title))

	if q.Type == string(config.QuestTypeInstance) {
		if err := m.materializeInstanceRegion(q); err != nil {
			logger.Error("Failed to materialize instance region", "quest", q.InstanceID, "error", err)
		} else if q.Meta != nil && q.Meta.EntryPoint != nil {
			msgs = append(msgs, q.Meta.EntryPoint.Description)
		}
	}

	if o, ok := q.CurrentObjective().(*DeliverObjective); ok {
		if pkg := m.createDeliveryItem(o); pkg != nil {
			p.Inventory().AddItem(pkg, 1)
			msgs = append(msgs, fmt.Sprintf("You receive: %s", pkg.Name))
		}
	}

	msgs = append(msgs, m.setupStageMechanics(p, q)...)
	msgs = append(msgs, m.checkScoutObjective(p, q)...)
	return strings.Join(msgs, "\n"), nil
}

// createDeliveryItem builds the package a delivery quest hands out. A missing
// stock template degrades to a synthesized quest item.
func (m *Manager) createDeliveryItem(o *DeliverObjective) *items.Item {
	item := items.CreateFromTemplate(m.world.ItemTemplates(), o.ItemTemplateID)
	if item == nil {
		item = &items.Item{
			TemplateID: o.ItemTemplateID,
			Type:       items.TypeQuest,
			Quantity:   1,
		}
	}
	item.InstanceID = o.ItemInstanceID
	item.Name = o.ItemName
	if o.ItemDescription != "" {
		item.Description = o.ItemDescription
	}
	return item
}

// materializeInstanceRegion builds the linear private layout for an instance
// quest, links it to its entry point, and populates the target hostiles.
func (m *Manager) materializeInstanceRegion(q *Instance) error {
	if q.Meta == nil || q.Meta.Layout == nil {
		return fmt.Errorf("instance quest %s has no layout", q.InstanceID)
	}
	layout := q.Meta.Layout

	roomCount := layout.MinRooms
	if layout.MaxRooms > layout.MinRooms {
		roomCount += m.rng.Intn(layout.MaxRooms - layout.MinRooms + 1)
	}
	if roomCount < 2 {
		roomCount = 2
	}

	regionID := "instance_" + q.InstanceID
	regionName := layout.RegionName
	if regionName == "" {
		regionName = "A Darkened House"
	}
	rg := world.NewRegion(regionID, regionName, "")

	var prev *world.Room
	for i := 0; i < roomCount; i++ {
		name := fmt.Sprintf("Room %d", i+1)
		if len(layout.PossibleRoomNames) > 0 {
			name = layout.PossibleRoomNames[m.rng.Intn(len(layout.PossibleRoomNames))]
		}
		room := world.NewRoom(fmt.Sprintf("room_%d", i), name, "")
		rg.AddRoom(room)
		if prev != nil {
			prev.AddExit("north", room.ID)
			room.AddExit("south", prev.ID)
		}
		prev = room
	}
	m.world.AddRegion(rg)
	q.InstanceRegionID = regionID

	if entry := q.Meta.EntryPoint; entry != nil {
		if parent := m.world.GetRegion(entry.RegionID); parent != nil {
			if room := parent.GetRoom(entry.RoomID); room != nil {
				command := entry.ExitCommand
				if command == "" {
					command = "enter"
				}
				room.AddExit(command, world.ExitTarget(regionID, "room_0"))
				rg.GetRoom("room_0").AddExit("out", world.ExitTarget(entry.RegionID, entry.RoomID))
			}
		}
	}

	// One target hostile per interior room.
	o, ok := q.CurrentObjective().(*ClearRegionObjective)
	if !ok {
		return nil
	}
	for i := 1; i < roomCount; i++ {
		hostile := npc.CreateFromTemplate(m.world.NPCTemplates(), o.TargetTemplateID, "",
			npc.WithLocation(regionID, fmt.Sprintf("room_%d", i)))
		if hostile == nil {
			return fmt.Errorf("unknown target template %q", o.TargetTemplateID)
		}
		m.world.AddNPC(hostile)
	}

	logger.Info("Materialized instance region", "quest", q.InstanceID,
		"region", regionID, "rooms", roomCount)
	return nil
}

// setupStageMechanics runs the side effects of entering a stage: escort
// spawns, procedural fetch item placement, and spawn_on_start directives.
// Returns any display messages produced.
func (m *Manager) setupStageMechanics(p Player, q *Instance) []string {
	stage := q.CurrentStage()
	if stage == nil {
		return nil
	}

	var msgs []string

	switch o := stage.Objective.(type) {
	case *EscortObjective:
		if o.TargetNPCID == "" {
			overrides := []npc.Override{npc.WithLocation(o.SpawnRegionID, o.SpawnRoomID)}
			if o.SpawnName != "" {
				overrides = append(overrides, npc.WithName(o.SpawnName))
			}
			escort := npc.CreateFromTemplate(m.world.NPCTemplates(), o.SpawnTemplateID, "", overrides...)
			if escort == nil {
				logger.Warning("Escort spawn failed", "quest", q.InstanceID, "template", o.SpawnTemplateID)
				break
			}
			escort.SetProperty("is_escort_target", q.InstanceID)
			m.world.AddNPC(escort)
			o.TargetNPCID = escort.InstanceID
			msgs = append(msgs, fmt.Sprintf("%s is counting on you. Lead them to safety.", escort.Name))
		}
	case *FetchObjective:
		if o.Procedural {
			m.placeProceduralItem(q, o)
		}
	}

	if sp := stage.SpawnOnStart; sp != nil {
		if m.world.CountLivingByTemplate(sp.RegionID, sp.TemplateID) == 0 {
			m.spawnDirective(sp)
		}
	}
	return msgs
}

// placeProceduralItem drops a synthesized fetch target into a random room of
// the quest's generated region.
func (m *Manager) placeProceduralItem(q *Instance, o *FetchObjective) {
	item := items.CreateFromTemplate(m.world.ItemTemplates(), o.BaseTemplateID)
	if item == nil {
		logger.Warning("Procedural fetch item template missing",
			"quest", q.InstanceID, "template", o.BaseTemplateID)
		return
	}
	item.Name = o.ItemName
	item.Type = items.TypeQuest

	for _, regionID := range q.GeneratedRegionIDs {
		rg := m.world.GetRegion(regionID)
		if rg == nil || rg.RoomCount() == 0 {
			continue
		}
		roomIDs := make([]string, 0, rg.RoomCount())
		for id := range rg.Rooms {
			roomIDs = append(roomIDs, id)
		}
		roomID := roomIDs[m.rng.Intn(len(roomIDs))]
		if m.world.AddItemToRoom(regionID, roomID, item) {
			logger.Debug("Placed procedural item", "quest", q.InstanceID,
				"item", item.Name, "region", regionID, "room", roomID)
			return
		}
	}
	logger.Warning("No generated region to hold procedural item", "quest", q.InstanceID)
}

// spawnDirective spawns an NPC described by a stage directive.
func (m *Manager) spawnDirective(sp *SpawnDirective) *npc.NPC {
	overrides := []npc.Override{npc.WithLocation(sp.RegionID, sp.RoomID)}
	if sp.NameOverride != "" {
		overrides = append(overrides, npc.WithName(sp.NameOverride))
	}
	if sp.BehaviorType != "" {
		overrides = append(overrides, npc.WithBehavior(sp.BehaviorType))
	}
	n := npc.CreateFromTemplate(m.world.NPCTemplates(), sp.TemplateID, "", overrides...)
	if n == nil {
		logger.Warning("Spawn directive failed", "template", sp.TemplateID)
		return nil
	}
	m.world.AddNPC(n)
	return n
}

// CompleteQuest resolves a quest: rewards are granted, private regions torn
// down, and either the board is replenished or the campaign layer takes over.
// Returns the combined reward and narrative text.
func (m *Manager) CompleteQuest(p Player, questID, resolution string) (string, error) {
	q, ok := p.QuestLog()[questID]
	if !ok {
		return "", fmt.Errorf("quest %q is not in the quest log", questID)
	}
	if resolution == "" {
		resolution = "SUCCESS"
	}

	delete(p.QuestLog(), questID)
	q.State = StateCompleted
	p.CompletedQuestLog()[questID] = q

	var msgs []string
	msgs = append(msgs, fmt.Sprintf("Quest complete: %s", q.Title))
	msgs = append(msgs, m.grantRewards(p, q)...)

	if q.TemporaryGiver && q.GiverInstanceID != GiverQuestBoard {
		m.world.RemoveNPC(q.GiverInstanceID)
	}
	m.world.CleanupQuestRegion(q.InstanceRegionID)
	for _, regionID := range q.GeneratedRegionIDs {
		m.world.CleanupQuestRegion(regionID)
	}

	if q.CampaignContext == nil {
		m.ReplenishBoard(questID, p.Level())
	} else if m.resolver != nil {
		narrative := m.resolver.HandleQuestCompletion(
			q.CampaignContext.CampaignID, q.CampaignContext.NodeID, resolution, p)
		if narrative != "" {
			msgs = append(msgs, narrative)
		}
	}

	logger.Info("Quest completed", "quest", questID, "player", p.Name(), "resolution", resolution)
	return strings.Join(msgs, "\n"), nil
}

// grantRewards applies a quest's rewards to the player, returning the display
// lines. Items with unknown templates are skipped silently.
func (m *Manager) grantRewards(p Player, q *Instance) []string {
	var msgs []string

	if q.Rewards.XP > 0 {
		p.GainExperience(q.Rewards.XP)
		msgs = append(msgs, fmt.Sprintf("You gain %d experience.", q.Rewards.XP))
	}
	if q.Rewards.Gold > 0 {
		p.AddGold(q.Rewards.Gold)
		msgs = append(msgs, fmt.Sprintf("You receive %d gold.", q.Rewards.Gold))
	}
	for _, reward := range q.Rewards.Items {
		item := items.CreateFromTemplate(m.world.ItemTemplates(), reward.ItemID)
		if item == nil {
			logger.Warning("Reward item template missing", "quest", q.InstanceID, "item", reward.ItemID)
			continue
		}
		p.Inventory().AddItem(item, reward.Quantity)
		msgs = append(msgs, fmt.Sprintf("You receive: %s x%d", item.Name, reward.Quantity))
	}
	if q.Rewards.GeneratedItem != nil {
		p.Inventory().AddItem(q.Rewards.GeneratedItem, 1)
		msgs = append(msgs, fmt.Sprintf("You receive: %s", q.Rewards.GeneratedItem.Name))
	}
	return msgs
}

// AdvanceQuestStage moves a quest to its next stage, or to a dialogue branch
// target when choiceID is given. Returns QuestCompleteSignal when there is no
// next stage.
func (m *Manager) AdvanceQuestStage(p Player, questID, choiceID string) (string, error) {
	q, ok := p.QuestLog()[questID]
	if !ok {
		return "", fmt.Errorf("quest %q is not in the quest log", questID)
	}
	stage := q.CurrentStage()
	if stage == nil {
		return "", fmt.Errorf("quest %q has no active stage", questID)
	}

	next := stage.Index + 1
	if o, isDialogue := stage.Objective.(*DialogueObjective); isDialogue {
		if choiceID == "" {
			return "", fmt.Errorf("quest %q needs a dialogue choice", questID)
		}
		choice, ok := o.Choices[choiceID]
		if !ok {
			return "", fmt.Errorf("unknown choice %q", choiceID)
		}
		next = choice.NextStage
	}

	if next < 0 || next >= len(q.Stages) {
		return QuestCompleteSignal, nil
	}

	q.CurrentStageIndex = next
	q.State = StateActive

	var msgs []string
	newStage := q.CurrentStage()
	if newStage.Description != "" {
		msgs = append(msgs, newStage.Description)
	}
	if newStage.StartDialogue != "" {
		msgs = append(msgs, newStage.StartDialogue)
	}
	msgs = append(msgs, m.setupStageMechanics(p, q)...)
	msgs = append(msgs, m.checkScoutObjective(p, q)...)
	return strings.Join(msgs, "\n"), nil
}

// HandleRoomEntry reacts to the player's location changing: one-shot
// spawn_on_entry directives fire, instance-region completion sweeps arm, and
// scout objectives check for a location match. Returns notification lines.
func (m *Manager) HandleRoomEntry(p Player) []string {
	regionID, roomID := p.Location()

	var msgs []string
	for _, q := range p.QuestLog() {
		if q.State != StateActive && q.State != StateReadyToComplete {
			continue
		}

		if q.InstanceRegionID != "" && q.InstanceRegionID == regionID {
			q.CompletionCheckEnabled = true
		}

		stage := q.CurrentStage()
		if stage != nil && stage.SpawnOnEntry != nil && !stage.SpawnOnEntryDone {
			sp := stage.SpawnOnEntry
			if sp.RegionID == regionID && sp.RoomID == roomID {
				if n := m.spawnDirective(sp); n != nil {
					stage.SpawnOnEntryDone = true
					msgs = append(msgs, fmt.Sprintf("%s appears!", n.Name))
				}
			}
		}

		msgs = append(msgs, m.checkScoutObjective(p, q)...)
	}
	return msgs
}

// checkScoutObjective flips a scout quest to ready when the player stands in
// the target room. The notification fires once, on the state transition.
func (m *Manager) checkScoutObjective(p Player, q *Instance) []string {
	if q.State != StateActive {
		return nil
	}
	o, ok := q.CurrentObjective().(*ScoutObjective)
	if !ok {
		return nil
	}

	regionID, roomID := p.Location()
	if regionID != o.TargetRegionID {
		return nil
	}
	if o.TargetRoomID != "" && roomID != o.TargetRoomID {
		return nil
	}

	q.State = StateReadyToComplete
	return []string{fmt.Sprintf("[Quest Update] %s: you have found the place. Report to %s.",
		q.Title, m.ResolveTurnInName(q))}
}

// ResolveTurnInName maps the current stage's turn-in ID to a display name.
func (m *Manager) ResolveTurnInName(q *Instance) string {
	stage := q.CurrentStage()
	turnIn := q.GiverInstanceID
	if stage != nil && stage.TurnInID != "" {
		turnIn = stage.TurnInID
	}

	if turnIn == GiverQuestBoard || turnIn == "" {
		return "the Quest Board"
	}
	if n := m.world.GetNPC(turnIn); n != nil {
		return n.Name
	}
	return q.Title
}

// ObjectiveStatus renders a one-line progress summary for a quest's current
// objective, computing fetch counts live from the player's inventory.
func (m *Manager) ObjectiveStatus(p Player, q *Instance) string {
	switch o := q.CurrentObjective().(type) {
	case *KillObjective:
		return fmt.Sprintf("%s: %d/%d slain", o.TargetNamePlural, o.Current, o.Required)
	case *GroupKillObjective:
		var parts []string
		for _, t := range o.Targets {
			parts = append(parts, fmt.Sprintf("%s %d/%d", t.Name, t.Current, t.Required))
		}
		return strings.Join(parts, ", ")
	case *FetchObjective:
		return fmt.Sprintf("%s: %d/%d gathered", o.ItemName, m.fetchCount(p, o), o.Required)
	case *DeliverObjective:
		return fmt.Sprintf("Deliver %s to %s", o.ItemName, o.RecipientName)
	case *ScoutObjective:
		if o.LocationHint != "" {
			return fmt.Sprintf("Scout %s", o.LocationHint)
		}
		return "Scout the target location"
	case *ClearRegionObjective:
		remaining := m.world.CountLivingByTemplate(q.InstanceRegionID, o.TargetTemplateID)
		return fmt.Sprintf("Hostiles remaining: %d", remaining)
	case *DialogueObjective:
		return "Awaiting your decision"
	case *EscortObjective:
		return "Escort your charge to safety"
	}
	return ""
}

// fetchCount computes the live held count for a fetch objective. Procedural
// items match by generated name, stock items by template ID.
func (m *Manager) fetchCount(p Player, o *FetchObjective) int {
	if o.Procedural {
		return p.Inventory().CountByName(o.ItemName)
	}
	return p.Inventory().CountByTemplate(o.ItemID)
}
