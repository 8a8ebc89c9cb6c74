package quest

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/hollowmoor/duskmud/internal/config"
	"github.com/hollowmoor/duskmud/internal/items"
	"github.com/hollowmoor/duskmud/internal/logger"
	"github.com/hollowmoor/duskmud/internal/npc"
	"github.com/hollowmoor/duskmud/internal/region"
	"github.com/hollowmoor/duskmud/internal/world"
)

// GiverQuestBoard is the pseudo-giver for board-posted quests.
const GiverQuestBoard = "quest_board"

// Word lists for procedural item and place names.
var (
	proceduralAdjectives = []string{"Forgotten", "Cursed", "Shining", "Ancient", "Broken", "Whispering"}
	proceduralNouns      = []string{"Hope", "Despair", "Light", "Shadow", "King", "Truth"}
)

// Generator builds quest instances, both ad-hoc generated quests and
// instantiations of authored templates. It owns its random source so board
// contents are reproducible under a fixed seed.
type Generator struct {
	world     *world.World
	cfg       *config.Config
	templates map[string]*Template
	regionGen *region.Generator
	rng       *rand.Rand
}

// NewGenerator creates a quest generator. A nil rng gets a time-seeded
// source; a nil template table is treated as empty.
func NewGenerator(w *world.World, cfg *config.Config, templates map[string]*Template, regionGen *region.Generator, rng *rand.Rand) *Generator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if templates == nil {
		templates = make(map[string]*Template)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if regionGen == nil {
		regionGen = region.NewGenerator(nil, rng)
	}
	return &Generator{world: w, cfg: cfg, templates: templates, regionGen: regionGen, rng: rng}
}

// Templates returns the authored template table.
func (g *Generator) Templates() map[string]*Template { return g.templates }

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
}

// pickGiver returns a random living NPC whose template offers the quest
// type, or nil when none qualifies.
func (g *Generator) pickGiver(questType config.QuestType) *npc.NPC {
	tag := npc.InterestTag(questType)
	var candidates []*npc.NPC
	for _, n := range g.world.NPCs() {
		if !n.IsAlive() {
			continue
		}
		tmpl := g.world.NPCTemplate(n.TemplateID)
		if tmpl == nil || !tmpl.CanGiveGenericQuests || !tmpl.HasInterest(tag) {
			continue
		}
		candidates = append(candidates, n)
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[g.rng.Intn(len(candidates))]
}

// GenerateNonInstanceQuest builds an ad-hoc kill, fetch, or delivery quest
// scaled to the player level. Returns nil when the world cannot support the
// requested type (no giver, no valid target).
func (g *Generator) GenerateNonInstanceQuest(playerLevel int, questType config.QuestType) *Instance {
	giver := g.pickGiver(questType)
	if giver == nil {
		logger.Debug("No eligible quest giver", "type", questType)
		return nil
	}

	var (
		objective Objective
		title     string
		desc      string
		diff      int
		qty       int
	)

	switch questType {
	case config.QuestTypeKill:
		o := g.generateKillObjective(playerLevel, giver)
		if o == nil {
			return nil
		}
		title, desc = killQuestText(o)
		objective, diff, qty = o, o.DifficultyLevel, o.Required
	case config.QuestTypeFetch:
		o := g.generateFetchObjective(playerLevel, giver)
		if o == nil {
			return nil
		}
		title, desc = fetchQuestText(o)
		objective, diff, qty = o, o.DifficultyLevel, o.Required
	case config.QuestTypeDeliver:
		o := g.generateDeliverObjective(playerLevel, giver)
		if o == nil {
			return nil
		}
		title, desc = deliverQuestText(o)
		objective, diff, qty = o, o.DifficultyLevel, 1
	default:
		logger.Warning("Unknown generated quest type", "type", questType)
		return nil
	}

	q := &Instance{
		InstanceID:      fmt.Sprintf("gen_%s_%s", questType, shortID()),
		TemplateID:      fmt.Sprintf("generated_%s", questType),
		Type:            string(questType),
		Title:           title,
		State:           StateAvailable,
		GiverInstanceID: giver.InstanceID,
		Rewards:         calculateRewards(g.cfg, questType, diff, qty),
		Stages: []*Stage{{
			Index:       0,
			Description: desc,
			Objective:   objective,
			TurnInID:    giver.InstanceID,
		}},
	}
	return q
}

// GenerateInstanceQuest builds a bounty quest with a private region to clear.
// It needs an authored instance template at or below the player level.
// Returns nil when none qualifies or the template is malformed.
func (g *Generator) GenerateInstanceQuest(playerLevel int) *Instance {
	var candidates []*Template
	for _, tmpl := range g.templates {
		if tmpl.Type != string(config.QuestTypeInstance) {
			continue
		}
		if tmpl.Level > playerLevel || tmpl.LayoutConfig == nil {
			continue
		}
		candidates = append(candidates, tmpl)
	}
	if len(candidates) == 0 {
		return nil
	}
	tmpl := candidates[g.rng.Intn(len(candidates))]

	stage := tmpl.Stages[0]
	targetPool := stage.Objective.PossibleTargetTemplateIDs
	if len(targetPool) == 0 {
		logger.Warning("Instance quest template has no target pool", "quest", tmpl.ID)
		return nil
	}
	targetID := targetPool[g.rng.Intn(len(targetPool))]
	target := g.world.NPCTemplate(targetID)
	if target == nil {
		logger.Warning("Instance quest target template missing", "quest", tmpl.ID, "target", targetID)
		return nil
	}

	entry := g.pickEntryPoint(tmpl.PossibleEntryRegions)
	if entry == nil {
		logger.Warning("Instance quest has no valid entry point", "quest", tmpl.ID)
		return nil
	}

	q := &Instance{
		InstanceID:      fmt.Sprintf("%s_%s", tmpl.ID, shortID()),
		TemplateID:      tmpl.ID,
		Type:            string(config.QuestTypeInstance),
		Title:           fmt.Sprintf("Bounty: %s Infestation", pluralize(target.Name)),
		State:           StateAvailable,
		GiverInstanceID: GiverQuestBoard,
		Rewards:         g.resolveRewards(tmpl, playerLevel),
		Meta: &MetaInstanceData{
			Layout:          tmpl.LayoutConfig,
			EntryPoint:      entry,
			GiverTemplateID: tmpl.GiverNPCTemplateID,
		},
		Stages: []*Stage{{
			Index: 0,
			Description: fmt.Sprintf("A home has been overrun by %s. Clear them out.",
				pluralize(strings.ToLower(target.Name))),
			Objective: &ClearRegionObjective{
				TargetTemplateID:        targetID,
				CompletionNPCTemplateID: tmpl.GiverNPCTemplateID,
			},
			TurnInID: GiverQuestBoard,
		}},
	}
	return q
}

// pickEntryPoint chooses an outdoor room in one of the candidate regions.
// Only outdoor rooms qualify; nil when no candidate region has one.
func (g *Generator) pickEntryPoint(regionIDs []string) *EntryPoint {
	shuffled := append([]string(nil), regionIDs...)
	g.rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

	for _, regionID := range shuffled {
		rg := g.world.GetRegion(regionID)
		if rg == nil {
			continue
		}

		var outdoor []string
		for id, room := range rg.Rooms {
			if room.Outdoors {
				outdoor = append(outdoor, id)
			}
		}
		if len(outdoor) == 0 {
			continue
		}
		return &EntryPoint{
			RegionID:    regionID,
			RoomID:      outdoor[g.rng.Intn(len(outdoor))],
			ExitCommand: "enter",
			Description: "A house stands here, its door ajar.",
		}
	}
	return nil
}

// resolveRewards turns a template's reward declaration into concrete rewards,
// rolling ranges and generating loot where asked.
func (g *Generator) resolveRewards(tmpl *Template, playerLevel int) Rewards {
	if tmpl.GenerateRewards != nil {
		gen := tmpl.GenerateRewards
		rewards := Rewards{}
		if len(gen.XPRange) == 2 && gen.XPRange[1] >= gen.XPRange[0] {
			rewards.XP = gen.XPRange[0] + g.rng.Intn(gen.XPRange[1]-gen.XPRange[0]+1)
		}
		if len(gen.GoldRange) == 2 && gen.GoldRange[1] >= gen.GoldRange[0] {
			rewards.Gold = gen.GoldRange[0] + g.rng.Intn(gen.GoldRange[1]-gen.GoldRange[0]+1)
		}
		if gen.GenerateItem != nil {
			level := gen.GenerateItem.Level
			if level <= 0 {
				level = playerLevel
			}
			rewards.GeneratedItem = items.GenerateLoot(
				g.world.ItemTemplates(), gen.GenerateItem.BaseTemplateID, level, gen.GenerateItem.Rarity, g.rng)
		}
		return rewards
	}

	if tmpl.Rewards != nil {
		rewards := Rewards{XP: tmpl.Rewards.XP, Gold: tmpl.Rewards.Gold}
		for _, it := range tmpl.Rewards.Items {
			qty := it.Quantity
			if qty < 1 {
				qty = 1
			}
			rewards.Items = append(rewards.Items, RewardItem{ItemID: it.ItemID, Quantity: qty})
		}
		return rewards
	}

	return calculateRewards(g.cfg, config.QuestType(tmpl.Type), tmpl.Level, 1)
}

// InstantiateQuest builds a live instance of an authored template: procedural
// regions are generated and linked into the world, reward ranges are rolled,
// and every stage objective is resolved to concrete targets.
func (g *Generator) InstantiateQuest(tmpl *Template, playerLevel int) (*Instance, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("nil quest template")
	}

	q := &Instance{
		InstanceID:      fmt.Sprintf("%s_%s", tmpl.ID, shortID()),
		TemplateID:      tmpl.ID,
		Type:            tmpl.Type,
		Title:           tmpl.Title,
		State:           StateAvailable,
		GiverInstanceID: GiverQuestBoard,
		Rewards:         g.resolveRewards(tmpl, playerLevel),
	}

	// Saga context: procedural region names keyed by id_key, used for
	// placeholder substitution in descriptions and scout targets.
	context := map[string]string{}
	for _, prc := range tmpl.ProceduralRegions {
		rg, entryRoomID, err := g.regionGen.Generate(prc.Theme, prc.Rooms)
		if err != nil {
			return nil, fmt.Errorf("quest %s: %w", tmpl.ID, err)
		}
		g.world.AddRegion(rg)
		q.GeneratedRegionIDs = append(q.GeneratedRegionIDs, rg.ID)

		if prc.IDKey != "" {
			context[prc.IDKey] = rg.Name
			context[prc.IDKey+"_id"] = rg.ID
		}

		if prc.EntryPoint != nil {
			parent := g.world.GetRegion(prc.EntryPoint.Region)
			if parent != nil {
				if room := parent.GetRoom(prc.EntryPoint.Room); room != nil {
					room.AddExit("enter_"+prc.Theme, world.ExitTarget(rg.ID, entryRoomID))
					rg.GetRoom(entryRoomID).AddExit("out", world.ExitTarget(prc.EntryPoint.Region, prc.EntryPoint.Room))
				}
			}
		}
	}

	q.Title = substituteContext(q.Title, context)

	previousTurnIn := GiverQuestBoard
	for i, st := range tmpl.Stages {
		objective, err := g.resolveObjective(&st.Objective, playerLevel, context)
		if err != nil {
			return nil, fmt.Errorf("quest %s stage %d: %w", tmpl.ID, i, err)
		}

		turnIn := g.resolveTurnIn(&st.TurnIn, previousTurnIn, context)
		previousTurnIn = turnIn

		q.Stages = append(q.Stages, &Stage{
			Index:              i,
			Description:        substituteContext(st.Description, context),
			Objective:          objective,
			TurnInID:           turnIn,
			StartDialogue:      substituteContext(st.StartDialogue, context),
			CompletionDialogue: substituteContext(st.CompletionDialogue, context),
			SpawnOnEntry:       resolveSpawn(st.SpawnOnEntry, context),
			SpawnOnStart:       resolveSpawn(st.SpawnOnStart, context),
		})
	}

	logger.Info("Instantiated quest", "quest", tmpl.ID, "instance", q.InstanceID,
		"stages", len(q.Stages), "regions", len(q.GeneratedRegionIDs))
	return q, nil
}

// resolveObjective turns an authored objective descriptor into a concrete
// objective, resolving pools and procedural names.
func (g *Generator) resolveObjective(ot *ObjectiveTemplate, playerLevel int, context map[string]string) (Objective, error) {
	switch ot.Type {
	case "kill":
		targetID := ot.TargetTemplateID
		count := ot.RequiredQuantity
		if ot.TargetConfig != nil && len(ot.TargetConfig.MonsterPool) > 0 {
			targetID = ot.TargetConfig.MonsterPool[g.rng.Intn(len(ot.TargetConfig.MonsterPool))]
			if ot.TargetConfig.Count > 0 {
				count = ot.TargetConfig.Count
			}
		}
		if count < 1 {
			count = 1
		}
		name := targetID
		level := playerLevel
		if tmpl := g.world.NPCTemplate(targetID); tmpl != nil {
			name = tmpl.Name
			level = tmpl.Level
		}
		return &KillObjective{
			TargetTemplateID: targetID,
			TargetNamePlural: pluralize(name),
			Required:         count,
			DifficultyLevel:  level,
		}, nil

	case "group_kill":
		if ot.TargetsConfig == nil || len(ot.TargetsConfig.MonsterPool) == 0 {
			return nil, fmt.Errorf("group_kill objective has no monster pool")
		}
		tc := ot.TargetsConfig
		total := tc.TotalTypes
		if total < 1 {
			total = 1
		}
		low, high := 1, 3
		if len(tc.CountPerTypeRange) == 2 {
			low, high = tc.CountPerTypeRange[0], tc.CountPerTypeRange[1]
		}
		targets := map[string]*GroupKillTarget{}
		for _, id := range sampleTemplateIDs(tc.MonsterPool, total, g.rng) {
			name := id
			if tmpl := g.world.NPCTemplate(id); tmpl != nil {
				name = tmpl.Name
			}
			count := low
			if high > low {
				count = low + g.rng.Intn(high-low+1)
			}
			targets[id] = &GroupKillTarget{Required: count, Name: pluralize(name)}
		}
		return &GroupKillObjective{Targets: targets}, nil

	case "fetch":
		count := ot.RequiredQuantity
		if count < 1 {
			count = 1
		}
		name := ot.ItemID
		if item, ok := g.world.ItemTemplates()[ot.ItemID]; ok {
			name = item.Name
		}
		return &FetchObjective{
			ItemID:          ot.ItemID,
			ItemName:        name,
			ItemNamePlural:  pluralize(name),
			Required:        count,
			DifficultyLevel: playerLevel,
		}, nil

	case "fetch_procedural":
		count := ot.RequiredQuantity
		if count < 1 {
			count = 1
		}
		name := g.proceduralItemName(ot.NamePattern)
		return &FetchObjective{
			ItemName:        name,
			Required:        count,
			Procedural:      true,
			BaseTemplateID:  ot.BaseTemplateID,
			DifficultyLevel: playerLevel,
		}, nil

	case "deliver":
		recipient := g.firstLivingOfTemplate(ot.TargetTemplateID)
		if recipient == nil {
			return nil, fmt.Errorf("deliver objective: no living NPC of template %q", ot.TargetTemplateID)
		}
		name := ot.ItemID
		if item, ok := g.world.ItemTemplates()[ot.ItemID]; ok {
			name = item.Name
		}
		return &DeliverObjective{
			ItemTemplateID: ot.ItemID,
			ItemInstanceID: fmt.Sprintf("delivery_%s", shortID()),
			ItemName:       name,
			RecipientID:    recipient.InstanceID,
			RecipientName:  recipient.Name,
		}, nil

	case "scout":
		regionID := ot.TargetRegion
		if mapped, ok := context[ot.TargetRegion+"_id"]; ok {
			regionID = mapped
		}
		hint := context[ot.TargetRegion]
		if hint == "" {
			if rg := g.world.GetRegion(regionID); rg != nil {
				hint = rg.Name
			}
		}
		return &ScoutObjective{
			TargetRegionID: regionID,
			TargetRoomID:   g.findRoomByKeywords(regionID, ot.TargetRoomKeywords),
			LocationHint:   hint,
		}, nil

	case "clear_region":
		return &ClearRegionObjective{
			TargetTemplateID:        ot.TargetTemplateID,
			CompletionNPCTemplateID: ot.CompletionNPCTemplateID,
		}, nil

	case "dialogue_choice":
		choices := map[string]DialogueChoice{}
		for key, c := range ot.Choices {
			choices[key] = DialogueChoice{NextStage: c.NextStage, Description: c.Description}
		}
		if len(choices) == 0 {
			return nil, fmt.Errorf("dialogue objective has no choices")
		}
		return &DialogueObjective{Prompt: ot.Prompt, Choices: choices}, nil

	case "escort":
		if ot.SpawnConfig == nil {
			return nil, fmt.Errorf("escort objective has no spawn config")
		}
		sp := resolveSpawn(ot.SpawnConfig, context)
		return &EscortObjective{
			SpawnTemplateID: sp.TemplateID,
			SpawnName:       sp.NameOverride,
			SpawnRegionID:   sp.RegionID,
			SpawnRoomID:     sp.RoomID,
		}, nil
	}

	return nil, fmt.Errorf("unknown objective type %q", ot.Type)
}

// proceduralItemName expands {adjective}/{noun} tokens in a name pattern.
func (g *Generator) proceduralItemName(pattern string) string {
	if pattern == "" {
		pattern = "The {adjective} {noun}"
	}
	name := pattern
	name = strings.ReplaceAll(name, "{adjective}", proceduralAdjectives[g.rng.Intn(len(proceduralAdjectives))])
	name = strings.ReplaceAll(name, "{noun}", proceduralNouns[g.rng.Intn(len(proceduralNouns))])
	return name
}

// findRoomByKeywords returns a room in the region whose name matches any
// keyword, falling back to a random room when nothing matches.
func (g *Generator) findRoomByKeywords(regionID string, keywords []string) string {
	rg := g.world.GetRegion(regionID)
	if rg == nil || rg.RoomCount() == 0 {
		return ""
	}

	var matched, all []string
	for id, room := range rg.Rooms {
		all = append(all, id)
		for _, kw := range keywords {
			if room.MatchesKeyword(kw) {
				matched = append(matched, id)
				break
			}
		}
	}
	pool := matched
	if len(pool) == 0 {
		pool = all
	}
	return pool[g.rng.Intn(len(pool))]
}

// resolveTurnIn applies the stage's turn-in policy.
func (g *Generator) resolveTurnIn(tc *TurnInConfig, previous string, context map[string]string) string {
	if tc == nil || tc.IsZero() {
		return previous
	}
	if tc.Pool != nil {
		regionID := tc.Pool.Region
		if mapped, ok := context[tc.Pool.Region+"_id"]; ok {
			regionID = mapped
		}
		var candidates []*npc.NPC
		for _, n := range g.world.NPCs() {
			if !n.IsAlive() {
				continue
			}
			if tc.Pool.Faction != "" && n.Faction != tc.Pool.Faction {
				continue
			}
			if regionID != "" {
				if rid, _ := n.Location(); rid != regionID {
					continue
				}
			}
			candidates = append(candidates, n)
		}
		if len(candidates) == 0 {
			logger.Warning("Turn-in pool matched no NPCs", "faction", tc.Pool.Faction, "region", regionID)
			return GiverQuestBoard
		}
		return candidates[g.rng.Intn(len(candidates))].InstanceID
	}

	switch tc.Target {
	case TurnInSameAsPrevious:
		return previous
	case TurnInQuestBoard:
		return GiverQuestBoard
	default:
		return tc.Target
	}
}

// resolveSpawn substitutes saga context keys into a spawn directive's
// location. Returns a copy; templates stay immutable.
func resolveSpawn(sp *SpawnDirective, context map[string]string) *SpawnDirective {
	if sp == nil {
		return nil
	}
	out := *sp
	if mapped, ok := context[sp.RegionID+"_id"]; ok {
		out.RegionID = mapped
	}
	return &out
}

// firstLivingOfTemplate returns a living NPC of the template, or nil.
func (g *Generator) firstLivingOfTemplate(templateID string) *npc.NPC {
	for _, n := range g.world.NPCs() {
		if n.TemplateID == templateID && n.IsAlive() {
			return n
		}
	}
	return nil
}

// substituteContext replaces {key} tokens with saga context values.
func substituteContext(text string, context map[string]string) string {
	if text == "" || len(context) == 0 {
		return text
	}
	for key, value := range context {
		text = strings.ReplaceAll(text, "{"+key+"}", value)
	}
	return text
}
