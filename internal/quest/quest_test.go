package quest

import (
	"math/rand"

	"github.com/hollowmoor/duskmud/internal/config"
	"github.com/hollowmoor/duskmud/internal/items"
	"github.com/hollowmoor/duskmud/internal/npc"
	"github.com/hollowmoor/duskmud/internal/region"
	"github.com/hollowmoor/duskmud/internal/world"
)

// testPlayer is a minimal Player implementation for exercising the manager.
type testPlayer struct {
	name     string
	level    int
	regionID string
	roomID   string
	xp       int
	gold     int
	inv      *items.Inventory
	log      map[string]*Instance
	done     map[string]*Instance
}

func newTestPlayer(level int) *testPlayer {
	return &testPlayer{
		name:  "tester",
		level: level,
		inv:   items.NewInventory(),
		log:   make(map[string]*Instance),
		done:  make(map[string]*Instance),
	}
}

func (p *testPlayer) Name() string                           { return p.name }
func (p *testPlayer) Level() int                             { return p.level }
func (p *testPlayer) Location() (string, string)             { return p.regionID, p.roomID }
func (p *testPlayer) Inventory() *items.Inventory            { return p.inv }
func (p *testPlayer) GainExperience(xp int)                  { p.xp += xp }
func (p *testPlayer) AddGold(amount int)                     { p.gold += amount }
func (p *testPlayer) QuestLog() map[string]*Instance         { return p.log }
func (p *testPlayer) CompletedQuestLog() map[string]*Instance { return p.done }

func (p *testPlayer) moveTo(regionID, roomID string) {
	p.regionID = regionID
	p.roomID = roomID
}

// newTestWorld builds a town with two quest givers and a rat-infested field.
func newTestWorld() *world.World {
	w := world.New()

	town := world.NewRegion("town", "Hollowmoor", "")
	square := world.NewRoom("town_square", "Town Square", "")
	square.Outdoors = true
	forge := world.NewRoom("forge", "The Forge", "")
	town.AddRoom(square)
	town.AddRoom(forge)
	square.AddExit("east", "forge")
	forge.AddExit("west", "town_square")
	w.AddRegion(town)
	w.MarkRegionSafe("town")

	fields := world.NewRegion("fields", "The Outer Fields", "")
	path := world.NewRoom("field_path", "Field Path", "")
	path.Outdoors = true
	fields.AddRoom(path)
	w.AddRegion(fields)

	w.SetNPCTemplates(map[string]*npc.Template{
		"rat": {
			ID: "rat", Name: "Giant Rat", Level: 2, Faction: npc.FactionHostile,
			LootTable: map[string]float64{"rat_tail": 60, "old_key": 5},
		},
		"dragon": {
			ID: "dragon", Name: "Dragon", Level: 50, Faction: npc.FactionHostile,
			LootTable: map[string]float64{"dragon_scale": 90},
		},
		"blacksmith": {
			ID: "blacksmith", Name: "Maren the Blacksmith", Level: 10, Faction: "townsfolk",
			CanGiveGenericQuests: true,
			QuestInterests:       []npc.InterestTag{npc.InterestKill, npc.InterestFetch, npc.InterestDeliver},
		},
		"villager": {
			ID: "villager", Name: "Villager", Level: 1, Faction: "townsfolk",
			CanGiveGenericQuests: true,
			QuestInterests:       []npc.InterestTag{npc.InterestKill, npc.InterestDeliver},
		},
		"homeowner": {
			ID: "homeowner", Name: "Relieved Homeowner", Level: 1, Faction: "townsfolk",
		},
	})

	w.SetItemTemplates(map[string]items.Template{
		"rat_tail":              {ID: "rat_tail", Name: "Rat Tail", Type: items.TypeJunk, Value: 1},
		"old_key":               {ID: "old_key", Name: "Old Key", Type: items.TypeKey, Value: 0},
		"dragon_scale":          {ID: "dragon_scale", Name: "Dragon Scale", Type: items.TypeJunk, Value: 50},
		"quest_package_generic": {ID: "quest_package_generic", Name: "Sealed Package", Type: items.TypeQuest, Value: 0},
		"short_sword":           {ID: "short_sword", Name: "Short Sword", Type: items.TypeWeapon, Value: 25},
	})

	w.AddNPC(npc.CreateFromTemplate(w.NPCTemplates(), "blacksmith", "npc_blacksmith",
		npc.WithLocation("town", "forge")))
	w.AddNPC(npc.CreateFromTemplate(w.NPCTemplates(), "villager", "npc_villager",
		npc.WithLocation("town", "town_square")))
	for _, id := range []string{"npc_rat_0", "npc_rat_1", "npc_rat_2"} {
		w.AddNPC(npc.CreateFromTemplate(w.NPCTemplates(), "rat", id,
			npc.WithLocation("fields", "field_path")))
	}
	return w
}

// bountyTemplate is an instance quest template usable against newTestWorld.
func bountyTemplate() *Template {
	return &Template{
		ID:    "clear_the_cellar",
		Title: "Bounty Work",
		Type:  string(config.QuestTypeInstance),
		Level: 1,
		LayoutConfig: &LayoutConfig{
			MinRooms:          3,
			MaxRooms:          5,
			PossibleRoomNames: []string{"Cellar", "Pantry", "Storeroom"},
			RegionName:        "An Overrun Cellar",
		},
		PossibleEntryRegions: []string{"town"},
		GiverNPCTemplateID:   "homeowner",
		Rewards:              &RewardsTemplate{XP: 80, Gold: 20},
		Stages: []StageTemplate{{
			Description: "Clear out the vermin below.",
			Objective: ObjectiveTemplate{
				Type:                      "kill",
				PossibleTargetTemplateIDs: []string{"rat"},
			},
		}},
	}
}

func newTestManager(w *world.World, templates map[string]*Template, seed int64) *Manager {
	rng := rand.New(rand.NewSource(seed))
	cfg := config.DefaultConfig()
	gen := NewGenerator(w, cfg, templates, region.NewGenerator(nil, rng), rng)
	return NewManager(w, cfg, gen, rng)
}
