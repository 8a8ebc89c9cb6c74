// Command questsim runs a seeded end-to-end pass over the progression
// systems: it builds a small world, fills the quest board, accepts and
// completes a quest, and walks a two-path campaign. Useful for smoke-testing
// content changes without a full game client.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/hollowmoor/duskmud/internal/campaign"
	"github.com/hollowmoor/duskmud/internal/config"
	"github.com/hollowmoor/duskmud/internal/items"
	"github.com/hollowmoor/duskmud/internal/logger"
	"github.com/hollowmoor/duskmud/internal/npc"
	"github.com/hollowmoor/duskmud/internal/player"
	"github.com/hollowmoor/duskmud/internal/quest"
	"github.com/hollowmoor/duskmud/internal/region"
	"github.com/hollowmoor/duskmud/internal/save"
	"github.com/hollowmoor/duskmud/internal/world"
)

func main() {
	seed := flag.Int64("seed", 1, "Random seed")
	level := flag.Int("level", 3, "Simulated player level")
	dbPath := flag.String("db", "", "SQLite path to save the final snapshot (empty to skip)")
	flag.Parse()

	cfg := logger.DefaultConfig()
	cfg.Level = "WARNING"
	if err := logger.Initialize(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))
	w := seedWorld()

	questCfg := config.DefaultConfig()
	regionGen := region.NewGenerator(nil, rng)
	gen := quest.NewGenerator(w, questCfg, demoTemplates(), regionGen, rng)
	manager := quest.NewManager(w, questCfg, gen, rng)
	campaigns := campaign.NewManager(demoCampaigns(), manager, rng)
	manager.SetCampaignResolver(campaigns)

	p := player.New("simulant", *level)
	p.MoveTo("town", "town_square")

	fmt.Println("== Quest board ==")
	manager.EnsureInitialQuests(p.Level())
	for _, q := range manager.Board() {
		fmt.Printf("  [%s] %s - %s\n", q.Type, q.Title, manager.ObjectiveStatus(p, q))
	}

	board := manager.Board()
	if len(board) > 0 {
		fmt.Println("\n== Accepting a quest ==")
		text, err := manager.AcceptQuest(p, board[0].InstanceID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error accepting quest: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(text)
	}

	fmt.Println("\n== Campaign run ==")
	text, err := campaigns.StartCampaign("rat_uprising", p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting campaign: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(text)

	for id, q := range p.QuestLog() {
		if q.CampaignContext == nil {
			continue
		}
		fmt.Println("\n-- Completing campaign quest violently --")
		out, err := manager.CompleteQuest(p, id, "VIOLENT_SUCCESS")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error completing quest: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(out)
		break
	}

	fmt.Printf("\nPlayer: level %d, %d xp, %d gold, %d active quests, %d active campaigns\n",
		p.Level(), p.Experience(), p.Gold(), len(p.QuestLog()), len(p.ActiveCampaigns()))

	if *dbPath != "" {
		store, err := save.Open(save.DialectSQLite, *dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening save store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		if err := store.Save(save.Capture(p, manager.Board(), w)); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Snapshot saved to %s\n", *dbPath)
	}
}

// seedWorld builds a small town with quest givers and a rat-infested field.
func seedWorld() *world.World {
	w := world.New()

	town := world.NewRegion("town", "Hollowmoor", "A quiet frontier town.")
	square := world.NewRoom("town_square", "Town Square", "The heart of Hollowmoor.")
	square.Outdoors = true
	forge := world.NewRoom("forge", "The Forge", "Heat rolls off the coals.")
	town.AddRoom(square)
	town.AddRoom(forge)
	square.AddExit("east", "forge")
	forge.AddExit("west", "town_square")
	w.AddRegion(town)
	w.MarkRegionSafe("town")

	fields := world.NewRegion("fields", "The Outer Fields", "Overgrown farmland.")
	fieldPath := world.NewRoom("field_path", "Field Path", "A rutted track between fences.")
	fieldPath.Outdoors = true
	fields.AddRoom(fieldPath)
	w.AddRegion(fields)

	w.SetNPCTemplates(map[string]*npc.Template{
		"rat": {
			ID: "rat", Name: "Giant Rat", Level: 2, Faction: npc.FactionHostile,
			LootTable: map[string]float64{"rat_tail": 60},
		},
		"bandit": {
			ID: "bandit", Name: "Bandit", Level: 4, Faction: npc.FactionHostile,
			LootTable: map[string]float64{"bandit_mask": 40},
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
		"bandit_mask":           {ID: "bandit_mask", Name: "Bandit Mask", Type: items.TypeJunk, Value: 5},
		"quest_package_generic": {ID: "quest_package_generic", Name: "Sealed Package", Type: items.TypeQuest, Value: 0},
		"short_sword":           {ID: "short_sword", Name: "Short Sword", Type: items.TypeWeapon, Value: 25},
	})

	w.AddNPC(npc.CreateFromTemplate(w.NPCTemplates(), "blacksmith", "npc_blacksmith",
		npc.WithLocation("town", "forge")))
	w.AddNPC(npc.CreateFromTemplate(w.NPCTemplates(), "villager", "npc_villager",
		npc.WithLocation("town", "town_square")))
	for i := 0; i < 3; i++ {
		w.AddNPC(npc.CreateFromTemplate(w.NPCTemplates(), "rat", fmt.Sprintf("npc_rat_%d", i),
			npc.WithLocation("fields", "field_path")))
	}
	return w
}

// demoTemplates returns the authored quest templates the simulation uses.
func demoTemplates() map[string]*quest.Template {
	return map[string]*quest.Template{
		"clear_the_cellar": {
			ID:    "clear_the_cellar",
			Title: "Bounty Work",
			Type:  string(config.QuestTypeInstance),
			Level: 1,
			LayoutConfig: &quest.LayoutConfig{
				MinRooms:          3,
				MaxRooms:          5,
				PossibleRoomNames: []string{"Cellar", "Pantry", "Root Cellar", "Storeroom"},
				RegionName:        "An Overrun Cellar",
			},
			PossibleEntryRegions: []string{"town"},
			GiverNPCTemplateID:   "homeowner",
			GenerateRewards: &quest.GenerateRewardsConfig{
				XPRange:   []int{80, 120},
				GoldRange: []int{20, 40},
			},
			Stages: []quest.StageTemplate{{
				Description: "Clear out the vermin below.",
				Objective: quest.ObjectiveTemplate{
					Type:                      "kill",
					PossibleTargetTemplateIDs: []string{"rat", "bandit"},
				},
			}},
		},
		"rat_uprising_intro": {
			ID:          "rat_uprising_intro",
			Title:       "Whispers in the Fields",
			Type:        string(config.QuestTypeSaga),
			Level:       1,
			Description: "Something stirs the rats of the outer fields.",
			Rewards:     &quest.RewardsTemplate{XP: 100, Gold: 50},
			Stages: []quest.StageTemplate{{
				Description: "Thin the rat packs in the outer fields.",
				Objective: quest.ObjectiveTemplate{
					Type:             "kill",
					TargetTemplateID: "rat",
					RequiredQuantity: 3,
				},
			}},
		},
		"rat_uprising_war": {
			ID:          "rat_uprising_war",
			Title:       "The Nest Below",
			Type:        string(config.QuestTypeSaga),
			Level:       2,
			Description: "Hunt the nest in the {warren}.",
			Rewards:     &quest.RewardsTemplate{XP: 200, Gold: 100},
			ProceduralRegions: []quest.ProceduralRegionConfig{{
				Theme: "caves", Rooms: 6, IDKey: "warren",
				EntryPoint: &quest.RegionLink{Region: "fields", Room: "field_path"},
			}},
			Stages: []quest.StageTemplate{{
				Description: "Scout the depths of the {warren}.",
				Objective: quest.ObjectiveTemplate{
					Type:         "scout",
					TargetRegion: "warren",
				},
			}},
		},
		"rat_uprising_peace": {
			ID:          "rat_uprising_peace",
			Title:       "An Uneasy Truce",
			Type:        string(config.QuestTypeSaga),
			Level:       2,
			Description: "Carry the druid's warding charm to the blacksmith.",
			Rewards:     &quest.RewardsTemplate{XP: 150, Gold: 75},
			Stages: []quest.StageTemplate{{
				Description: "Deliver the warding charm.",
				Objective: quest.ObjectiveTemplate{
					Type:             "deliver",
					TargetTemplateID: "blacksmith",
					ItemID:           "quest_package_generic",
				},
			}},
		},
	}
}

// demoCampaigns returns the two-path campaign the simulation walks.
func demoCampaigns() map[string]*campaign.Definition {
	return map[string]*campaign.Definition{
		"rat_uprising": {
			ID:        "rat_uprising",
			Title:     "The Rat Uprising",
			StartNode: "node_intro",
			Nodes: map[string]*campaign.Node{
				"node_intro": {
					ID: "node_intro", Type: campaign.NodeQuest, QuestTemplateID: "rat_uprising_intro",
					Transitions: []campaign.Transition{
						{Trigger: "VIOLENT_SUCCESS", TargetNode: "node_war", Chance: 1.0,
							NarrativeText: "Word of the slaughter spreads. The nest will answer."},
						{Trigger: "PEACEFUL_SUCCESS", TargetNode: "node_peace", Chance: 1.0,
							NarrativeText: "The druid nods slowly. Perhaps there is another way."},
						{Trigger: "SUCCESS", TargetNode: "node_war", Chance: 1.0},
					},
				},
				"node_war": {
					ID: "node_war", Type: campaign.NodeQuest, QuestTemplateID: "rat_uprising_war",
					Transitions: []campaign.Transition{
						{Trigger: "SUCCESS", TargetNode: "node_end_war", Chance: 1.0},
					},
				},
				"node_peace": {
					ID: "node_peace", Type: campaign.NodeQuest, QuestTemplateID: "rat_uprising_peace",
					Transitions: []campaign.Transition{
						{Trigger: "SUCCESS", TargetNode: "node_end_peace", Chance: 1.0},
					},
				},
				"node_end_war": {
					ID: "node_end_war", Type: campaign.NodeEnd, Outcome: "war",
					Text: "The fields fall quiet. Nothing stirs the grass.",
				},
				"node_end_peace": {
					ID: "node_end_peace", Type: campaign.NodeEnd, Outcome: "peace",
					Text: "The wards hum at the field's edge. The rats keep their distance.",
				},
			},
		},
	}
}
