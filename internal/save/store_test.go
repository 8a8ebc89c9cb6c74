package save

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/hollowmoor/duskmud/internal/campaign"
	"github.com/hollowmoor/duskmud/internal/config"
	"github.com/hollowmoor/duskmud/internal/player"
	"github.com/hollowmoor/duskmud/internal/quest"
	"github.com/hollowmoor/duskmud/internal/region"
	"github.com/hollowmoor/duskmud/internal/world"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(DialectSQLite, filepath.Join(t.TempDir(), "saves", "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)

	snap := &Snapshot{
		PlayerName: "Tester",
		Level:      5,
		Experience: 1200,
		Gold:       340,
		RegionID:   "town",
		RoomID:     "town_square",
		QuestLog: map[string]*quest.Instance{
			"gen_kill_ab12": {
				InstanceID: "gen_kill_ab12",
				TemplateID: "generated",
				Title:      "Cull the Rats",
				State:      quest.StateActive,
				Stages: []*quest.Stage{
					{Index: 0, Objective: &quest.KillObjective{
						TargetTemplateID: "rat", Required: 4, Current: 2,
					}},
				},
			},
		},
		ActiveCampaigns: map[string]*campaign.Progress{
			"uprising": {CurrentNode: "node_war"},
		},
	}

	if err := store.Save(snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load("Tester")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Level != 5 || loaded.Gold != 340 || loaded.RegionID != "town" {
		t.Errorf("Scalar fields lost: %+v", loaded)
	}

	q := loaded.QuestLog["gen_kill_ab12"]
	if q == nil {
		t.Fatal("Quest log entry lost")
	}
	kill, ok := q.Stages[0].Objective.(*quest.KillObjective)
	if !ok {
		t.Fatalf("Objective restored as %T", q.Stages[0].Objective)
	}
	if kill.Current != 2 || kill.Required != 4 {
		t.Errorf("Kill progress lost: %+v", kill)
	}
	if loaded.ActiveCampaigns["uprising"].CurrentNode != "node_war" {
		t.Error("Campaign progress lost")
	}
}

func TestStoreNameNormalization(t *testing.T) {
	store := openTestStore(t)

	if err := store.Save(&Snapshot{PlayerName: "Tester", Level: 3}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := store.Load("  TESTER ")
	if err != nil {
		t.Fatalf("Load with different casing failed: %v", err)
	}
	if loaded.Level != 3 {
		t.Errorf("Expected level 3, got %d", loaded.Level)
	}
}

func TestStoreUpsert(t *testing.T) {
	store := openTestStore(t)

	if err := store.Save(&Snapshot{PlayerName: "tester", Level: 1}); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if err := store.Save(&Snapshot{PlayerName: "tester", Level: 7}); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	loaded, err := store.Load("tester")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Level != 7 {
		t.Errorf("Expected the newer snapshot, got level %d", loaded.Level)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Load("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	store := openTestStore(t)

	if err := store.Save(&Snapshot{PlayerName: "tester", Level: 1}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete("tester"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load("tester"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	// Deleting again is a no-op.
	if err := store.Delete("tester"); err != nil {
		t.Errorf("Second delete failed: %v", err)
	}
}

func TestStoreSaveRejectsAnonymous(t *testing.T) {
	store := openTestStore(t)
	if err := store.Save(&Snapshot{}); err == nil {
		t.Error("Expected error for snapshot without a player name")
	}
}

func TestCaptureRestoreRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	w := world.New()
	town := world.NewRegion("town", "Hollowmoor", "")
	town.AddRoom(world.NewRoom("town_square", "Town Square", ""))
	w.AddRegion(town)

	warren := world.NewRegion("dynamic_caves_abc", "Rat Warren", "")
	warren.AddRoom(world.NewRoom("room_0", "Burrow Mouth", ""))
	w.AddRegion(warren)

	cfg := config.DefaultConfig()
	gen := quest.NewGenerator(w, cfg, nil, region.NewGenerator(nil, rng), rng)
	_ = quest.NewManager(w, cfg, gen, rng)

	p := player.New("Tester", 4)
	p.MoveTo("town", "town_square")
	p.GainExperience(900)
	p.AddGold(120)
	p.QuestLog()["hunt_1"] = &quest.Instance{
		InstanceID:         "hunt_1",
		Title:              "The Nest Below",
		State:              quest.StateActive,
		GeneratedRegionIDs: []string{"dynamic_caves_abc"},
	}
	p.ActiveCampaigns()["uprising"] = &campaign.Progress{CurrentNode: "node_war"}

	board := []*quest.Instance{{InstanceID: "board_1", Title: "Cull the Rats", State: quest.StateAvailable}}
	snap := Capture(p, board, w)

	if snap.Experience != 900 || snap.Gold != 120 {
		t.Errorf("Capture missed player state: %+v", snap)
	}
	if snap.GeneratedRegions["dynamic_caves_abc"] == nil {
		t.Fatal("Capture missed the quest-private region")
	}

	// Fresh world and player, as after a restart.
	w2 := world.New()
	w2.AddRegion(world.NewRegion("town", "Hollowmoor", ""))
	m2 := quest.NewManager(w2, cfg, quest.NewGenerator(w2, cfg, nil, region.NewGenerator(nil, rng), rng), rng)
	p2 := player.New("Tester", 1)

	Restore(snap, p2, m2, w2)

	if p2.Level() != 4 || p2.Experience() != 900 || p2.Gold() != 120 {
		t.Errorf("Player state not restored: level=%d xp=%d gold=%d", p2.Level(), p2.Experience(), p2.Gold())
	}
	if regionID, roomID := p2.Location(); regionID != "town" || roomID != "town_square" {
		t.Errorf("Location not restored: %s/%s", regionID, roomID)
	}
	if p2.QuestLog()["hunt_1"] == nil {
		t.Error("Quest log not restored")
	}
	if p2.ActiveCampaigns()["uprising"].CurrentNode != "node_war" {
		t.Error("Campaign progress not restored")
	}
	if len(m2.Board()) != 1 || m2.Board()[0].InstanceID != "board_1" {
		t.Error("Board not restored")
	}
	if w2.GetRegion("dynamic_caves_abc") == nil {
		t.Error("Quest-private region not restored")
	}
}
