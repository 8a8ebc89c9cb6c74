package campaign

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCampaignFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write campaign file: %v", err)
	}
	return path
}

func TestLoadCampaignsFromYAML(t *testing.T) {
	path := writeCampaignFile(t, "campaigns.yaml", `
campaigns:
  uprising:
    title: "The Rat Uprising"
    description: "Something stirs beneath the fields."
    start_node: node_intro
    nodes:
      node_intro:
        type: QUEST
        quest_template_id: intro_quest
        transitions:
          - trigger: VIOLENT_SUCCESS
            target_node: node_end
            narrative_text: "Word spreads."
          - trigger: SUCCESS
            target_node: node_end
            chance: 0.5
      node_end:
        type: END
        outcome: war
        text: "The fields fall quiet."
`)

	defs, err := LoadCampaignsFromYAML(path)
	if err != nil {
		t.Fatalf("LoadCampaignsFromYAML failed: %v", err)
	}
	def := defs["uprising"]
	if def == nil {
		t.Fatal("uprising missing")
	}
	if def.ID != "uprising" || def.StartNode != "node_intro" {
		t.Errorf("Header wrong: %+v", def)
	}

	intro := def.Nodes["node_intro"]
	if intro == nil || intro.ID != "node_intro" {
		t.Fatal("Node ID not set from map key")
	}
	if intro.Type != NodeQuest || intro.QuestTemplateID != "intro_quest" {
		t.Errorf("Quest node wrong: %+v", intro)
	}
	if len(intro.Transitions) != 2 {
		t.Fatalf("Expected 2 transitions, got %d", len(intro.Transitions))
	}
	// An unset chance defaults to certain; an explicit one is kept.
	if intro.Transitions[0].Chance != 1.0 {
		t.Errorf("Expected default chance 1.0, got %v", intro.Transitions[0].Chance)
	}
	if intro.Transitions[1].Chance != 0.5 {
		t.Errorf("Expected chance 0.5, got %v", intro.Transitions[1].Chance)
	}
	if intro.Transitions[0].NarrativeText != "Word spreads." {
		t.Errorf("Narrative lost: %+v", intro.Transitions[0])
	}

	end := def.Nodes["node_end"]
	if end.Type != NodeEnd || end.Outcome != "war" {
		t.Errorf("End node wrong: %+v", end)
	}
}

func TestLoadCampaignsSkipsInvalid(t *testing.T) {
	path := writeCampaignFile(t, "campaigns.yaml", `
campaigns:
  bad_start:
    title: "Broken"
    start_node: nowhere
    nodes:
      node_a:
        type: END
  questless:
    title: "Broken"
    start_node: node_a
    nodes:
      node_a:
        type: QUEST
  bad_target:
    title: "Broken"
    start_node: node_a
    nodes:
      node_a:
        type: QUEST
        quest_template_id: q
        transitions:
          - trigger: SUCCESS
            target_node: nowhere
  good:
    title: "Fine"
    start_node: node_a
    nodes:
      node_a:
        type: END
`)

	defs, err := LoadCampaignsFromYAML(path)
	if err != nil {
		t.Fatalf("LoadCampaignsFromYAML failed: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("Expected only the valid campaign, got %d", len(defs))
	}
	if defs["good"] == nil {
		t.Error("Valid campaign was dropped")
	}
}

func TestLoadCampaignsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	write("a.yaml", "campaigns:\n  one:\n    start_node: n\n    nodes:\n      n:\n        type: END\n")
	write("b.yml", "campaigns:\n  two:\n    start_node: n\n    nodes:\n      n:\n        type: END\n")
	write("readme.md", "not a campaign")

	defs, err := LoadCampaignsFromDirectory(dir)
	if err != nil {
		t.Fatalf("LoadCampaignsFromDirectory failed: %v", err)
	}
	if len(defs) != 2 {
		t.Errorf("Expected 2 campaigns, got %d", len(defs))
	}
}

func TestLoadCampaignsMissingFile(t *testing.T) {
	if _, err := LoadCampaignsFromYAML("does/not/exist.yaml"); err == nil {
		t.Error("Expected error for missing campaigns file")
	}
}

func TestTriggerMatches(t *testing.T) {
	cases := []struct {
		trigger    string
		resolution string
		want       bool
	}{
		{"VIOLENT_SUCCESS", "VIOLENT_SUCCESS", true},
		{"SUCCESS", "VIOLENT_SUCCESS", true},
		{"SUCCESS", "SUCCESS", true},
		{"FAILURE", "TIMED_FAILURE", true},
		{"VIOLENT_SUCCESS", "SUCCESS", false},
		{"SUCCESS", "FAILURE", false},
		{"PEACEFUL_SUCCESS", "VIOLENT_SUCCESS", false},
	}
	for _, tc := range cases {
		if got := triggerMatches(tc.trigger, tc.resolution); got != tc.want {
			t.Errorf("triggerMatches(%q, %q) = %v, want %v", tc.trigger, tc.resolution, got, tc.want)
		}
	}
}
