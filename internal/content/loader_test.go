package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/gems-rush/internal/progression"
)

const sampleYAML = `
worlds:
  - id: 1
    theme: "Test Grove"
    symbol: "T"
    stars_required: 0
    levels:
      - id: 1
        name: "Opener"
        objective: { type: score, target_score: 1000, move_cap: 30 }
        stars:
          - { score: 1000, moves: 25 }
          - { score: 1500, moves: 20 }
          - { score: 2200, moves: 15 }
        rewards: { essence: 50, experience: 100, bonus_essence: 10 }
      - id: 2
        name: "Closer"
        objective: { type: clear, clear_gem: emerald, clear_count: 10 }
        stars:
          - { score: 1200 }
          - { score: 1800 }
          - { score: 2600 }
        rewards: { essence: 60, experience: 120 }
`

func TestParseSampleCatalog(t *testing.T) {
	catalog, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if len(catalog.Worlds) != 1 {
		t.Fatalf("expected 1 world, got %d", len(catalog.Worlds))
	}
	w := catalog.Worlds[0]
	if w.Theme != "Test Grove" || len(w.Levels) != 2 {
		t.Errorf("unexpected world: %+v", w)
	}

	lvl := w.Levels[0]
	if lvl.WorldID != 1 {
		t.Errorf("level should inherit its world id, got %d", lvl.WorldID)
	}
	if lvl.Objective.Type != progression.ObjectiveScore || lvl.Objective.MoveCap != 30 {
		t.Errorf("unexpected objective: %+v", lvl.Objective)
	}
	if lvl.Tiers[1] != (progression.StarTier{Score: 1500, Moves: 20}) {
		t.Errorf("unexpected tier: %+v", lvl.Tiers[1])
	}
	if lvl.Rewards.BonusEssence != 10 {
		t.Errorf("unexpected rewards: %+v", lvl.Rewards)
	}

	clear := w.Levels[1]
	if clear.Objective.ClearGem != "emerald" || clear.Objective.ClearCount != 10 {
		t.Errorf("unexpected clear objective: %+v", clear.Objective)
	}
}

func TestParseRejectsWrongTierCount(t *testing.T) {
	bad := strings.Replace(sampleYAML, "          - { score: 2200, moves: 15 }\n", "", 1)
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected error for missing star tier")
	}
}

func TestValidateRejectsGappyLevelIDs(t *testing.T) {
	bad := strings.Replace(sampleYAML, "- id: 2\n        name: \"Closer\"", "- id: 3\n        name: \"Closer\"", 1)
	_, err := Parse([]byte(bad))
	if err == nil {
		t.Fatal("expected error for non-contiguous level ids")
	}
	if !strings.Contains(err.Error(), "contiguous") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnknownObjective(t *testing.T) {
	bad := strings.Replace(sampleYAML, "type: score", "type: juggling", 1)
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected error for unknown objective type")
	}
}

func TestValidateRejectsGatedFirstWorld(t *testing.T) {
	bad := strings.Replace(sampleYAML, "stars_required: 0", "stars_required: 5", 1)
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected error for world 1 with a star requirement")
	}
}

func TestDefaultCatalog(t *testing.T) {
	catalog, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	if len(catalog.Worlds) < 2 {
		t.Fatalf("expected at least 2 worlds in the shipping catalog, got %d", len(catalog.Worlds))
	}
	if catalog.Worlds[0].StarsRequired != 0 {
		t.Error("world 1 must be open from the start")
	}
	for _, w := range catalog.Worlds[1:] {
		if w.StarsRequired <= 0 {
			t.Errorf("world %d should have a star gate", w.ID)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "worlds.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	catalog, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if catalog.Worlds[0].Theme != "Test Grove" {
		t.Errorf("loaded wrong catalog: %+v", catalog.Worlds[0])
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("explicit missing path should fail, not fall back")
	}
}
