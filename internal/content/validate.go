package content

import "fmt"

var objectiveTypes = map[string]bool{
	"score":   true,
	"moves":   true,
	"time":    true,
	"clear":   true,
	"combo":   true,
	"cascade": true,
	"boss":    true,
}

// Validate enforces the catalog authoring invariants the engine relies
// on. World and level ids must be contiguous starting at 1: unlock
// propagation looks up the successor by id+1, so a gap in numbering
// would silently strand the player.
func Validate(c Catalog) error {
	if len(c.Worlds) == 0 {
		return fmt.Errorf("content: catalog has no worlds")
	}

	for i, w := range c.Worlds {
		if w.ID != i+1 {
			return fmt.Errorf("content: world ids must be contiguous from 1, got %d at position %d", w.ID, i+1)
		}
		if w.Theme == "" {
			return fmt.Errorf("content: world %d has no theme", w.ID)
		}
		if w.ID == 1 && w.StarsRequired != 0 {
			return fmt.Errorf("content: world 1 must require 0 stars, got %d", w.StarsRequired)
		}
		if w.StarsRequired < 0 {
			return fmt.Errorf("content: world %d has negative star requirement", w.ID)
		}
		if len(w.Levels) == 0 {
			return fmt.Errorf("content: world %d has no levels", w.ID)
		}

		for j, lvl := range w.Levels {
			if lvl.ID != j+1 {
				return fmt.Errorf("content: world %d level ids must be contiguous from 1, got %d at position %d",
					w.ID, lvl.ID, j+1)
			}
			if lvl.Name == "" {
				return fmt.Errorf("content: world %d level %d has no name", w.ID, lvl.ID)
			}
			if !objectiveTypes[string(lvl.Objective.Type)] {
				return fmt.Errorf("content: world %d level %d has unknown objective type %q",
					w.ID, lvl.ID, lvl.Objective.Type)
			}
			if lvl.Rewards.Essence < 0 || lvl.Rewards.Experience < 0 || lvl.Rewards.BonusEssence < 0 {
				return fmt.Errorf("content: world %d level %d has negative rewards", w.ID, lvl.ID)
			}

			prev := 0
			for t, tier := range lvl.Tiers {
				if tier.Score <= 0 {
					return fmt.Errorf("content: world %d level %d tier %d needs a positive score",
						w.ID, lvl.ID, t+1)
				}
				if tier.Score < prev {
					return fmt.Errorf("content: world %d level %d tier %d score %d below tier %d",
						w.ID, lvl.ID, t+1, tier.Score, t)
				}
				if tier.Moves < 0 || tier.TimeSecs < 0 {
					return fmt.Errorf("content: world %d level %d tier %d has negative bounds",
						w.ID, lvl.ID, t+1)
				}
				prev = tier.Score
			}
		}
	}

	return nil
}
