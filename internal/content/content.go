// Package content loads the static world/level catalog from YAML.
// The catalog is the authoring surface of the game: progression only
// consumes the validated definitions and never reads files itself.
package content

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/gems-rush/internal/progression"
)

// Catalog is a validated set of world definitions, ordered by id.
type Catalog struct {
	Worlds []progression.WorldDefinition
}

// YAML wire format. Level world ids are implied by nesting.

type yamlCatalog struct {
	Worlds []yamlWorld `yaml:"worlds"`
}

type yamlWorld struct {
	ID            int         `yaml:"id"`
	Theme         string      `yaml:"theme"`
	Description   string      `yaml:"description,omitempty"`
	Symbol        string      `yaml:"symbol,omitempty"`
	StarsRequired int         `yaml:"stars_required"`
	Levels        []yamlLevel `yaml:"levels"`
}

type yamlLevel struct {
	ID        int           `yaml:"id"`
	Name      string        `yaml:"name"`
	Objective yamlObjective `yaml:"objective"`
	Stars     []yamlTier    `yaml:"stars"`
	Rewards   yamlRewards   `yaml:"rewards"`
}

type yamlObjective struct {
	Type          string `yaml:"type"`
	TargetScore   int    `yaml:"target_score,omitempty"`
	MoveCap       int    `yaml:"move_cap,omitempty"`
	TimeLimitSecs int    `yaml:"time_limit_secs,omitempty"`
	ClearGem      string `yaml:"clear_gem,omitempty"`
	ClearCount    int    `yaml:"clear_count,omitempty"`
	ComboTarget   int    `yaml:"combo_target,omitempty"`
	CascadeTarget int    `yaml:"cascade_target,omitempty"`
}

type yamlTier struct {
	Score    int `yaml:"score"`
	Moves    int `yaml:"moves,omitempty"`
	TimeSecs int `yaml:"time_secs,omitempty"`
}

type yamlRewards struct {
	Essence      int `yaml:"essence"`
	Experience   int `yaml:"experience"`
	BonusEssence int `yaml:"bonus_essence,omitempty"`
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (Catalog, error) {
	var yc yamlCatalog
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Catalog{}, fmt.Errorf("content: yaml unmarshal: %w", err)
	}

	catalog := Catalog{Worlds: make([]progression.WorldDefinition, 0, len(yc.Worlds))}
	for _, yw := range yc.Worlds {
		wd := progression.WorldDefinition{
			ID:            yw.ID,
			Theme:         yw.Theme,
			Description:   yw.Description,
			Symbol:        yw.Symbol,
			StarsRequired: yw.StarsRequired,
			Levels:        make([]progression.LevelDefinition, 0, len(yw.Levels)),
		}
		for _, yl := range yw.Levels {
			ld := progression.LevelDefinition{
				ID:      yl.ID,
				WorldID: yw.ID,
				Name:    yl.Name,
				Objective: progression.Objective{
					Type:          progression.ObjectiveType(yl.Objective.Type),
					TargetScore:   yl.Objective.TargetScore,
					MoveCap:       yl.Objective.MoveCap,
					TimeLimitSecs: yl.Objective.TimeLimitSecs,
					ClearGem:      yl.Objective.ClearGem,
					ClearCount:    yl.Objective.ClearCount,
					ComboTarget:   yl.Objective.ComboTarget,
					CascadeTarget: yl.Objective.CascadeTarget,
				},
				Rewards: progression.Rewards{
					Essence:      yl.Rewards.Essence,
					Experience:   yl.Rewards.Experience,
					BonusEssence: yl.Rewards.BonusEssence,
				},
			}
			if len(yl.Stars) != len(ld.Tiers) {
				return Catalog{}, fmt.Errorf("content: world %d level %d: expected %d star tiers, got %d",
					yw.ID, yl.ID, len(ld.Tiers), len(yl.Stars))
			}
			for i, yt := range yl.Stars {
				ld.Tiers[i] = progression.StarTier{
					Score:    yt.Score,
					Moves:    yt.Moves,
					TimeSecs: yt.TimeSecs,
				}
			}
			wd.Levels = append(wd.Levels, ld)
		}
		catalog.Worlds = append(catalog.Worlds, wd)
	}

	if err := Validate(catalog); err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}
