// Package progression implements the world/level progression engine for
// Gems Rush: star ratings, best-record tracking, reward grants, unlock
// propagation and progress persistence. Static definitions (what a level
// is) are kept separate from mutable progress (how the player did), so
// content updates never touch saved progress.
package progression

import (
	"fmt"
	"time"
)

// ObjectiveType identifies what a level asks the player to do.
type ObjectiveType string

const (
	ObjectiveScore   ObjectiveType = "score"
	ObjectiveMoves   ObjectiveType = "moves"
	ObjectiveTime    ObjectiveType = "time"
	ObjectiveClear   ObjectiveType = "clear"
	ObjectiveCombo   ObjectiveType = "combo"
	ObjectiveCascade ObjectiveType = "cascade"
	ObjectiveBoss    ObjectiveType = "boss"
)

// Objective is the static goal of a level. Only the fields relevant to
// Type are set; the rest stay zero.
type Objective struct {
	Type          ObjectiveType
	TargetScore   int
	MoveCap       int // 0 = no cap
	TimeLimitSecs int // 0 = no limit
	ClearGem      string
	ClearCount    int
	ComboTarget   int
	CascadeTarget int
}

// String renders a short human-readable goal line for CLI/TUI display.
func (o Objective) String() string {
	switch o.Type {
	case ObjectiveScore:
		return fmt.Sprintf("Score %d points", o.TargetScore)
	case ObjectiveMoves:
		return fmt.Sprintf("Score %d points in %d moves", o.TargetScore, o.MoveCap)
	case ObjectiveTime:
		return fmt.Sprintf("Score %d points in %ds", o.TargetScore, o.TimeLimitSecs)
	case ObjectiveClear:
		return fmt.Sprintf("Clear %d %s gems", o.ClearCount, o.ClearGem)
	case ObjectiveCombo:
		return fmt.Sprintf("Reach a %dx combo", o.ComboTarget)
	case ObjectiveCascade:
		return fmt.Sprintf("Trigger a %d-chain cascade", o.CascadeTarget)
	case ObjectiveBoss:
		return fmt.Sprintf("Defeat the boss (%d points)", o.TargetScore)
	default:
		return string(o.Type)
	}
}

// StarTier is one performance threshold. Score is the minimum; Moves and
// TimeSecs are maximums where 0 means unbounded.
type StarTier struct {
	Score    int
	Moves    int
	TimeSecs int
}

// Rewards holds the currency and experience granted on completion.
// BonusEssence is granted once, on the first-ever completion.
type Rewards struct {
	Essence      int
	Experience   int
	BonusEssence int
}

// LevelDefinition is the static description of a level. Definitions are
// built once at startup from the content catalog and never mutated.
type LevelDefinition struct {
	ID        int
	WorldID   int
	Name      string
	Objective Objective
	// Tiers[0] is the one-star tier, Tiers[2] the three-star tier.
	Tiers   [3]StarTier
	Rewards Rewards
}

// LevelProgress is the mutable per-level record. BestMoves and
// BestTimeSecs use 0 as the "never set" sentinel, so they only ever
// decrease once set. BestScore and Stars only ever increase.
type LevelProgress struct {
	Unlocked     bool
	Completed    bool
	BestScore    int
	BestMoves    int
	BestTimeSecs int
	Stars        int
	CompletedAt  time.Time
}

// Level pairs a static definition with its progress record.
type Level struct {
	Def      LevelDefinition
	Progress LevelProgress
}

// LevelResult is returned by Manager.CompleteLevel for a successful
// (one-or-more-star) attempt.
type LevelResult struct {
	WorldID  int
	LevelID  int
	Score    int
	Moves    int
	TimeSecs int
	Stars    int

	// Granted rewards, star bonus included.
	Essence    int
	Experience int

	NewBestScore    bool
	NewBestMoves    bool
	NewBestTime     bool
	NewStars        bool
	FirstCompletion bool
}
