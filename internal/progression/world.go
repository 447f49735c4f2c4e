package progression

import "time"

// WorldDefinition is the static description of a themed world: an
// ordered run of levels behind a cumulative star gate.
type WorldDefinition struct {
	ID          int
	Theme       string
	Description string
	Symbol      string
	// StarsRequired is the minimum total stars earned across all worlds
	// with a strictly smaller ID. World 1 requires 0.
	StarsRequired int
	Levels        []LevelDefinition
}

// WorldProgress is the mutable per-world record. StarsEarned is always
// recomputed as the sum over the world's levels, never incremented.
type WorldProgress struct {
	Unlocked        bool
	Completed       bool
	LevelsCompleted int
	StarsEarned     int
	CompletedAt     time.Time
}

// World pairs a world definition with its progress and the per-level
// records built from the definition's levels.
type World struct {
	Def      WorldDefinition
	Progress WorldProgress
	Levels   []*Level
}

// Level returns the contained level with the given ID, or nil.
func (w *World) Level(levelID int) *Level {
	for _, lvl := range w.Levels {
		if lvl.Def.ID == levelID {
			return lvl
		}
	}
	return nil
}

// starsSum recomputes the total stars earned across the world's levels.
func (w *World) starsSum() int {
	total := 0
	for _, lvl := range w.Levels {
		total += lvl.Progress.Stars
	}
	return total
}

// newWorld builds the runtime record for a world definition. Everything
// starts locked; the manager unlocks world 1 and restores saved state.
func newWorld(def WorldDefinition) *World {
	w := &World{Def: def, Levels: make([]*Level, 0, len(def.Levels))}
	for _, ld := range def.Levels {
		w.Levels = append(w.Levels, &Level{Def: ld})
	}
	return w
}
