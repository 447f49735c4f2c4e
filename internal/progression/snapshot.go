package progression

import "time"

// Snapshot is the serializable view of all mutable progress. Static
// definitions are deliberately absent: they always come from the
// content catalog, so content updates cannot corrupt saved progress.
type Snapshot struct {
	SavedAt time.Time
	Profile ProfileSnapshot
	Worlds  []WorldSnapshot
}

// ProfileSnapshot carries the accumulated reward totals.
type ProfileSnapshot struct {
	Essence    int
	Experience int
}

// WorldSnapshot is the persisted progress of one world.
type WorldSnapshot struct {
	WorldID         int
	Unlocked        bool
	Completed       bool
	LevelsCompleted int
	StarsEarned     int
	CompletedAt     time.Time
	Levels          []LevelSnapshot
}

// LevelSnapshot is the persisted progress of one level.
type LevelSnapshot struct {
	LevelID      int
	Unlocked     bool
	Completed    bool
	BestScore    int
	BestMoves    int
	BestTimeSecs int
	Stars        int
	CompletedAt  time.Time
}

// ProgressStore persists progress snapshots. LoadSnapshot returns
// (nil, nil) when no prior save exists. Implementations decide their own
// durability; the manager logs and swallows store errors so a broken
// store never breaks gameplay.
type ProgressStore interface {
	LoadSnapshot() (*Snapshot, error)
	SaveSnapshot(Snapshot) error
}

// Attempt is one successful level attempt, recorded for history.
type Attempt struct {
	WorldID  int
	LevelID  int
	Score    int
	Moves    int
	TimeSecs int
	Stars    int
}

// AttemptRecorder appends successful attempts to a history log.
type AttemptRecorder interface {
	RecordAttempt(Attempt) error
}
