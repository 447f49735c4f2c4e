package progression

import (
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// Options configures a Manager. All fields are optional: a nil Store
// runs in-memory only, a nil Recorder skips attempt history, a nil
// Logger falls back to log.Default().
type Options struct {
	Store    ProgressStore
	Recorder AttemptRecorder
	Logger   *log.Logger
}

// Manager owns the world collection and is the single mutation entry
// point for progress. It is not safe for concurrent use; callers drive
// it from one goroutine, the same way the TUI drives its models.
type Manager struct {
	worlds  []*World
	byID    map[int]*World
	profile ProfileSnapshot

	activeWorld *World
	activeLevel *Level

	bus      *Bus
	store    ProgressStore
	recorder AttemptRecorder
	logger   *log.Logger
}

// NewManager builds the runtime records from the given definitions,
// unlocks world 1 and its first level, and restores any prior save from
// the store. Definitions are assumed validated (see content.Validate).
func NewManager(defs []WorldDefinition, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	m := &Manager{
		byID:     make(map[int]*World, len(defs)),
		bus:      NewBus(logger),
		store:    opts.Store,
		recorder: opts.Recorder,
		logger:   logger,
	}

	for _, def := range defs {
		w := newWorld(def)
		m.worlds = append(m.worlds, w)
		m.byID[def.ID] = w
	}
	sort.Slice(m.worlds, func(i, j int) bool {
		return m.worlds[i].Def.ID < m.worlds[j].Def.ID
	})

	m.restore()
	m.unlockBaseline()

	return m
}

// Events returns the manager's event bus for subscriptions.
func (m *Manager) Events() *Bus {
	return m.bus
}

// unlockBaseline ensures the entry point of the game is reachable: the
// first world and its first level are always unlocked, whatever a
// loaded snapshot says.
func (m *Manager) unlockBaseline() {
	if len(m.worlds) == 0 {
		return
	}
	first := m.worlds[0]
	first.Progress.Unlocked = true
	if len(first.Levels) > 0 {
		first.Levels[0].Progress.Unlocked = true
	}
}

// restore loads the saved snapshot, if any, and merges its progress
// fields into the in-memory records. Load failures are logged and leave
// the default all-locked state; they never propagate to the caller.
func (m *Manager) restore() {
	if m.store == nil {
		return
	}

	snap, err := m.store.LoadSnapshot()
	if err != nil {
		m.logger.Warn("could not load saved progress, starting fresh", "error", err)
		return
	}
	if snap == nil {
		return
	}

	m.profile = snap.Profile

	for _, ws := range snap.Worlds {
		w, ok := m.byID[ws.WorldID]
		if !ok {
			// World removed from content since the save; skip its rows.
			m.logger.Debug("saved progress references unknown world", "world", ws.WorldID)
			continue
		}
		w.Progress.Unlocked = ws.Unlocked
		w.Progress.Completed = ws.Completed
		w.Progress.CompletedAt = ws.CompletedAt

		for _, ls := range ws.Levels {
			lvl := w.Level(ls.LevelID)
			if lvl == nil {
				m.logger.Debug("saved progress references unknown level",
					"world", ws.WorldID, "level", ls.LevelID)
				continue
			}
			lvl.Progress.Unlocked = ls.Unlocked
			lvl.Progress.Completed = ls.Completed
			lvl.Progress.BestScore = ls.BestScore
			lvl.Progress.BestMoves = ls.BestMoves
			lvl.Progress.BestTimeSecs = ls.BestTimeSecs
			lvl.Progress.Stars = ls.Stars
			lvl.Progress.CompletedAt = ls.CompletedAt
		}

		// Aggregates are derived from level records rather than trusted
		// from the save, so drift self-corrects on load.
		w.Progress.StarsEarned = w.starsSum()
		w.Progress.LevelsCompleted = 0
		for _, lvl := range w.Levels {
			if lvl.Progress.Completed {
				w.Progress.LevelsCompleted++
			}
		}
	}
}

// StartLevel marks the given level as the active attempt. Returns false
// without side effects when the level does not exist or is locked.
func (m *Manager) StartLevel(worldID, levelID int) bool {
	w, ok := m.byID[worldID]
	if !ok {
		return false
	}
	lvl := w.Level(levelID)
	if lvl == nil || !lvl.Progress.Unlocked {
		return false
	}

	m.activeWorld = w
	m.activeLevel = lvl
	m.bus.Publish(LevelStartedEvent{WorldID: worldID, LevelID: levelID, Level: lvl.Def})
	return true
}

// CompleteLevel applies the outcome of the active attempt. Returns nil
// when no level is active, or when the attempt misses the one-star tier
// (a LevelFailedEvent is published and nothing is mutated). On success
// it updates bests, grants rewards, propagates unlocks, persists, and
// publishes a LevelCompletedEvent.
func (m *Manager) CompleteLevel(score, moves, timeSecs int) *LevelResult {
	if m.activeLevel == nil {
		return nil
	}
	w, lvl := m.activeWorld, m.activeLevel

	stars := CalculateStars(lvl.Def, score, moves, timeSecs)
	if stars == 0 {
		m.bus.Publish(LevelFailedEvent{
			WorldID:  w.Def.ID,
			LevelID:  lvl.Def.ID,
			Score:    score,
			Moves:    moves,
			TimeSecs: timeSecs,
		})
		return nil
	}

	first := !lvl.Progress.Completed

	essence := lvl.Def.Rewards.Essence + stars*EssencePerStar
	if first {
		essence += lvl.Def.Rewards.BonusEssence
	}
	experience := lvl.Def.Rewards.Experience + stars*ExperiencePerStar

	res := &LevelResult{
		WorldID:         w.Def.ID,
		LevelID:         lvl.Def.ID,
		Score:           score,
		Moves:           moves,
		TimeSecs:        timeSecs,
		Stars:           stars,
		Essence:         essence,
		Experience:      experience,
		NewBestScore:    score > lvl.Progress.BestScore,
		NewBestMoves:    moves > 0 && (lvl.Progress.BestMoves == 0 || moves < lvl.Progress.BestMoves),
		NewBestTime:     timeSecs > 0 && (lvl.Progress.BestTimeSecs == 0 || timeSecs < lvl.Progress.BestTimeSecs),
		NewStars:        stars > lvl.Progress.Stars,
		FirstCompletion: first,
	}

	lvl.Progress.Completed = true
	if res.NewBestScore {
		lvl.Progress.BestScore = score
	}
	if res.NewBestMoves {
		lvl.Progress.BestMoves = moves
	}
	if res.NewBestTime {
		lvl.Progress.BestTimeSecs = timeSecs
	}
	if res.NewStars {
		lvl.Progress.Stars = stars
	}
	lvl.Progress.CompletedAt = time.Now()

	m.profile.Essence += essence
	m.profile.Experience += experience

	if first {
		w.Progress.LevelsCompleted++
	}
	w.Progress.StarsEarned = w.starsSum()
	if w.Progress.LevelsCompleted == len(w.Levels) && !w.Progress.Completed {
		w.Progress.Completed = true
		w.Progress.CompletedAt = time.Now()
		m.bus.Publish(WorldCompletedEvent{WorldID: w.Def.ID, StarsEarned: w.Progress.StarsEarned})
	}

	m.propagateUnlocks(w, lvl)
	m.persist()
	m.record(*res)

	m.bus.Publish(LevelCompletedEvent{
		WorldID: w.Def.ID,
		LevelID: lvl.Def.ID,
		Result:  *res,
		First:   first,
	})

	return res
}

// propagateUnlocks opens the successor level in the same world and, when
// the cumulative star gate is met, the next world and its first level.
// Level ids are contiguous within a world (enforced at content load), so
// the successor lookup is id+1.
func (m *Manager) propagateUnlocks(w *World, completed *Level) {
	if next := w.Level(completed.Def.ID + 1); next != nil && !next.Progress.Unlocked {
		next.Progress.Unlocked = true
		m.bus.Publish(LevelUnlockedEvent{WorldID: w.Def.ID, LevelID: next.Def.ID})
	}

	nextWorld, ok := m.byID[w.Def.ID+1]
	if !ok || nextWorld.Progress.Unlocked {
		return
	}

	total := 0
	for _, other := range m.worlds {
		if other.Def.ID < nextWorld.Def.ID {
			total += other.Progress.StarsEarned
		}
	}
	if total < nextWorld.Def.StarsRequired {
		return
	}

	nextWorld.Progress.Unlocked = true
	firstLevelID := 0
	if len(nextWorld.Levels) > 0 {
		nextWorld.Levels[0].Progress.Unlocked = true
		firstLevelID = nextWorld.Levels[0].Def.ID
	}
	m.bus.Publish(WorldUnlockedEvent{WorldID: nextWorld.Def.ID, FirstLevelID: firstLevelID})
}

// persist writes the current snapshot to the store. Save failures are
// logged and dropped; the next successful completion retries naturally.
func (m *Manager) persist() {
	if m.store == nil {
		return
	}
	if err := m.store.SaveSnapshot(m.Snapshot()); err != nil {
		m.logger.Warn("could not save progress", "error", err)
	}
}

func (m *Manager) record(res LevelResult) {
	if m.recorder == nil {
		return
	}
	attempt := Attempt{
		WorldID:  res.WorldID,
		LevelID:  res.LevelID,
		Score:    res.Score,
		Moves:    res.Moves,
		TimeSecs: res.TimeSecs,
		Stars:    res.Stars,
	}
	if err := m.recorder.RecordAttempt(attempt); err != nil {
		m.logger.Warn("could not record attempt", "error", err)
	}
}

// Snapshot captures the current mutable state for persistence.
func (m *Manager) Snapshot() Snapshot {
	snap := Snapshot{
		SavedAt: time.Now(),
		Profile: m.profile,
		Worlds:  make([]WorldSnapshot, 0, len(m.worlds)),
	}
	for _, w := range m.worlds {
		ws := WorldSnapshot{
			WorldID:         w.Def.ID,
			Unlocked:        w.Progress.Unlocked,
			Completed:       w.Progress.Completed,
			LevelsCompleted: w.Progress.LevelsCompleted,
			StarsEarned:     w.Progress.StarsEarned,
			CompletedAt:     w.Progress.CompletedAt,
			Levels:          make([]LevelSnapshot, 0, len(w.Levels)),
		}
		for _, lvl := range w.Levels {
			ws.Levels = append(ws.Levels, LevelSnapshot{
				LevelID:      lvl.Def.ID,
				Unlocked:     lvl.Progress.Unlocked,
				Completed:    lvl.Progress.Completed,
				BestScore:    lvl.Progress.BestScore,
				BestMoves:    lvl.Progress.BestMoves,
				BestTimeSecs: lvl.Progress.BestTimeSecs,
				Stars:        lvl.Progress.Stars,
				CompletedAt:  lvl.Progress.CompletedAt,
			})
		}
		snap.Worlds = append(snap.Worlds, ws)
	}
	return snap
}

// World returns the world with the given id.
func (m *Manager) World(worldID int) (*World, bool) {
	w, ok := m.byID[worldID]
	return w, ok
}

// Worlds returns all worlds ordered by id.
func (m *Manager) Worlds() []*World {
	out := make([]*World, len(m.worlds))
	copy(out, m.worlds)
	return out
}

// Level returns the level with the given ids.
func (m *Manager) Level(worldID, levelID int) (*Level, bool) {
	w, ok := m.byID[worldID]
	if !ok {
		return nil, false
	}
	lvl := w.Level(levelID)
	if lvl == nil {
		return nil, false
	}
	return lvl, true
}

// CurrentLevel returns the active level set by StartLevel, if any.
func (m *Manager) CurrentLevel() (*Level, bool) {
	if m.activeLevel == nil {
		return nil, false
	}
	return m.activeLevel, true
}

// Profile returns the accumulated reward totals.
func (m *Manager) Profile() ProfileSnapshot {
	return m.profile
}
