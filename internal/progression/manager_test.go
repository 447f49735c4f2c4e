package progression

import (
	"errors"
	"fmt"
	"testing"
)

// memStore is an in-memory ProgressStore for tests.
type memStore struct {
	snap    *Snapshot
	loadErr error
	saveErr error
	saves   int
}

func (s *memStore) LoadSnapshot() (*Snapshot, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.snap, nil
}

func (s *memStore) SaveSnapshot(snap Snapshot) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.snap = &snap
	return nil
}

func testWorlds() []WorldDefinition {
	mkLevel := func(worldID, id int) LevelDefinition {
		return LevelDefinition{
			ID:      id,
			WorldID: worldID,
			Name:    fmt.Sprintf("Level %d-%d", worldID, id),
			Objective: Objective{
				Type:        ObjectiveScore,
				TargetScore: 1000,
				MoveCap:     30,
			},
			Tiers: [3]StarTier{
				{Score: 1000, Moves: 25},
				{Score: 1500, Moves: 20},
				{Score: 2200, Moves: 15},
			},
			Rewards: Rewards{Essence: 50, Experience: 100},
		}
	}

	world1 := WorldDefinition{
		ID:            1,
		Theme:         "Emerald Grove",
		Symbol:        "♣",
		StarsRequired: 0,
	}
	for i := 1; i <= 4; i++ {
		world1.Levels = append(world1.Levels, mkLevel(1, i))
	}

	world2 := WorldDefinition{
		ID:            2,
		Theme:         "Sapphire Depths",
		Symbol:        "♦",
		StarsRequired: 10,
	}
	for i := 1; i <= 2; i++ {
		world2.Levels = append(world2.Levels, mkLevel(2, i))
	}

	return []WorldDefinition{world1, world2}
}

func newTestManager(t *testing.T, store ProgressStore) *Manager {
	t.Helper()
	return NewManager(testWorlds(), Options{Store: store, Logger: quietLogger()})
}

func TestNewManagerBaseline(t *testing.T) {
	m := newTestManager(t, nil)

	w1, ok := m.World(1)
	if !ok || !w1.Progress.Unlocked {
		t.Fatal("world 1 should start unlocked")
	}
	if !w1.Levels[0].Progress.Unlocked {
		t.Error("first level of world 1 should start unlocked")
	}
	if w1.Levels[1].Progress.Unlocked {
		t.Error("second level of world 1 should start locked")
	}

	w2, _ := m.World(2)
	if w2.Progress.Unlocked {
		t.Error("world 2 should start locked")
	}
}

func TestStartLevelLockedOrUnknown(t *testing.T) {
	m := newTestManager(t, nil)

	if m.StartLevel(1, 2) {
		t.Error("starting a locked level should return false")
	}
	if m.StartLevel(1, 99) {
		t.Error("starting an unknown level should return false")
	}
	if m.StartLevel(99, 1) {
		t.Error("starting a level in an unknown world should return false")
	}
	if _, ok := m.CurrentLevel(); ok {
		t.Error("failed starts must not set the active level")
	}
}

func TestStartLevelEmitsEvent(t *testing.T) {
	m := newTestManager(t, nil)

	var started *LevelStartedEvent
	m.Events().Subscribe(func(e Event) {
		if ev, ok := e.(LevelStartedEvent); ok {
			started = &ev
		}
	})

	if !m.StartLevel(1, 1) {
		t.Fatal("StartLevel(1, 1) should succeed")
	}
	if started == nil {
		t.Fatal("expected LevelStartedEvent")
	}
	if started.Level.Name != "Level 1-1" {
		t.Errorf("event should carry the level definition, got %q", started.Level.Name)
	}
	if lvl, ok := m.CurrentLevel(); !ok || lvl.Def.ID != 1 {
		t.Error("active level not set")
	}
}

func TestCompleteLevelWithoutStart(t *testing.T) {
	m := newTestManager(t, nil)

	if res := m.CompleteLevel(2000, 10, 0); res != nil {
		t.Errorf("CompleteLevel without an active level should return nil, got %+v", res)
	}
}

func TestCompleteLevelRewardScenario(t *testing.T) {
	m := newTestManager(t, nil)
	m.StartLevel(1, 1)

	// Score 1500 in 20 moves meets the two-star tier exactly.
	res := m.CompleteLevel(1500, 20, 0)
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Stars != 2 {
		t.Errorf("expected 2 stars, got %d", res.Stars)
	}
	if res.Essence != 100 {
		t.Errorf("expected essence 50 + 2*25 = 100, got %d", res.Essence)
	}
	if res.Experience != 200 {
		t.Errorf("expected experience 100 + 2*50 = 200, got %d", res.Experience)
	}
	if !res.FirstCompletion {
		t.Error("expected first completion")
	}
	if !res.NewBestScore || !res.NewBestMoves || !res.NewStars {
		t.Errorf("expected fresh bests on first completion: %+v", res)
	}

	p := m.Profile()
	if p.Essence != 100 || p.Experience != 200 {
		t.Errorf("profile totals not updated: %+v", p)
	}
}

func TestCompleteLevelFailure(t *testing.T) {
	m := newTestManager(t, nil)
	m.StartLevel(1, 1)

	var failed *LevelFailedEvent
	m.Events().Subscribe(func(e Event) {
		if ev, ok := e.(LevelFailedEvent); ok {
			failed = &ev
		}
	})

	res := m.CompleteLevel(500, 10, 0)
	if res != nil {
		t.Fatalf("below-threshold attempt should return nil, got %+v", res)
	}
	if failed == nil {
		t.Fatal("expected LevelFailedEvent")
	}
	if failed.Score != 500 {
		t.Errorf("failed event should carry the attempt score, got %d", failed.Score)
	}

	lvl, _ := m.Level(1, 1)
	if lvl.Progress.Completed || lvl.Progress.Stars != 0 || lvl.Progress.BestScore != 0 {
		t.Errorf("failed attempt mutated progress: %+v", lvl.Progress)
	}
	w, _ := m.World(1)
	if w.Progress.LevelsCompleted != 0 {
		t.Error("failed attempt changed world completion count")
	}
}

func TestBestRecordsMonotonic(t *testing.T) {
	m := newTestManager(t, nil)
	m.StartLevel(1, 1)

	first := m.CompleteLevel(1500, 20, 90)
	if first == nil || first.Stars != 2 {
		t.Fatalf("setup completion failed: %+v", first)
	}

	// A worse second attempt still succeeds but must not regress bests.
	second := m.CompleteLevel(1100, 24, 120)
	if second == nil {
		t.Fatal("one-star attempt should succeed")
	}
	if second.Stars != 1 {
		t.Fatalf("expected 1 star, got %d", second.Stars)
	}
	if second.NewBestScore || second.NewBestMoves || second.NewBestTime || second.NewStars {
		t.Errorf("worse attempt flagged as new best: %+v", second)
	}
	if second.FirstCompletion {
		t.Error("second completion flagged as first")
	}

	lvl, _ := m.Level(1, 1)
	if lvl.Progress.BestScore != 1500 || lvl.Progress.BestMoves != 20 ||
		lvl.Progress.BestTimeSecs != 90 || lvl.Progress.Stars != 2 {
		t.Errorf("bests regressed: %+v", lvl.Progress)
	}

	// An improving third attempt raises them.
	third := m.CompleteLevel(2500, 12, 60)
	if third == nil || third.Stars != 3 {
		t.Fatalf("expected 3-star result, got %+v", third)
	}
	if !third.NewBestScore || !third.NewBestMoves || !third.NewBestTime || !third.NewStars {
		t.Errorf("improving attempt not flagged as new best: %+v", third)
	}
	lvl, _ = m.Level(1, 1)
	if lvl.Progress.BestScore != 2500 || lvl.Progress.Stars != 3 {
		t.Errorf("bests not updated: %+v", lvl.Progress)
	}
}

func TestUnlockNextLevel(t *testing.T) {
	m := newTestManager(t, nil)

	var unlocked []LevelUnlockedEvent
	m.Events().Subscribe(func(e Event) {
		if ev, ok := e.(LevelUnlockedEvent); ok {
			unlocked = append(unlocked, ev)
		}
	})

	m.StartLevel(1, 1)
	m.CompleteLevel(1200, 24, 0)

	lvl2, _ := m.Level(1, 2)
	if !lvl2.Progress.Unlocked {
		t.Fatal("completing level 1 should unlock level 2")
	}
	if len(unlocked) != 1 || unlocked[0].LevelID != 2 {
		t.Errorf("expected one unlock event for level 2, got %v", unlocked)
	}

	// Replaying the level must not re-emit the unlock.
	m.StartLevel(1, 1)
	m.CompleteLevel(1200, 24, 0)
	if len(unlocked) != 1 {
		t.Errorf("replay re-emitted level unlock: %v", unlocked)
	}
}

func TestWorldStarsEarnedIsSum(t *testing.T) {
	m := newTestManager(t, nil)

	m.StartLevel(1, 1)
	m.CompleteLevel(2500, 12, 0) // 3 stars
	m.StartLevel(1, 2)
	m.CompleteLevel(1500, 20, 0) // 2 stars

	w, _ := m.World(1)
	if w.Progress.StarsEarned != 5 {
		t.Fatalf("expected 5 stars earned, got %d", w.Progress.StarsEarned)
	}

	// Synthetic drift self-heals on the next completion.
	w.Progress.StarsEarned = 42
	m.StartLevel(1, 1)
	m.CompleteLevel(1200, 24, 0)
	if w.Progress.StarsEarned != 5 {
		t.Errorf("drifted total not recomputed: got %d", w.Progress.StarsEarned)
	}
}

func TestWorldCompletedOnce(t *testing.T) {
	m := newTestManager(t, nil)

	completions := 0
	m.Events().Subscribe(func(e Event) {
		if _, ok := e.(WorldCompletedEvent); ok {
			completions++
		}
	})

	for id := 1; id <= 4; id++ {
		if !m.StartLevel(1, id) {
			t.Fatalf("level %d should be unlocked by now", id)
		}
		m.CompleteLevel(2500, 12, 0)
	}

	w, _ := m.World(1)
	if !w.Progress.Completed {
		t.Fatal("world 1 should be completed")
	}
	if w.Progress.LevelsCompleted != 4 {
		t.Errorf("expected 4 levels completed, got %d", w.Progress.LevelsCompleted)
	}
	if completions != 1 {
		t.Fatalf("expected exactly one WorldCompletedEvent, got %d", completions)
	}

	// Replaying an already-completed level must not re-emit.
	m.StartLevel(1, 1)
	m.CompleteLevel(2500, 12, 0)
	if completions != 1 {
		t.Errorf("replay re-emitted WorldCompletedEvent (%d total)", completions)
	}
}

func TestWorldUnlockAtStarGate(t *testing.T) {
	m := newTestManager(t, nil)

	var worldUnlocks []WorldUnlockedEvent
	m.Events().Subscribe(func(e Event) {
		if ev, ok := e.(WorldUnlockedEvent); ok {
			worldUnlocks = append(worldUnlocks, ev)
		}
	})

	// Three 3-star runs: 9 stars, one short of world 2's gate.
	for id := 1; id <= 3; id++ {
		m.StartLevel(1, id)
		m.CompleteLevel(2500, 12, 0)
	}
	w2, _ := m.World(2)
	if w2.Progress.Unlocked {
		t.Fatal("world 2 unlocked below its star requirement")
	}

	// A one-star run on level 4 brings the total to exactly 10.
	m.StartLevel(1, 4)
	m.CompleteLevel(1200, 24, 0)

	if !w2.Progress.Unlocked {
		t.Fatal("world 2 should unlock at 10 cumulative stars")
	}
	if !w2.Levels[0].Progress.Unlocked {
		t.Error("unlocking a world should unlock its first level")
	}
	if len(worldUnlocks) != 1 || worldUnlocks[0].WorldID != 2 || worldUnlocks[0].FirstLevelID != 1 {
		t.Errorf("unexpected world unlock events: %v", worldUnlocks)
	}

	if !m.StartLevel(2, 1) {
		t.Error("first level of the unlocked world should be startable")
	}
}

func TestPersistAfterCompletion(t *testing.T) {
	store := &memStore{}
	m := newTestManager(t, store)

	m.StartLevel(1, 1)
	m.CompleteLevel(500, 10, 0) // failed attempt: no save
	if store.saves != 0 {
		t.Errorf("failed attempt triggered a save (%d)", store.saves)
	}

	m.CompleteLevel(1500, 20, 0)
	if store.saves != 1 {
		t.Fatalf("expected one save after completion, got %d", store.saves)
	}
	if store.snap == nil || len(store.snap.Worlds) != 2 {
		t.Fatal("snapshot missing worlds")
	}
}

func TestRestoreFromSnapshot(t *testing.T) {
	store := &memStore{}
	m := newTestManager(t, store)
	m.StartLevel(1, 1)
	m.CompleteLevel(2500, 12, 0)
	m.StartLevel(1, 2)
	m.CompleteLevel(1500, 20, 0)

	// A fresh manager over the same store resumes where we left off.
	restored := newTestManager(t, store)

	lvl, _ := restored.Level(1, 1)
	if !lvl.Progress.Completed || lvl.Progress.Stars != 3 || lvl.Progress.BestScore != 2500 {
		t.Errorf("level 1 progress not restored: %+v", lvl.Progress)
	}
	lvl3, _ := restored.Level(1, 3)
	if !lvl3.Progress.Unlocked {
		t.Error("unlock state not restored")
	}
	w, _ := restored.World(1)
	if w.Progress.StarsEarned != 5 || w.Progress.LevelsCompleted != 2 {
		t.Errorf("world aggregates not restored: %+v", w.Progress)
	}
	if p := restored.Profile(); p.Essence == 0 || p.Experience == 0 {
		t.Errorf("profile totals not restored: %+v", p)
	}
}

func TestRestoreIgnoresUnknownRecords(t *testing.T) {
	store := &memStore{snap: &Snapshot{
		Worlds: []WorldSnapshot{
			{WorldID: 99, Unlocked: true},
			{WorldID: 1, Unlocked: true, Levels: []LevelSnapshot{
				{LevelID: 1, Unlocked: true, Completed: true, BestScore: 1200, Stars: 1},
				{LevelID: 77, Unlocked: true, Completed: true, Stars: 3},
			}},
		},
	}}

	m := newTestManager(t, store)

	w, _ := m.World(1)
	if w.Progress.StarsEarned != 1 || w.Progress.LevelsCompleted != 1 {
		t.Errorf("aggregates should only count known levels: %+v", w.Progress)
	}
}

func TestStoreFailuresAreSwallowed(t *testing.T) {
	store := &memStore{loadErr: errors.New("disk on fire"), saveErr: errors.New("still on fire")}
	m := newTestManager(t, store)

	// Load failure leaves the default state.
	if !m.StartLevel(1, 1) {
		t.Fatal("load failure should leave world 1 level 1 unlocked")
	}

	// Save failure must not affect the returned result.
	res := m.CompleteLevel(1500, 20, 0)
	if res == nil || res.Stars != 2 {
		t.Errorf("save failure leaked into the result: %+v", res)
	}
}

func TestStats(t *testing.T) {
	m := newTestManager(t, nil)
	m.StartLevel(1, 1)
	m.CompleteLevel(2500, 12, 0)

	s := m.Stats()
	if s.TotalWorlds != 2 || s.TotalLevels != 6 {
		t.Errorf("unexpected totals: %+v", s)
	}
	if s.StarsTotal != 18 {
		t.Errorf("expected 18 possible stars, got %d", s.StarsTotal)
	}
	if s.StarsEarned != 3 || s.LevelsCompleted != 1 {
		t.Errorf("unexpected progress: %+v", s)
	}
	if s.WorldsUnlocked != 1 || s.LevelsUnlocked != 2 {
		t.Errorf("unexpected unlock counts: %+v", s)
	}
	if s.EssenceEarned != 125 || s.ExperienceEarned != 250 {
		t.Errorf("unexpected reward totals: %+v", s)
	}
}
