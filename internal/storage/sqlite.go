// Package storage provides SQLite-based persistence for progression
// snapshots and attempt history. Uses the pure-Go modernc.org/sqlite
// driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/gems-rush/internal/progression"
)

// schemaVersion is written to the meta table on every save. Opening a
// database written by a newer build is refused rather than guessed at.
const schemaVersion = 1

// Store manages the SQLite database connection for progress persistence.
type Store struct {
	db *sql.DB
}

// AttemptEntry is a single recorded level attempt.
type AttemptEntry struct {
	ID        int64
	WorldID   int
	LevelID   int
	Score     int
	Moves     int
	TimeSecs  int
	Stars     int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the schema if needed and verifies the version.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS world_progress (
			world_id INTEGER PRIMARY KEY,
			unlocked INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			levels_completed INTEGER NOT NULL DEFAULT 0,
			stars_earned INTEGER NOT NULL DEFAULT 0,
			completed_at INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS level_progress (
			world_id INTEGER NOT NULL,
			level_id INTEGER NOT NULL,
			unlocked INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0,
			best_moves INTEGER NOT NULL DEFAULT 0,
			best_time_secs INTEGER NOT NULL DEFAULT 0,
			stars INTEGER NOT NULL DEFAULT 0,
			completed_at INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (world_id, level_id)
		);

		CREATE TABLE IF NOT EXISTS profile (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			essence INTEGER NOT NULL DEFAULT 0,
			experience INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			world_id INTEGER NOT NULL,
			level_id INTEGER NOT NULL,
			score INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			time_secs INTEGER NOT NULL,
			stars INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_attempts_level ON attempts(world_id, level_id, score DESC);
		CREATE INDEX IF NOT EXISTS idx_attempts_recent ON attempts(created_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	var stored string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.Exec(
			"INSERT INTO meta (key, value) VALUES ('schema_version', ?)",
			strconv.Itoa(schemaVersion),
		)
		return err
	case err != nil:
		return err
	}

	version, err := strconv.Atoi(stored)
	if err != nil {
		return fmt.Errorf("corrupt schema_version %q", stored)
	}
	if version > schemaVersion {
		return fmt.Errorf("database schema v%d is newer than supported v%d", version, schemaVersion)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSnapshot writes the full progress snapshot in one transaction.
func (s *Store) SaveSnapshot(snap progression.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO profile (id, essence, experience) VALUES (1, ?, ?)`,
		snap.Profile.Essence, snap.Profile.Experience,
	); err != nil {
		return fmt.Errorf("storage: cannot save profile: %w", err)
	}

	for _, w := range snap.Worlds {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO world_progress
			 (world_id, unlocked, completed, levels_completed, stars_earned, completed_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			w.WorldID,
			boolToInt(w.Unlocked),
			boolToInt(w.Completed),
			w.LevelsCompleted,
			w.StarsEarned,
			unixOrZero(w.CompletedAt),
		); err != nil {
			return fmt.Errorf("storage: cannot save world %d: %w", w.WorldID, err)
		}

		for _, lvl := range w.Levels {
			if _, err := tx.Exec(
				`INSERT OR REPLACE INTO level_progress
				 (world_id, level_id, unlocked, completed, best_score, best_moves, best_time_secs, stars, completed_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				w.WorldID,
				lvl.LevelID,
				boolToInt(lvl.Unlocked),
				boolToInt(lvl.Completed),
				lvl.BestScore,
				lvl.BestMoves,
				lvl.BestTimeSecs,
				lvl.Stars,
				unixOrZero(lvl.CompletedAt),
			); err != nil {
				return fmt.Errorf("storage: cannot save level %d-%d: %w", w.WorldID, lvl.LevelID, err)
			}
		}
	}

	savedAt := snap.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('saved_at', ?)`,
		strconv.FormatInt(savedAt.Unix(), 10),
	); err != nil {
		return fmt.Errorf("storage: cannot save timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit save: %w", err)
	}
	return nil
}

// LoadSnapshot reads the saved progress. Returns (nil, nil) when the
// database holds no prior save.
func (s *Store) LoadSnapshot() (*progression.Snapshot, error) {
	var savedAtRaw string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'saved_at'").Scan(&savedAtRaw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read save timestamp: %w", err)
	}

	snap := &progression.Snapshot{}
	if secs, parseErr := strconv.ParseInt(savedAtRaw, 10, 64); parseErr == nil {
		snap.SavedAt = time.Unix(secs, 0)
	}

	err = s.db.QueryRow("SELECT essence, experience FROM profile WHERE id = 1").
		Scan(&snap.Profile.Essence, &snap.Profile.Experience)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot read profile: %w", err)
	}

	levelsByWorld, err := s.loadLevelRows()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT world_id, unlocked, completed, levels_completed, stars_earned, completed_at
		 FROM world_progress ORDER BY world_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query world progress: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ws progression.WorldSnapshot
		var unlocked, completed int
		var completedAt int64
		if err := rows.Scan(&ws.WorldID, &unlocked, &completed,
			&ws.LevelsCompleted, &ws.StarsEarned, &completedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan world row: %w", err)
		}
		ws.Unlocked = unlocked != 0
		ws.Completed = completed != 0
		ws.CompletedAt = timeFromUnix(completedAt)
		ws.Levels = levelsByWorld[ws.WorldID]
		snap.Worlds = append(snap.Worlds, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: world row iteration error: %w", err)
	}

	return snap, nil
}

// loadLevelRows reads all level progress grouped by world id.
func (s *Store) loadLevelRows() (map[int][]progression.LevelSnapshot, error) {
	rows, err := s.db.Query(
		`SELECT world_id, level_id, unlocked, completed, best_score, best_moves, best_time_secs, stars, completed_at
		 FROM level_progress ORDER BY world_id, level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level progress: %w", err)
	}
	defer rows.Close()

	byWorld := make(map[int][]progression.LevelSnapshot)
	for rows.Next() {
		var worldID, unlocked, completed int
		var ls progression.LevelSnapshot
		var completedAt int64
		if err := rows.Scan(&worldID, &ls.LevelID, &unlocked, &completed,
			&ls.BestScore, &ls.BestMoves, &ls.BestTimeSecs, &ls.Stars, &completedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan level row: %w", err)
		}
		ls.Unlocked = unlocked != 0
		ls.Completed = completed != 0
		ls.CompletedAt = timeFromUnix(completedAt)
		byWorld[worldID] = append(byWorld[worldID], ls)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: level row iteration error: %w", err)
	}

	return byWorld, nil
}

// RecordAttempt appends a successful attempt to the history log.
func (s *Store) RecordAttempt(a progression.Attempt) error {
	_, err := s.db.Exec(
		`INSERT INTO attempts (world_id, level_id, score, moves, time_secs, stars)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.WorldID, a.LevelID, a.Score, a.Moves, a.TimeSecs, a.Stars,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record attempt: %w", err)
	}
	return nil
}

// RecentAttempts retrieves the most recent attempts across all levels.
func (s *Store) RecentAttempts(limit int) ([]AttemptEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, world_id, level_id, score, moves, time_secs, stars, created_at
		 FROM attempts
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query attempts: %w", err)
	}
	defer rows.Close()

	return scanAttempts(rows)
}

// BestAttempts retrieves the top attempts for one level, best score first.
func (s *Store) BestAttempts(worldID, levelID, limit int) ([]AttemptEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, world_id, level_id, score, moves, time_secs, stars, created_at
		 FROM attempts
		 WHERE world_id = ? AND level_id = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		worldID, levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query attempts: %w", err)
	}
	defer rows.Close()

	return scanAttempts(rows)
}

func scanAttempts(rows *sql.Rows) ([]AttemptEntry, error) {
	var entries []AttemptEntry
	for rows.Next() {
		var e AttemptEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.WorldID, &e.LevelID, &e.Score, &e.Moves,
			&e.TimeSecs, &e.Stars, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan attempt row: %w", err)
		}

		// Parse the datetime - handle both time.Time and string
		switch v := createdAt.(type) {
		case time.Time:
			e.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				e.CreatedAt = parsed
			}
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: attempt row iteration error: %w", err)
	}

	return entries, nil
}

// ClearProgress deletes all saved progress and attempt history.
func (s *Store) ClearProgress() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM level_progress",
		"DELETE FROM world_progress",
		"DELETE FROM profile",
		"DELETE FROM attempts",
		"DELETE FROM meta WHERE key = 'saved_at'",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("storage: cannot clear progress: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit reset: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeFromUnix(secs int64) time.Time {
	if secs == 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}

// Ensure Store satisfies the progression persistence contracts.
var (
	_ progression.ProgressStore   = (*Store)(nil)
	_ progression.AttemptRecorder = (*Store)(nil)
)
