// Package store provides the SQLite-backed progress store for TrailForge.
// It exposes a key→JSON contract for aggregate state plus dedicated tables
// for unlocked achievements and the pedometer audit history.
// Uses WAL mode for crash-safe writes.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/trailforge/trailforge/internal/domain"
)

// Well-known keys in the progress table. Each key has exactly one owner:
// the engine owns the gamification state, the pedometer owns its day bucket,
// the sync step reads the auth token and owns the sync watermarks.
const (
	KeyGamificationState = "gamification_state"
	KeyPedometerState    = "pedometer_state"
	KeyLastSyncAt        = "last_sync_at"
	KeyLastSyncedTotal   = "last_synced_total"
	KeyAuthToken         = "auth_token"
	KeyDeviceID          = "device_id"
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/progress.db.
// Enables WAL mode and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "progress.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Key-value store: aggregate state as JSON strings
		`CREATE TABLE IF NOT EXISTS progress (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Unlocked achievements
		`CREATE TABLE IF NOT EXISTS achievements (
			id          TEXT PRIMARY KEY,
			unlocked_at INTEGER NOT NULL
		)`,

		// Pedometer anti-cheat audit history (rolling 30 days)
		`CREATE TABLE IF NOT EXISTS step_history (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			steps     INTEGER NOT NULL,
			reason    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_steps_ts ON step_history(timestamp)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Key-Value ──────────────────────────────────────────────────────────────

// Set stores a key-value pair.
func (d *DB) Set(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO progress (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}

// Get retrieves a value by key. Returns "" if the key is absent.
func (d *DB) Get(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM progress WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// Delete removes a key. Deleting an absent key is not an error.
func (d *DB) Delete(key string) error {
	_, err := d.db.Exec(`DELETE FROM progress WHERE key = ?`, key)
	return err
}

// SetJSON marshals v and stores it under key.
func (d *DB) SetJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return d.Set(key, string(data))
}

// GetJSON unmarshals the value at key into out. Returns false if the key is
// absent. A malformed stored value returns (false, ErrCorrupt): callers must
// treat it as absence of data and fall back to a zero state.
func (d *DB) GetJSON(key string, out any) (bool, error) {
	raw, err := d.Get(key)
	if err != nil {
		return false, err
	}
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("%w: key %s", domain.ErrCorrupt, key)
	}
	return true, nil
}

// ─── Achievements ───────────────────────────────────────────────────────────

// UnlockAchievement records an achievement as unlocked.
// Returns false if already unlocked (idempotent).
func (d *DB) UnlockAchievement(id string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO achievements (id, unlocked_at) VALUES (?, ?)`,
		id, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly unlocked
}

// IsAchievementUnlocked checks whether an achievement has been unlocked.
func (d *DB) IsAchievementUnlocked(id string) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM achievements WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListUnlockedAchievements returns all unlocked achievements, newest first.
func (d *DB) ListUnlockedAchievements() ([]domain.UnlockedAchievement, error) {
	rows, err := d.db.Query(
		`SELECT id, unlocked_at FROM achievements ORDER BY unlocked_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []domain.UnlockedAchievement
	for rows.Next() {
		var a domain.UnlockedAchievement
		var unlockedAt int64
		if err := rows.Scan(&a.ID, &unlockedAt); err != nil {
			return nil, err
		}
		a.UnlockedAt = time.Unix(unlockedAt, 0)
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// UnlockedAchievementIDs returns the set of unlocked achievement IDs.
func (d *DB) UnlockedAchievementIDs() (map[string]bool, error) {
	rows, err := d.db.Query(`SELECT id FROM achievements`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// UnlockedAchievementCount returns the total number of unlocked achievements.
func (d *DB) UnlockedAchievementCount() (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM achievements`).Scan(&count)
	return count, err
}

// ─── Step History ───────────────────────────────────────────────────────────

// AppendStepSample records one accepted step delta in the audit history.
func (d *DB) AppendStepSample(s domain.StepSample) error {
	_, err := d.db.Exec(
		`INSERT INTO step_history (timestamp, steps, reason) VALUES (?, ?, ?)`,
		s.Timestamp.Unix(), s.Steps, string(s.Reason),
	)
	return err
}

// StepsSince sums accepted steps with a timestamp at or after since.
func (d *DB) StepsSince(since time.Time) (int64, error) {
	var total sql.NullInt64
	err := d.db.QueryRow(
		`SELECT SUM(steps) FROM step_history WHERE timestamp >= ?`, since.Unix(),
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

// ListStepSamples returns samples at or after since, oldest first.
func (d *DB) ListStepSamples(since time.Time) ([]domain.StepSample, error) {
	rows, err := d.db.Query(
		`SELECT timestamp, steps, reason FROM step_history
		 WHERE timestamp >= ? ORDER BY timestamp ASC`, since.Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []domain.StepSample
	for rows.Next() {
		var s domain.StepSample
		var ts int64
		var reason string
		if err := rows.Scan(&ts, &s.Steps, &reason); err != nil {
			return nil, err
		}
		s.Timestamp = time.Unix(ts, 0)
		s.Reason = domain.StepReason(reason)
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// PruneStepSamples deletes samples older than before. Returns rows removed.
func (d *DB) PruneStepSamples(before time.Time) (int64, error) {
	result, err := d.db.Exec(
		`DELETE FROM step_history WHERE timestamp < ?`, before.Unix(),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ─── Full Reset ─────────────────────────────────────────────────────────────

// ResetAll clears every aggregate key, the gamification and pedometer state,
// all unlocked achievements, and the step history in one transaction. This is
// the only supported "delete all progress" path: afterwards progress state is
// indistinguishable from first run. The auth token and device identity are
// owned by the account, not by progress, and survive the reset.
func (d *DB) ResetAll() error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	stmts := []struct {
		sql  string
		args []any
	}{
		{`DELETE FROM progress WHERE key NOT IN (?, ?)`, []any{KeyAuthToken, KeyDeviceID}},
		{`DELETE FROM achievements`, nil},
		{`DELETE FROM step_history`, nil},
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s.sql, s.args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("reset: %w", err)
		}
	}
	return tx.Commit()
}
