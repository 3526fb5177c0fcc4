// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/glowcare/glowtui/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for reminders and completed wizard sessions.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reminders (
			id INTEGER PRIMARY KEY,
			slot TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			fire_at TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS wizard_sessions (
			id INTEGER PRIMARY KEY,
			finished_at TEXT NOT NULL,
			name TEXT NOT NULL,
			age INTEGER NOT NULL,
			age_group TEXT NOT NULL,
			skin_type TEXT NOT NULL,
			city TEXT NOT NULL,
			temperature_c REAL NOT NULL,
			humidity_pct REAL NOT NULL,
			has_weather INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_recommendations (
			session_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			product TEXT NOT NULL,
			PRIMARY KEY (session_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_fire_at ON reminders(fire_at);`,
		`CREATE INDEX IF NOT EXISTS idx_wizard_sessions_finished_at ON wizard_sessions(finished_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertReminder stores a scheduled reminder.
func (s *Store) InsertReminder(ctx context.Context, r model.Reminder) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (slot, title, body, fire_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(r.Slot),
		r.Title,
		r.Body,
		r.FireAt.Format(time.RFC3339Nano),
		r.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListReminders returns reminders firing at or after the given instant,
// ordered by fire time. A zero instant returns everything.
func (s *Store) ListReminders(ctx context.Context, after time.Time) ([]model.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slot, title, body, fire_at, created_at
		 FROM reminders
		 WHERE fire_at >= ?
		 ORDER BY fire_at ASC`,
		after.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var reminders []model.Reminder
	for rows.Next() {
		var r model.Reminder
		var slot, fireAt, createdAt string
		if err := rows.Scan(&r.ID, &slot, &r.Title, &r.Body, &fireAt, &createdAt); err != nil {
			return nil, err
		}
		r.Slot = model.TimeSlot(slot)
		if r.FireAt, err = time.Parse(time.RFC3339Nano, fireAt); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reminders, nil
}

// InsertSession stores a completed wizard session and its ordered
// recommendations.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	hasWeather := 0
	if rec.HasWeather {
		hasWeather = 1
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO wizard_sessions (finished_at, name, age, age_group, skin_type, city, temperature_c, humidity_pct, has_weather)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.FinishedAt.Format(time.RFC3339Nano),
		rec.Name,
		rec.Age,
		string(rec.AgeGroup),
		string(rec.SkinType),
		rec.City,
		rec.TemperatureC,
		rec.HumidityPct,
		hasWeather,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(rec.Recommendations) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO session_recommendations (session_id, position, product) VALUES (?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, product := range rec.Recommendations {
			if _, err := stmt.ExecContext(ctx, id, i, product); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSessions returns completed wizard sessions, oldest first, with their
// ordered recommendations attached.
func (s *Store) ListSessions(ctx context.Context) ([]model.SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, finished_at, name, age, age_group, skin_type, city, temperature_c, humidity_pct, has_weather
		 FROM wizard_sessions
		 ORDER BY finished_at ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var finishedAt, ageGroup, skinType string
		var hasWeather int
		if err := rows.Scan(&rec.ID, &finishedAt, &rec.Name, &rec.Age, &ageGroup, &skinType, &rec.City, &rec.TemperatureC, &rec.HumidityPct, &hasWeather); err != nil {
			return nil, err
		}
		if rec.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, err
		}
		rec.AgeGroup = model.AgeGroup(ageGroup)
		rec.SkinType = model.SkinType(skinType)
		rec.HasWeather = hasWeather != 0
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sessions {
		recs, err := s.listRecommendations(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Recommendations = recs
	}
	return sessions, nil
}

func (s *Store) listRecommendations(ctx context.Context, sessionID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product FROM session_recommendations WHERE session_id = ? ORDER BY position ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var products []string
	for rows.Next() {
		var product string
		if err := rows.Scan(&product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
