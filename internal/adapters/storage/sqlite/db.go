package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pet-vaccination-history/internal/platform/calendar"

	_ "modernc.org/sqlite" // driver sqlite en Go puro
)

const schema = `
CREATE TABLE IF NOT EXISTS pets (
	id            TEXT PRIMARY KEY,
	owner_user_id TEXT NOT NULL,
	name          TEXT NOT NULL,
	species       TEXT NOT NULL,
	breed         TEXT NOT NULL DEFAULT '',
	sex           TEXT NOT NULL DEFAULT 'unknown',
	size          TEXT NOT NULL DEFAULT '',
	weight_kg     REAL NULL,
	birth_date    TEXT NULL,
	notes         TEXT NOT NULL DEFAULT '',
	traits        TEXT NOT NULL DEFAULT '{}',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pets_owner ON pets (owner_user_id, created_at);

CREATE TABLE IF NOT EXISTS vaccinations (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL UNIQUE,
	pet_id       TEXT NOT NULL REFERENCES pets (id) ON DELETE CASCADE,
	vaccine_type TEXT NOT NULL,
	applied_date TEXT NOT NULL,
	due_date     TEXT NULL,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_vaccinations_pet ON vaccinations (pet_id, seq);
`

// Open abre (o crea) el archivo y aplica el esquema. ":memory:" sirve para tests.
func Open(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		path = "petvax.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// una sola conexión: los PRAGMA son por conexión y ":memory:" no se comparte
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	for _, stmt := range []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA busy_timeout = 5000`,
		schema,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
	}
	return db, nil
}

// Fechas de calendario como texto ISO; timestamps como RFC3339Nano.

func nullDate(d *calendar.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.ISO(), Valid: true}
}

func fromNullDate(ns sql.NullString) (*calendar.Date, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := calendar.ParseISO(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}
