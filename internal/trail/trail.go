// Package trail records pose estimates to sqlite for later analysis.
//
// The trail is telemetry only: it is never read back into the estimator,
// so a process restart always dead-reckons from scratch. Each recorder
// instance writes under a fresh session id.
package trail

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/liam830666/LemLib/internal/units"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Sample is one recorded pose observation.
type Sample struct {
	UnixNanos int64
	Pose      units.Pose
}

// Recorder writes pose samples for a single session.
type Recorder struct {
	db        *sql.DB
	sessionID uuid.UUID
}

// Open opens (creating if needed) the trail database at path, applies
// pending migrations, and starts a new session with the given label.
func Open(path, label string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("trail: open %s: %w", path, err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}

	r := &Recorder{db: db, sessionID: uuid.New()}
	_, err = db.Exec(`INSERT INTO sessions (session_id, started_at, label) VALUES (?, ?, ?)`,
		r.sessionID.String(), time.Now().UTC(), label)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("trail: create session: %w", err)
	}
	return r, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("trail: load migrations: %w", err)
	}
	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("trail: migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("trail: migration setup: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("trail: migrate up: %w", err)
	}
	return nil
}

// SessionID returns this recorder's session id.
func (r *Recorder) SessionID() uuid.UUID { return r.sessionID }

// Record appends one pose sample at the given time.
func (r *Recorder) Record(t time.Time, p units.Pose) error {
	_, err := r.db.Exec(
		`INSERT INTO pose_samples (session_id, t_unix_nanos, x_m, y_m, theta_rad) VALUES (?, ?, ?, ?, ?)`,
		r.sessionID.String(), t.UnixNano(), p.X.Metres(), p.Y.Metres(), p.Theta.Radians())
	if err != nil {
		return fmt.Errorf("trail: record sample: %w", err)
	}
	return nil
}

// Samples returns the session's samples in time order.
func (r *Recorder) Samples() ([]Sample, error) {
	return SamplesForSession(r.db, r.sessionID)
}

// SamplesForSession reads all samples of one session in time order.
func SamplesForSession(db *sql.DB, sessionID uuid.UUID) ([]Sample, error) {
	rows, err := db.Query(
		`SELECT t_unix_nanos, x_m, y_m, theta_rad FROM pose_samples WHERE session_id = ? ORDER BY t_unix_nanos`,
		sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("trail: query samples: %w", err)
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var s Sample
		var x, y, theta float64
		if err := rows.Scan(&s.UnixNanos, &x, &y, &theta); err != nil {
			return nil, fmt.Errorf("trail: scan sample: %w", err)
		}
		s.Pose = units.Pose{X: units.Metres(x), Y: units.Metres(y), Theta: units.Radians(theta)}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DB exposes the underlying handle for read-only tooling.
func (r *Recorder) DB() *sql.DB { return r.db }

// Close ends the session. Samples stay on disk.
func (r *Recorder) Close() error {
	return r.db.Close()
}
