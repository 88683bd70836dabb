package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// GestureSetting is a stored override of one gesture kind's settings.
type GestureSetting struct {
	Kind        string
	Threshold   float64
	Direction   string
	MinInterval time.Duration
	MinCalm     int
	MinActive   int
	Enabled     bool
	UpdatedAt   time.Time
}

// GestureRepository provides CRUD operations for gesture settings.
type GestureRepository struct {
	db *sql.DB
}

// Gestures returns the gesture repository for this store.
func (s *Store) Gestures() *GestureRepository {
	return &GestureRepository{db: s.db}
}

const gestureColumns = `kind, threshold, direction, min_interval_ms, min_calm, min_active, enabled, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanGesture(row scanner) (*GestureSetting, error) {
	g := &GestureSetting{}
	var intervalMS int64

	err := row.Scan(&g.Kind, &g.Threshold, &g.Direction, &intervalMS, &g.MinCalm, &g.MinActive, &g.Enabled, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}

	g.MinInterval = time.Duration(intervalMS) * time.Millisecond
	return g, nil
}

// Upsert inserts or replaces the setting for g.Kind.
func (r *GestureRepository) Upsert(g *GestureSetting) error {
	g.UpdatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO gestures (`+gestureColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(kind) DO UPDATE SET
			threshold = excluded.threshold,
			direction = excluded.direction,
			min_interval_ms = excluded.min_interval_ms,
			min_calm = excluded.min_calm,
			min_active = excluded.min_active,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at`,
		g.Kind, g.Threshold, g.Direction, g.MinInterval.Milliseconds(), g.MinCalm, g.MinActive, g.Enabled, g.UpdatedAt,
	)
	return err
}

// Get retrieves the setting for a kind.
func (r *GestureRepository) Get(kind string) (*GestureSetting, error) {
	g, err := scanGesture(r.db.QueryRow(
		`SELECT `+gestureColumns+` FROM gestures WHERE kind = ?`,
		kind,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

// List retrieves all settings ordered by kind.
func (r *GestureRepository) List() ([]*GestureSetting, error) {
	rows, err := r.db.Query(`SELECT ` + gestureColumns + ` FROM gestures ORDER BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*GestureSetting
	for rows.Next() {
		g, err := scanGesture(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Delete removes the setting for a kind, restoring its defaults on next load.
func (r *GestureRepository) Delete(kind string) error {
	result, err := r.db.Exec(`DELETE FROM gestures WHERE kind = ?`, kind)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
