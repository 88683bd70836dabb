package store

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/mudra/internal/hand"
)

// EventRecord is one accepted gesture in the timeline.
type EventRecord struct {
	ID        string
	Kind      string
	Chirality string
	Pose      hand.Pose
	// Elapsed is the session time the event fired at.
	Elapsed   time.Duration
	CreatedAt time.Time
}

// EventFilter narrows List results. Zero values match everything.
type EventFilter struct {
	Kind      string
	Chirality string
	Since     time.Time
	Limit     int
}

// DefaultEventLimit caps List when the filter sets no limit.
const DefaultEventLimit = 100

// EventRepository stores the event timeline.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts an event, assigning an ID and creation time when unset.
func (r *EventRepository) Create(e *EventRecord) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	p, q := e.Pose.Position, e.Pose.Orientation
	_, err := r.db.Exec(
		`INSERT INTO gesture_events
			(id, kind, chirality, pos_x, pos_y, pos_z, rot_real, rot_i, rot_j, rot_k, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Kind, e.Chirality, p.X, p.Y, p.Z, q.Real, q.Imag, q.Jmag, q.Kmag, e.Elapsed.Milliseconds(), e.CreatedAt.UnixMilli(),
	)
	return err
}

// List returns events matching f, newest first.
func (r *EventRepository) List(f EventFilter) ([]*EventRecord, error) {
	var (
		where []string
		args  []any
	)
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, f.Kind)
	}
	if f.Chirality != "" {
		where = append(where, "chirality = ?")
		args = append(args, f.Chirality)
	}
	if !f.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, f.Since.UnixMilli())
	}

	query := `SELECT id, kind, chirality, pos_x, pos_y, pos_z, rot_real, rot_i, rot_j, rot_k, elapsed_ms, created_at
		FROM gesture_events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	query += " ORDER BY created_at DESC, elapsed_ms DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*EventRecord
	for rows.Next() {
		e := &EventRecord{}
		var (
			pos       r3.Vec
			rot       r3.Rotation
			elapsedMS int64
			createdMS int64
		)
		err := rows.Scan(&e.ID, &e.Kind, &e.Chirality, &pos.X, &pos.Y, &pos.Z, &rot.Real, &rot.Imag, &rot.Jmag, &rot.Kmag, &elapsedMS, &createdMS)
		if err != nil {
			return nil, err
		}
		e.Pose = hand.Pose{Position: pos, Orientation: rot}
		e.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		e.CreatedAt = time.UnixMilli(createdMS).UTC()
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// CountByKind returns the number of stored events per kind.
func (r *EventRepository) CountByKind() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT kind, COUNT(*) FROM gesture_events GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}

	return counts, rows.Err()
}

// DeleteBefore removes events created before t and returns how many were removed.
func (r *EventRepository) DeleteBefore(t time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM gesture_events WHERE created_at < ?`, t.UnixMilli())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
