package store

import (
	"database/sql"
	"time"
)

// Event is one logged gesture lifecycle transition.
type Event struct {
	ID         string
	SessionID  string
	Kind       string
	Gesture    string
	Hand       string
	Confidence float64
	At         time.Time
}

// EventRepository provides access to the session event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Insert appends an event to the log.
func (r *EventRepository) Insert(e *Event) error {
	_, err := r.db.Exec(
		`INSERT INTO events (id, session_id, kind, gesture, hand, confidence, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Kind, e.Gesture, e.Hand, e.Confidence, e.At,
	)
	return err
}

// Recent returns the most recent events, newest first.
func (r *EventRepository) Recent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, kind, gesture, hand, confidence, at
		 FROM events ORDER BY at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.Gesture, &e.Hand, &e.Confidence, &e.At); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// PurgeBefore deletes log entries older than the given time and
// returns how many were removed.
func (r *EventRepository) PurgeBefore(t time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM events WHERE at < ?`, t)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
