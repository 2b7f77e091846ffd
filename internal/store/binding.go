package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Binding maps a gesture lifecycle event to a plugin action.
type Binding struct {
	ID         string
	Gesture    string
	EventKind  string
	PluginName string
	ActionName string
	Config     string // JSON blob passed through to the plugin
	Enabled    bool
	CreatedAt  time.Time
}

// BindingRepository provides CRUD operations for bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

// Create inserts a new binding, assigning an ID when none is set.
func (r *BindingRepository) Create(b *Binding) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.CreatedAt = time.Now()
	if b.Config == "" {
		b.Config = "{}"
	}

	_, err := r.db.Exec(
		`INSERT INTO bindings (id, gesture, event_kind, plugin_name, action_name, config, enabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Gesture, b.EventKind, b.PluginName, b.ActionName, b.Config, b.Enabled, b.CreatedAt,
	)
	return err
}

// ListForEvent returns the enabled bindings matching a gesture and
// event kind.
func (r *BindingRepository) ListForEvent(gesture, eventKind string) ([]*Binding, error) {
	rows, err := r.db.Query(
		`SELECT id, gesture, event_kind, plugin_name, action_name, config, enabled, created_at
		 FROM bindings
		 WHERE gesture = ? AND event_kind = ? AND enabled = 1
		 ORDER BY created_at`,
		gesture, eventKind,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBindings(rows)
}

// List returns all bindings ordered by creation time.
func (r *BindingRepository) List() ([]*Binding, error) {
	rows, err := r.db.Query(
		`SELECT id, gesture, event_kind, plugin_name, action_name, config, enabled, created_at
		 FROM bindings ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBindings(rows)
}

// Delete removes a binding by its ID.
func (r *BindingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bindings WHERE id = ?`, id)
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

func scanBindings(rows *sql.Rows) ([]*Binding, error) {
	var bindings []*Binding
	for rows.Next() {
		b := &Binding{}
		err := rows.Scan(&b.ID, &b.Gesture, &b.EventKind, &b.PluginName, &b.ActionName, &b.Config, &b.Enabled, &b.CreatedAt)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bindings, nil
}
