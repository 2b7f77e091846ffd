package store

import (
	"database/sql"
	"errors"
	"time"
)

// GestureConfig is a persisted per-gesture configuration row.
// Threshold is nil when the detector default applies.
type GestureConfig struct {
	Name      string
	Enabled   bool
	Threshold *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GestureConfigRepository provides access to persisted gesture
// configuration.
type GestureConfigRepository struct {
	db *sql.DB
}

// GestureConfigs returns the gesture config repository for this store.
func (s *Store) GestureConfigs() *GestureConfigRepository {
	return &GestureConfigRepository{db: s.db}
}

// Upsert inserts or replaces the configuration for a gesture.
func (r *GestureConfigRepository) Upsert(c *GestureConfig) error {
	now := time.Now()
	c.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO gesture_configs (name, enabled, threshold, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   enabled = excluded.enabled,
		   threshold = excluded.threshold,
		   updated_at = excluded.updated_at`,
		c.Name, c.Enabled, c.Threshold, now, now,
	)
	return err
}

// Get retrieves the configuration for a single gesture.
func (r *GestureConfigRepository) Get(name string) (*GestureConfig, error) {
	c := &GestureConfig{}

	err := r.db.QueryRow(
		`SELECT name, enabled, threshold, created_at, updated_at
		 FROM gesture_configs WHERE name = ?`,
		name,
	).Scan(&c.Name, &c.Enabled, &c.Threshold, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return c, nil
}

// List retrieves all persisted gesture configurations ordered by name.
func (r *GestureConfigRepository) List() ([]*GestureConfig, error) {
	rows, err := r.db.Query(
		`SELECT name, enabled, threshold, created_at, updated_at
		 FROM gesture_configs ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []*GestureConfig
	for rows.Next() {
		c := &GestureConfig{}
		if err := rows.Scan(&c.Name, &c.Enabled, &c.Threshold, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return configs, nil
}

// Delete removes a gesture configuration, reverting the gesture to
// its defaults.
func (r *GestureConfigRepository) Delete(name string) error {
	result, err := r.db.Exec(`DELETE FROM gesture_configs WHERE name = ?`, name)
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
