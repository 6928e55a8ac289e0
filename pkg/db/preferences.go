package db

import (
	"fmt"
	"time"
)

const (
	WorkflowExtract = "extract"
	WorkflowStamp   = "stamp"
)

// Preference is one stored default.
type Preference struct {
	Workflow  string
	Key       string
	Value     string
	UpdatedAt time.Time
}

// LoadPreferences returns the stored defaults of a workflow as key/value pairs.
func (db *DB) LoadPreferences(workflow string) (map[string]string, error) {
	rows, err := db.Query("SELECT key, value FROM preferences WHERE workflow = ?", workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		values[key] = value
	}
	return values, rows.Err()
}

// SavePreferences upserts every pair in one transaction. An empty value
// removes the key.
func (db *DB) SavePreferences(workflow string, values map[string]string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for key, value := range values {
		if value == "" {
			if _, err := tx.Exec("DELETE FROM preferences WHERE workflow = ? AND key = ?", workflow, key); err != nil {
				return fmt.Errorf("failed to delete preference %s: %w", key, err)
			}
			continue
		}
		_, err := tx.Exec(`
			INSERT INTO preferences (workflow, key, value, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(workflow, key) DO UPDATE SET
				value = excluded.value,
				updated_at = CURRENT_TIMESTAMP
		`, workflow, key, value)
		if err != nil {
			return fmt.Errorf("failed to save preference %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit preferences: %w", err)
	}
	return nil
}

// ClearPreferences removes every stored default of a workflow, or of all
// workflows when workflow is empty.
func (db *DB) ClearPreferences(workflow string) (int64, error) {
	query := "DELETE FROM preferences"
	var args []interface{}
	if workflow != "" {
		query += " WHERE workflow = ?"
		args = append(args, workflow)
	}
	result, err := db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clear preferences: %w", err)
	}
	return result.RowsAffected()
}

// ListPreferences returns every stored default ordered by workflow and key.
func (db *DB) ListPreferences() ([]Preference, error) {
	rows, err := db.Query("SELECT workflow, key, value, updated_at FROM preferences ORDER BY workflow, key")
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	var prefs []Preference
	for rows.Next() {
		var p Preference
		if err := rows.Scan(&p.Workflow, &p.Key, &p.Value, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}

// PreferenceStore binds the preference table to one workflow.
type PreferenceStore struct {
	db       *DB
	workflow string
}

// Preferences returns a store scoped to workflow, suitable for a selector.
func (db *DB) Preferences(workflow string) *PreferenceStore {
	return &PreferenceStore{db: db, workflow: workflow}
}

func (s *PreferenceStore) Load() (map[string]string, error) {
	return s.db.LoadPreferences(s.workflow)
}

func (s *PreferenceStore) Save(values map[string]string) error {
	return s.db.SavePreferences(s.workflow, values)
}
