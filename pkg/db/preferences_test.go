package db

import (
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = connect(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestSaveAndLoadPreferences(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.SavePreferences(WorkflowExtract, map[string]string{
		"mode":          "stamp_only",
		"output_mode":   "split",
		"include_clean": "true",
	})
	if err != nil {
		t.Fatalf("SavePreferences() error = %v", err)
	}

	got, err := db.LoadPreferences(WorkflowExtract)
	if err != nil {
		t.Fatalf("LoadPreferences() error = %v", err)
	}
	if got["mode"] != "stamp_only" || got["output_mode"] != "split" || got["include_clean"] != "true" {
		t.Errorf("LoadPreferences() = %v", got)
	}

	other, err := db.LoadPreferences(WorkflowStamp)
	if err != nil {
		t.Fatalf("LoadPreferences(stamp) error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("stamp preferences = %v, want none", other)
	}
}

func TestSavePreferences_Upsert(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.SavePreferences(WorkflowStamp, map[string]string{"position": "top-left"}); err != nil {
		t.Fatal(err)
	}
	if err := db.SavePreferences(WorkflowStamp, map[string]string{"position": "bottom-left"}); err != nil {
		t.Fatal(err)
	}

	prefs, err := db.ListPreferences()
	if err != nil {
		t.Fatalf("ListPreferences() error = %v", err)
	}
	if len(prefs) != 1 {
		t.Fatalf("got %d preferences, want 1", len(prefs))
	}
	if prefs[0].Value != "bottom-left" {
		t.Errorf("position = %q, want bottom-left", prefs[0].Value)
	}
}

func TestSavePreferences_EmptyValueDeletes(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := db.Preferences(WorkflowExtract)
	if err := store.Save(map[string]string{"mode": "none", "output_mode": "single"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(map[string]string{"mode": ""}); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got["mode"]; ok {
		t.Errorf("mode still stored: %v", got)
	}
	if got["output_mode"] != "single" {
		t.Errorf("output_mode = %q, want single", got["output_mode"])
	}
}

func TestClearPreferences(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_ = db.SavePreferences(WorkflowExtract, map[string]string{"mode": "none"})
	_ = db.SavePreferences(WorkflowStamp, map[string]string{"position": "top-left"})

	n, err := db.ClearPreferences(WorkflowExtract)
	if err != nil {
		t.Fatalf("ClearPreferences() error = %v", err)
	}
	if n != 1 {
		t.Errorf("cleared %d rows, want 1", n)
	}

	n, err = db.ClearPreferences("")
	if err != nil {
		t.Fatalf("ClearPreferences(all) error = %v", err)
	}
	if n != 1 {
		t.Errorf("cleared %d rows, want 1", n)
	}
}

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := db.SavePreferences(WorkflowStamp, map[string]string{"position": "top-right"}); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	if reopened.Path() != path {
		t.Errorf("Path() = %q, want %q", reopened.Path(), path)
	}
	got, err := reopened.LoadPreferences(WorkflowStamp)
	if err != nil {
		t.Fatal(err)
	}
	if got["position"] != "top-right" {
		t.Errorf("position = %q, want top-right", got["position"])
	}
}
