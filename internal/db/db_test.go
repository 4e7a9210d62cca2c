package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "export.db")

	db, err := Create(dbPath)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file not created at %s", dbPath)
	}

	// Verify WAL mode is active
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		t.Fatalf("failed to query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %s, want wal", journalMode)
	}

	for _, table := range []string{"meta", "folders", "resources"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("%s table not found: %v", table, err)
		}
	}
}

func TestCreate_RefusesExistingFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "export.db")
	if err := os.WriteFile(dbPath, []byte("x"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Create(dbPath); err == nil {
		t.Fatal("Create() on existing file succeeded, want error")
	}
}

func TestInitBaseDir(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "nested", ".pintree")

	if err := InitBaseDir(baseDir); err != nil {
		t.Fatalf("InitBaseDir() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(baseDir, "exports"))
	if err != nil {
		t.Fatalf("exports directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("exports path is not a directory")
	}
}

func TestUserVersion(t *testing.T) {
	db, err := Create(filepath.Join(t.TempDir(), "export.db"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer db.Close()

	// After Create, version should be CurrentSchemaVersion (migration ran)
	version, err := GetUserVersion(db)
	if err != nil {
		t.Fatalf("GetUserVersion() error = %v", err)
	}
	if version != CurrentSchemaVersion {
		t.Errorf("user_version after Create = %d, want %d", version, CurrentSchemaVersion)
	}

	if err := SetUserVersion(db, 99); err != nil {
		t.Fatalf("SetUserVersion() error = %v", err)
	}
	version, err = GetUserVersion(db)
	if err != nil {
		t.Fatalf("GetUserVersion() error = %v", err)
	}
	if version != 99 {
		t.Errorf("user_version = %d, want 99", version)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db, err := Create(filepath.Join(t.TempDir(), "export.db"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer db.Close()

	if err := migrate(db); err != nil {
		t.Fatalf("second migrate() error = %v", err)
	}
	version, err := GetUserVersion(db)
	if err != nil {
		t.Fatalf("GetUserVersion() error = %v", err)
	}
	if version != CurrentSchemaVersion {
		t.Errorf("user_version after second migrate = %d, want %d", version, CurrentSchemaVersion)
	}
}
