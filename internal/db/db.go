// Package db writes a snapshot to a standalone SQLite file for the sqlite
// export format.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// migrations[i] upgrades a database from user_version i to i+1.
var migrations = []string{
	`
	CREATE TABLE IF NOT EXISTS meta (
	  key   TEXT PRIMARY KEY,
	  value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS folders (
	  id        INTEGER PRIMARY KEY,
	  parent_id INTEGER REFERENCES folders(id),
	  position  INTEGER NOT NULL,
	  depth     INTEGER NOT NULL,
	  title     TEXT NOT NULL,
	  add_date  INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_folders_parent
	ON folders(parent_id, position);

	CREATE TABLE IF NOT EXISTS resources (
	  id            INTEGER PRIMARY KEY,
	  folder_id     INTEGER REFERENCES folders(id),
	  position      INTEGER NOT NULL,
	  title         TEXT NOT NULL,
	  url           TEXT NOT NULL,
	  icon          TEXT,
	  add_date      INTEGER,
	  category_path TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_resources_folder
	ON resources(folder_id, position);
	`,
}

// CurrentSchemaVersion is the user_version after all migrations.
var CurrentSchemaVersion = len(migrations)

// InitBaseDir creates baseDir and its exports subdirectory, owner-only.
// Tests pass t.TempDir() in place of ~/.pintree.
func InitBaseDir(baseDir string) error {
	for _, dir := range []string{baseDir, filepath.Join(baseDir, "exports")} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		// MkdirAll leaves existing dirs alone; tighten them too (best-effort).
		_ = os.Chmod(dir, 0700)
	}
	return nil
}

// Create makes a new SQLite database at path and applies the schema.
// An existing file at path is an error; exports never overwrite in place.
func Create(path string) (*sql.DB, error) {
	if _, err := os.Lstat(path); err == nil {
		return nil, fmt.Errorf("database already exists: %s", path)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var journalMode string
	if err := conn.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		conn.Close()
		return nil, fmt.Errorf("expected WAL mode, got %s", journalMode)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	_ = os.Chmod(path, 0600)
	return conn, nil
}

// migrate runs every migration above the stored user_version.
func migrate(conn *sql.DB) error {
	version, err := GetUserVersion(conn)
	if err != nil {
		return err
	}
	for v := version; v < len(migrations); v++ {
		if _, err := conn.Exec(migrations[v]); err != nil {
			return fmt.Errorf("migration %d failed: %w", v+1, err)
		}
		if err := SetUserVersion(conn, v+1); err != nil {
			return err
		}
	}
	return nil
}

// GetUserVersion returns the user_version pragma.
func GetUserVersion(conn *sql.DB) (int, error) {
	var version int
	if err := conn.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the user_version pragma.
func SetUserVersion(conn *sql.DB, version int) error {
	if _, err := conn.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
