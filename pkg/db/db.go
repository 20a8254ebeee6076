// Package db stores the page graph produced by the final summary step in
// SQLite, so single pages can be inspected without scanning the CSVs.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const DefaultDBName = "wiki-page-summary.db"

// DB is an open page-graph database.
type DB struct {
	*sql.DB
	path string
}

func openDB(dbPath string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" gets its own empty database.
	if dbPath == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}
	return sqlDB, nil
}

// defaultPath puts the database next to the running binary.
func defaultPath() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(execPath), DefaultDBName), nil
}

// Open opens dbPath, or the default path when empty, creating the schema on
// first use.
func Open(dbPath string) (*DB, error) {
	if dbPath == "" {
		var err error
		if dbPath, err = defaultPath(); err != nil {
			return nil, err
		}
	}

	sqlDB, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	db := &DB{DB: sqlDB, path: dbPath}

	if err := db.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// migrate installs the schema unless the pages table is already there.
func (db *DB) migrate() error {
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'pages'").Scan(&name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return db.InitSchema()
	case err != nil:
		return fmt.Errorf("failed to check schema: %w", err)
	}
	return nil
}

// Path is where the database lives.
func (db *DB) Path() string {
	return db.path
}

// InitSchema creates every table and index. It is safe to run twice.
func (db *DB) InitSchema() error {
	_, err := db.Exec(schema)
	return err
}
