// Package db persists sections and their check state in SQLite.
package db

import (
	"database/sql"
	"embed"
	"fmt"
	"log"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type DB struct {
	db             *sql.DB
	eventListeners map[EventKind][]EventListener
}

func NewSQLiteDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &DB{
		db:             db,
		eventListeners: make(map[EventKind][]EventListener),
	}, nil
}

// Migrate applies any pending SQL migrations, tracking applied versions
// in the schema_migrations table so reruns are no-ops.
func (db *DB) Migrate() error {
	_, err := db.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		version := strings.TrimSuffix(name, ".sql")
		if version == "" {
			log.Println("Invalid migration file name:", name)
			continue
		}
		applied, err := db.migrationApplied(version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if err := db.applyMigration(name, version); err != nil {
			return err
		}
		log.Printf("Migration %s applied", version)
	}

	return nil
}

func (db *DB) migrationApplied(version string) (bool, error) {
	var exists bool
	err := db.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = ?)
	`, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration state: %w", err)
	}
	return exists, nil
}

func (db *DB) applyMigration(name, version string) error {
	content, err := migrationsFS.ReadFile("migrations/" + name)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.Exec(string(content)); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to apply migration %s: %w", version, err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %s: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", version, err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}
