package store

import (
	"database/sql"
	"fmt"
)

const currentSchemaVersion = 1

// initializeSchema creates all tables for a new database
func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		statements := []string{
			`CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at TEXT NOT NULL DEFAULT (datetime('now'))
			)`,
			`CREATE TABLE IF NOT EXISTS updates (
				feed TEXT NOT NULL,
				row_key TEXT NOT NULL,
				partition_key TEXT NOT NULL,
				title TEXT NOT NULL,
				category TEXT NOT NULL,
				date TEXT NOT NULL,
				url TEXT NOT NULL,
				summary TEXT NOT NULL,
				impact TEXT NOT NULL DEFAULT '',
				commits TEXT NOT NULL DEFAULT '[]',
				PRIMARY KEY (feed, row_key)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_updates_feed_date ON updates(feed, date DESC)`,
			`CREATE TABLE IF NOT EXISTS feed_state (
				feed TEXT PRIMARY KEY,
				last_fetch TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS runs (
				id TEXT PRIMARY KEY,
				feed TEXT NOT NULL,
				started_at TEXT NOT NULL,
				finished_at TEXT NOT NULL,
				events_fetched INTEGER NOT NULL DEFAULT 0,
				updates_stored INTEGER NOT NULL DEFAULT 0,
				status TEXT NOT NULL,
				error TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE INDEX IF NOT EXISTS idx_runs_feed_started ON runs(feed, started_at DESC)`,
		}
		for _, stmt := range statements {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, currentSchemaVersion); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}

		db.logger.Info("Database schema initialized", map[string]interface{}{
			"version": currentSchemaVersion,
		})
		return nil
	})
}

// runMigrations runs any pending schema migrations
func (db *DB) runMigrations() error {
	version, err := db.getSchemaVersion()
	if err != nil {
		return err
	}
	if version == currentSchemaVersion {
		return nil
	}

	db.logger.Info("Running database migrations", map[string]interface{}{
		"from_version": version,
		"to_version":   currentSchemaVersion,
	})

	// Add migration steps here as the schema evolves.
	return nil
}

func (db *DB) getSchemaVersion() (int, error) {
	var version int
	err := db.conn.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
