package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillPriority(db); err != nil {
		return fmt.Errorf("backfilling event priority: %w", err)
	}
	return nil
}

// migrateBackfillPriority gives rows written before priority was required
// the default priority. Idempotent.
func migrateBackfillPriority(db *sql.DB) error {
	ctx := context.Background()
	if _, err := db.ExecContext(ctx,
		`UPDATE events SET priority = 'medium' WHERE priority IS NULL OR priority = ''`); err != nil {
		return fmt.Errorf("updating blank priorities: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL,
		title       TEXT NOT NULL CHECK(length(trim(title)) > 0),
		type        TEXT NOT NULL,
		event_date  TEXT NOT NULL,
		event_time  TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'upcoming',
		priority    TEXT NOT NULL DEFAULT 'medium',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS event_assignees (
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name     TEXT NOT NULL,
		PRIMARY KEY (event_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS event_tags (
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		tag      TEXT NOT NULL,
		PRIMARY KEY (event_id, position)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_events_project ON events(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_project_date ON events(project_id, event_date)`,
	`CREATE INDEX IF NOT EXISTS idx_event_assignees_name ON event_assignees(name)`,

	// Added after the first release.
	`ALTER TABLE events ADD COLUMN duration TEXT NOT NULL DEFAULT ''`,
}
