package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteEventRepo implements EventRepo using a SQLite database. Writes touch
// several tables; run them inside a UnitOfWork for atomicity.
type SQLiteEventRepo struct {
	db db.DBTX
}

// NewSQLiteEventRepo creates a new SQLiteEventRepo.
func NewSQLiteEventRepo(conn db.DBTX) *SQLiteEventRepo {
	return &SQLiteEventRepo{db: conn}
}

const eventColumns = `id, project_id, title, type, event_date, event_time, duration, location,
	description, status, priority, created_at, updated_at`

func (r *SQLiteEventRepo) Create(ctx context.Context, e *domain.CalendarEvent) error {
	query := `INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ProjectID,
		e.Title,
		string(e.Type),
		e.Date.String(),
		e.Time,
		e.Duration,
		e.Location,
		e.Description,
		string(e.Status),
		string(e.Priority),
		formatTimestamp(e.CreatedAt),
		formatTimestamp(e.UpdatedAt),
	)
	if err != nil {
		if isPrimaryKeyConflict(err) {
			return fmt.Errorf("inserting event %q: %w", e.ID, domain.ErrDuplicateID)
		}
		return fmt.Errorf("inserting event: %w", err)
	}
	return r.writeChildren(ctx, e)
}

func (r *SQLiteEventRepo) GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("event", id)
		}
		return nil, err
	}

	assignees, err := r.loadStrings(ctx,
		`SELECT event_id, name FROM event_assignees WHERE event_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading assignees: %w", err)
	}
	tags, err := r.loadStrings(ctx,
		`SELECT event_id, tag FROM event_tags WHERE event_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading tags: %w", err)
	}
	e.AssignedTo = assignees[id]
	e.Tags = tags[id]
	return e, nil
}

// ListByProject returns a project's events in insertion order.
func (r *SQLiteEventRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.CalendarEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE project_id = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	var events []*domain.CalendarEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	rows.Close()

	assignees, err := r.loadStrings(ctx,
		`SELECT a.event_id, a.name FROM event_assignees a
		JOIN events e ON e.id = a.event_id
		WHERE e.project_id = ? ORDER BY a.event_id, a.position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading assignees: %w", err)
	}
	tags, err := r.loadStrings(ctx,
		`SELECT t.event_id, t.tag FROM event_tags t
		JOIN events e ON e.id = t.event_id
		WHERE e.project_id = ? ORDER BY t.event_id, t.position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading tags: %w", err)
	}
	for _, e := range events {
		e.AssignedTo = assignees[e.ID]
		e.Tags = tags[e.ID]
	}
	return events, nil
}

// ListProjects returns the distinct project ids that own at least one event.
func (r *SQLiteEventRepo) ListProjects(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT project_id FROM events ORDER BY project_id`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning project id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return ids, nil
}

// Update overwrites the event row and replaces its assignees and tags.
func (r *SQLiteEventRepo) Update(ctx context.Context, e *domain.CalendarEvent) error {
	query := `UPDATE events SET title = ?, type = ?, event_date = ?, event_time = ?, duration = ?,
		location = ?, description = ?, status = ?, priority = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		e.Title,
		string(e.Type),
		e.Date.String(),
		e.Time,
		e.Duration,
		e.Location,
		e.Description,
		string(e.Status),
		string(e.Priority),
		formatTimestamp(e.UpdatedAt),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError("event", e.ID)
	}
	if err := r.deleteChildren(ctx, e.ID); err != nil {
		return err
	}
	return r.writeChildren(ctx, e)
}

func (r *SQLiteEventRepo) Delete(ctx context.Context, id string) error {
	if err := r.deleteChildren(ctx, id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError("event", id)
	}
	return nil
}

func (r *SQLiteEventRepo) writeChildren(ctx context.Context, e *domain.CalendarEvent) error {
	for i, name := range e.AssignedTo {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO event_assignees (event_id, position, name) VALUES (?, ?, ?)`,
			e.ID, i, name); err != nil {
			return fmt.Errorf("inserting assignee %q: %w", name, err)
		}
	}
	for i, tag := range e.Tags {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO event_tags (event_id, position, tag) VALUES (?, ?, ?)`,
			e.ID, i, tag); err != nil {
			return fmt.Errorf("inserting tag %q: %w", tag, err)
		}
	}
	return nil
}

func (r *SQLiteEventRepo) deleteChildren(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM event_assignees WHERE event_id = ?`, id); err != nil {
		return fmt.Errorf("deleting assignees: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM event_tags WHERE event_id = ?`, id); err != nil {
		return fmt.Errorf("deleting tags: %w", err)
	}
	return nil
}

// loadStrings runs a two-column (event_id, value) query and groups the
// values by event id, keeping row order.
func (r *SQLiteEventRepo) loadStrings(ctx context.Context, query string, arg string) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var id, val string
		if err := rows.Scan(&id, &val); err != nil {
			return nil, err
		}
		out[id] = append(out[id], val)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.CalendarEvent, error) {
	var e domain.CalendarEvent
	var typeStr, dateStr, statusStr, priorityStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&e.ID, &e.ProjectID, &e.Title, &typeStr, &dateStr,
		&e.Time, &e.Duration, &e.Location, &e.Description,
		&statusStr, &priorityStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning event: %w", err)
	}

	e.Type = domain.EventType(typeStr)
	e.Status = domain.EventStatus(statusStr)
	e.Priority = domain.Priority(priorityStr)

	if e.Date, err = domain.ParseDate(dateStr); err != nil {
		return nil, fmt.Errorf("parsing event_date: %w", err)
	}
	if e.CreatedAt, err = parseTimestamp("created_at", createdAtStr); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTimestamp("updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return &e, nil
}

// isPrimaryKeyConflict reports an insert whose id is already taken. Event
// ids are unique across projects, not only within one.
func isPrimaryKeyConflict(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
