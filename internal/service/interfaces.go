package service

import (
	"context"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
)

// CalendarService serves project calendars backed by SQLite. Every method
// taking a projectID loads that project's events on first use.
type CalendarService interface {
	Create(ctx context.Context, projectID string, d calendar.Draft) (domain.CalendarEvent, error)
	Get(ctx context.Context, projectID, id string) (domain.CalendarEvent, error)
	Update(ctx context.Context, projectID, id string, p calendar.Patch) (domain.CalendarEvent, error)
	SetStatus(ctx context.Context, projectID, id string, status domain.EventStatus) (domain.CalendarEvent, error)
	Assign(ctx context.Context, projectID, id string, names ...string) (domain.CalendarEvent, error)
	Delete(ctx context.Context, projectID, id string) error
	// Import creates all drafts or, if any fails validation, none.
	Import(ctx context.Context, projectID string, drafts []calendar.Draft) ([]domain.CalendarEvent, error)

	List(ctx context.Context, projectID string, f calendar.FilterState) ([]domain.CalendarEvent, error)
	Month(ctx context.Context, projectID string, ref domain.Date, f calendar.FilterState) (calendar.MonthGrid, error)
	Week(ctx context.Context, projectID string, ref domain.Date, f calendar.FilterState) (calendar.WeekGrid, error)
	Agenda(ctx context.Context, projectID string, f calendar.FilterState) ([]calendar.DateGroup, error)

	People(query string) []string
	Projects(ctx context.Context) ([]string, error)

	// Controller returns the project's interactive controller. Writes made
	// through it are persisted; call Flush afterwards to collect failures.
	Controller(ctx context.Context, projectID string) (*calendar.DetailController, error)
	Flush(projectID string) error
}
