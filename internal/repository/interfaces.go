package repository

import (
	"context"

	"github.com/alexanderramin/planboard/internal/domain"
)

type EventRepo interface {
	Create(ctx context.Context, e *domain.CalendarEvent) error
	GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.CalendarEvent, error)
	ListProjects(ctx context.Context) ([]string, error)
	Update(ctx context.Context, e *domain.CalendarEvent) error
	Delete(ctx context.Context, id string) error
}
