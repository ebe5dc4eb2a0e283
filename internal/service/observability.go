package service

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"
)

// UseCaseEvent describes one finished calendar use case.
type UseCaseEvent struct {
	Name      string
	Project   string
	StartedAt time.Time
	Duration  time.Duration
	Err       error
	Fields    map[string]any
}

func (e UseCaseEvent) Success() bool { return e.Err == nil }

// UseCaseObserver is told about every CalendarService use case once it
// returns.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

// NewLogUseCaseObserver writes one text line per use case to w.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(w, nil)))
}

func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return slogObserver{logger: logger}
}

type slogObserver struct {
	logger *slog.Logger
}

func (o slogObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := []slog.Attr{
		slog.String("use_case", event.Name),
		slog.String("project", event.Project),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
		slog.Bool("success", event.Success()),
	}
	for _, k := range slices.Sorted(maps.Keys(event.Fields)) {
		attrs = append(attrs, slog.Any(k, event.Fields[k]))
	}

	level := slog.LevelInfo
	if event.Err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", event.Err.Error()))
	}
	o.logger.LogAttrs(ctx, level, "calendar_use_case", attrs...)
}

// observe reports a use case to the configured observer; defer it with the
// named error result.
func (s *calendarService) observe(ctx context.Context, name, projectID string, startedAt time.Time, fields map[string]any, err *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Project:   projectID,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Err:       *err,
		Fields:    fields,
	})
}
