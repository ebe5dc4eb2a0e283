package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
)

// persistListener writes store mutations through to SQLite. Each mutation
// runs in its own transaction unless a batch is open, in which case writes
// queue until commit runs them in one. The first failure is kept until take
// is called; later ones are only logged.
type persistListener struct {
	uow    db.UnitOfWork
	logger *slog.Logger

	mu       sync.Mutex
	ctx      context.Context
	err      error
	batching bool
	batch    []repoWrite
}

type repoWrite struct {
	op, id string
	fn     func(ctx context.Context, repo repository.EventRepo) error
}

func newPersistListener(uow db.UnitOfWork, logger *slog.Logger) *persistListener {
	return &persistListener{uow: uow, logger: logger, ctx: context.Background()}
}

// bind sets the context used for subsequent writes. A nil ctx resets to
// context.Background.
func (l *persistListener) bind(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	l.mu.Lock()
	l.ctx = ctx
	l.mu.Unlock()
}

// take returns the pending failure, if any, and clears it.
func (l *persistListener) take() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.err
	l.err = nil
	return err
}

func (l *persistListener) EventAdded(e domain.CalendarEvent) {
	l.write("add", e.ID, func(ctx context.Context, repo repository.EventRepo) error {
		return repo.Create(ctx, &e)
	})
}

func (l *persistListener) EventUpdated(e domain.CalendarEvent) {
	l.write("update", e.ID, func(ctx context.Context, repo repository.EventRepo) error {
		return repo.Update(ctx, &e)
	})
}

func (l *persistListener) EventDeleted(id string) {
	l.write("delete", id, func(ctx context.Context, repo repository.EventRepo) error {
		return repo.Delete(ctx, id)
	})
}

func (l *persistListener) write(op, id string, fn func(ctx context.Context, repo repository.EventRepo) error) {
	l.mu.Lock()
	if l.batching {
		l.batch = append(l.batch, repoWrite{op: op, id: id, fn: fn})
		l.mu.Unlock()
		return
	}
	ctx := l.ctx
	l.mu.Unlock()

	err := l.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, repository.NewSQLiteEventRepo(tx))
	})
	if err != nil {
		l.fail(ctx, op, id, fmt.Errorf("persisting %s of event %q: %w", op, id, err))
	}
}

// begin opens a batch. Writes are queued until commit or discard.
func (l *persistListener) begin() {
	l.mu.Lock()
	l.batching = true
	l.batch = nil
	l.mu.Unlock()
}

// discard drops the queued writes and closes the batch.
func (l *persistListener) discard() {
	l.mu.Lock()
	l.batching = false
	l.batch = nil
	l.mu.Unlock()
}

// commit runs the queued writes in a single transaction and closes the
// batch. Either all of them are stored or none.
func (l *persistListener) commit() {
	l.mu.Lock()
	batch := l.batch
	l.batching = false
	l.batch = nil
	ctx := l.ctx
	l.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	err := l.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteEventRepo(tx)
		for _, w := range batch {
			if err := w.fn(ctx, repo); err != nil {
				return fmt.Errorf("%s of event %q: %w", w.op, w.id, err)
			}
		}
		return nil
	})
	if err != nil {
		l.fail(ctx, "batch", "", fmt.Errorf("persisting %d changes: %w", len(batch), err))
	}
}

func (l *persistListener) fail(ctx context.Context, op, id string, err error) {
	l.logger.ErrorContext(ctx, "persist_event", "op", op, "event_id", id, "error", err.Error())
	l.mu.Lock()
	if l.err == nil {
		l.err = err
	}
	l.mu.Unlock()
}
