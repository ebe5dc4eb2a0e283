package testutil

import (
	"context"
	"database/sql"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/planboard/internal/db"
)

// FailingUoW is a UnitOfWork whose FailOn-th write returns Err. Writes are
// counted across every transaction it opens, from 1; when Match is set only
// statements containing it count. Reads are never failed.
type FailingUoW struct {
	DB     *sql.DB
	FailOn int32
	Match  string
	Err    error

	writes atomic.Int32
}

// Writes reports how many counted statements have run so far.
func (u *FailingUoW) Writes() int { return int(u.writes.Load()) }

func (u *FailingUoW) WithinTx(ctx context.Context, fn db.TxFunc) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTx{DBTX: tx, uow: u})
	})
}

type failingTx struct {
	db.DBTX
	uow *FailingUoW
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.uow.Match == "" || strings.Contains(query, f.uow.Match) {
		if f.uow.writes.Add(1) == f.uow.FailOn {
			return nil, f.uow.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
