package db_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertEvent = `INSERT INTO events (id, project_id, title, type, event_date, created_at, updated_at)
	VALUES (?, 'site-a', ?, 'task', '2025-04-05', 'x', 'x')`

func countEvents(t *testing.T, conn db.DBTX) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM events`).Scan(&n))
	return n
}

func TestWithinTx_CommitsAllWrites(t *testing.T) {
	conn, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	uow := db.NewSQLiteUnitOfWork(conn)

	err = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertEvent, "e1", "Pour"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO event_tags (event_id, position, tag) VALUES ('e1', 0, 'site')`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countEvents(t, conn))
}

func TestWithinTx_ErrorRollsBack(t *testing.T) {
	conn, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	uow := db.NewSQLiteUnitOfWork(conn)

	boom := errors.New("boom")
	err = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertEvent, "e1", "Pour"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, countEvents(t, conn))
}

func TestWithinTx_PanicRollsBackAndPropagates(t *testing.T) {
	conn, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	uow := db.NewSQLiteUnitOfWork(conn)

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, insertEvent, "e1", "Pour")
			panic("boom")
		})
	})
	assert.Zero(t, countEvents(t, conn))
}

func TestWithinTx_OrphanTagFailsWholeUnit(t *testing.T) {
	conn, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	uow := db.NewSQLiteUnitOfWork(conn)

	err = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertEvent, "e1", "Pour"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO event_tags (event_id, position, tag) VALUES ('missing', 0, 'site')`)
		return err
	})
	require.Error(t, err, "foreign key violation")
	assert.Zero(t, countEvents(t, conn))
}

func TestOpenDB_PragmasOnEveryConnection(t *testing.T) {
	conn, err := db.OpenDB(filepath.Join(t.TempDir(), "planboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ctx := context.Background()
	first, err := conn.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := conn.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	for _, c := range []*sql.Conn{first, second} {
		var fk, timeout int
		require.NoError(t, c.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
		require.NoError(t, c.QueryRowContext(ctx, `PRAGMA busy_timeout`).Scan(&timeout))
		assert.Equal(t, 1, fk)
		assert.Equal(t, 5000, timeout)
	}
}
