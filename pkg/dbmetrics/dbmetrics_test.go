package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct {
	DBExecutor
}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation("SELECT id FROM bookings"))
	assert.Equal(t, "update", operation("  UPDATE bookings SET status = $1"))
	assert.Equal(t, "insert", operation("INSERT\nINTO bookings"))
	assert.Equal(t, "", operation(""))
}

func TestGetExecutor(t *testing.T) {
	db := Wrap(&sql.DB{}, nil)
	ctx := context.Background()

	assert.Same(t, db, GetExecutor(ctx, db))
	assert.False(t, IsInTransaction(ctx))

	tx := &fakeTx{}
	txCtx := ContextWithTx(ctx, tx, nil)

	assert.True(t, IsInTransaction(txCtx))
	assert.Equal(t, tx, GetExecutor(txCtx, db))
}

func TestCanLockRows(t *testing.T) {
	ctx := context.Background()
	assert.False(t, CanLockRows(ctx))

	writeCtx := ContextWithTx(ctx, &fakeTx{}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	assert.True(t, CanLockRows(writeCtx))

	readCtx := ContextWithTx(ctx, &fakeTx{}, &sql.TxOptions{ReadOnly: true})
	assert.True(t, IsInTransaction(readCtx))
	assert.False(t, CanLockRows(readCtx))
}
