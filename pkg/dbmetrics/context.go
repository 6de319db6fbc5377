package dbmetrics

import (
	"context"
	"database/sql"
)

type txKey struct{}

type txEntry struct {
	tx       TxExecutor
	readOnly bool
}

// ContextWithTx кладет активную транзакцию и ее режим в контекст.
// opts == nil означает транзакцию на запись.
func ContextWithTx(ctx context.Context, tx TxExecutor, opts *sql.TxOptions) context.Context {
	return context.WithValue(ctx, txKey{}, txEntry{
		tx:       tx,
		readOnly: opts != nil && opts.ReadOnly,
	})
}

// TxFromContext достает активную транзакцию из контекста
func TxFromContext(ctx context.Context) (TxExecutor, bool) {
	entry, ok := ctx.Value(txKey{}).(txEntry)
	return entry.tx, ok && entry.tx != nil
}

// IsInTransaction возвращает true, если в контексте есть активная транзакция
func IsInTransaction(ctx context.Context) bool {
	_, ok := TxFromContext(ctx)
	return ok
}

// CanLockRows возвращает true внутри транзакции на запись.
// PostgreSQL не принимает SELECT ... FOR UPDATE в read-only транзакции (SQLSTATE 25006).
func CanLockRows(ctx context.Context) bool {
	entry, ok := ctx.Value(txKey{}).(txEntry)
	return ok && entry.tx != nil && !entry.readOnly
}

// GetExecutor возвращает транзакцию из контекста, если она есть, иначе db.
// Репозитории вызывают его в начале каждого метода.
func GetExecutor(ctx context.Context, db DBExecutor) DBExecutor {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return db
}
