package memory

import "context"

// TxManager выполняет функции без транзакции: in-memory хранилище
// не поддерживает откат, каждая операция атомарна сама по себе.
type TxManager struct{}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
