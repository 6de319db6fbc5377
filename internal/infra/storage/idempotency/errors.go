package idempotency

import "errors"

var (
	// ErrStore возвращается при ошибке внешнего хранилища (Redis)
	ErrStore = errors.New("idempotency.store: storage error")

	// ErrNotReserved возвращается при попытке сохранить ответ по ключу без резерва
	ErrNotReserved = errors.New("idempotency.store: key is not reserved")
)
