package create_booking

import (
	"context"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/idempotency"
	createBooking "github.com/m04kA/SMC-HomeServiceBooking/internal/usecase/create_booking"
)

type CreateBookingUseCase interface {
	Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

// IdempotencyStore хранилище ответов по Idempotency-Key
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (idempotency.Entry, bool, error)
	Reserve(ctx context.Context, key string) (bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Release(ctx context.Context, key string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
