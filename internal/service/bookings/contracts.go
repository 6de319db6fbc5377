package bookings

import (
	"context"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID string, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByParentID(ctx context.Context, parentID string) ([]*domain.Booking, error)
	GetByGroupID(ctx context.Context, groupID string) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, ids []string, status domain.BookingStatus) (int64, error)
	UpdateDetails(ctx context.Context, booking *domain.Booking) error
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error
	Delete(ctx context.Context, id string) error
}

// GroupRepository интерфейс репозитория групп
type GroupRepository interface {
	GetByID(ctx context.Context, id string) (*domain.BookingGroup, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
