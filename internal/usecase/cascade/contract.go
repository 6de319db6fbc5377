package cascade

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/notify"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByParentID(ctx context.Context, parentID string) ([]*domain.Booking, error)
	GetByGroupID(ctx context.Context, groupID string) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, ids []string, status domain.BookingStatus) (int64, error)
	Cancel(ctx context.Context, ids []string, reason *string, cancelledAt time.Time) (int64, error)
}

// GroupRepository интерфейс репозитория групп
type GroupRepository interface {
	GetByID(ctx context.Context, id string) (*domain.BookingGroup, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
}

// TxManager выполняет каскад в одной транзакции
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// NotificationTrigger асинхронная отправка уведомлений
type NotificationTrigger interface {
	Fire(event notify.Event, msg notify.Message)
}

// Metrics счетчик каскадных операций
type Metrics interface {
	IncCascade(scope, status, result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
