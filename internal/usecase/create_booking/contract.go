package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/notify"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// GroupRepository интерфейс репозитория сводных записей групп
type GroupRepository interface {
	Create(ctx context.Context, group *domain.BookingGroup) (*domain.BookingGroup, error)
	UpdateSummary(ctx context.Context, id string, dayCount int, totalAmount float64, rootBookingID *string) error
	Delete(ctx context.Context, id string) error
}

// VariantRepository каталог услуг (только активные варианты)
type VariantRepository interface {
	GetActiveByID(ctx context.Context, id string) (*domain.ServiceVariant, error)
}

// NotificationTrigger асинхронная отправка уведомлений
type NotificationTrigger interface {
	Fire(event notify.Event, msg notify.Message)
}

// Metrics бизнес-метрики создания
type Metrics interface {
	IncBookingsCreated(mode string, count int)
	IncBookingDateFailures(count int)
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
	return time.Now()
}
