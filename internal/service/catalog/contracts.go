package catalog

import (
	"context"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
)

// VariantRepository интерфейс репозитория вариантов услуг
type VariantRepository interface {
	Create(ctx context.Context, v *domain.ServiceVariant) (*domain.ServiceVariant, error)
	GetByID(ctx context.Context, id string) (*domain.ServiceVariant, error)
	GetActiveByID(ctx context.Context, id string) (*domain.ServiceVariant, error)
	ListActive(ctx context.Context, serviceID *string) ([]*domain.ServiceVariant, error)
	Deactivate(ctx context.Context, id string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
