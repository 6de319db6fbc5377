package list_variants

import (
	"context"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/catalog/models"
)

type CatalogService interface {
	ListActive(ctx context.Context, serviceID *string) (*models.VariantListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
