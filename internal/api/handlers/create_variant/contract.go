package create_variant

import (
	"context"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/catalog/models"
)

type CatalogService interface {
	Create(ctx context.Context, req *models.CreateVariantRequest) (*models.VariantResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
