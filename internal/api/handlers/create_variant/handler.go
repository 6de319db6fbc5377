package create_variant

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/catalog"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/catalog/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidVariant     = "цена не соответствует типу расчета"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/variants
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVariantRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /variants - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	variant, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("POST /variants - Invalid variant: %v", err)
			handlers.RespondUnprocessable(w, msgInvalidVariant)

		default:
			h.logger.Error("POST /variants - Failed to create variant: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /variants - Variant created: variant_id=%s, service_id=%s", variant.ID, variant.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, variant)
}
