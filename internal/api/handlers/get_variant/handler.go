package get_variant

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/catalog"
)

const msgNotFound = "вариант услуги не найден"

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

// Handle GET /api/v1/variants/{variantId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	variantID := mux.Vars(r)["variantId"]

	variant, err := h.service.GetByID(r.Context(), variantID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrVariantNotFound):
			h.logger.Warn("GET /variants/{id} - Variant not found: variant_id=%s", variantID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /variants/{id} - Failed to get variant: variant_id=%s, error=%v", variantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, variant)
}
