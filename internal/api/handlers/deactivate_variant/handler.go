package deactivate_variant

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

// Handle DELETE /api/v1/variants/{variantId}
// Вариант снимается с продажи, существующие бронирования не затрагиваются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	variantID := mux.Vars(r)["variantId"]

	if err := h.service.Deactivate(r.Context(), variantID); err != nil {
		switch {
		case errors.Is(err, catalog.ErrVariantNotFound):
			h.logger.Warn("DELETE /variants/{id} - Variant not found: variant_id=%s", variantID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /variants/{id} - Failed to deactivate variant: variant_id=%s, error=%v", variantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /variants/{id} - Variant deactivated: variant_id=%s", variantID)
	w.WriteHeader(http.StatusNoContent)
}
