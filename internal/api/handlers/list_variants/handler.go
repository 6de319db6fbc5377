package list_variants

import (
	"net/http"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers"
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

// Handle GET /api/v1/variants?serviceId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var serviceID *string
	if v := r.URL.Query().Get("serviceId"); v != "" {
		serviceID = &v
	}

	result, err := h.service.ListActive(r.Context(), serviceID)
	if err != nil {
		h.logger.Error("GET /variants - Failed to list variants: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /variants - Variants retrieved: count=%d", len(result.Variants))
	handlers.RespondJSON(w, http.StatusOK, result.Variants)
}
