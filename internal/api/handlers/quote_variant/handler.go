package quote_variant

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/catalog"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/catalog/models"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgNotFound            = "вариант услуги не найден"
	msgMissingMeasurements = "для расчета нужны замер и расстояние"
	msgInvalidMeasurement  = "замер вне допустимого диапазона"
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

// Handle POST /api/v1/variants/{variantId}/quote
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	variantID := mux.Vars(r)["variantId"]

	var req models.QuoteRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /variants/{id}/quote - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	quote, err := h.service.Quote(r.Context(), variantID, &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrVariantNotFound), errors.Is(err, catalog.ErrServiceUnavailable):
			h.logger.Warn("POST /variants/{id}/quote - Variant unavailable: variant_id=%s", variantID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, catalog.ErrMissingPricingInputs):
			h.logger.Warn("POST /variants/{id}/quote - Missing inputs: variant_id=%s", variantID)
			handlers.RespondUnprocessable(w, msgMissingMeasurements)

		case errors.Is(err, catalog.ErrInvalidMeasurement):
			h.logger.Warn("POST /variants/{id}/quote - Measurement out of range: variant_id=%s, error=%v", variantID, err)
			handlers.RespondUnprocessable(w, msgInvalidMeasurement)

		default:
			h.logger.Error("POST /variants/{id}/quote - Failed to quote: variant_id=%s, error=%v", variantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /variants/{id}/quote - Quote computed: variant_id=%s, total=%.2f", variantID, quote.Total)
	handlers.RespondJSON(w, http.StatusOK, quote)
}
