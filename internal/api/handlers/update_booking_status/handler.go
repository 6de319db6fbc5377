package update_booking_status

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/bookings"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/usecase/cascade"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgTerminal           = "завершенное или отмененное бронирование нельзя изменить"
	msgInvalidTransition  = "недопустимый переход статуса"
)

type Handler struct {
	service BookingService
	cascade CascadeUseCase
	logger  Logger
}

func NewHandler(service BookingService, cascadeUseCase CascadeUseCase, logger Logger) *Handler {
	return &Handler{
		service: service,
		cascade: cascadeUseCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
// Статус cancelled запускает каскадную отмену заказа, остальные статусы меняют одну запись
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	var req models.UpdateStatusRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	status := domain.BookingStatus(req.Status)

	if status == domain.StatusCancelled {
		result, err := h.cascade.Cancel(r.Context(), bookingID, req.Reason)
		if err != nil {
			h.respondError(w, bookingID, err)
			return
		}

		h.logger.Info("PATCH /bookings/{id}/status - Booking cancelled: booking_id=%s, scope=%s, updated=%d",
			bookingID, result.Scope, len(result.UpdatedIDs))
		handlers.RespondJSON(w, http.StatusOK, handlers.FromCascadeResult(result))
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), bookingID, status)
	if err != nil {
		h.respondError(w, bookingID, err)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - Status updated: booking_id=%s, status=%s", bookingID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

func (h *Handler) respondError(w http.ResponseWriter, bookingID string, err error) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound), errors.Is(err, cascade.ErrBookingNotFound):
		h.logger.Warn("PATCH /bookings/{id}/status - Booking not found: booking_id=%s", bookingID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, domain.ErrBookingTerminal):
		h.logger.Warn("PATCH /bookings/{id}/status - Booking is final: booking_id=%s", bookingID)
		handlers.RespondConflict(w, msgTerminal)

	case errors.Is(err, domain.ErrInvalidStatus):
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid transition: booking_id=%s, error=%v", bookingID, err)
		handlers.RespondUnprocessable(w, msgInvalidTransition)

	case errors.Is(err, bookings.ErrInvalidInput), errors.Is(err, cascade.ErrInvalidInput):
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid input: booking_id=%s, error=%v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	default:
		h.logger.Error("PATCH /bookings/{id}/status - Failed to update status: booking_id=%s, error=%v", bookingID, err)
		handlers.RespondInternalError(w)
	}
}
