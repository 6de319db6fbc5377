package update_group_status

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/usecase/cascade"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "группа бронирований не найдена"
	msgTerminal           = "группа уже завершена или отменена"
	msgInvalidTransition  = "недопустимый переход статуса"
)

type Handler struct {
	useCase CascadeUseCase
	logger  Logger
}

func NewHandler(useCase CascadeUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/groups/{groupId}/status
// Статус применяется ко всем записям группы, которые допускают переход
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	var req models.UpdateStatusRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("PATCH /groups/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.SetGroupStatus(r.Context(), groupID, domain.BookingStatus(req.Status), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, cascade.ErrGroupNotFound):
			h.logger.Warn("PATCH /groups/{id}/status - Group not found: group_id=%s", groupID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrBookingTerminal):
			h.logger.Warn("PATCH /groups/{id}/status - Group is final: group_id=%s", groupID)
			handlers.RespondConflict(w, msgTerminal)

		case errors.Is(err, domain.ErrInvalidStatus):
			h.logger.Warn("PATCH /groups/{id}/status - Invalid transition: group_id=%s, error=%v", groupID, err)
			handlers.RespondUnprocessable(w, msgInvalidTransition)

		case errors.Is(err, cascade.ErrInvalidInput):
			h.logger.Warn("PATCH /groups/{id}/status - Invalid input: group_id=%s, error=%v", groupID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /groups/{id}/status - Failed to update group: group_id=%s, error=%v", groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /groups/{id}/status - Group updated: group_id=%s, status=%s, updated=%d, skipped=%d",
		groupID, result.Status, len(result.UpdatedIDs), len(result.Skipped))
	handlers.RespondJSON(w, http.StatusOK, handlers.FromCascadeResult(result))
}
