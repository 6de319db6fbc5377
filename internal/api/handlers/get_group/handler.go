package get_group

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/bookings"
)

const msgNotFound = "группа бронирований не найдена"

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/groups/{groupId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	group, err := h.service.GetGroup(r.Context(), groupID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrGroupNotFound):
			h.logger.Warn("GET /groups/{id} - Group not found: group_id=%s", groupID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /groups/{id} - Failed to get group: group_id=%s, error=%v", groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /groups/{id} - Group retrieved: group_id=%s", groupID)
	handlers.RespondJSON(w, http.StatusOK, group)
}
