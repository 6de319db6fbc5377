package update_group_status

import (
	"context"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/usecase/cascade"
)

type CascadeUseCase interface {
	SetGroupStatus(ctx context.Context, groupID string, status domain.BookingStatus, reason *string) (*cascade.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
