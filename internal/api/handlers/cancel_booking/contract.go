package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/usecase/cascade"
)

type CascadeUseCase interface {
	Cancel(ctx context.Context, bookingID string, reason *string) (*cascade.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
