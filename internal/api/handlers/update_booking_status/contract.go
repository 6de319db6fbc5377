package update_booking_status

import (
	"context"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/usecase/cascade"
)

type BookingService interface {
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*models.BookingResponse, error)
}

type CascadeUseCase interface {
	Cancel(ctx context.Context, bookingID string, reason *string) (*cascade.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
