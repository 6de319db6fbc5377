package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса.
// Выполняется до любых обращений к хранилищу.
func validateRequest(req *Request, now time.Time) error {
	if req.Schedule == nil || len(req.Schedule.Slots()) == 0 {
		return ErrNoDatesProvided
	}

	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ServiceVariantID) == "" {
		return fmt.Errorf("%w: serviceVariantID is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ServiceAddress) == "" {
		return fmt.Errorf("%w: serviceAddress is required", ErrInvalidInput)
	}

	if len(req.ServiceAddress) > domain.MaxAddressLength {
		return fmt.Errorf("%w: serviceAddress is longer than %d", ErrInvalidInput, domain.MaxAddressLength)
	}

	if req.SpecialInstructions != nil && len(*req.SpecialInstructions) > domain.MaxSpecialInstructionsLength {
		return fmt.Errorf("%w: specialInstructions is longer than %d", ErrInvalidInput, domain.MaxSpecialInstructionsLength)
	}

	if req.TotalAmount < 0 {
		return fmt.Errorf("%w: totalAmount must not be negative", ErrInvalidInput)
	}

	if req.DurationMinutes != 0 &&
		(req.DurationMinutes < domain.MinDurationMinutes || req.DurationMinutes > domain.MaxDurationMinutes) {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if req.PerUnit != nil && (req.PerUnit.MeasurementValue < 0 || req.PerUnit.DistanceKm < 0) {
		return fmt.Errorf("%w: measurement and distance must not be negative", ErrInvalidInput)
	}

	slots := req.Schedule.Slots()
	if len(slots) > domain.MaxDatesPerBooking {
		return fmt.Errorf("%w: at most %d dates per booking", ErrInvalidInput, domain.MaxDatesPerBooking)
	}

	for _, slot := range slots {
		if err := validateSlot(slot, now); err != nil {
			return err
		}
	}

	return nil
}

func validateSlot(slot domain.Slot, now time.Time) error {
	// Проверяем, что дата не является нулевой
	if slot.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if slot.Time.IsZero() {
		return fmt.Errorf("%w: time is required", ErrInvalidInput)
	}

	if err := slot.Time.Validate(); err != nil {
		return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
	}

	if isDateInPast(slot.Date, now) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, slot.Date.Format(domain.DateFormat))
	}

	return nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
