package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBookingTerminal возвращается при попытке изменить завершенное или отмененное бронирование
	ErrBookingTerminal = errors.New("domain: booking is in a terminal state")

	// ErrInvalidStatus возвращается для неизвестного статуса или перехода назад
	ErrInvalidStatus = errors.New("domain: invalid booking status")

	// ErrInvalidPaymentStatus возвращается для неизвестного статуса оплаты
	ErrInvalidPaymentStatus = errors.New("domain: invalid payment status")
)

// statusRank порядок продвижения бронирования; cancelled вне порядка
var statusRank = map[BookingStatus]int{
	StatusScheduled:  0,
	StatusConfirmed:  1,
	StatusInProgress: 2,
	StatusCompleted:  3,
}

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// IsTerminal returns true for completed and cancelled
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ParseBookingStatus конвертирует строку в BookingStatus
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// Transition проверяет переход current -> requested и возвращает новый статус.
//
//   - из completed/cancelled переходов нет (ErrBookingTerminal);
//   - неизвестный статус отклоняется (ErrInvalidStatus);
//   - движение вперед разрешено, в том числе через шаг (scheduled -> in_progress);
//   - cancelled достижим из любого нетерминального статуса;
//   - тот же статус допустим и ничего не меняет;
//   - движение назад (in_progress -> scheduled) отклоняется (ErrInvalidStatus).
func Transition(current, requested BookingStatus) (BookingStatus, error) {
	if current.IsTerminal() {
		return current, fmt.Errorf("%w: status %s is final", ErrBookingTerminal, current)
	}
	if !requested.IsValid() {
		return current, fmt.Errorf("%w: %q", ErrInvalidStatus, requested)
	}
	if requested == current || requested == StatusCancelled {
		return requested, nil
	}
	if statusRank[requested] < statusRank[current] {
		return current, fmt.Errorf("%w: cannot move from %s back to %s", ErrInvalidStatus, current, requested)
	}
	return requested, nil
}

// IsValid returns true for a known payment status
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// ParsePaymentStatus конвертирует строку в PaymentStatus
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, s)
	}
	return status, nil
}
