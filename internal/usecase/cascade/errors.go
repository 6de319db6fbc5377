package cascade

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cascade: booking not found")

	// ErrGroupNotFound возвращается, когда группа не найдена
	ErrGroupNotFound = errors.New("cascade: group not found")

	// ErrInvalidInput возвращается при невалидных входных данных
	ErrInvalidInput = errors.New("cascade: invalid input")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("cascade: internal error")
)
