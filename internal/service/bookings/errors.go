package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrGroupNotFound возвращается, когда группа не найдена
	ErrGroupNotFound = errors.New("bookings: group not found")

	// ErrCannotDelete возвращается при попытке удалить неотмененное бронирование
	ErrCannotDelete = errors.New("bookings: only cancelled bookings can be deleted")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
