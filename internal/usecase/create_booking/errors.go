package create_booking

import "errors"

var (
	// ErrNoDatesProvided возвращается, когда в запросе нет ни одной даты
	ErrNoDatesProvided = errors.New("create_booking: no dates provided")

	// ErrServiceUnavailable возвращается, когда вариант услуги не найден или неактивен
	ErrServiceUnavailable = errors.New("create_booking: service variant is unavailable")

	// ErrInvalidMeasurement возвращается, когда замер вне диапазона варианта
	ErrInvalidMeasurement = errors.New("create_booking: invalid measurement")

	// ErrMissingPricingInputs возвращается, когда для per_unit не переданы замер и расстояние
	ErrMissingPricingInputs = errors.New("create_booking: missing pricing inputs")

	// ErrBookingCreationFailed возвращается, когда не удалось сохранить ни одной даты
	ErrBookingCreationFailed = errors.New("create_booking: booking creation failed")

	// ErrInvalidDate возвращается для даты в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
