package catalog

import "errors"

var (
	// ErrVariantNotFound возвращается, когда вариант услуги не найден
	ErrVariantNotFound = errors.New("catalog: service variant not found")

	// ErrServiceUnavailable возвращается для неактивного варианта
	ErrServiceUnavailable = errors.New("catalog: service variant is not available")

	// ErrInvalidInput возвращается при некорректных данных варианта
	ErrInvalidInput = errors.New("catalog: invalid input data")

	// ErrMissingPricingInputs возвращается, когда для per_unit не переданы замеры
	ErrMissingPricingInputs = errors.New("catalog: missing pricing inputs")

	// ErrInvalidMeasurement возвращается, когда замер вне допустимого диапазона
	ErrInvalidMeasurement = errors.New("catalog: measurement out of range")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog: internal error")
)
