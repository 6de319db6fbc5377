package pricing

import "errors"

var (
	// ErrMissingPricingInputs возвращается, когда для per_unit не переданы замер или расстояние
	ErrMissingPricingInputs = errors.New("pricing: missing pricing inputs")

	// ErrInvalidMeasurement возвращается, когда замер вне допустимого диапазона варианта
	ErrInvalidMeasurement = errors.New("pricing: measurement is out of range")

	// ErrInvalidVariant возвращается, когда у варианта не заданы цены
	ErrInvalidVariant = errors.New("pricing: variant has no price configured")
)
