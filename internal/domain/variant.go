package domain

import "time"

// PricingType способ расчета стоимости варианта услуги
type PricingType string

const (
	PricingFixed   PricingType = "fixed"
	PricingPerUnit PricingType = "per_unit"
)

// IsValid returns true for a known pricing type
func (t PricingType) IsValid() bool {
	return t == PricingFixed || t == PricingPerUnit
}

// ServiceVariant бронируемая конфигурация услуги (например, "Генеральная уборка кухни").
// Справочные данные: создаются оператором, ядро бронирования их только читает.
type ServiceVariant struct {
	ID              string
	ServiceID       string
	Title           string
	DurationMinutes int
	PricingType     PricingType

	// fixed
	BasePrice *float64

	// per_unit
	UnitPrice      *float64
	UnitMeasure    *string // "m2", "item"
	MinMeasurement *float64
	MaxMeasurement *float64

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPerUnit returns true if the variant is priced by measurement
func (v *ServiceVariant) IsPerUnit() bool {
	return v.PricingType == PricingPerUnit
}

// PricingInputs входные данные расчета стоимости.
// MeasurementValue и DistanceKm нужны для per_unit, OverrideTotal учитывается только для fixed.
type PricingInputs struct {
	MeasurementValue float64
	DistanceKm       float64
	OverrideTotal    *float64
}
