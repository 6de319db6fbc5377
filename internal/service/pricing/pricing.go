package pricing

import (
	"fmt"
	"math"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
)

// Charge результат расчета. Округляется только Total, промежуточные значения
// хранятся с полной точностью.
type Charge struct {
	Labour            float64
	DistanceSurcharge float64
	Subtotal          float64
	VATAmount         float64
	Total             float64
}

// ComputeCharge рассчитывает стоимость варианта услуги.
//
// fixed: Total = OverrideTotal (если > 0) иначе BasePrice, НДС не начисляется.
// per_unit: labour = m * unitPrice, transport = km * 0.5, subtotal = labour + transport,
// vat = subtotal * 0.19, total = round2(subtotal + vat).
func ComputeCharge(variant *domain.ServiceVariant, inputs domain.PricingInputs) (Charge, error) {
	if variant.IsPerUnit() {
		return computePerUnit(variant, inputs)
	}
	return computeFixed(variant, inputs)
}

func computeFixed(variant *domain.ServiceVariant, inputs domain.PricingInputs) (Charge, error) {
	var total float64
	switch {
	case inputs.OverrideTotal != nil && *inputs.OverrideTotal > 0:
		total = *inputs.OverrideTotal
	case variant.BasePrice != nil:
		total = *variant.BasePrice
	default:
		return Charge{}, fmt.Errorf("%w: fixed variant %s has no base price", ErrInvalidVariant, variant.ID)
	}

	total = Round2(total)
	return Charge{
		Labour:   total,
		Subtotal: total,
		Total:    total,
	}, nil
}

func computePerUnit(variant *domain.ServiceVariant, inputs domain.PricingInputs) (Charge, error) {
	if variant.UnitPrice == nil {
		return Charge{}, fmt.Errorf("%w: per_unit variant %s has no unit price", ErrInvalidVariant, variant.ID)
	}
	if inputs.MeasurementValue <= 0 || inputs.DistanceKm <= 0 {
		return Charge{}, fmt.Errorf("%w: measurement=%v, distanceKm=%v", ErrMissingPricingInputs,
			inputs.MeasurementValue, inputs.DistanceKm)
	}
	if variant.MinMeasurement != nil && inputs.MeasurementValue < *variant.MinMeasurement {
		return Charge{}, fmt.Errorf("%w: %v is below minimum %v", ErrInvalidMeasurement,
			inputs.MeasurementValue, *variant.MinMeasurement)
	}
	if variant.MaxMeasurement != nil && inputs.MeasurementValue > *variant.MaxMeasurement {
		return Charge{}, fmt.Errorf("%w: %v is above maximum %v", ErrInvalidMeasurement,
			inputs.MeasurementValue, *variant.MaxMeasurement)
	}

	labour := inputs.MeasurementValue * *variant.UnitPrice
	transport := inputs.DistanceKm * domain.DistanceRatePerKm
	subtotal := labour + transport
	vat := subtotal * domain.VATRate

	return Charge{
		Labour:            labour,
		DistanceSurcharge: transport,
		Subtotal:          subtotal,
		VATAmount:         vat,
		Total:             Round2(subtotal + vat),
	}, nil
}

// Apportion делит сумму на n частей с точностью до копейки.
// Все части равны, остаток от округления уходит в последнюю, сумма частей равна total.
func Apportion(total float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	cents := int64(math.Round(total * 100))
	share := cents / int64(n)

	parts := make([]float64, n)
	for i := 0; i < n-1; i++ {
		parts[i] = float64(share) / 100
	}
	parts[n-1] = float64(cents-share*int64(n-1)) / 100

	return parts
}

// Round2 округляет до 2 знаков
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
