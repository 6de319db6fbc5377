package models

import (
	"time"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/pricing"
)

// CreateVariantRequest запрос на создание варианта услуги
type CreateVariantRequest struct {
	ServiceID       string   `json:"serviceId" validate:"required"`
	Title           string   `json:"title" validate:"required,max=200"`
	DurationMinutes int      `json:"durationMinutes" validate:"required,min=15,max=720"`
	PricingType     string   `json:"pricingType" validate:"required,oneof=fixed per_unit"`
	BasePrice       *float64 `json:"basePrice,omitempty" validate:"omitempty,gte=0"`
	UnitPrice       *float64 `json:"unitPrice,omitempty" validate:"omitempty,gt=0"`
	UnitMeasure     *string  `json:"unitMeasure,omitempty" validate:"omitempty,max=20"`
	MinMeasurement  *float64 `json:"minMeasurement,omitempty" validate:"omitempty,gte=0"`
	MaxMeasurement  *float64 `json:"maxMeasurement,omitempty" validate:"omitempty,gt=0"`
}

// ToDomain конвертирует запрос в доменную модель
func (r *CreateVariantRequest) ToDomain() *domain.ServiceVariant {
	return &domain.ServiceVariant{
		ServiceID:       r.ServiceID,
		Title:           r.Title,
		DurationMinutes: r.DurationMinutes,
		PricingType:     domain.PricingType(r.PricingType),
		BasePrice:       r.BasePrice,
		UnitPrice:       r.UnitPrice,
		UnitMeasure:     r.UnitMeasure,
		MinMeasurement:  r.MinMeasurement,
		MaxMeasurement:  r.MaxMeasurement,
		IsActive:        true,
	}
}

// QuoteRequest запрос расчета стоимости
type QuoteRequest struct {
	MeasurementValue float64  `json:"measurementValue" validate:"gte=0"`
	DistanceKm       float64  `json:"distanceKm" validate:"gte=0"`
	TotalAmount      *float64 `json:"totalAmount,omitempty" validate:"omitempty,gte=0"`
}

// VariantResponse ответ с данными варианта услуги
type VariantResponse struct {
	ID              string    `json:"id"`
	ServiceID       string    `json:"serviceId"`
	Title           string    `json:"title"`
	DurationMinutes int       `json:"durationMinutes"`
	PricingType     string    `json:"pricingType"`
	BasePrice       *float64  `json:"basePrice,omitempty"`
	UnitPrice       *float64  `json:"unitPrice,omitempty"`
	UnitMeasure     *string   `json:"unitMeasure,omitempty"`
	MinMeasurement  *float64  `json:"minMeasurement,omitempty"`
	MaxMeasurement  *float64  `json:"maxMeasurement,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// VariantListResponse ответ со списком вариантов
type VariantListResponse struct {
	Variants []VariantResponse `json:"variants"`
}

// QuoteResponse разбивка стоимости
type QuoteResponse struct {
	VariantID         string  `json:"variantId"`
	PricingType       string  `json:"pricingType"`
	Labour            float64 `json:"labour"`
	DistanceSurcharge float64 `json:"distanceSurcharge"`
	Subtotal          float64 `json:"subtotal"`
	VATAmount         float64 `json:"vatAmount"`
	Total             float64 `json:"total"`
}

// FromDomainVariant конвертирует domain модель в DTO
func FromDomainVariant(v *domain.ServiceVariant) *VariantResponse {
	if v == nil {
		return nil
	}
	return &VariantResponse{
		ID:              v.ID,
		ServiceID:       v.ServiceID,
		Title:           v.Title,
		DurationMinutes: v.DurationMinutes,
		PricingType:     string(v.PricingType),
		BasePrice:       v.BasePrice,
		UnitPrice:       v.UnitPrice,
		UnitMeasure:     v.UnitMeasure,
		MinMeasurement:  v.MinMeasurement,
		MaxMeasurement:  v.MaxMeasurement,
		IsActive:        v.IsActive,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

// FromDomainVariantList конвертирует список вариантов в DTO
func FromDomainVariantList(variants []*domain.ServiceVariant) *VariantListResponse {
	resp := &VariantListResponse{Variants: make([]VariantResponse, 0, len(variants))}
	for _, v := range variants {
		resp.Variants = append(resp.Variants, *FromDomainVariant(v))
	}
	return resp
}

// FromCharge конвертирует результат расчета в DTO.
// Промежуточные значения округляются только для вывода.
func FromCharge(v *domain.ServiceVariant, c pricing.Charge) *QuoteResponse {
	return &QuoteResponse{
		VariantID:         v.ID,
		PricingType:       string(v.PricingType),
		Labour:            pricing.Round2(c.Labour),
		DistanceSurcharge: pricing.Round2(c.DistanceSurcharge),
		Subtotal:          pricing.Round2(c.Subtotal),
		VATAmount:         pricing.Round2(c.VATAmount),
		Total:             c.Total,
	}
}
