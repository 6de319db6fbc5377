package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-HomeServiceBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/ptr"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/types"
)

// errAmbiguousSchedule запрос содержит и bookingDate, и dates
var errAmbiguousSchedule = errors.New("either bookingDate/bookingTime or dates must be set, not both")

// CreateBookingRequest HTTP request model.
// Одна дата: bookingDate + bookingTime. Несколько дат: dates.
type CreateBookingRequest struct {
	CustomerName        string     `json:"customerName" validate:"required,max=200"`
	CustomerEmail       string     `json:"customerEmail" validate:"required,email"`
	CustomerPhone       string     `json:"customerPhone" validate:"required,max=32"`
	ServiceVariantID    string     `json:"serviceVariantId" validate:"required"`
	BookingDate         *string    `json:"bookingDate,omitempty" validate:"omitempty,datetime=2006-01-02"` // "2026-11-10"
	BookingTime         *string    `json:"bookingTime,omitempty" validate:"omitempty,datetime=15:04"`      // "09:00"
	Dates               []DateSlot `json:"dates,omitempty" validate:"omitempty,dive"`
	DurationMinutes     int        `json:"durationMinutes,omitempty" validate:"omitempty,min=15,max=720"`
	ServiceAddress      string     `json:"serviceAddress" validate:"required,max=500"`
	SpecialInstructions *string    `json:"specialInstructions,omitempty" validate:"omitempty,max=500"`
	TotalAmount         float64    `json:"totalAmount" validate:"gte=0"`
	MeasurementValue    *float64   `json:"measurementValue,omitempty" validate:"omitempty,gte=0"`
	DistanceKm          *float64   `json:"distanceKm,omitempty" validate:"omitempty,gte=0"`
}

// DateSlot одна дата многодневного заказа
type DateSlot struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,datetime=15:04"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Bookings    []models.BookingResponse `json:"bookings"`
	IsMultiDay  bool                     `json:"isMultiDay"`
	TotalDays   int                      `json:"totalDays"`
	CreatedDays int                      `json:"createdDays"`
	GroupID     *string                  `json:"groupId,omitempty"`
	TotalAmount float64                  `json:"totalAmount"`
	Charge      *ChargeResponse          `json:"charge,omitempty"`
	Errors      []DateErrorResponse      `json:"errors,omitempty"`
}

// ChargeResponse разбивка стоимости per_unit
type ChargeResponse struct {
	Labour            float64 `json:"labour"`
	DistanceSurcharge float64 `json:"distanceSurcharge"`
	Subtotal          float64 `json:"subtotal"`
	VATAmount         float64 `json:"vatAmount"`
	Total             float64 `json:"total"`
}

// DateErrorResponse дата, которую не удалось сохранить
type DateErrorResponse struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Error string `json:"error"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Здесь же определяется форма расписания: SingleDate или MultiDate.
func (r *CreateBookingRequest) ToUseCaseRequest(userID string) (*createBooking.Request, error) {
	schedule, err := r.schedule()
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		UserID:              userID,
		CustomerName:        r.CustomerName,
		CustomerEmail:       r.CustomerEmail,
		CustomerPhone:       r.CustomerPhone,
		ServiceVariantID:    r.ServiceVariantID,
		Schedule:            schedule,
		DurationMinutes:     r.DurationMinutes,
		ServiceAddress:      r.ServiceAddress,
		SpecialInstructions: r.SpecialInstructions,
		TotalAmount:         r.TotalAmount,
	}

	if r.MeasurementValue != nil || r.DistanceKm != nil {
		req.PerUnit = &createBooking.PerUnitInputs{
			MeasurementValue: ptr.Value(r.MeasurementValue),
			DistanceKm:       ptr.Value(r.DistanceKm),
		}
	}

	return req, nil
}

func (r *CreateBookingRequest) schedule() (domain.Schedule, error) {
	single := r.BookingDate != nil || r.BookingTime != nil

	switch {
	case single && len(r.Dates) > 0:
		return nil, errAmbiguousSchedule
	case single:
		if r.BookingDate == nil || r.BookingTime == nil {
			return nil, errors.New("bookingDate and bookingTime must be set together")
		}
		slot, err := parseSlot(*r.BookingDate, *r.BookingTime)
		if err != nil {
			return nil, err
		}
		return domain.SingleDate{Slot: slot}, nil
	default:
		// Пустой список дат отклоняется use case (ErrNoDatesProvided)
		slots := make([]domain.Slot, 0, len(r.Dates))
		for _, d := range r.Dates {
			slot, err := parseSlot(d.Date, d.Time)
			if err != nil {
				return nil, err
			}
			slots = append(slots, slot)
		}
		if len(slots) == 0 {
			return domain.MultiDate{}, nil
		}
		return domain.NewSchedule(slots), nil
	}
}

func parseSlot(date, at string) (domain.Slot, error) {
	d, err := time.Parse(domain.DateFormat, date)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("date %q: %w", date, err)
	}
	t, err := types.NewTimeStringFromString(at)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("time %q: %w", at, err)
	}
	return domain.Slot{Date: d, Time: t}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	out := &CreateBookingResponse{
		Bookings:    models.FromDomainBookingList(resp.Bookings).Bookings,
		IsMultiDay:  resp.IsMultiDay,
		TotalDays:   resp.TotalDays,
		CreatedDays: len(resp.Bookings),
		GroupID:     resp.GroupID,
		TotalAmount: resp.TotalAmount,
	}

	if resp.Charge != nil {
		out.Charge = &ChargeResponse{
			Labour:            resp.Charge.Labour,
			DistanceSurcharge: resp.Charge.DistanceSurcharge,
			Subtotal:          resp.Charge.Subtotal,
			VATAmount:         resp.Charge.VATAmount,
			Total:             resp.Charge.Total,
		}
	}

	for _, e := range resp.Errors {
		out.Errors = append(out.Errors, DateErrorResponse{
			Date:  e.Date.Format(domain.DateFormat),
			Time:  e.Time.String(),
			Error: e.Err.Error(),
		})
	}

	return out
}
