package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/ptr"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/types"
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID string  `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// UpdateBookingRequest изменение даты, времени, адреса или пожеланий
type UpdateBookingRequest struct {
	BookingDate         *string `json:"bookingDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BookingTime         *string `json:"bookingTime,omitempty" validate:"omitempty,datetime=15:04"`
	ServiceAddress      *string `json:"serviceAddress,omitempty" validate:"omitempty,min=1,max=500"`
	SpecialInstructions *string `json:"specialInstructions,omitempty" validate:"omitempty,max=500"`
}

// ToDomainPatch конвертирует запрос в патч доменной модели
func (r *UpdateBookingRequest) ToDomainPatch() (domain.BookingPatch, error) {
	patch := domain.BookingPatch{
		ServiceAddress:      r.ServiceAddress,
		SpecialInstructions: r.SpecialInstructions,
	}

	if r.BookingDate != nil {
		date, err := time.Parse(domain.DateFormat, *r.BookingDate)
		if err != nil {
			return patch, fmt.Errorf("bookingDate: %w", err)
		}
		patch.BookingDate = &date
	}

	if r.BookingTime != nil {
		t, err := types.NewTimeStringFromString(*r.BookingTime)
		if err != nil {
			return patch, fmt.Errorf("bookingTime: %w", err)
		}
		patch.BookingTime = &t
	}

	return patch, nil
}

// UpdateStatusRequest запрос на изменение статуса
type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=scheduled confirmed in_progress completed cancelled"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// UpdatePaymentStatusRequest запрос на изменение статуса оплаты
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=pending paid refunded"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID               string  `json:"id"`
	UserID           string  `json:"userId"`
	ServiceID        string  `json:"serviceId"`
	ServiceVariantID string  `json:"serviceVariantId"`
	BookingDate      string  `json:"bookingDate"` // "2026-11-10"
	BookingTime      string  `json:"bookingTime"` // "09:00"
	DurationMinutes  int     `json:"durationMinutes"`
	Status           string  `json:"status"`
	TotalAmount      float64 `json:"totalAmount"`
	PaymentStatus    string  `json:"paymentStatus"`

	CustomerName        string  `json:"customerName"`
	CustomerEmail       string  `json:"customerEmail"`
	CustomerPhone       string  `json:"customerPhone"`
	ServiceAddress      string  `json:"serviceAddress"`
	SpecialInstructions *string `json:"specialInstructions,omitempty"`

	IsMultiDay      bool    `json:"isMultiDay"`
	ParentBookingID *string `json:"parentBookingId,omitempty"`
	GroupID         *string `json:"groupId,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// GroupResponse сводка многодневного заказа вместе с записями
type GroupResponse struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId"`
	ServiceVariantID string            `json:"serviceVariantId"`
	Status           string            `json:"status"`
	TotalAmount      float64           `json:"totalAmount"`
	DayCount         int               `json:"dayCount"`
	RootBookingID    *string           `json:"rootBookingId,omitempty"`
	Bookings         []BookingResponse `json:"bookings"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                  b.ID,
		UserID:              b.UserID,
		ServiceID:           b.ServiceID,
		ServiceVariantID:    b.ServiceVariantID,
		BookingDate:         b.BookingDate.Format(domain.DateFormat),
		BookingTime:         b.BookingTime.String(),
		DurationMinutes:     b.DurationMinutes,
		Status:              string(b.Status),
		TotalAmount:         b.TotalAmount,
		PaymentStatus:       string(b.PaymentStatus),
		CustomerName:        b.CustomerName,
		CustomerEmail:       b.CustomerEmail,
		CustomerPhone:       b.CustomerPhone,
		ServiceAddress:      b.ServiceAddress,
		SpecialInstructions: b.SpecialInstructions,
		IsMultiDay:          b.IsMultiDay,
		ParentBookingID:     b.ParentBookingID,
		GroupID:             b.GroupID,
		CancellationReason:  b.CancellationReason,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		resp.CancelledAt = ptr.Ptr(b.CancelledAt.Format(time.RFC3339))
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainGroup конвертирует группу и ее записи в DTO
func FromDomainGroup(g *domain.BookingGroup, bookings []*domain.Booking) *GroupResponse {
	return &GroupResponse{
		ID:               g.ID,
		UserID:           g.UserID,
		ServiceVariantID: g.ServiceVariantID,
		Status:           string(g.Status),
		TotalAmount:      g.TotalAmount,
		DayCount:         g.DayCount,
		RootBookingID:    g.RootBookingID,
		Bookings:         FromDomainBookingList(bookings).Bookings,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}
