package notify

import (
	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
)

// Event тип уведомления
type Event string

const (
	EventBookingCreated     Event = "booking.created"
	EventBookingCancelled   Event = "booking.cancelled"
	EventGroupStatusChanged Event = "group.status_changed"
)

// Message одно уведомление на заказ клиента (не на каждую запись)
type Message struct {
	Event          Event     `json:"event"`
	CommitmentID   string    `json:"commitmentId"`
	GroupID        *string   `json:"groupId,omitempty"`
	UserID         string    `json:"userId"`
	CustomerName   string    `json:"customerName"`
	CustomerEmail  string    `json:"customerEmail"`
	CustomerPhone  string    `json:"customerPhone"`
	ServiceAddress string    `json:"serviceAddress"`
	Status         string    `json:"status,omitempty"`
	Reason         *string   `json:"reason,omitempty"`
	BookingIDs     []string  `json:"bookingIds"`
	Dates          []string  `json:"dates"`
	Amounts        []float64 `json:"amounts"`
	TotalAmount    float64   `json:"totalAmount"`
}

// NewMessage собирает уведомление по набору записей одного заказа.
// Данные клиента берутся из первой записи.
func NewMessage(event Event, commitmentID string, bookings []*domain.Booking, reason *string) Message {
	msg := Message{
		Event:        event,
		CommitmentID: commitmentID,
		Reason:       reason,
		BookingIDs:   make([]string, 0, len(bookings)),
		Dates:        make([]string, 0, len(bookings)),
		Amounts:      make([]float64, 0, len(bookings)),
	}

	for i, b := range bookings {
		if i == 0 {
			msg.GroupID = b.GroupID
			msg.UserID = b.UserID
			msg.CustomerName = b.CustomerName
			msg.CustomerEmail = b.CustomerEmail
			msg.CustomerPhone = b.CustomerPhone
			msg.ServiceAddress = b.ServiceAddress
			msg.Status = string(b.Status)
		}
		msg.BookingIDs = append(msg.BookingIDs, b.ID)
		msg.Dates = append(msg.Dates, b.BookingDate.Format(domain.DateFormat)+" "+b.BookingTime.String())
		msg.Amounts = append(msg.Amounts, b.TotalAmount)
		msg.TotalAmount += b.TotalAmount
	}

	return msg
}
