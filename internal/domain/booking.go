package domain

import (
	"time"

	"github.com/m04kA/SMC-HomeServiceBooking/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusScheduled  BookingStatus = "scheduled"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// PaymentStatus отслеживаемое состояние оплаты (сама оплата не проводится)
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking represents one appointment for a single date/time
type Booking struct {
	ID               string
	UserID           string
	ServiceID        string
	ServiceVariantID string
	BookingDate      time.Time
	BookingTime      types.TimeString
	DurationMinutes  int
	Status           BookingStatus

	CustomerName        string
	CustomerEmail       string
	CustomerPhone       string
	ServiceAddress      string
	SpecialInstructions *string

	TotalAmount   float64
	PaymentStatus PaymentStatus

	// Многодневные бронирования: корневая запись имеет IsMultiDay=true и ParentBookingID=nil,
	// дочерние ссылаются на корень. ParentBookingID только обратная ссылка, не владение.
	IsMultiDay      bool
	ParentBookingID *string
	GroupID         *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRoot returns true for the canonical row of a multi-day set
func (b *Booking) IsRoot() bool {
	return b.IsMultiDay && b.ParentBookingID == nil
}

// IsChild returns true if the booking references a parent row
func (b *Booking) IsChild() bool {
	return b.ParentBookingID != nil
}

// IsTerminal returns true if the booking can no longer be mutated
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// CanBeUpdated returns true if date/time/address can still be changed
func (b *Booking) CanBeUpdated() bool {
	return !b.Status.IsTerminal()
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return !b.Status.IsTerminal()
}

// CanBeDeleted returns true if the operator may hard delete the booking
func (b *Booking) CanBeDeleted() bool {
	return b.Status == StatusCancelled
}

// BookingPatch изменяемые поля бронирования. nil означает "не менять".
type BookingPatch struct {
	BookingDate         *time.Time
	BookingTime         *types.TimeString
	ServiceAddress      *string
	SpecialInstructions *string
}

// IsEmpty returns true if the patch changes nothing
func (p BookingPatch) IsEmpty() bool {
	return p.BookingDate == nil && p.BookingTime == nil && p.ServiceAddress == nil && p.SpecialInstructions == nil
}

// Apply копирует заданные поля патча в бронирование
func (p BookingPatch) Apply(b *Booking) {
	if p.BookingDate != nil {
		b.BookingDate = *p.BookingDate
	}
	if p.BookingTime != nil {
		b.BookingTime = *p.BookingTime
	}
	if p.ServiceAddress != nil {
		b.ServiceAddress = *p.ServiceAddress
	}
	if p.SpecialInstructions != nil {
		b.SpecialInstructions = p.SpecialInstructions
	}
}
