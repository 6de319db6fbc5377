package domain

// Pricing constants
const (
	DistanceRatePerKm = 0.5  // доплата за километр
	VATRate           = 0.19 // НДС, не настраивается на уровне варианта
)

// Business validation constants
const (
	MinDurationMinutes           = 15
	MaxDurationMinutes           = 720 // 12 hours
	MaxDatesPerBooking           = 31
	MaxSpecialInstructionsLength = 500
	MaxCancellationReasonLength  = 500
	MaxAddressLength             = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses статусы, после которых бронирование не изменяется
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
}
