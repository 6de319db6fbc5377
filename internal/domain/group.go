package domain

import "time"

// BookingGroup сводная запись многодневного заказа (таблица booking_groups)
type BookingGroup struct {
	ID               string
	UserID           string
	ServiceVariantID string
	Status           BookingStatus
	TotalAmount      float64 // сумма созданных записей
	DayCount         int     // количество созданных записей
	RootBookingID    *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
