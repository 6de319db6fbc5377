package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/pricing"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/types"
)

// Request модель запроса на оформление заказа
type Request struct {
	UserID              string          // ID пользователя (X-User-ID)
	CustomerName        string          // Имя клиента
	CustomerEmail       string          // Email клиента
	CustomerPhone       string          // Телефон клиента
	ServiceVariantID    string          // Вариант услуги
	Schedule            domain.Schedule // SingleDate или MultiDate
	DurationMinutes     int             // 0 = длительность варианта
	ServiceAddress      string          // Адрес оказания услуги
	SpecialInstructions *string         // Пожелания (опционально)
	TotalAmount         float64         // Сумма, которую видел клиент
	PerUnit             *PerUnitInputs  // Замеры для per_unit (опционально)
}

// PerUnitInputs замеры клиента
type PerUnitInputs struct {
	MeasurementValue float64
	DistanceKm       float64
}

// DateError ошибка сохранения одной даты многодневного заказа
type DateError struct {
	Date time.Time
	Time types.TimeString
	Err  error
}

func (e DateError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Date.Format(domain.DateFormat), e.Time, e.Err)
}

// Response результат оформления: полный успех, частичный (Errors не пуст) или ошибка
type Response struct {
	Bookings    []*domain.Booking // Созданные записи в порядке дат запроса
	IsMultiDay  bool
	TotalDays   int     // Количество дат в запросе
	GroupID     *string // Только для многодневных
	TotalAmount float64 // Сумма созданных записей
	Charge      *pricing.Charge
	Errors      []DateError
}

// IsPartial возвращает true, если часть дат не сохранилась
func (r *Response) IsPartial() bool {
	return len(r.Errors) > 0
}
