package domain

import (
	"time"

	"github.com/m04kA/SMC-HomeServiceBooking/pkg/types"
)

// Slot дата и время начала одного визита
type Slot struct {
	Date time.Time
	Time types.TimeString
}

// Schedule расписание заказа: SingleDate или MultiDate.
// Форма запроса определяется один раз на входе (HTTP) и дальше не перепроверяется.
type Schedule interface {
	Slots() []Slot
	IsMultiDay() bool
	schedule()
}

// SingleDate заказ на одну дату
type SingleDate struct {
	Slot Slot
}

func (s SingleDate) Slots() []Slot    { return []Slot{s.Slot} }
func (s SingleDate) IsMultiDay() bool { return false }
func (SingleDate) schedule()          {}

// MultiDate заказ на несколько дат, порядок сохраняется
type MultiDate struct {
	Dates []Slot
}

func (m MultiDate) Slots() []Slot    { return m.Dates }
func (m MultiDate) IsMultiDay() bool { return len(m.Dates) > 1 }
func (MultiDate) schedule()          {}

// NewSchedule строит расписание из списка слотов: один слот дает SingleDate
func NewSchedule(slots []Slot) Schedule {
	if len(slots) == 1 {
		return SingleDate{Slot: slots[0]}
	}
	return MultiDate{Dates: slots}
}
