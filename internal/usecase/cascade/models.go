package cascade

import "github.com/m04kA/SMC-HomeServiceBooking/internal/domain"

// Scope набор записей, затронутых каскадом
type Scope string

const (
	ScopeSingle         Scope = "single"          // одиночное бронирование
	ScopeParentChildren Scope = "parent_children" // корень и все дочерние записи
	ScopeGroup          Scope = "group"           // все записи группы
)

// SkippedBooking запись, которая уже была в терминальном статусе или не допускает перехода
type SkippedBooking struct {
	ID     string
	Status domain.BookingStatus
}

// Result итог каскадной операции
type Result struct {
	Scope          Scope
	CommitmentID   string // корень заказа (или группа)
	TargetID       string // запись или группа из запроса
	Status         domain.BookingStatus
	UpdatedIDs     []string
	Skipped        []SkippedBooking
	AlreadyApplied bool // повторный запрос, ничего не изменилось
}
