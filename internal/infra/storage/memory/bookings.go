package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/booking"
)

// BookingRepository хранит бронирования в памяти процесса.
// Повторяет поведение PostgreSQL репозитория, включая ошибки из пакета booking.
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
	now      func() time.Time
}

// NewBookingRepository создает пустое хранилище бронирований
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		bookings: make(map[string]*domain.Booking),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *BookingRepository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := r.now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	stored := *booking
	r.bookings[booking.ID] = &stored

	return booking, nil
}

func (r *BookingRepository) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *BookingRepository) GetByUserID(_ context.Context, userID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := r.filter(func(b *domain.Booking) bool {
		return b.UserID == userID && (status == nil || b.Status == *status)
	})

	sort.SliceStable(result, func(i, j int) bool { return after(result[i], result[j]) })
	return result, nil
}

func (r *BookingRepository) GetByParentID(_ context.Context, parentID string) ([]*domain.Booking, error) {
	result := r.filter(func(b *domain.Booking) bool {
		return b.ParentBookingID != nil && *b.ParentBookingID == parentID
	})

	sort.SliceStable(result, func(i, j int) bool { return after(result[j], result[i]) })
	return result, nil
}

func (r *BookingRepository) GetByGroupID(_ context.Context, groupID string) ([]*domain.Booking, error) {
	result := r.filter(func(b *domain.Booking) bool {
		return b.GroupID != nil && *b.GroupID == groupID
	})

	sort.SliceStable(result, func(i, j int) bool { return after(result[j], result[i]) })
	return result, nil
}

func (r *BookingRepository) UpdateStatus(_ context.Context, ids []string, status domain.BookingStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	for _, id := range ids {
		b, ok := r.bookings[id]
		if !ok || b.Status.IsTerminal() {
			continue
		}
		b.Status = status
		b.UpdatedAt = r.now()
		affected++
	}
	return affected, nil
}

func (r *BookingRepository) Cancel(_ context.Context, ids []string, reason *string, cancelledAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	for _, id := range ids {
		b, ok := r.bookings[id]
		if !ok || b.Status.IsTerminal() {
			continue
		}
		at := cancelledAt
		b.Status = domain.StatusCancelled
		b.CancellationReason = copyString(reason)
		b.CancelledAt = &at
		b.UpdatedAt = r.now()
		affected++
	}
	return affected, nil
}

func (r *BookingRepository) UpdateDetails(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[booking.ID]
	if !ok || b.Status.IsTerminal() {
		return bookingRepo.ErrBookingNotUpdated
	}
	b.BookingDate = booking.BookingDate
	b.BookingTime = booking.BookingTime
	b.ServiceAddress = booking.ServiceAddress
	b.SpecialInstructions = copyString(booking.SpecialInstructions)
	b.UpdatedAt = r.now()
	return nil
}

func (r *BookingRepository) UpdatePaymentStatus(_ context.Context, id string, status domain.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.PaymentStatus = status
	b.UpdatedAt = r.now()
	return nil
}

func (r *BookingRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.Status != domain.StatusCancelled {
		return bookingRepo.ErrBookingNotFound
	}
	delete(r.bookings, id)

	// Как ON DELETE SET NULL в PostgreSQL: дочерние записи теряют ссылку на корень
	for _, child := range r.bookings {
		if child.ParentBookingID != nil && *child.ParentBookingID == id {
			child.ParentBookingID = nil
			child.UpdatedAt = r.now()
		}
	}
	return nil
}

func (r *BookingRepository) filter(match func(b *domain.Booking) bool) []*domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if match(b) {
			cp := *b
			result = append(result, &cp)
		}
	}
	return result
}

// after сравнивает по дате и времени визита, затем по времени создания
func after(a, b *domain.Booking) bool {
	if !a.BookingDate.Equal(b.BookingDate) {
		return a.BookingDate.After(b.BookingDate)
	}
	if a.BookingTime != b.BookingTime {
		return a.BookingTime.IsAfter(b.BookingTime)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
