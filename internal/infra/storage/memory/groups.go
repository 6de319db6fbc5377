package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	groupRepo "github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/group"
)

// GroupRepository хранит сводные записи групп в памяти
type GroupRepository struct {
	mu     sync.RWMutex
	groups map[string]*domain.BookingGroup
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{groups: make(map[string]*domain.BookingGroup)}
}

func (r *GroupRepository) Create(_ context.Context, group *domain.BookingGroup) (*domain.BookingGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now

	stored := *group
	r.groups[group.ID] = &stored
	return group, nil
}

func (r *GroupRepository) GetByID(_ context.Context, id string) (*domain.BookingGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[id]
	if !ok {
		return nil, groupRepo.ErrGroupNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *GroupRepository) UpdateStatus(_ context.Context, id string, status domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[id]
	if !ok {
		return groupRepo.ErrGroupNotFound
	}
	g.Status = status
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *GroupRepository) UpdateSummary(_ context.Context, id string, dayCount int, totalAmount float64, rootBookingID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[id]
	if !ok {
		return groupRepo.ErrGroupNotFound
	}
	g.DayCount = dayCount
	g.TotalAmount = totalAmount
	g.RootBookingID = copyString(rootBookingID)
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *GroupRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[id]; !ok {
		return groupRepo.ErrGroupNotFound
	}
	delete(r.groups, id)
	return nil
}
