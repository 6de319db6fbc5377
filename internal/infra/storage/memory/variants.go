package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	variantRepo "github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/variant"
)

// VariantRepository каталог вариантов услуг в памяти
type VariantRepository struct {
	mu       sync.RWMutex
	variants map[string]*domain.ServiceVariant
}

func NewVariantRepository() *VariantRepository {
	return &VariantRepository{variants: make(map[string]*domain.ServiceVariant)}
}

func (r *VariantRepository) Create(_ context.Context, v *domain.ServiceVariant) (*domain.ServiceVariant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	stored := *v
	r.variants[v.ID] = &stored
	return v, nil
}

func (r *VariantRepository) GetByID(_ context.Context, id string) (*domain.ServiceVariant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.variants[id]
	if !ok {
		return nil, variantRepo.ErrVariantNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *VariantRepository) GetActiveByID(ctx context.Context, id string) (*domain.ServiceVariant, error) {
	v, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.IsActive {
		return nil, variantRepo.ErrVariantNotFound
	}
	return v, nil
}

func (r *VariantRepository) ListActive(_ context.Context, serviceID *string) ([]*domain.ServiceVariant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.ServiceVariant, 0)
	for _, v := range r.variants {
		if !v.IsActive || (serviceID != nil && v.ServiceID != *serviceID) {
			continue
		}
		cp := *v
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

func (r *VariantRepository) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.variants[id]
	if !ok {
		return variantRepo.ErrVariantNotFound
	}
	v.IsActive = false
	v.UpdatedAt = time.Now().UTC()
	return nil
}
