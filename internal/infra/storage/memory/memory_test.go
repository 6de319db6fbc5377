package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/booking"
	variantRepo "github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/variant"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/ptr"
)

func day(d int) time.Time {
	return time.Date(2026, 11, d, 0, 0, 0, 0, time.UTC)
}

func TestBookingRepository_CancelSkipsTerminal(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	open, err := repo.Create(ctx, &domain.Booking{UserID: "u1", BookingDate: day(1), Status: domain.StatusScheduled})
	require.NoError(t, err)
	done, err := repo.Create(ctx, &domain.Booking{UserID: "u1", BookingDate: day(2), Status: domain.StatusCompleted})
	require.NoError(t, err)
	assert.NotEmpty(t, open.ID)

	affected, err := repo.Cancel(ctx, []string{open.ID, done.ID, "missing"}, ptr.Ptr("moved out"), day(3))
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.GetByID(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Equal(t, "moved out", *got.CancellationReason)
	assert.Equal(t, day(3), *got.CancelledAt)

	got, err = repo.GetByID(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestBookingRepository_RelationsAndOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	groupID := "g1"

	root, _ := repo.Create(ctx, &domain.Booking{UserID: "u1", BookingDate: day(1), IsMultiDay: true, GroupID: &groupID})
	_, _ = repo.Create(ctx, &domain.Booking{UserID: "u1", BookingDate: day(3), IsMultiDay: true, ParentBookingID: &root.ID, GroupID: &groupID})
	_, _ = repo.Create(ctx, &domain.Booking{UserID: "u1", BookingDate: day(2), IsMultiDay: true, ParentBookingID: &root.ID, GroupID: &groupID})
	_, _ = repo.Create(ctx, &domain.Booking{UserID: "u2", BookingDate: day(5)})

	children, err := repo.GetByParentID(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, day(2), children[0].BookingDate)
	assert.Equal(t, day(3), children[1].BookingDate)

	members, err := repo.GetByGroupID(ctx, groupID)
	require.NoError(t, err)
	assert.Len(t, members, 3)

	userBookings, err := repo.GetByUserID(ctx, "u1", nil)
	require.NoError(t, err)
	require.Len(t, userBookings, 3)
	assert.Equal(t, day(3), userBookings[0].BookingDate)
}

func TestBookingRepository_DeleteOnlyCancelled(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	b, _ := repo.Create(ctx, &domain.Booking{Status: domain.StatusScheduled})
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), bookingRepo.ErrBookingNotFound)

	_, err := repo.Cancel(ctx, []string{b.ID}, nil, day(1))
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, b.ID))

	_, err = repo.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)
}

func TestBookingRepository_DeleteDetachesChildren(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	root, err := repo.Create(ctx, &domain.Booking{UserID: "u1", BookingDate: day(1), IsMultiDay: true, Status: domain.StatusScheduled})
	require.NoError(t, err)
	rootID := root.ID
	child, err := repo.Create(ctx, &domain.Booking{UserID: "u1", BookingDate: day(2), IsMultiDay: true, ParentBookingID: &rootID, Status: domain.StatusScheduled})
	require.NoError(t, err)

	_, err = repo.Cancel(ctx, []string{rootID}, nil, day(1))
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, rootID))

	got, err := repo.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentBookingID)
	assert.Equal(t, domain.StatusScheduled, got.Status)

	children, err := repo.GetByParentID(ctx, rootID)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestVariantRepository_ActiveFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewVariantRepository()

	v, err := repo.Create(ctx, &domain.ServiceVariant{Title: "Deep Kitchen Clean", IsActive: true})
	require.NoError(t, err)

	_, err = repo.GetActiveByID(ctx, v.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(ctx, v.ID))
	_, err = repo.GetActiveByID(ctx, v.ID)
	assert.ErrorIs(t, err, variantRepo.ErrVariantNotFound)

	list, err := repo.ListActive(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}
