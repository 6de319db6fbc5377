package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	groupRepo "github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/group"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/notify"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/logger"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/ptr"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type recordingTrigger struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (r *recordingTrigger) Fire(event notify.Event, msg notify.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.Event = event
	r.messages = append(r.messages, msg)
}

type nopMetrics struct{}

func (nopMetrics) IncBookingsCreated(string, int) {}
func (nopMetrics) IncBookingDateFailures(int)     {}

// flakyBookings отказывает в сохранении выбранных дат
type flakyBookings struct {
	*memory.BookingRepository
	failDates map[string]bool
}

func (f *flakyBookings) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.failDates[b.BookingDate.Format(domain.DateFormat)] {
		return nil, errors.New("connection reset")
	}
	return f.BookingRepository.Create(ctx, b)
}

type fixture struct {
	uc       *UseCase
	bookings *memory.BookingRepository
	groups   *memory.GroupRepository
	trigger  *recordingTrigger
	fixedID  string
	perUnit  string
}

func newFixture(t *testing.T, failDates ...string) *fixture {
	t.Helper()
	ctx := context.Background()

	bookings := memory.NewBookingRepository()
	groups := memory.NewGroupRepository()
	variants := memory.NewVariantRepository()

	fixed, err := variants.Create(ctx, &domain.ServiceVariant{
		ServiceID:       "cleaning",
		Title:           "Window Cleaning",
		DurationMinutes: 60,
		PricingType:     domain.PricingFixed,
		BasePrice:       ptr.Ptr(80.0),
		IsActive:        true,
	})
	require.NoError(t, err)

	perUnit, err := variants.Create(ctx, &domain.ServiceVariant{
		ServiceID:       "cleaning",
		Title:           "Deep Kitchen Clean",
		DurationMinutes: 120,
		PricingType:     domain.PricingPerUnit,
		UnitPrice:       ptr.Ptr(3.0),
		UnitMeasure:     ptr.Ptr("m2"),
		MinMeasurement:  ptr.Ptr(5.0),
		MaxMeasurement:  ptr.Ptr(200.0),
		IsActive:        true,
	})
	require.NoError(t, err)

	fail := make(map[string]bool)
	for _, d := range failDates {
		fail[d] = true
	}

	trigger := &recordingTrigger{}
	uc := NewUseCase(&flakyBookings{BookingRepository: bookings, failDates: fail}, groups, variants, trigger, nopMetrics{}, logger.NewNop())
	uc.timeProvider = fixedTime{now: time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)}

	return &fixture{
		uc:       uc,
		bookings: bookings,
		groups:   groups,
		trigger:  trigger,
		fixedID:  fixed.ID,
		perUnit:  perUnit.ID,
	}
}

func slot(date string, at string) domain.Slot {
	d, _ := time.Parse(domain.DateFormat, date)
	return domain.Slot{Date: d, Time: types.TimeString(at)}
}

func baseRequest(variantID string, slots ...domain.Slot) *Request {
	return &Request{
		UserID:           "user-1",
		CustomerName:     "Anna Schmidt",
		CustomerEmail:    "anna@example.com",
		CustomerPhone:    "+49 30 123456",
		ServiceVariantID: variantID,
		Schedule:         domain.NewSchedule(slots),
		ServiceAddress:   "Hauptstr. 1, Berlin",
		TotalAmount:      300,
	}
}

func TestExecute_MultiDaySplitsTotalEvenly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := baseRequest(f.fixedID,
		slot("2026-11-10", "09:00"),
		slot("2026-11-11", "09:00"),
		slot("2026-11-12", "10:30"),
	)

	resp, err := f.uc.Execute(ctx, req)
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 3)
	assert.True(t, resp.IsMultiDay)
	assert.Equal(t, 3, resp.TotalDays)
	assert.False(t, resp.IsPartial())
	assert.Equal(t, 300.0, resp.TotalAmount)
	require.NotNil(t, resp.GroupID)

	root := resp.Bookings[0]
	assert.True(t, root.IsRoot())
	for _, b := range resp.Bookings {
		assert.Equal(t, 100.0, b.TotalAmount)
		assert.True(t, b.IsMultiDay)
		assert.Equal(t, *resp.GroupID, *b.GroupID)
		assert.Equal(t, 60, b.DurationMinutes)
		assert.Equal(t, domain.StatusScheduled, b.Status)
		assert.Equal(t, domain.PaymentPending, b.PaymentStatus)
	}
	for _, child := range resp.Bookings[1:] {
		require.NotNil(t, child.ParentBookingID)
		assert.Equal(t, root.ID, *child.ParentBookingID)
	}

	children, err := f.bookings.GetByParentID(ctx, root.ID)
	require.NoError(t, err)
	assert.Len(t, children, 2)

	group, err := f.groups.GetByID(ctx, *resp.GroupID)
	require.NoError(t, err)
	assert.Equal(t, 3, group.DayCount)
	assert.Equal(t, 300.0, group.TotalAmount)
	assert.Equal(t, root.ID, *group.RootBookingID)

	require.Len(t, f.trigger.messages, 1)
	msg := f.trigger.messages[0]
	assert.Equal(t, notify.EventBookingCreated, msg.Event)
	assert.Equal(t, root.ID, msg.CommitmentID)
	assert.Len(t, msg.BookingIDs, 3)
}

func TestExecute_MultiDayRemainderGoesToLastDay(t *testing.T) {
	f := newFixture(t)

	req := baseRequest(f.fixedID,
		slot("2026-11-10", "09:00"),
		slot("2026-11-11", "09:00"),
		slot("2026-11-12", "09:00"),
	)
	req.TotalAmount = 100

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 33.33, resp.Bookings[0].TotalAmount)
	assert.Equal(t, 33.33, resp.Bookings[1].TotalAmount)
	assert.Equal(t, 33.34, resp.Bookings[2].TotalAmount)
	assert.Equal(t, 100.0, resp.TotalAmount)
}

func TestExecute_PartialSuccess(t *testing.T) {
	f := newFixture(t, "2026-11-10")
	ctx := context.Background()

	req := baseRequest(f.fixedID,
		slot("2026-11-10", "09:00"),
		slot("2026-11-11", "09:00"),
		slot("2026-11-12", "09:00"),
	)

	resp, err := f.uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.IsPartial())
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "2026-11-10", resp.Errors[0].Date.Format(domain.DateFormat))
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, 3, resp.TotalDays)
	assert.Equal(t, 200.0, resp.TotalAmount)

	// Первая сохраненная дата становится корнем
	root := resp.Bookings[0]
	assert.Equal(t, "2026-11-11", root.BookingDate.Format(domain.DateFormat))
	assert.Nil(t, root.ParentBookingID)
	assert.Equal(t, root.ID, *resp.Bookings[1].ParentBookingID)

	group, err := f.groups.GetByID(ctx, *resp.GroupID)
	require.NoError(t, err)
	assert.Equal(t, 2, group.DayCount)
	assert.Equal(t, 200.0, group.TotalAmount)
}

func TestExecute_AllDatesFailed(t *testing.T) {
	f := newFixture(t, "2026-11-10", "2026-11-11")
	ctx := context.Background()

	req := baseRequest(f.fixedID, slot("2026-11-10", "09:00"), slot("2026-11-11", "09:00"))

	resp, err := f.uc.Execute(ctx, req)
	require.ErrorIs(t, err, ErrBookingCreationFailed)
	assert.Nil(t, resp)
	assert.Empty(t, f.trigger.messages)

	userBookings, err := f.bookings.GetByUserID(ctx, "user-1", nil)
	require.NoError(t, err)
	assert.Empty(t, userBookings)
}

func TestExecute_AllDatesFailedRemovesGroup(t *testing.T) {
	ctx := context.Background()
	groups := memory.NewGroupRepository()
	variants := memory.NewVariantRepository()
	v, err := variants.Create(ctx, &domain.ServiceVariant{
		DurationMinutes: 60,
		PricingType:     domain.PricingFixed,
		BasePrice:       ptr.Ptr(50.0),
		IsActive:        true,
	})
	require.NoError(t, err)

	bookings := &flakyBookings{
		BookingRepository: memory.NewBookingRepository(),
		failDates:         map[string]bool{"2026-11-10": true, "2026-11-11": true},
	}
	uc := NewUseCase(bookings, groups, variants, &recordingTrigger{}, nopMetrics{}, logger.NewNop())
	uc.timeProvider = fixedTime{now: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)}

	var createdGroupID string
	spy := &groupSpy{GroupRepository: groups, onCreate: func(id string) { createdGroupID = id }}
	uc.groupRepo = spy

	_, err = uc.Execute(ctx, baseRequest(v.ID, slot("2026-11-10", "09:00"), slot("2026-11-11", "09:00")))
	require.ErrorIs(t, err, ErrBookingCreationFailed)

	require.NotEmpty(t, createdGroupID)
	_, err = groups.GetByID(ctx, createdGroupID)
	assert.ErrorIs(t, err, groupRepo.ErrGroupNotFound)
}

type groupSpy struct {
	*memory.GroupRepository
	onCreate func(id string)
}

func (s *groupSpy) Create(ctx context.Context, g *domain.BookingGroup) (*domain.BookingGroup, error) {
	created, err := s.GroupRepository.Create(ctx, g)
	if err == nil {
		s.onCreate(created.ID)
	}
	return created, err
}

func TestExecute_SingleDay(t *testing.T) {
	f := newFixture(t)

	req := baseRequest(f.fixedID, slot("2026-11-10", "14:00"))
	req.TotalAmount = 0
	req.SpecialInstructions = ptr.Ptr("Ключ у соседа")

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.False(t, resp.IsMultiDay)
	assert.Nil(t, resp.GroupID)

	b := resp.Bookings[0]
	assert.False(t, b.IsMultiDay)
	assert.Nil(t, b.ParentBookingID)
	assert.Nil(t, b.GroupID)
	assert.Equal(t, 80.0, b.TotalAmount, "base price is used when the client sends no total")
	assert.Equal(t, "Ключ у соседа", *b.SpecialInstructions)
	assert.Equal(t, types.TimeString("14:00"), b.BookingTime)

	require.Len(t, f.trigger.messages, 1)
	assert.Equal(t, b.ID, f.trigger.messages[0].CommitmentID)
}

func TestExecute_PerUnitReplacesClientTotal(t *testing.T) {
	f := newFixture(t)

	req := baseRequest(f.perUnit, slot("2026-11-10", "09:00"))
	req.TotalAmount = 1
	req.PerUnit = &PerUnitInputs{MeasurementValue: 20, DistanceKm: 10}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Charge)
	// (20*3 + 10*0.5) * 1.19 = 77.35
	assert.Equal(t, 77.35, resp.Charge.Total)
	assert.Equal(t, 77.35, resp.Bookings[0].TotalAmount)
	assert.Equal(t, 120, resp.Bookings[0].DurationMinutes)
}

func TestExecute_PerUnitErrors(t *testing.T) {
	f := newFixture(t)

	req := baseRequest(f.perUnit, slot("2026-11-10", "09:00"))
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrMissingPricingInputs)

	req.PerUnit = &PerUnitInputs{MeasurementValue: 500, DistanceKm: 3}
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidMeasurement)
}

func TestExecute_UnavailableVariant(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), baseRequest("missing", slot("2026-11-10", "09:00")))
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{
			name:    "no dates",
			mutate:  func(r *Request) { r.Schedule = domain.MultiDate{} },
			wantErr: ErrNoDatesProvided,
		},
		{
			name:    "nil schedule",
			mutate:  func(r *Request) { r.Schedule = nil },
			wantErr: ErrNoDatesProvided,
		},
		{
			name:    "date in the past",
			mutate:  func(r *Request) { r.Schedule = domain.SingleDate{Slot: slot("2026-10-30", "09:00")} },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "bad time",
			mutate:  func(r *Request) { r.Schedule = domain.SingleDate{Slot: slot("2026-11-10", "25:00")} },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing user",
			mutate:  func(r *Request) { r.UserID = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative total",
			mutate:  func(r *Request) { r.TotalAmount = -1 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "duration too short",
			mutate:  func(r *Request) { r.DurationMinutes = 5 },
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest(f.fixedID, slot("2026-11-10", "09:00"))
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, f.trigger.messages)
}

func TestExecute_TodayIsNotPast(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), baseRequest(f.fixedID, slot("2026-11-01", "08:00")))
	assert.NoError(t, err)
}
