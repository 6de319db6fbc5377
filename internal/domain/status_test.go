package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name      string
		current   BookingStatus
		requested BookingStatus
		want      BookingStatus
		wantErr   error
	}{
		{"scheduled to confirmed", StatusScheduled, StatusConfirmed, StatusConfirmed, nil},
		{"skip forward", StatusScheduled, StatusInProgress, StatusInProgress, nil},
		{"complete from confirmed", StatusConfirmed, StatusCompleted, StatusCompleted, nil},
		{"cancel from in_progress", StatusInProgress, StatusCancelled, StatusCancelled, nil},
		{"same status", StatusConfirmed, StatusConfirmed, StatusConfirmed, nil},
		{"backward", StatusInProgress, StatusScheduled, StatusInProgress, ErrInvalidStatus},
		{"unknown target", StatusScheduled, BookingStatus("archived"), StatusScheduled, ErrInvalidStatus},
		{"from completed", StatusCompleted, StatusCancelled, StatusCompleted, ErrBookingTerminal},
		{"from cancelled", StatusCancelled, StatusConfirmed, StatusCancelled, ErrBookingTerminal},
		{"cancelled to cancelled", StatusCancelled, StatusCancelled, StatusCancelled, ErrBookingTerminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.current, tt.requested)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatuses(t *testing.T) {
	s, err := ParseBookingStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseBookingStatus("pending")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	p, err := ParsePaymentStatus("refunded")
	require.NoError(t, err)
	assert.Equal(t, PaymentRefunded, p)

	_, err = ParsePaymentStatus("captured")
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
}

func TestBookingHelpers(t *testing.T) {
	root := "root-id"

	b := &Booking{Status: StatusScheduled, IsMultiDay: true}
	assert.True(t, b.IsRoot())
	assert.False(t, b.IsChild())
	assert.True(t, b.CanBeUpdated())
	assert.False(t, b.CanBeDeleted())

	child := &Booking{Status: StatusCancelled, IsMultiDay: true, ParentBookingID: &root}
	assert.False(t, child.IsRoot())
	assert.True(t, child.IsChild())
	assert.False(t, child.CanBeCancelled())
	assert.True(t, child.CanBeDeleted())
}

func TestNewSchedule(t *testing.T) {
	one := []Slot{{Time: "10:00"}}
	assert.IsType(t, SingleDate{}, NewSchedule(one))
	assert.False(t, NewSchedule(one).IsMultiDay())

	three := []Slot{{Time: "10:00"}, {Time: "11:00"}, {Time: "12:00"}}
	s := NewSchedule(three)
	assert.IsType(t, MultiDate{}, s)
	assert.True(t, s.IsMultiDay())
	assert.Len(t, s.Slots(), 3)

	assert.Empty(t, NewSchedule(nil).Slots())
}
