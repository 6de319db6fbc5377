package update_booking_status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/bookings"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/usecase/cascade"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/logger"
)

type fakeService struct {
	calls      int
	lastStatus domain.BookingStatus
	err        error
}

func (f *fakeService) UpdateStatus(_ context.Context, id string, status domain.BookingStatus) (*models.BookingResponse, error) {
	f.calls++
	f.lastStatus = status
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: id, Status: string(status)}, nil
}

type fakeCascade struct {
	calls      int
	lastReason *string
	err        error
}

func (f *fakeCascade) Cancel(_ context.Context, bookingID string, reason *string) (*cascade.Result, error) {
	f.calls++
	f.lastReason = reason
	if f.err != nil {
		return nil, f.err
	}
	return &cascade.Result{
		Scope:        cascade.ScopeParentChildren,
		CommitmentID: "root",
		TargetID:     bookingID,
		Status:       domain.StatusCancelled,
		UpdatedIDs:   []string{"root", bookingID},
	}, nil
}

func newRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/b2/status", strings.NewReader(body))
	return mux.SetURLVars(r, map[string]string{"bookingId": "b2"})
}

func TestHandle_ConfirmGoesToService(t *testing.T) {
	svc := &fakeService{}
	cs := &fakeCascade{}
	h := NewHandler(svc, cs, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, newRequest(`{"status": "confirmed"}`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, 0, cs.calls)
	assert.Equal(t, domain.StatusConfirmed, svc.lastStatus)
}

func TestHandle_CancelGoesToCascade(t *testing.T) {
	svc := &fakeService{}
	cs := &fakeCascade{}
	h := NewHandler(svc, cs, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, newRequest(`{"status": "cancelled", "reason": "moved out"}`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, svc.calls)
	assert.Equal(t, 1, cs.calls)
	require.NotNil(t, cs.lastReason)
	assert.Equal(t, "moved out", *cs.lastReason)

	var resp handlers.CascadeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "parent_children", resp.Scope)
	assert.Equal(t, "root", resp.CommitmentID)
	assert.Equal(t, []string{"root", "b2"}, resp.UpdatedIDs)
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ``},
		{name: "unknown status", body: `{"status": "paused"}`},
		{name: "missing status", body: `{"reason": "x"}`},
		{name: "unknown field", body: `{"status": "confirmed", "force": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			h := NewHandler(svc, &fakeCascade{}, logger.NewNop())

			w := httptest.NewRecorder()
			h.Handle(w, newRequest(tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 0, svc.calls)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		cascadeErr error
		body       string
		wantStatus int
	}{
		{
			name:       "not found",
			serviceErr: bookings.ErrBookingNotFound,
			body:       `{"status": "confirmed"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "terminal",
			serviceErr: fmt.Errorf("%w: booking id=b2", domain.ErrBookingTerminal),
			body:       `{"status": "in_progress"}`,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "backward transition",
			serviceErr: fmt.Errorf("%w: confirmed -> scheduled", domain.ErrInvalidStatus),
			body:       `{"status": "scheduled"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "cascade not found",
			cascadeErr: cascade.ErrBookingNotFound,
			body:       `{"status": "cancelled"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "cancel completed",
			cascadeErr: fmt.Errorf("%w: booking id=b2 is completed", domain.ErrBookingTerminal),
			body:       `{"status": "cancelled"}`,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "internal",
			serviceErr: bookings.ErrInternal,
			body:       `{"status": "completed"}`,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.serviceErr}, &fakeCascade{err: tt.cascadeErr}, logger.NewNop())

			w := httptest.NewRecorder()
			h.Handle(w, newRequest(tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
