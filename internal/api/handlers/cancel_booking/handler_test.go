package cancel_booking

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/usecase/cascade"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/logger"
)

type fakeCascade struct {
	calls      int
	lastID     string
	lastReason *string
	err        error
}

func (f *fakeCascade) Cancel(_ context.Context, bookingID string, reason *string) (*cascade.Result, error) {
	f.calls++
	f.lastID = bookingID
	f.lastReason = reason
	if f.err != nil {
		return nil, f.err
	}
	return &cascade.Result{Scope: cascade.ScopeSingle, TargetID: bookingID, Status: domain.StatusCancelled}, nil
}

func newRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/b1/cancel", strings.NewReader(body))
	return mux.SetURLVars(r, map[string]string{"bookingId": "b1"})
}

func TestHandle_EmptyBody(t *testing.T) {
	uc := &fakeCascade{}
	h := NewHandler(uc, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, newRequest(""))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b1", uc.lastID)
	assert.Nil(t, uc.lastReason)
}

func TestHandle_WithReason(t *testing.T) {
	uc := &fakeCascade{}
	h := NewHandler(uc, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, newRequest(`{"cancellationReason": "sick"}`))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.lastReason)
	assert.Equal(t, "sick", *uc.lastReason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCalls  int
	}{
		{name: "malformed body", body: `{"cancellationReason":`, wantStatus: http.StatusBadRequest},
		{name: "reason too long", body: `{"cancellationReason": "` + strings.Repeat("x", 501) + `"}`, wantStatus: http.StatusBadRequest},
		{name: "not found", err: cascade.ErrBookingNotFound, wantStatus: http.StatusNotFound, wantCalls: 1},
		{name: "completed", err: fmt.Errorf("%w: completed", domain.ErrBookingTerminal), wantStatus: http.StatusConflict, wantCalls: 1},
		{name: "internal", err: cascade.ErrInternal, wantStatus: http.StatusInternalServerError, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeCascade{err: tt.err}
			h := NewHandler(uc, logger.NewNop())

			w := httptest.NewRecorder()
			h.Handle(w, newRequest(tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalls, uc.calls)
		})
	}
}
