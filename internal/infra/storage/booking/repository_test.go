package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/ptr"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/txmanager"
)

func newMockRepository(t *testing.T) (*Repository, *txmanager.TransactionManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped), txmanager.NewTransactionManager(wrapped), mock
}

func bookingRow(id string, status domain.BookingStatus, parentID interface{}) *sqlmock.Rows {
	now := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(columns).AddRow(
		id, "u1", "cleaning", "v1",
		time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC), "09:00", int64(120), string(status),
		"Anna Schmidt", "anna@example.com", "+49 30 123456", "Hauptstr. 1", nil,
		100.0, "pending", parentID != nil, parentID, nil,
		nil, nil, now, now,
	)
}

func TestCreate_ReturnsTimestamps(t *testing.T) {
	repo, _, mock := newMockRepository(t)
	created := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO bookings \(id,user_id,.*\) VALUES \(\$1,.*\) RETURNING created_at, updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, created))

	booking, err := repo.Create(context.Background(), &domain.Booking{
		UserID:      "u1",
		BookingDate: time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC),
		BookingTime: "09:00",
		Status:      domain.StatusScheduled,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, created, booking.CreatedAt)
}

func TestGetByID_NoLockOutsideTransaction(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectQuery(`FROM bookings WHERE id = \$1$`).
		WithArgs("b1").
		WillReturnRows(bookingRow("b1", domain.StatusScheduled, nil))

	booking, err := repo.GetByID(context.Background(), "b1")

	require.NoError(t, err)
	assert.Equal(t, "b1", booking.ID)
	assert.Equal(t, domain.StatusScheduled, booking.Status)
	assert.Equal(t, "09:00", booking.BookingTime.String())
	assert.Nil(t, booking.ParentBookingID)
	assert.Nil(t, booking.CancelledAt)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectQuery(`FROM bookings WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByID_LocksRowInWriteTransaction(t *testing.T) {
	repo, tx, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \$1 FOR UPDATE$`).
		WithArgs("b1").
		WillReturnRows(bookingRow("b1", domain.StatusConfirmed, nil))
	mock.ExpectCommit()

	err := tx.Do(context.Background(), func(ctx context.Context) error {
		_, err := repo.GetByID(ctx, "b1")
		return err
	})
	require.NoError(t, err)
}

func TestGetByParentID_NoLockInReadOnlyTransaction(t *testing.T) {
	repo, tx, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE parent_booking_id = \$1 ORDER BY booking_date ASC, booking_time ASC$`).
		WithArgs("root").
		WillReturnRows(bookingRow("b2", domain.StatusScheduled, "root"))
	mock.ExpectCommit()

	var children []*domain.Booking
	err := tx.DoReadOnly(context.Background(), func(ctx context.Context) error {
		var err error
		children, err = repo.GetByParentID(ctx, "root")
		return err
	})

	require.NoError(t, err)
	require.Len(t, children, 1)
	require.NotNil(t, children[0].ParentBookingID)
	assert.Equal(t, "root", *children[0].ParentBookingID)
	assert.True(t, children[0].IsMultiDay)
}

func TestGetByGroupID_LocksRowsInWriteTransaction(t *testing.T) {
	repo, tx, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE group_id = \$1 ORDER BY booking_date ASC, booking_time ASC FOR UPDATE$`).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectCommit()

	err := tx.Do(context.Background(), func(ctx context.Context) error {
		bookings, err := repo.GetByGroupID(ctx, "g1")
		assert.Empty(t, bookings)
		return err
	})
	require.NoError(t, err)
}

func TestCancel_SkipsTerminalRows(t *testing.T) {
	repo, _, mock := newMockRepository(t)
	at := time.Date(2026, 11, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE bookings SET status = \$1, cancellation_reason = \$2, cancelled_at = \$3, updated_at = NOW\(\) ` +
		`WHERE id IN \(\$4,\$5\) AND status NOT IN \(\$6,\$7\)`).
		WithArgs("cancelled", "sick", at, "b1", "b2", "completed", "cancelled").
		WillReturnResult(sqlmock.NewResult(0, 2))

	affected, err := repo.Cancel(context.Background(), []string{"b1", "b2"}, ptr.Ptr("sick"), at)

	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
}

func TestCancel_EmptyIDsSkipsQuery(t *testing.T) {
	repo, _, _ := newMockRepository(t)

	affected, err := repo.Cancel(context.Background(), nil, nil, time.Now())

	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestUpdateStatus_GuardsTerminalRows(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\) WHERE id IN \(\$2\) AND status NOT IN \(\$3,\$4\)`).
		WithArgs("confirmed", "b1", "completed", "cancelled").
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.UpdateStatus(context.Background(), []string{"b1"}, domain.StatusConfirmed)

	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestUpdateDetails_TerminalRowNotUpdated(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE bookings SET booking_date = \$1, booking_time = \$2, service_address = \$3, ` +
		`special_instructions = \$4, updated_at = NOW\(\) WHERE id = \$5 AND status NOT IN \(\$6,\$7\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateDetails(context.Background(), &domain.Booking{
		ID:             "b1",
		BookingDate:    time.Date(2026, 11, 12, 0, 0, 0, 0, time.UTC),
		BookingTime:    "10:30",
		ServiceAddress: "Hauptstr. 2",
	})

	assert.ErrorIs(t, err, ErrBookingNotUpdated)
}

func TestDelete_OnlyCancelledRows(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectExec(`DELETE FROM bookings WHERE id = \$1 AND status = \$2`).
		WithArgs("b1", "cancelled").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM bookings WHERE id = \$1 AND status = \$2`).
		WithArgs("b2", "cancelled").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "b1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "b2"), ErrBookingNotFound)
}

func TestExec_WrapsDriverError(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE bookings SET payment_status = \$1`).
		WillReturnError(errors.New("connection reset"))

	err := repo.UpdatePaymentStatus(context.Background(), "b1", domain.PaymentPaid)
	assert.ErrorIs(t, err, ErrExecQuery)
}
