package group

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/txmanager"
)

var groupColumns = []string{
	"id", "user_id", "service_variant_id", "status", "total_amount",
	"day_count", "root_booking_id", "created_at", "updated_at",
}

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

func groupRow(id string) *sqlmock.Rows {
	now := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(groupColumns).
		AddRow(id, "u1", "v1", "scheduled", 300.0, int64(3), "root", now, now)
}

func TestGetByID_LocksOnlyInWriteTransaction(t *testing.T) {
	repo, tx, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM booking_groups WHERE id = \$1 FOR UPDATE$`).
		WithArgs("g1").
		WillReturnRows(groupRow("g1"))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM booking_groups WHERE id = \$1$`).
		WithArgs("g1").
		WillReturnRows(groupRow("g1"))
	mock.ExpectCommit()

	err := tx.Do(context.Background(), func(ctx context.Context) error {
		_, err := repo.GetByID(ctx, "g1")
		return err
	})
	require.NoError(t, err)

	var group *domain.BookingGroup
	err = tx.DoReadOnly(context.Background(), func(ctx context.Context) error {
		var err error
		group, err = repo.GetByID(ctx, "g1")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 3, group.DayCount)
	require.NotNil(t, group.RootBookingID)
	assert.Equal(t, "root", *group.RootBookingID)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectQuery(`FROM booking_groups WHERE id = \$1$`).
		WillReturnRows(sqlmock.NewRows(groupColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestUpdateStatus_MissingGroup(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE booking_groups SET status = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs("cancelled", "g1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "g1", domain.StatusCancelled)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestUpdateSummary(t *testing.T) {
	repo, _, mock := newMockRepository(t)
	root := "b1"

	mock.ExpectExec(`UPDATE booking_groups SET day_count = \$1, total_amount = \$2, root_booking_id = \$3, updated_at = NOW\(\) WHERE id = \$4`).
		WithArgs(int64(2), 200.0, "b1", "g1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateSummary(context.Background(), "g1", 2, 200.0, &root))
}

func TestDelete(t *testing.T) {
	repo, _, mock := newMockRepository(t)

	mock.ExpectExec(`DELETE FROM booking_groups WHERE id = \$1`).
		WithArgs("g1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "g1"))
}
