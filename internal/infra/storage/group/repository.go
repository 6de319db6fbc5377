package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/psqlbuilder"
)

const table = "booking_groups"

// Repository репозиторий сводных записей многодневных заказов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория групп
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает сводную запись группы
func (r *Repository) Create(ctx context.Context, group *domain.BookingGroup) (*domain.BookingGroup, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if group.ID == "" {
		group.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "user_id", "service_variant_id", "status", "total_amount", "day_count", "root_booking_id").
		Values(group.ID, group.UserID, group.ServiceVariantID, group.Status, group.TotalAmount, group.DayCount, group.RootBookingID).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	group.CreatedAt = createdAt.Time
	group.UpdatedAt = updatedAt.Time

	return group, nil
}

// GetByID получает группу по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.BookingGroup, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"user_id",
		"service_variant_id",
		"status",
		"total_amount",
		"day_count",
		"root_booking_id",
		"created_at",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.CanLockRows(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var group domain.BookingGroup
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&group.ID,
		&group.UserID,
		&group.ServiceVariantID,
		&group.Status,
		&group.TotalAmount,
		&group.DayCount,
		&group.RootBookingID,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan group: %v", ErrScanRow, err)
	}

	group.CreatedAt = createdAt.Time
	group.UpdatedAt = updatedAt.Time

	return &group, nil
}

// UpdateStatus обновляет статус группы
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	return r.update(ctx, "UpdateStatus", psqlbuilder.Update(table).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// UpdateSummary записывает итоги создания: число дней, сумму и корневую запись
func (r *Repository) UpdateSummary(ctx context.Context, id string, dayCount int, totalAmount float64, rootBookingID *string) error {
	return r.update(ctx, "UpdateSummary", psqlbuilder.Update(table).
		Set("day_count", dayCount).
		Set("total_amount", totalAmount).
		Set("root_booking_id", rootBookingID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// Delete удаляет группу
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}

func (r *Repository) update(ctx context.Context, method string, updateBuilder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if rowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}
