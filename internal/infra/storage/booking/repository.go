package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-HomeServiceBooking/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"user_id",
	"service_id",
	"service_variant_id",
	"booking_date",
	"booking_time",
	"duration_minutes",
	"status",
	"customer_name",
	"customer_email",
	"customer_phone",
	"service_address",
	"special_instructions",
	"total_amount",
	"payment_status",
	"is_multi_day",
	"parent_booking_id",
	"group_id",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// ID генерируется здесь, если не задан. Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"user_id",
			"service_id",
			"service_variant_id",
			"booking_date",
			"booking_time",
			"duration_minutes",
			"status",
			"customer_name",
			"customer_email",
			"customer_phone",
			"service_address",
			"special_instructions",
			"total_amount",
			"payment_status",
			"is_multi_day",
			"parent_booking_id",
			"group_id",
		).
		Values(
			booking.ID,
			booking.UserID,
			booking.ServiceID,
			booking.ServiceVariantID,
			booking.BookingDate,
			booking.BookingTime,
			booking.DurationMinutes,
			booking.Status,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.ServiceAddress,
			booking.SpecialInstructions,
			booking.TotalAmount,
			booking.PaymentStatus,
			booking.IsMultiDay,
			booking.ParentBookingID,
			booking.GroupID,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции на запись блокируем строку
	if dbmetrics.CanLockRows(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC", "booking_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	return r.list(ctx, "GetByUserID", selectBuilder)
}

// GetByParentID получает дочерние записи многодневного бронирования
func (r *Repository) GetByParentID(ctx context.Context, parentID string) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"parent_booking_id": parentID}).
		OrderBy("booking_date ASC", "booking_time ASC")

	return r.list(ctx, "GetByParentID", selectBuilder)
}

// GetByGroupID получает все записи группы
func (r *Repository) GetByGroupID(ctx context.Context, groupID string) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"group_id": groupID}).
		OrderBy("booking_date ASC", "booking_time ASC")

	return r.list(ctx, "GetByGroupID", selectBuilder)
}

func (r *Repository) list(ctx context.Context, method string, selectBuilder squirrel.SelectBuilder) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if dbmetrics.CanLockRows(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return bookings, nil
}

// UpdateStatus переводит набор бронирований в статус.
// Терминальные записи не затрагиваются. Возвращает число измененных строк.
func (r *Repository) UpdateStatus(ctx context.Context, ids []string, status domain.BookingStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	updateBuilder := psqlbuilder.Update(table).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.NotEq{"status": terminalStatuses()})

	return r.exec(ctx, "UpdateStatus", updateBuilder)
}

// Cancel отменяет набор бронирований одним запросом с указанием причины.
// Уже завершенные и отмененные записи пропускаются.
func (r *Repository) Cancel(ctx context.Context, ids []string, reason *string, cancelledAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	updateBuilder := psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.NotEq{"status": terminalStatuses()})

	return r.exec(ctx, "Cancel", updateBuilder)
}

// UpdateDetails сохраняет дату, время, адрес и пожелания нетерминального бронирования
func (r *Repository) UpdateDetails(ctx context.Context, booking *domain.Booking) error {
	updateBuilder := psqlbuilder.Update(table).
		Set("booking_date", booking.BookingDate).
		Set("booking_time", booking.BookingTime).
		Set("service_address", booking.ServiceAddress).
		Set("special_instructions", booking.SpecialInstructions).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		Where(squirrel.NotEq{"status": terminalStatuses()})

	affected, err := r.exec(ctx, "UpdateDetails", updateBuilder)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBookingNotUpdated
	}

	return nil
}

// UpdatePaymentStatus обновляет статус оплаты
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	updateBuilder := psqlbuilder.Update(table).
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	affected, err := r.exec(ctx, "UpdatePaymentStatus", updateBuilder)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Delete удаляет отмененное бронирование (физическое удаление).
// Дочерние записи не удаляются: parent_booking_id только обратная ссылка.
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusCancelled}).
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
		return ErrBookingNotFound
	}

	return nil
}

func (r *Repository) exec(ctx context.Context, method string, updateBuilder squirrel.UpdateBuilder) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ServiceID,
		&booking.ServiceVariantID,
		&booking.BookingDate,
		&booking.BookingTime,
		&booking.DurationMinutes,
		&booking.Status,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.ServiceAddress,
		&booking.SpecialInstructions,
		&booking.TotalAmount,
		&booking.PaymentStatus,
		&booking.IsMultiDay,
		&booking.ParentBookingID,
		&booking.GroupID,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func terminalStatuses() []string {
	statuses := make([]string, len(domain.TerminalStatuses))
	for i, s := range domain.TerminalStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
