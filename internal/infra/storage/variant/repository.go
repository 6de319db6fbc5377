package variant

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

const table = "service_variants"

var columns = []string{
	"id",
	"service_id",
	"title",
	"duration_minutes",
	"pricing_type",
	"base_price",
	"unit_price",
	"unit_measure",
	"min_measurement",
	"max_measurement",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий каталога вариантов услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория вариантов услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает вариант услуги
func (r *Repository) Create(ctx context.Context, v *domain.ServiceVariant) (*domain.ServiceVariant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if v.ID == "" {
		v.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"service_id",
			"title",
			"duration_minutes",
			"pricing_type",
			"base_price",
			"unit_price",
			"unit_measure",
			"min_measurement",
			"max_measurement",
			"is_active",
		).
		Values(
			v.ID,
			v.ServiceID,
			v.Title,
			v.DurationMinutes,
			v.PricingType,
			v.BasePrice,
			v.UnitPrice,
			v.UnitMeasure,
			v.MinMeasurement,
			v.MaxMeasurement,
			v.IsActive,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	v.CreatedAt = createdAt.Time
	v.UpdatedAt = updatedAt.Time

	return v, nil
}

// GetByID получает вариант по ID независимо от активности
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.ServiceVariant, error) {
	return r.get(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetActiveByID получает только активный вариант
func (r *Repository) GetActiveByID(ctx context.Context, id string) (*domain.ServiceVariant, error) {
	return r.get(ctx, "GetActiveByID", squirrel.Eq{"id": id, "is_active": true})
}

func (r *Repository) get(ctx context.Context, method string, where squirrel.Eq) (*domain.ServiceVariant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	v, err := scanVariant(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVariantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan variant: %v", ErrScanRow, method, err)
	}

	return v, nil
}

// ListActive возвращает активные варианты, опционально по услуге
func (r *Repository) ListActive(ctx context.Context, serviceID *string) ([]*domain.ServiceVariant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("title ASC")

	if serviceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	variants := make([]*domain.ServiceVariant, 0)
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan row: %v", ErrScanRow, err)
		}
		variants = append(variants, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	return variants, nil
}

// Deactivate снимает вариант с продажи. Существующие бронирования не затрагиваются.
func (r *Repository) Deactivate(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrVariantNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVariant(row rowScanner) (*domain.ServiceVariant, error) {
	var v domain.ServiceVariant
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&v.ID,
		&v.ServiceID,
		&v.Title,
		&v.DurationMinutes,
		&v.PricingType,
		&v.BasePrice,
		&v.UnitPrice,
		&v.UnitMeasure,
		&v.MinMeasurement,
		&v.MaxMeasurement,
		&v.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.CreatedAt = createdAt.Time
	v.UpdatedAt = updatedAt.Time

	return &v, nil
}
