package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	variantRepo "github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/variant"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/catalog/models"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/pricing"
)

// Service сервис каталога вариантов услуг (операции оператора и расчет стоимости)
type Service struct {
	variantRepo VariantRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(variantRepo VariantRepository, logger Logger) *Service {
	return &Service{
		variantRepo: variantRepo,
		logger:      logger,
	}
}

// Create создает новый вариант услуги
func (s *Service) Create(ctx context.Context, req *models.CreateVariantRequest) (*models.VariantResponse, error) {
	s.logger.Info("Create: creating variant %q for service=%s, pricing=%s", req.Title, req.ServiceID, req.PricingType)

	variant := req.ToDomain()
	if err := validateVariant(variant); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.variantRepo.Create(ctx, variant)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created variant id=%s", created.ID)
	return models.FromDomainVariant(created), nil
}

// GetByID возвращает вариант услуги (в том числе неактивный)
func (s *Service) GetByID(ctx context.Context, id string) (*models.VariantResponse, error) {
	variant, err := s.getVariant(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainVariant(variant), nil
}

// ListActive возвращает активные варианты, опционально по услуге
func (s *Service) ListActive(ctx context.Context, serviceID *string) (*models.VariantListResponse, error) {
	variants, err := s.variantRepo.ListActive(ctx, serviceID)
	if err != nil {
		s.logger.Error("ListActive: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListActive: fetched %d variants", len(variants))
	return models.FromDomainVariantList(variants), nil
}

// Deactivate снимает вариант с продажи. Существующие бронирования не затрагиваются.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	s.logger.Info("Deactivate: deactivating variant id=%s", id)

	if err := s.variantRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, variantRepo.ErrVariantNotFound) {
			s.logger.Warn("Deactivate: variant id=%s not found", id)
			return ErrVariantNotFound
		}
		s.logger.Error("Deactivate: repository error for variant id=%s: %v", id, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Deactivate: successfully deactivated variant id=%s", id)
	return nil
}

// Quote рассчитывает стоимость без создания бронирования
func (s *Service) Quote(ctx context.Context, id string, req *models.QuoteRequest) (*models.QuoteResponse, error) {
	variant, err := s.getVariant(ctx, "Quote", id)
	if err != nil {
		return nil, err
	}
	if !variant.IsActive {
		s.logger.Warn("Quote: variant id=%s is inactive", id)
		return nil, ErrServiceUnavailable
	}

	charge, err := pricing.ComputeCharge(variant, domain.PricingInputs{
		MeasurementValue: req.MeasurementValue,
		DistanceKm:       req.DistanceKm,
		OverrideTotal:    req.TotalAmount,
	})
	if err != nil {
		s.logger.Warn("Quote: pricing failed for variant id=%s: %v", id, err)
		switch {
		case errors.Is(err, pricing.ErrMissingPricingInputs):
			return nil, fmt.Errorf("%w: %v", ErrMissingPricingInputs, err)
		case errors.Is(err, pricing.ErrInvalidMeasurement):
			return nil, fmt.Errorf("%w: %v", ErrInvalidMeasurement, err)
		default:
			return nil, fmt.Errorf("%w: Quote - pricing error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("Quote: variant id=%s total=%.2f", id, charge.Total)
	return models.FromCharge(variant, charge), nil
}

// Вспомогательные методы

func (s *Service) getVariant(ctx context.Context, method, id string) (*domain.ServiceVariant, error) {
	variant, err := s.variantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, variantRepo.ErrVariantNotFound) {
			s.logger.Warn("%s: variant id=%s not found", method, id)
			return nil, ErrVariantNotFound
		}
		s.logger.Error("%s: repository error for variant id=%s: %v", method, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}
	return variant, nil
}

// validateVariant проверяет согласованность цены с типом расчета
func validateVariant(v *domain.ServiceVariant) error {
	if strings.TrimSpace(v.Title) == "" || strings.TrimSpace(v.ServiceID) == "" {
		return fmt.Errorf("%w: serviceId and title are required", ErrInvalidInput)
	}

	if v.DurationMinutes < domain.MinDurationMinutes || v.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	switch v.PricingType {
	case domain.PricingFixed:
		if v.BasePrice == nil || *v.BasePrice < 0 {
			return fmt.Errorf("%w: fixed variant requires basePrice", ErrInvalidInput)
		}
	case domain.PricingPerUnit:
		if v.UnitPrice == nil || *v.UnitPrice <= 0 {
			return fmt.Errorf("%w: per_unit variant requires positive unitPrice", ErrInvalidInput)
		}
		if v.MinMeasurement != nil && v.MaxMeasurement != nil && *v.MinMeasurement > *v.MaxMeasurement {
			return fmt.Errorf("%w: minMeasurement is greater than maxMeasurement", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown pricingType %q", ErrInvalidInput, v.PricingType)
	}

	return nil
}
