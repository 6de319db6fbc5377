package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	variantRepo "github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/variant"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/notify"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/pricing"
)

const (
	modeSingle   = "single"
	modeMultiDay = "multi_day"
)

// UseCase фабрика бронирований: переводит заказ клиента в одну или несколько записей
type UseCase struct {
	bookingRepo  BookingRepository
	groupRepo    GroupRepository
	variantRepo  VariantRepository
	notifier     NotificationTrigger
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	groupRepo GroupRepository,
	variantRepo VariantRepository,
	notifier NotificationTrigger,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		groupRepo:    groupRepo,
		variantRepo:  variantRepo,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case оформления заказа.
//
// Одна дата: одна запись. Несколько дат: сводная группа и по записи на дату,
// сумма делится поровну. Даты сохраняются по одной без общей транзакции:
// ошибка одной даты не отменяет остальные (частичный успех).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	slots := req.Schedule.Slots()
	uc.logger.Info("CreateBooking: user=%s, variant=%s, dates=%d", req.UserID, req.ServiceVariantID, len(slots))

	// 2. Получаем активный вариант услуги
	variant, err := uc.variantRepo.GetActiveByID(ctx, req.ServiceVariantID)
	if err != nil {
		if errors.Is(err, variantRepo.ErrVariantNotFound) {
			uc.logger.Warn("CreateBooking: variant id=%s not found or inactive", req.ServiceVariantID)
			return nil, ErrServiceUnavailable
		}
		uc.logger.Error("CreateBooking: failed to get variant id=%s: %v", req.ServiceVariantID, err)
		return nil, fmt.Errorf("%w: failed to get variant: %v", ErrInternal, err)
	}

	// 3. Считаем стоимость
	total, charge, err := uc.price(variant, req)
	if err != nil {
		uc.logger.Warn("CreateBooking: pricing failed for variant id=%s: %v", variant.ID, err)
		return nil, err
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = variant.DurationMinutes
	}

	// 4. Сохраняем записи
	var resp *Response
	if req.Schedule.IsMultiDay() {
		resp, err = uc.createMultiDay(ctx, req, variant, slots, duration, total)
	} else {
		resp, err = uc.createSingle(ctx, req, variant, slots[0], duration, total)
	}
	if err != nil {
		return nil, err
	}
	resp.Charge = charge

	// 5. Уведомление не влияет на результат
	commitmentID := resp.Bookings[0].ID
	if resp.IsMultiDay && resp.Bookings[0].ParentBookingID != nil {
		commitmentID = *resp.Bookings[0].ParentBookingID
	}
	uc.notifier.Fire(notify.EventBookingCreated, notify.NewMessage(notify.EventBookingCreated, commitmentID, resp.Bookings, nil))

	return resp, nil
}

// price возвращает итоговую сумму заказа.
// per_unit: сумма пересчитывается по замерам и заменяет сумму клиента.
// fixed: сумма клиента, если она задана, иначе базовая цена варианта.
func (uc *UseCase) price(variant *domain.ServiceVariant, req *Request) (float64, *pricing.Charge, error) {
	inputs := domain.PricingInputs{OverrideTotal: &req.TotalAmount}
	if req.PerUnit != nil {
		inputs.MeasurementValue = req.PerUnit.MeasurementValue
		inputs.DistanceKm = req.PerUnit.DistanceKm
	}

	charge, err := pricing.ComputeCharge(variant, inputs)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrMissingPricingInputs):
			return 0, nil, fmt.Errorf("%w: %v", ErrMissingPricingInputs, err)
		case errors.Is(err, pricing.ErrInvalidMeasurement):
			return 0, nil, fmt.Errorf("%w: %v", ErrInvalidMeasurement, err)
		case errors.Is(err, pricing.ErrInvalidVariant) && !variant.IsPerUnit():
			return 0, nil, fmt.Errorf("%w: totalAmount is required for variant without base price", ErrInvalidInput)
		default:
			return 0, nil, fmt.Errorf("%w: pricing: %v", ErrInternal, err)
		}
	}

	if !variant.IsPerUnit() {
		return charge.Total, nil, nil
	}

	if req.TotalAmount > 0 && pricing.Round2(req.TotalAmount) != charge.Total {
		uc.logger.Warn("CreateBooking: client total %.2f differs from computed %.2f for variant id=%s, using computed",
			req.TotalAmount, charge.Total, variant.ID)
	}

	return charge.Total, &charge, nil
}

func (uc *UseCase) createSingle(
	ctx context.Context,
	req *Request,
	variant *domain.ServiceVariant,
	slot domain.Slot,
	duration int,
	total float64,
) (*Response, error) {
	booking := newBooking(req, variant, slot, duration, total)

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	uc.metrics.IncBookingsCreated(modeSingle, 1)
	uc.logger.Info("CreateBooking: successfully created booking id=%s", created.ID)

	return &Response{
		Bookings:    []*domain.Booking{created},
		IsMultiDay:  false,
		TotalDays:   1,
		TotalAmount: created.TotalAmount,
	}, nil
}

func (uc *UseCase) createMultiDay(
	ctx context.Context,
	req *Request,
	variant *domain.ServiceVariant,
	slots []domain.Slot,
	duration int,
	total float64,
) (*Response, error) {
	group, err := uc.groupRepo.Create(ctx, &domain.BookingGroup{
		UserID:           req.UserID,
		ServiceVariantID: variant.ID,
		Status:           domain.StatusScheduled,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create booking group: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking group: %v", ErrInternal, err)
	}

	amounts := pricing.Apportion(total, len(slots))

	var (
		root       *domain.Booking
		created    = make([]*domain.Booking, 0, len(slots))
		dateErrs   = make([]DateError, 0)
		createdSum float64
	)

	for i, slot := range slots {
		booking := newBooking(req, variant, slot, duration, amounts[i])
		booking.IsMultiDay = true
		booking.GroupID = &group.ID
		if root != nil {
			booking.ParentBookingID = &root.ID
		}

		saved, err := uc.bookingRepo.Create(ctx, booking)
		if err != nil {
			uc.logger.Warn("CreateBooking: failed to create booking for %s %s in group id=%s: %v",
				slot.Date.Format(domain.DateFormat), slot.Time, group.ID, err)
			dateErrs = append(dateErrs, DateError{Date: slot.Date, Time: slot.Time, Err: err})
			continue
		}

		// Первая сохраненная запись становится корневой
		if root == nil {
			root = saved
		}
		created = append(created, saved)
		createdSum += saved.TotalAmount
	}

	uc.metrics.IncBookingDateFailures(len(dateErrs))

	if len(created) == 0 {
		uc.logger.Error("CreateBooking: all %d dates failed for group id=%s", len(slots), group.ID)
		if err := uc.groupRepo.Delete(ctx, group.ID); err != nil {
			uc.logger.Warn("CreateBooking: failed to remove empty group id=%s: %v", group.ID, err)
		}
		return nil, fmt.Errorf("%w: all %d dates failed: %v", ErrBookingCreationFailed, len(slots), dateErrs[0].Err)
	}

	createdSum = pricing.Round2(createdSum)
	if err := uc.groupRepo.UpdateSummary(ctx, group.ID, len(created), createdSum, &root.ID); err != nil {
		// Записи уже сохранены, сводка вторична
		uc.logger.Error("CreateBooking: failed to update summary of group id=%s: %v", group.ID, err)
	}

	uc.metrics.IncBookingsCreated(modeMultiDay, len(created))
	uc.logger.Info("CreateBooking: group id=%s created with root=%s, %d/%d dates saved",
		group.ID, root.ID, len(created), len(slots))

	groupID := group.ID
	return &Response{
		Bookings:    created,
		IsMultiDay:  true,
		TotalDays:   len(slots),
		GroupID:     &groupID,
		TotalAmount: createdSum,
		Errors:      dateErrs,
	}, nil
}

// newBooking строит полную запись на одну дату
func newBooking(req *Request, variant *domain.ServiceVariant, slot domain.Slot, duration int, amount float64) *domain.Booking {
	return &domain.Booking{
		UserID:              req.UserID,
		ServiceID:           variant.ServiceID,
		ServiceVariantID:    variant.ID,
		BookingDate:         slot.Date,
		BookingTime:         slot.Time,
		DurationMinutes:     duration,
		Status:              domain.StatusScheduled,
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		ServiceAddress:      req.ServiceAddress,
		SpecialInstructions: req.SpecialInstructions,
		TotalAmount:         amount,
		PaymentStatus:       domain.PaymentPending,
	}
}
