package cascade

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/booking"
	groupRepo "github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/group"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/notify"
)

const (
	resultApplied = "applied"
	resultNoop    = "noop"
	resultError   = "error"

	// метка для ошибок до загрузки целевой записи
	scopeUnknown = "unknown"
)

// UseCase распространяет изменение статуса на все записи одного заказа
type UseCase struct {
	bookingRepo  BookingRepository
	groupRepo    GroupRepository
	txManager    TxManager
	notifier     NotificationTrigger
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	groupRepo GroupRepository,
	txManager TxManager,
	notifier NotificationTrigger,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		groupRepo:    groupRepo,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Cancel отменяет бронирование вместе со связанными записями.
//
// Дочерняя запись: отменяются корень и все его дочерние записи.
// Корень: отменяется он и все дочерние. Одиночная запись: только она.
// Завершенные и уже отмененные записи пропускаются.
func (uc *UseCase) Cancel(ctx context.Context, bookingID string, reason *string) (*Result, error) {
	if reason != nil && len(*reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason is longer than %d", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	uc.logger.Info("Cancel: booking id=%s", bookingID)

	var (
		result      *Result
		cancelled   []*domain.Booking
		metricScope = scopeUnknown
	)

	err := uc.txManager.Do(ctx, func(ctx context.Context) error {
		target, err := uc.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}
		metricScope = string(scopeOf(target))

		if target.Status == domain.StatusCompleted {
			return fmt.Errorf("%w: booking id=%s is completed", domain.ErrBookingTerminal, target.ID)
		}

		scope, commitmentID, members, err := uc.resolve(ctx, target)
		if err != nil {
			return err
		}

		result = &Result{
			Scope:        scope,
			CommitmentID: commitmentID,
			TargetID:     target.ID,
			Status:       domain.StatusCancelled,
			UpdatedIDs:   make([]string, 0, len(members)),
		}

		pending := make([]*domain.Booking, 0, len(members))
		for _, m := range members {
			if !m.CanBeCancelled() {
				result.Skipped = append(result.Skipped, SkippedBooking{ID: m.ID, Status: m.Status})
				continue
			}
			pending = append(pending, m)
		}

		if len(pending) > 0 {
			ids := bookingIDs(pending)
			affected, err := uc.bookingRepo.Cancel(ctx, ids, reason, uc.timeProvider.Now())
			if err != nil {
				return fmt.Errorf("%w: failed to cancel bookings: %v", ErrInternal, err)
			}
			// Параллельный запрос мог успеть завершить часть записей
			if affected != int64(len(ids)) {
				uc.logger.Warn("Cancel: expected %d rows, cancelled %d for commitment=%s", len(ids), affected, commitmentID)
			}
			result.UpdatedIDs = ids
			cancelled = pending
		}

		if len(cancelled) == 0 && target.Status == domain.StatusCancelled {
			result.AlreadyApplied = true
			return nil
		}

		if target.GroupID != nil && scope == ScopeParentChildren {
			return uc.closeGroup(ctx, *target.GroupID, domain.StatusCancelled)
		}
		return nil
	})
	if err != nil {
		uc.metrics.IncCascade(metricScope, string(domain.StatusCancelled), resultError)
		uc.logger.Warn("Cancel: booking id=%s failed: %v", bookingID, err)
		return nil, err
	}

	if result.AlreadyApplied {
		uc.metrics.IncCascade(string(result.Scope), string(domain.StatusCancelled), resultNoop)
		uc.logger.Info("Cancel: booking id=%s is already cancelled", bookingID)
		return result, nil
	}

	uc.metrics.IncCascade(string(result.Scope), string(domain.StatusCancelled), resultApplied)
	uc.logger.Info("Cancel: commitment=%s scope=%s, cancelled=%d, skipped=%d",
		result.CommitmentID, result.Scope, len(result.UpdatedIDs), len(result.Skipped))

	if len(cancelled) > 0 {
		for _, b := range cancelled {
			b.Status = domain.StatusCancelled
		}
		uc.notifier.Fire(notify.EventBookingCancelled,
			notify.NewMessage(notify.EventBookingCancelled, result.CommitmentID, cancelled, reason))
	}

	return result, nil
}

// SetGroupStatus переводит все записи группы и саму группу в новый статус.
// Записи, для которых переход невозможен (терминальные, движение назад), пропускаются.
func (uc *UseCase) SetGroupStatus(ctx context.Context, groupID string, status domain.BookingStatus, reason *string) (*Result, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	if reason != nil && len(*reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason is longer than %d", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	uc.logger.Info("SetGroupStatus: group id=%s, status=%s", groupID, status)

	var (
		result  *Result
		updated []*domain.Booking
	)

	err := uc.txManager.Do(ctx, func(ctx context.Context) error {
		group, err := uc.groupRepo.GetByID(ctx, groupID)
		if err != nil {
			if errors.Is(err, groupRepo.ErrGroupNotFound) {
				return ErrGroupNotFound
			}
			return fmt.Errorf("%w: failed to get group: %v", ErrInternal, err)
		}

		next, err := domain.Transition(group.Status, status)
		if err != nil {
			return fmt.Errorf("group id=%s: %w", group.ID, err)
		}

		members, err := uc.bookingRepo.GetByGroupID(ctx, group.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to get group bookings: %v", ErrInternal, err)
		}

		commitmentID := group.ID
		if group.RootBookingID != nil {
			commitmentID = *group.RootBookingID
		}

		result = &Result{
			Scope:        ScopeGroup,
			CommitmentID: commitmentID,
			TargetID:     group.ID,
			Status:       next,
			UpdatedIDs:   make([]string, 0, len(members)),
		}

		pending := make([]*domain.Booking, 0, len(members))
		for _, m := range members {
			if m.Status == next {
				continue
			}
			if _, err := domain.Transition(m.Status, next); err != nil {
				result.Skipped = append(result.Skipped, SkippedBooking{ID: m.ID, Status: m.Status})
				continue
			}
			pending = append(pending, m)
		}

		if len(pending) > 0 {
			ids := bookingIDs(pending)
			if next == domain.StatusCancelled {
				_, err = uc.bookingRepo.Cancel(ctx, ids, reason, uc.timeProvider.Now())
			} else {
				_, err = uc.bookingRepo.UpdateStatus(ctx, ids, next)
			}
			if err != nil {
				return fmt.Errorf("%w: failed to update group bookings: %v", ErrInternal, err)
			}
			result.UpdatedIDs = ids
			updated = pending
		}

		if group.Status == next && len(updated) == 0 {
			result.AlreadyApplied = true
			return nil
		}

		if err := uc.groupRepo.UpdateStatus(ctx, group.ID, next); err != nil {
			return fmt.Errorf("%w: failed to update group status: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		uc.metrics.IncCascade(string(ScopeGroup), string(status), resultError)
		uc.logger.Warn("SetGroupStatus: group id=%s failed: %v", groupID, err)
		return nil, err
	}

	if result.AlreadyApplied {
		uc.metrics.IncCascade(string(ScopeGroup), string(status), resultNoop)
		return result, nil
	}

	uc.metrics.IncCascade(string(ScopeGroup), string(status), resultApplied)
	uc.logger.Info("SetGroupStatus: group id=%s -> %s, updated=%d, skipped=%d",
		groupID, result.Status, len(result.UpdatedIDs), len(result.Skipped))

	if len(updated) > 0 {
		for _, b := range updated {
			b.Status = result.Status
		}
		msg := notify.NewMessage(notify.EventGroupStatusChanged, result.CommitmentID, updated, reason)
		msg.GroupID = &result.TargetID
		msg.Status = string(result.Status)
		uc.notifier.Fire(notify.EventGroupStatusChanged, msg)
	}

	return result, nil
}

// resolve определяет набор записей заказа для целевой записи
func (uc *UseCase) resolve(ctx context.Context, target *domain.Booking) (Scope, string, []*domain.Booking, error) {
	switch {
	case target.IsChild():
		rootID := *target.ParentBookingID
		members := make([]*domain.Booking, 0)

		root, err := uc.bookingRepo.GetByID(ctx, rootID)
		switch {
		case err == nil:
			members = append(members, root)
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			// Корень удален оператором, отменяем оставшиеся записи
			uc.logger.Warn("Cancel: root id=%s of booking id=%s not found", rootID, target.ID)
		default:
			return "", "", nil, fmt.Errorf("%w: failed to get root booking: %v", ErrInternal, err)
		}

		children, err := uc.bookingRepo.GetByParentID(ctx, rootID)
		if err != nil {
			return "", "", nil, fmt.Errorf("%w: failed to get child bookings: %v", ErrInternal, err)
		}
		return ScopeParentChildren, rootID, append(members, children...), nil

	case target.IsRoot():
		children, err := uc.bookingRepo.GetByParentID(ctx, target.ID)
		if err != nil {
			return "", "", nil, fmt.Errorf("%w: failed to get child bookings: %v", ErrInternal, err)
		}
		return ScopeParentChildren, target.ID, append([]*domain.Booking{target}, children...), nil

	default:
		return ScopeSingle, target.ID, []*domain.Booking{target}, nil
	}
}

// closeGroup переводит сводную запись группы в статус, если она еще не терминальна
func (uc *UseCase) closeGroup(ctx context.Context, groupID string, status domain.BookingStatus) error {
	group, err := uc.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, groupRepo.ErrGroupNotFound) {
			uc.logger.Warn("Cancel: group id=%s not found, summary is not updated", groupID)
			return nil
		}
		return fmt.Errorf("%w: failed to get group: %v", ErrInternal, err)
	}
	if group.Status.IsTerminal() {
		return nil
	}

	if err := uc.groupRepo.UpdateStatus(ctx, groupID, status); err != nil {
		return fmt.Errorf("%w: failed to update group status: %v", ErrInternal, err)
	}
	return nil
}

func bookingIDs(bookings []*domain.Booking) []string {
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	return ids
}

// scopeOf определяет охват отмены по самой записи, без обращения к хранилищу
func scopeOf(target *domain.Booking) Scope {
	if target.IsChild() || target.IsRoot() {
		return ScopeParentChildren
	}
	return ScopeSingle
}
