package bookings

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-HomeServiceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/booking"
	groupRepo "github.com/m04kA/SMC-HomeServiceBooking/internal/infra/storage/group"
	"github.com/m04kA/SMC-HomeServiceBooking/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	groupRepo   GroupRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	groupRepo GroupRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		groupRepo:   groupRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s, status=%v", req.UserID, req.Status)

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%s", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetRelated возвращает все записи заказа, к которому относится бронирование.
// Для одиночного бронирования это только оно само. Порядок по дате и времени визита.
func (s *Service) GetRelated(ctx context.Context, id string) (*models.BookingListResponse, error) {
	s.logger.Info("GetRelated: fetching commitment of booking id=%s", id)

	var related []*domain.Booking
	err := s.txManager.DoReadOnly(ctx, func(ctx context.Context) error {
		target, err := s.getBooking(ctx, "GetRelated", id)
		if err != nil {
			return err
		}

		rootID := target.ID
		if target.IsChild() {
			rootID = *target.ParentBookingID
		} else if !target.IsRoot() {
			related = []*domain.Booking{target}
			return nil
		}

		root, err := s.bookingRepo.GetByID(ctx, rootID)
		switch {
		case err == nil:
			related = append(related, root)
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			s.logger.Warn("GetRelated: root id=%s not found", rootID)
		default:
			return fmt.Errorf("%w: GetRelated - repository error: %v", ErrInternal, err)
		}

		children, err := s.bookingRepo.GetByParentID(ctx, rootID)
		if err != nil {
			return fmt.Errorf("%w: GetRelated - repository error: %v", ErrInternal, err)
		}
		related = append(related, children...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortByVisit(related)

	s.logger.Info("GetRelated: booking id=%s has %d related bookings", id, len(related))
	return models.FromDomainBookingList(related), nil
}

// GetGroup возвращает сводку группы вместе с записями
func (s *Service) GetGroup(ctx context.Context, groupID string) (*models.GroupResponse, error) {
	s.logger.Info("GetGroup: fetching group id=%s", groupID)

	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, groupRepo.ErrGroupNotFound) {
			s.logger.Warn("GetGroup: group id=%s not found", groupID)
			return nil, ErrGroupNotFound
		}
		s.logger.Error("GetGroup: repository error for group id=%s: %v", groupID, err)
		return nil, fmt.Errorf("%w: GetGroup - repository error: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		s.logger.Error("GetGroup: repository error for group id=%s bookings: %v", groupID, err)
		return nil, fmt.Errorf("%w: GetGroup - repository error: %v", ErrInternal, err)
	}
	sortByVisit(bookings)

	return models.FromDomainGroup(group, bookings), nil
}

// Update меняет дату, время, адрес или пожелания одной записи.
// Завершенные и отмененные записи не изменяются.
func (s *Service) Update(ctx context.Context, id string, patch domain.BookingPatch) (*models.BookingResponse, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if patch.BookingTime != nil {
		if err := patch.BookingTime.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	s.logger.Info("Update: updating booking id=%s", id)

	var updated *domain.Booking
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.getBooking(ctx, "Update", id)
		if err != nil {
			return err
		}

		if !booking.CanBeUpdated() {
			s.logger.Warn("Update: booking id=%s is %s and cannot be updated", id, booking.Status)
			return fmt.Errorf("%w: booking id=%s is %s", domain.ErrBookingTerminal, id, booking.Status)
		}

		patch.Apply(booking)
		if err := s.bookingRepo.UpdateDetails(ctx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotUpdated) {
				return fmt.Errorf("%w: booking id=%s", domain.ErrBookingTerminal, id)
			}
			s.logger.Error("Update: repository error for booking id=%s: %v", id, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		updated = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated booking id=%s", id)
	return models.FromDomainBooking(updated), nil
}

// UpdateStatus переводит одну запись в новый статус (confirm, start, complete).
// Отмена выполняется каскадом и здесь не принимается.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%s to status=%s", id, status)

	if status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: cancellation must go through cancel", ErrInvalidInput)
	}

	var updated *domain.Booking
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.getBooking(ctx, "UpdateStatus", id)
		if err != nil {
			return err
		}

		next, err := domain.Transition(booking.Status, status)
		if err != nil {
			s.logger.Warn("UpdateStatus: booking id=%s %s -> %s rejected: %v", id, booking.Status, status, err)
			return err
		}

		if next != booking.Status {
			affected, err := s.bookingRepo.UpdateStatus(ctx, []string{id}, next)
			if err != nil {
				s.logger.Error("UpdateStatus: repository error for booking id=%s: %v", id, err)
				return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
			}
			if affected == 0 {
				return fmt.Errorf("%w: booking id=%s", domain.ErrBookingTerminal, id)
			}
			booking.Status = next
		}

		updated = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%s to status=%s", id, updated.Status)
	return models.FromDomainBooking(updated), nil
}

// UpdatePaymentStatus отмечает состояние оплаты. Сама оплата не проводится.
func (s *Service) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (*models.BookingResponse, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, domain.ErrInvalidPaymentStatus)
	}

	s.logger.Info("UpdatePaymentStatus: booking id=%s payment=%s", id, status)

	if err := s.bookingRepo.UpdatePaymentStatus(ctx, id, status); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdatePaymentStatus: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdatePaymentStatus: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: UpdatePaymentStatus - repository error: %v", ErrInternal, err)
	}

	booking, err := s.getBooking(ctx, "UpdatePaymentStatus", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// Delete физически удаляет отмененное бронирование (операция оператора)
func (s *Service) Delete(ctx context.Context, id string) error {
	s.logger.Info("Delete: deleting booking id=%s", id)

	booking, err := s.getBooking(ctx, "Delete", id)
	if err != nil {
		return err
	}

	if !booking.CanBeDeleted() {
		s.logger.Warn("Delete: booking id=%s has status=%s", id, booking.Status)
		return ErrCannotDelete
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted booking id=%s", id)
	return nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, method, id string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", method, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", method, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}
	return booking, nil
}

// sortByVisit сортирует записи по дате и времени визита
func sortByVisit(bookings []*domain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].BookingDate.Equal(bookings[j].BookingDate) {
			return bookings[i].BookingDate.Before(bookings[j].BookingDate)
		}
		return bookings[i].BookingTime.IsBefore(bookings[j].BookingTime)
	})
}
