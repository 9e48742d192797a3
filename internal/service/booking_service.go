package service

import (
	"context"
	"time"

	"lendit/internal/apperr"
	"lendit/internal/domain"
	"lendit/internal/events"
	"lendit/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle: creation, the single
// WAITING -> APPROVED/REJECTED transition, and the classified listings.
type BookingService struct {
	bookings domain.BookingStore
	items    domain.ItemStore
	users    domain.UserStore
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewBookingService(
	bookings domain.BookingStore,
	items domain.ItemStore,
	users domain.UserStore,
	eventBus domain.EventPublisher,
	clock domain.Clock,
	logger *zerolog.Logger,
) *BookingService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &BookingService{
		bookings: bookings,
		items:    items,
		users:    users,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	now := s.clock.Now()

	// Window checks repeat here even when the boundary already ran them.
	if !start.Before(end) {
		return nil, apperr.BookingStatusf("booking start must be before its end")
	}
	if start.Before(now) {
		return nil, apperr.BookingStatusf("booking start must not be in the past")
	}

	if _, err := s.checkUserID(ctx, bookerID); err != nil {
		return nil, err
	}
	item, err := s.checkItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !item.Available {
		return nil, apperr.BookingStatusf("item with id %d is not available for booking", itemID)
	}
	// Reported as not-found so a prober cannot tell "mine" from "missing".
	if item.OwnerID == bookerID {
		return nil, apperr.NotFoundf("owner cannot book own item")
	}

	booking := &models.Booking{
		Start:    start,
		End:      end,
		ItemID:   itemID,
		ItemName: item.Name,
		BookerID: bookerID,
		Status:   models.StatusWaiting,
		OwnerID:  item.OwnerID,
	}
	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("booker_id", bookerID).Int64("item_id", itemID).Int64("booking_id", booking.ID).Msg("booking created")
	s.publishBookingEvent(events.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error) {
	booking, err := s.checkBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Owner comparison is by id value, never by object identity.
	if booking.OwnerID != ownerID {
		return nil, apperr.NotFoundf("user with id %d is not the owner of item %d", ownerID, booking.ItemID)
	}
	if booking.Status != models.StatusWaiting {
		return nil, apperr.BookingStatusf("booking is already %s", booking.Status)
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	// Conditional write; a concurrent decision surfaces as a status failure
	// from the store instead of a second transition.
	if err := s.bookings.DecideBooking(ctx, bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status

	s.logger.Info().Int64("owner_id", ownerID).Int64("booking_id", bookingID).Str("status", status).Msg("booking decided")
	s.publishBookingEvent(eventType, booking)
	return booking, nil
}

func (s *BookingService) GetBookingByID(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	booking, err := s.checkBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BookerID != userID && booking.OwnerID != userID {
		return nil, apperr.NotFoundf("user with id %d is not related to this booking", userID)
	}
	return booking, nil
}

func (s *BookingService) ListBookingsForBooker(ctx context.Context, bookerID int64, state string, page models.Page) ([]*models.Booking, error) {
	filter, err := models.ParseBookingFilter(state)
	if err != nil {
		return nil, err
	}
	if _, err := s.checkUserID(ctx, bookerID); err != nil {
		return nil, err
	}
	return s.bookings.ListByBooker(ctx, bookerID, filter, s.clock.Now(), page)
}

func (s *BookingService) ListBookingsForOwner(ctx context.Context, ownerID int64, state string, page models.Page) ([]*models.Booking, error) {
	filter, err := models.ParseBookingFilter(state)
	if err != nil {
		return nil, err
	}
	if _, err := s.checkUserID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.bookings.ListByOwner(ctx, ownerID, filter, s.clock.Now(), page)
}

func (s *BookingService) checkUserID(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFoundf("user with id %d does not exist", userID)
	}
	return user, nil
}

func (s *BookingService) checkItemID(ctx context.Context, itemID int64) (*models.Item, error) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFoundf("item with id %d does not exist", itemID)
	}
	return item, nil
}

func (s *BookingService) checkBookingID(ctx context.Context, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFoundf("booking with id %d does not exist", bookingID)
	}
	return booking, nil
}

func (s *BookingService) publishBookingEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		ItemName:  booking.ItemName,
		BookerID:  booking.BookerID,
		Status:    booking.Status,
		Start:     booking.Start,
		End:       booking.End,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
