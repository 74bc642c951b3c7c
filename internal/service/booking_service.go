package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// Role selects whose bookings a list query covers.
type Role string

const (
	RoleBooker Role = "booker"
	RoleOwner  Role = "owner"
)

type BookingService struct {
	bookings domain.BookingRepository
	items    domain.ItemRepository
	users    domain.UserRepository
	clock    domain.Clock
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(
	bookings domain.BookingRepository,
	items domain.ItemRepository,
	users domain.UserRepository,
	clock domain.Clock,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		items:    items,
		users:    users,
		clock:    clock,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Create files a new booking in WAITING status. The item owner is captured
// on the booking at creation time and never changes afterwards.
func (s *BookingService) Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	if err := checkBookable(item, bookerID, start, end); err != nil {
		return nil, err
	}

	if _, err := s.users.GetUserByID(ctx, bookerID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(KindNotFound, "user %d not found", bookerID)
		}
		return nil, err
	}

	booking := &models.Booking{
		ItemID:   item.ID,
		ItemName: item.Name,
		BookerID: bookerID,
		OwnerID:  item.OwnerID,
		Start:    start,
		End:      end,
		Status:   models.StatusWaiting,
	}
	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCreated, booking)
	return booking, nil
}

// SetApproved lets the item owner decide a booking. The lookup is scoped to
// the owner, so a booking owned by somebody else surfaces as not found.
func (s *BookingService) SetApproved(ctx context.Context, requesterID, bookingID int64, approved bool) (*models.Booking, error) {
	booking, err := s.bookings.GetBookingForOwner(ctx, bookingID, requesterID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(KindNotFound, "booking %d not found", bookingID)
		}
		return nil, err
	}

	if err := applyApproval(booking, approved); err != nil {
		return nil, err
	}

	if err := s.bookings.UpdateBookingStatus(ctx, booking.ID, booking.Status); err != nil {
		return nil, err
	}

	if approved {
		s.publishEvent(events.EventBookingApproved, booking)
	} else {
		s.publishEvent(events.EventBookingRejected, booking)
	}
	return booking, nil
}

// GetByID returns a booking visible to the requester, who must be either
// the booker or the item owner.
func (s *BookingService) GetByID(ctx context.Context, requesterID, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookings.GetBookingForOwnerOrBooker(ctx, bookingID, requesterID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(KindNotFound, "booking %d not found", bookingID)
		}
		return nil, err
	}
	return booking, nil
}

// List returns the requester's bookings in the given role, filtered by the
// state token and paginated. An empty classified result is an error, not an
// empty list; paginating past the end of a non-empty result is not.
func (s *BookingService) List(ctx context.Context, requesterID int64, role Role, stateToken string, from, size int) ([]*models.Booking, error) {
	if err := validatePage(from, size); err != nil {
		return nil, err
	}

	state, err := ParseBookingState(stateToken)
	if err != nil {
		return nil, err
	}

	var bookings []*models.Booking
	switch role {
	case RoleBooker:
		bookings, err = s.bookings.GetBookingsByBooker(ctx, requesterID)
	case RoleOwner:
		bookings, err = s.bookings.GetBookingsByOwner(ctx, requesterID)
	default:
		return nil, fmt.Errorf("unknown booking role: %s", role)
	}
	if err != nil {
		return nil, err
	}

	classified := classifyBookings(bookings, state, s.clock.Now())
	if len(classified) == 0 {
		return nil, newError(KindNotFound, "no bookings found")
	}

	return paginate(classified, from, size), nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		ItemName:  booking.ItemName,
		BookerID:  booking.BookerID,
		OwnerID:   booking.OwnerID,
		Status:    string(booking.Status),
		Start:     booking.Start,
		End:       booking.End,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
