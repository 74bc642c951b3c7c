package service

import (
	"context"
	"io"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockRepo) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockRepo) GetBookingForOwner(ctx context.Context, id, ownerID int64) (*models.Booking, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockRepo) GetBookingForOwnerOrBooker(ctx context.Context, id, userID int64) (*models.Booking, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockRepo) UpdateBookingStatus(ctx context.Context, id int64, status models.Status) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *mockRepo) GetBookingsByBooker(ctx context.Context, bookerID int64) ([]*models.Booking, error) {
	args := m.Called(ctx, bookerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockRepo) GetBookingsByOwner(ctx context.Context, ownerID int64) ([]*models.Booking, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockRepo) GetLastBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	args := m.Called(ctx, itemID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockRepo) GetNextBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	args := m.Called(ctx, itemID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockRepo) HasStartedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	args := m.Called(ctx, bookerID, itemID, now)
	return args.Bool(0), args.Error(1)
}
func (m *mockRepo) CreateItem(ctx context.Context, item *models.Item) error {
	return m.Called(ctx, item).Error(0)
}
func (m *mockRepo) UpdateItem(ctx context.Context, item *models.Item) error {
	return m.Called(ctx, item).Error(0)
}
func (m *mockRepo) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}
func (m *mockRepo) GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}
func (m *mockRepo) GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]*models.Item, error) {
	args := m.Called(ctx, requestIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}
func (m *mockRepo) SearchItems(ctx context.Context, text string) ([]*models.Item, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}
func (m *mockRepo) DeleteItem(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *mockRepo) UpdateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *mockRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockRepo) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}
func (m *mockRepo) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}
func (m *mockRepo) GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}
func (m *mockRepo) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	return m.Called(ctx, request).Error(0)
}
func (m *mockRepo) GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemRequest), args.Error(1)
}
func (m *mockRepo) GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error) {
	args := m.Called(ctx, requestorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ItemRequest), args.Error(1)
}
func (m *mockRepo) GetRequestsOfOthers(ctx context.Context, requestorID int64, from, size int) ([]*models.ItemRequest, error) {
	args := m.Called(ctx, requestorID, from, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ItemRequest), args.Error(1)
}

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) PublishJSON(et string, p interface{}) error { return m.Called(et, p).Error(0) }

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

func TestBookingService(t *testing.T) {
	logger := zerolog.New(io.Discard)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	clock := fixedClock{t: now}

	newService := func() (*BookingService, *mockRepo, *mockEventBus) {
		repo := new(mockRepo)
		bus := new(mockEventBus)
		return NewBookingService(repo, repo, repo, clock, bus, &logger), repo, bus
	}

	t.Run("Create", func(t *testing.T) {
		svc, repo, bus := newService()
		item := &models.Item{ID: 5, Name: "drill", OwnerID: 1, Available: true}

		repo.On("GetItemByID", ctx, int64(5)).Return(item, nil).Once()
		repo.On("GetUserByID", ctx, int64(2)).Return(&models.User{ID: 2}, nil).Once()
		repo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).Return(nil).Once()
		bus.On("PublishJSON", "booking_created", mock.Anything).Return(nil).Once()

		booking, err := svc.Create(ctx, 2, 5, now.Add(time.Hour), now.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, models.StatusWaiting, booking.Status)
		assert.Equal(t, int64(5), booking.ItemID)
		assert.Equal(t, "drill", booking.ItemName)
		assert.Equal(t, int64(2), booking.BookerID)
		assert.Equal(t, int64(1), booking.OwnerID)
		repo.AssertExpectations(t)
		bus.AssertExpectations(t)
	})

	t.Run("CreateItemNotFound", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetItemByID", ctx, int64(99)).Return(nil, database.ErrNotFound).Once()

		_, err := svc.Create(ctx, 2, 99, now, now.Add(time.Hour))
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
		repo.AssertExpectations(t)
	})

	t.Run("CreateUnavailableItem", func(t *testing.T) {
		svc, repo, _ := newService()
		item := &models.Item{ID: 5, OwnerID: 1, Available: false}
		repo.On("GetItemByID", ctx, int64(5)).Return(item, nil).Once()

		_, err := svc.Create(ctx, 2, 5, now, now.Add(time.Hour))
		require.Error(t, err)
		assert.Equal(t, KindUnavailable, KindOf(err))
	})

	t.Run("CreateOwnItem", func(t *testing.T) {
		svc, repo, _ := newService()
		item := &models.Item{ID: 5, OwnerID: 1, Available: true}
		repo.On("GetItemByID", ctx, int64(5)).Return(item, nil).Once()

		_, err := svc.Create(ctx, 1, 5, now, now.Add(time.Hour))
		require.Error(t, err)
		assert.Equal(t, KindSelfBooking, KindOf(err))
	})

	t.Run("CreateInvertedRange", func(t *testing.T) {
		svc, repo, _ := newService()
		item := &models.Item{ID: 5, OwnerID: 1, Available: true}
		repo.On("GetItemByID", ctx, int64(5)).Return(item, nil).Once()

		_, err := svc.Create(ctx, 2, 5, now.Add(time.Hour), now)
		require.Error(t, err)
		assert.Equal(t, KindInvalidRange, KindOf(err))
	})

	t.Run("CreateUnknownBooker", func(t *testing.T) {
		svc, repo, _ := newService()
		item := &models.Item{ID: 5, OwnerID: 1, Available: true}
		repo.On("GetItemByID", ctx, int64(5)).Return(item, nil).Once()
		repo.On("GetUserByID", ctx, int64(2)).Return(nil, database.ErrNotFound).Once()

		_, err := svc.Create(ctx, 2, 5, now, now.Add(time.Hour))
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("Approve", func(t *testing.T) {
		svc, repo, bus := newService()
		booking := &models.Booking{ID: 7, OwnerID: 1, Status: models.StatusWaiting}

		repo.On("GetBookingForOwner", ctx, int64(7), int64(1)).Return(booking, nil).Once()
		repo.On("UpdateBookingStatus", ctx, int64(7), models.StatusApproved).Return(nil).Once()
		bus.On("PublishJSON", "booking_approved", mock.Anything).Return(nil).Once()

		updated, err := svc.SetApproved(ctx, 1, 7, true)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, updated.Status)
		repo.AssertExpectations(t)
	})

	t.Run("Reject", func(t *testing.T) {
		svc, repo, bus := newService()
		booking := &models.Booking{ID: 7, OwnerID: 1, Status: models.StatusWaiting}

		repo.On("GetBookingForOwner", ctx, int64(7), int64(1)).Return(booking, nil).Once()
		repo.On("UpdateBookingStatus", ctx, int64(7), models.StatusRejected).Return(nil).Once()
		bus.On("PublishJSON", "booking_rejected", mock.Anything).Return(nil).Once()

		updated, err := svc.SetApproved(ctx, 1, 7, false)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, updated.Status)
	})

	t.Run("ReApproveFails", func(t *testing.T) {
		svc, repo, _ := newService()
		booking := &models.Booking{ID: 7, OwnerID: 1, Status: models.StatusApproved}
		repo.On("GetBookingForOwner", ctx, int64(7), int64(1)).Return(booking, nil).Once()

		_, err := svc.SetApproved(ctx, 1, 7, true)
		require.Error(t, err)
		assert.Equal(t, KindInvalidTransition, KindOf(err))
	})

	// Чужое бронирование для владельца неотличимо от несуществующего
	t.Run("ApproveByStranger", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetBookingForOwner", ctx, int64(7), int64(3)).Return(nil, database.ErrNotFound).Once()

		_, err := svc.SetApproved(ctx, 3, 7, true)
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("GetByID", func(t *testing.T) {
		svc, repo, _ := newService()
		booking := &models.Booking{ID: 7, BookerID: 2, OwnerID: 1}
		repo.On("GetBookingForOwnerOrBooker", ctx, int64(7), int64(2)).Return(booking, nil).Once()

		got, err := svc.GetByID(ctx, 2, 7)
		require.NoError(t, err)
		assert.Equal(t, booking, got)
	})

	t.Run("GetByIDStranger", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetBookingForOwnerOrBooker", ctx, int64(7), int64(9)).Return(nil, database.ErrNotFound).Once()

		_, err := svc.GetByID(ctx, 9, 7)
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("ListByBooker", func(t *testing.T) {
		svc, repo, _ := newService()
		bookings := []*models.Booking{
			{ID: 1, BookerID: 2, Start: now.Add(-time.Hour), End: now.Add(time.Hour), Status: models.StatusApproved},
			{ID: 2, BookerID: 2, Start: now.Add(24 * time.Hour), End: now.Add(48 * time.Hour), Status: models.StatusWaiting},
		}
		repo.On("GetBookingsByBooker", ctx, int64(2)).Return(bookings, nil).Once()

		got, err := svc.List(ctx, 2, RoleBooker, "ALL", 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(2), got[0].ID)
	})

	t.Run("ListByOwnerFiltered", func(t *testing.T) {
		svc, repo, _ := newService()
		bookings := []*models.Booking{
			{ID: 1, OwnerID: 1, Start: now.Add(-48 * time.Hour), End: now.Add(-24 * time.Hour), Status: models.StatusApproved},
			{ID: 2, OwnerID: 1, Start: now.Add(24 * time.Hour), End: now.Add(48 * time.Hour), Status: models.StatusWaiting},
		}
		repo.On("GetBookingsByOwner", ctx, int64(1)).Return(bookings, nil).Once()

		got, err := svc.List(ctx, 1, RoleOwner, "past", 0, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].ID)
	})

	t.Run("ListEmptyAfterFilter", func(t *testing.T) {
		svc, repo, _ := newService()
		bookings := []*models.Booking{
			{ID: 1, BookerID: 2, Start: now.Add(24 * time.Hour), End: now.Add(48 * time.Hour), Status: models.StatusWaiting},
		}
		repo.On("GetBookingsByBooker", ctx, int64(2)).Return(bookings, nil).Once()

		_, err := svc.List(ctx, 2, RoleBooker, "PAST", 0, 10)
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
		assert.Equal(t, "no bookings found", err.Error())
	})

	t.Run("ListNoBookingsAtAll", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.On("GetBookingsByBooker", ctx, int64(2)).Return([]*models.Booking{}, nil).Once()

		_, err := svc.List(ctx, 2, RoleBooker, "", 0, 10)
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	// Страница за пределами непустого результата - успех с пустым списком
	t.Run("ListPagePastEnd", func(t *testing.T) {
		svc, repo, _ := newService()
		bookings := []*models.Booking{
			{ID: 1, BookerID: 2, Start: now, End: now.Add(time.Hour), Status: models.StatusWaiting},
		}
		repo.On("GetBookingsByBooker", ctx, int64(2)).Return(bookings, nil).Once()

		got, err := svc.List(ctx, 2, RoleBooker, "ALL", 50, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ListUnknownState", func(t *testing.T) {
		svc, _, _ := newService()
		_, err := svc.List(ctx, 2, RoleBooker, "SOMETHING", 0, 10)
		require.Error(t, err)
		assert.Equal(t, KindUnsupportedState, KindOf(err))
		assert.Equal(t, "Unknown state: SOMETHING", err.Error())
	})

	t.Run("ListBadPagination", func(t *testing.T) {
		svc, _, _ := newService()
		_, err := svc.List(ctx, 2, RoleBooker, "ALL", -1, 10)
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))

		_, err = svc.List(ctx, 2, RoleBooker, "ALL", 0, 0)
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
	})
}
