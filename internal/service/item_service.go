package service

import (
	"context"
	"errors"
	"strings"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// ItemDetails is an item enriched for the read path: comments always,
// last/next approved booking only when the caller owns the item.
type ItemDetails struct {
	models.Item
	Comments    []*models.Comment `json:"comments"`
	LastBooking *models.Booking   `json:"last_booking,omitempty"`
	NextBooking *models.Booking   `json:"next_booking,omitempty"`
}

// ItemPatch carries the mutable item fields; nil means "leave unchanged".
type ItemPatch struct {
	Name        *string
	Description *string
	Available   *bool
}

type ItemService struct {
	items    domain.ItemRepository
	users    domain.UserRepository
	bookings domain.BookingRepository
	comments domain.CommentRepository
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewItemService(
	items domain.ItemRepository,
	users domain.UserRepository,
	bookings domain.BookingRepository,
	comments domain.CommentRepository,
	clock domain.Clock,
	logger *zerolog.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		users:    users,
		bookings: bookings,
		comments: comments,
		clock:    clock,
		logger:   logger,
	}
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, newError(KindValidation, "item name must not be blank")
	}
	if strings.TrimSpace(item.Description) == "" {
		return nil, newError(KindValidation, "item description must not be blank")
	}

	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(KindNotFound, "user %d not found", ownerID)
		}
		return nil, err
	}

	item.OwnerID = ownerID
	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update lets only the owner change an item; for anyone else the item is
// not found, the same shape the scoped booking lookups use.
func (s *ItemService) Update(ctx context.Context, userID, itemID int64, patch ItemPatch) (*models.Item, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, newError(KindNotFound, "item %d not found", itemID)
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) GetByID(ctx context.Context, callerID, itemID int64) (*ItemDetails, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, callerID, item)
}

// GetAllForOwner returns the caller's items with booking enrichment.
func (s *ItemService) GetAllForOwner(ctx context.Context, ownerID int64) ([]*ItemDetails, error) {
	items, err := s.items.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	details := make([]*ItemDetails, 0, len(items))
	for _, item := range items {
		d, err := s.enrich(ctx, ownerID, item)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

// Search finds available items by substring match on name or description.
// Blank text yields an empty list, not everything.
func (s *ItemService) Search(ctx context.Context, text string) ([]*models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	return s.items.SearchItems(ctx, text)
}

func (s *ItemService) Delete(ctx context.Context, itemID int64) error {
	if err := s.items.DeleteItem(ctx, itemID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return newError(KindNotFound, "item %d not found", itemID)
		}
		return err
	}
	return nil
}

// AddComment posts a review. Only a booker whose non-rejected booking of the
// item already started may comment.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, newError(KindValidation, "comment text must not be blank")
	}

	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(KindNotFound, "user %d not found", authorID)
		}
		return nil, err
	}

	if _, err := s.getItem(ctx, itemID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ok, err := s.bookings.HasStartedBooking(ctx, authorID, itemID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newError(KindValidation, "user %d has no started booking of item %d", authorID, itemID)
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Created:    now,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *ItemService) getItem(ctx context.Context, itemID int64) (*models.Item, error) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(KindNotFound, "item %d not found", itemID)
		}
		return nil, err
	}
	return item, nil
}

func (s *ItemService) enrich(ctx context.Context, callerID int64, item *models.Item) (*ItemDetails, error) {
	comments, err := s.comments.GetCommentsByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*models.Comment{}
	}

	details := &ItemDetails{Item: *item, Comments: comments}
	if item.OwnerID != callerID {
		return details, nil
	}

	now := s.clock.Now()
	if details.LastBooking, err = s.bookings.GetLastBookingForItem(ctx, item.ID, now); err != nil {
		return nil, err
	}
	if details.NextBooking, err = s.bookings.GetNextBookingForItem(ctx, item.ID, now); err != nil {
		return nil, err
	}
	return details, nil
}
