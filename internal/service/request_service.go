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

// RequestDetails is an item request with the items answering it, joined at
// read time via Item.RequestID.
type RequestDetails struct {
	models.ItemRequest
	Items []*models.Item `json:"items"`
}

type RequestService struct {
	requests domain.RequestRepository
	items    domain.ItemRepository
	users    domain.UserRepository
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewRequestService(
	requests domain.RequestRepository,
	items domain.ItemRepository,
	users domain.UserRepository,
	clock domain.Clock,
	logger *zerolog.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		items:    items,
		users:    users,
		clock:    clock,
		logger:   logger,
	}
}

func (s *RequestService) Create(ctx context.Context, requestorID int64, description string) (*RequestDetails, error) {
	if strings.TrimSpace(description) == "" {
		return nil, newError(KindValidation, "request description must not be blank")
	}
	if err := s.checkUser(ctx, requestorID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: description,
		RequestorID: requestorID,
		Created:     s.clock.Now(),
	}
	if err := s.requests.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	return &RequestDetails{ItemRequest: *request, Items: []*models.Item{}}, nil
}

// GetForUser returns the caller's own requests, newest first.
func (s *RequestService) GetForUser(ctx context.Context, userID int64) ([]*RequestDetails, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.requests.GetRequestsByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.joinItems(ctx, requests)
}

// GetOfOthers pages through other users' requests.
func (s *RequestService) GetOfOthers(ctx context.Context, userID int64, from, size int) ([]*RequestDetails, error) {
	if err := validatePage(from, size); err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.requests.GetRequestsOfOthers(ctx, userID, from, size)
	if err != nil {
		return nil, err
	}
	return s.joinItems(ctx, requests)
}

func (s *RequestService) GetByID(ctx context.Context, userID, requestID int64) (*RequestDetails, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	request, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(KindNotFound, "request %d not found", requestID)
		}
		return nil, err
	}

	joined, err := s.joinItems(ctx, []*models.ItemRequest{request})
	if err != nil {
		return nil, err
	}
	return joined[0], nil
}

func (s *RequestService) checkUser(ctx context.Context, userID int64) error {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return newError(KindNotFound, "user %d not found", userID)
		}
		return err
	}
	return nil
}

func (s *RequestService) joinItems(ctx context.Context, requests []*models.ItemRequest) ([]*RequestDetails, error) {
	ids := make([]int64, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}

	items, err := s.items.GetItemsByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[int64][]*models.Item, len(requests))
	for _, item := range items {
		byRequest[item.RequestID] = append(byRequest[item.RequestID], item)
	}

	details := make([]*RequestDetails, 0, len(requests))
	for _, r := range requests {
		joined := byRequest[r.ID]
		if joined == nil {
			joined = []*models.Item{}
		}
		details = append(details, &RequestDetails{ItemRequest: *r, Items: joined})
	}
	return details, nil
}
