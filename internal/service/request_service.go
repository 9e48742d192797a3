package service

import (
	"context"
	"strings"

	"lendit/internal/apperr"
	"lendit/internal/domain"
	"lendit/internal/models"

	"github.com/rs/zerolog"
)

// RequestService manages item requests and hangs the answering items off
// each request on the way out.
type RequestService struct {
	requests domain.RequestStore
	items    domain.ItemStore
	users    domain.UserStore
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewRequestService(
	requests domain.RequestStore,
	items domain.ItemStore,
	users domain.UserStore,
	clock domain.Clock,
	logger *zerolog.Logger,
) *RequestService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &RequestService{
		requests: requests,
		items:    items,
		users:    users,
		clock:    clock,
		logger:   logger,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, requestorID int64, description string) (*models.ItemRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, apperr.BookingStatusf("request description must not be blank")
	}
	if err := s.checkUserID(ctx, requestorID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: description,
		RequestorID: requestorID,
		Created:     s.clock.Now(),
		Items:       []models.Item{},
	}
	if err := s.requests.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestor_id", requestorID).Int64("request_id", request.ID).Msg("request created")
	return request, nil
}

func (s *RequestService) GetOwnRequests(ctx context.Context, requestorID int64, page models.Page) ([]*models.ItemRequest, error) {
	if err := s.checkUserID(ctx, requestorID); err != nil {
		return nil, err
	}
	requests, err := s.requests.GetRequestsByRequestor(ctx, requestorID, page)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *RequestService) GetOtherRequests(ctx context.Context, requestorID int64, page models.Page) ([]*models.ItemRequest, error) {
	if err := s.checkUserID(ctx, requestorID); err != nil {
		return nil, err
	}
	requests, err := s.requests.GetRequestsExcludingRequestor(ctx, requestorID, page)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *RequestService) GetRequestByID(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error) {
	if err := s.checkUserID(ctx, userID); err != nil {
		return nil, err
	}
	request, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperr.NotFoundf("request with id %d does not exist", requestID)
	}
	if err := s.attachItems(ctx, []*models.ItemRequest{request}); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) checkUserID(ctx context.Context, userID int64) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFoundf("user with id %d does not exist", userID)
	}
	return nil
}

// attachItems fills Items for every request with a single bulk query.
func (s *RequestService) attachItems(ctx context.Context, requests []*models.ItemRequest) error {
	if len(requests) == 0 {
		return nil
	}

	requestIDs := make([]int64, 0, len(requests))
	for _, r := range requests {
		r.Items = []models.Item{}
		requestIDs = append(requestIDs, r.ID)
	}

	items, err := s.items.GetItemsByRequestIDs(ctx, requestIDs)
	if err != nil {
		return err
	}
	byRequest := make(map[int64][]models.Item)
	for _, item := range items {
		byRequest[item.RequestID] = append(byRequest[item.RequestID], *item)
	}
	for _, r := range requests {
		if its, ok := byRequest[r.ID]; ok {
			r.Items = its
		}
	}
	return nil
}
