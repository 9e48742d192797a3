package service

import (
	"context"
	"strings"

	"lendit/internal/apperr"
	"lendit/internal/domain"
	"lendit/internal/events"
	"lendit/internal/models"

	"github.com/rs/zerolog"
)

// ItemService manages the item catalog, the owner-facing booking summaries
// and the comment flow.
type ItemService struct {
	items    domain.ItemStore
	bookings domain.BookingStore
	comments domain.CommentStore
	users    domain.UserStore
	requests domain.RequestStore
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewItemService(
	items domain.ItemStore,
	bookings domain.BookingStore,
	comments domain.CommentStore,
	users domain.UserStore,
	requests domain.RequestStore,
	eventBus domain.EventPublisher,
	clock domain.Clock,
	logger *zerolog.Logger,
) *ItemService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ItemService{
		items:    items,
		bookings: bookings,
		comments: comments,
		users:    users,
		requests: requests,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	owner, err := s.users.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperr.NotFoundf("user with id %d does not exist", ownerID)
	}

	if item.RequestID != 0 {
		request, err := s.requests.GetRequestByID(ctx, item.RequestID)
		if err != nil {
			return nil, err
		}
		if request == nil {
			return nil, apperr.NotFoundf("request with id %d does not exist", item.RequestID)
		}
	}

	item.OwnerID = ownerID
	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("owner_id", ownerID).Int64("item_id", item.ID).Msg("item created")
	if s.eventBus != nil {
		payload := events.ItemEventPayload{ItemID: item.ID, Name: item.Name, OwnerID: ownerID}
		if err := s.eventBus.PublishJSON(events.EventItemCreated, payload); err != nil {
			s.logger.Error().Err(err).Int64("item_id", item.ID).Msg("publish event error")
		}
	}
	return item, nil
}

// UpdateItem applies a partial patch. Only the owner may edit; anyone else
// gets not-found so item ownership is not probeable.
func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFoundf("item with id %d does not exist", itemID)
	}
	if item.OwnerID != ownerID {
		return nil, apperr.NotFoundf("user with id %d is not the owner of item %d", ownerID, itemID)
	}

	if patch.Name != nil && *patch.Name != "" {
		item.Name = *patch.Name
	}
	if patch.Description != nil && *patch.Description != "" {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("owner_id", ownerID).Int64("item_id", itemID).Msg("item updated")
	return item, nil
}

// GetItem returns the item with comments for any viewer; the last/next
// booking summaries are attached only when the viewer owns the item.
func (s *ItemService) GetItem(ctx context.Context, viewerID, itemID int64) (*models.ItemWithBookings, error) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFoundf("item with id %d does not exist", itemID)
	}

	view := &models.ItemWithBookings{Item: *item, Comments: []models.Comment{}}

	comments, err := s.comments.GetCommentsByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		view.Comments = append(view.Comments, *c)
	}

	if item.OwnerID == viewerID {
		views := []*models.ItemWithBookings{view}
		if err := s.attachBookings(ctx, views); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// GetItemsByOwner lists the owner's items with booking summaries and
// comments attached via bulk queries, one round trip per concern.
func (s *ItemService) GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]*models.ItemWithBookings, error) {
	items, err := s.items.GetItemsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}

	views := make([]*models.ItemWithBookings, 0, len(items))
	itemIDs := make([]int64, 0, len(items))
	for _, item := range items {
		views = append(views, &models.ItemWithBookings{Item: *item, Comments: []models.Comment{}})
		itemIDs = append(itemIDs, item.ID)
	}
	if len(views) == 0 {
		return views, nil
	}

	if err := s.attachBookings(ctx, views); err != nil {
		return nil, err
	}

	comments, err := s.comments.GetCommentsByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	byItem := make(map[int64][]models.Comment)
	for _, c := range comments {
		byItem[c.ItemID] = append(byItem[c.ItemID], *c)
	}
	for _, view := range views {
		if cs, ok := byItem[view.ID]; ok {
			view.Comments = cs
		}
	}
	return views, nil
}

func (s *ItemService) SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	return s.items.SearchItems(ctx, text, page)
}

// CreateComment admits a comment only from a user whose approved booking of
// the item has already ended.
func (s *ItemService) CreateComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	now := s.clock.Now()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.BookingStatusf("comment text must not be blank")
	}
	if len(text) > models.MaxCommentLength {
		return nil, apperr.BookingStatusf("comment text must not exceed %d characters", models.MaxCommentLength)
	}

	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, apperr.NotFoundf("user with id %d does not exist", authorID)
	}

	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFoundf("item with id %d does not exist", itemID)
	}

	ok, err := s.bookings.HasFinishedBooking(ctx, itemID, authorID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.BookingStatusf("user with id %d has no finished booking of item %d", authorID, itemID)
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

	s.logger.Info().Int64("author_id", authorID).Int64("item_id", itemID).Int64("comment_id", comment.ID).Msg("comment created")
	if s.eventBus != nil {
		payload := events.CommentEventPayload{CommentID: comment.ID, ItemID: itemID, AuthorID: authorID}
		if err := s.eventBus.PublishJSON(events.EventCommentCreated, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
		}
	}
	return comment, nil
}

// attachBookings fills LastBooking/NextBooking for every view in place.
// Two bulk queries cover the whole item set; the single-item path goes
// through the same code so both always classify identically.
func (s *ItemService) attachBookings(ctx context.Context, views []*models.ItemWithBookings) error {
	now := s.clock.Now()

	itemIDs := make([]int64, 0, len(views))
	for _, view := range views {
		itemIDs = append(itemIDs, view.ID)
	}

	started, err := s.bookings.ApprovedStarted(ctx, itemIDs, now)
	if err != nil {
		return err
	}
	future, err := s.bookings.ApprovedFuture(ctx, itemIDs, now)
	if err != nil {
		return err
	}

	// Last is the started booking with the greatest end, next the future
	// booking with the smallest start.
	last := make(map[int64]*models.Booking)
	for _, b := range started {
		cur := last[b.ItemID]
		if cur == nil || b.End.After(cur.End) {
			last[b.ItemID] = b
		}
	}
	next := make(map[int64]*models.Booking)
	for _, b := range future {
		cur := next[b.ItemID]
		if cur == nil || b.Start.Before(cur.Start) {
			next[b.ItemID] = b
		}
	}

	for _, view := range views {
		if b, ok := last[view.ID]; ok {
			view.LastBooking = &models.BookingRef{ID: b.ID, BookerID: b.BookerID}
		}
		if b, ok := next[view.ID]; ok {
			view.NextBooking = &models.BookingRef{ID: b.ID, BookerID: b.BookerID}
		}
	}
	return nil
}
