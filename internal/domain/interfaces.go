package domain

import (
	"context"
	"time"

	"lendit/internal/models"
)

// Clock supplies wall-clock time. Services sample it exactly once per logical
// operation and thread the instant through, so a CURRENT-window query never
// straddles two reads of the clock.
type Clock interface {
	Now() time.Time
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type ItemStore interface {
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error)
	GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]*models.Item, error)
}

type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error)
	// DecideBooking sets the status of a WAITING booking. The write is
	// conditional on the current status still being WAITING; a lost race
	// reports as a status failure, never as a silent second transition.
	DecideBooking(ctx context.Context, id int64, status string) error
	ListByBooker(ctx context.Context, bookerID int64, filter models.BookingFilter, now time.Time, page models.Page) ([]*models.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, filter models.BookingFilter, now time.Time, page models.Page) ([]*models.Booking, error)
	// ApprovedStarted returns APPROVED bookings with start <= now for the
	// item set; ApprovedFuture returns those with start > now. Both are
	// single bulk queries so batch attachment never degrades to N+1.
	ApprovedStarted(ctx context.Context, itemIDs []int64, now time.Time) ([]*models.Booking, error)
	ApprovedFuture(ctx context.Context, itemIDs []int64, now time.Time) ([]*models.Booking, error)
	HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItemID(ctx context.Context, itemID int64) ([]*models.Comment, error)
	GetCommentsByItemIDs(ctx context.Context, itemIDs []int64) ([]*models.Comment, error)
}

type RequestStore interface {
	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByRequestor(ctx context.Context, requestorID int64, page models.Page) ([]*models.ItemRequest, error)
	GetRequestsExcludingRequestor(ctx context.Context, requestorID int64, page models.Page) ([]*models.ItemRequest, error)
}

// RateLimiter throttles requests per user at the HTTP boundary.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type UserService interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, userID int64, patch *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, userID int64) error
}

type ItemService interface {
	CreateItem(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error)
	UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.Item, error)
	GetItem(ctx context.Context, viewerID, itemID int64) (*models.ItemWithBookings, error)
	GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]*models.ItemWithBookings, error)
	SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error)
	CreateComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error)
	ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error)
	GetBookingByID(ctx context.Context, userID, bookingID int64) (*models.Booking, error)
	ListBookingsForBooker(ctx context.Context, bookerID int64, state string, page models.Page) ([]*models.Booking, error)
	ListBookingsForOwner(ctx context.Context, ownerID int64, state string, page models.Page) ([]*models.Booking, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, requestorID int64, description string) (*models.ItemRequest, error)
	GetOwnRequests(ctx context.Context, requestorID int64, page models.Page) ([]*models.ItemRequest, error)
	GetOtherRequests(ctx context.Context, requestorID int64, page models.Page) ([]*models.ItemRequest, error)
	GetRequestByID(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error)
}
