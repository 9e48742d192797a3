package models

const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	// StatusCanceled is a recognized value but no API operation produces it;
	// it can only appear through direct store mutation.
	StatusCanceled = "CANCELED"
)

const (
	// DefaultPageSize is used when the boundary receives no size parameter.
	DefaultPageSize = 5

	// RateLimitRequests requests per RateLimitWindow seconds per user.
	RateLimitRequests = 30
	RateLimitWindow   = 60
)
