package models

import "lendit/internal/apperr"

// BookingFilter classifies a booking listing query. The temporal filters
// (CURRENT, PAST, FUTURE) are evaluated against a single "now" instant
// supplied by the caller; WAITING and REJECTED match on status alone.
type BookingFilter int

const (
	FilterAll BookingFilter = iota
	FilterCurrent
	FilterPast
	FilterFuture
	FilterWaiting
	FilterRejected
)

var filterNames = map[BookingFilter]string{
	FilterAll:      "ALL",
	FilterCurrent:  "CURRENT",
	FilterPast:     "PAST",
	FilterFuture:   "FUTURE",
	FilterWaiting:  "WAITING",
	FilterRejected: "REJECTED",
}

func (f BookingFilter) String() string {
	return filterNames[f]
}

// ParseBookingFilter maps a state token to a filter. Unknown tokens are a
// hard failure, never a fallback to ALL.
func ParseBookingFilter(state string) (BookingFilter, error) {
	switch state {
	case "ALL":
		return FilterAll, nil
	case "CURRENT":
		return FilterCurrent, nil
	case "PAST":
		return FilterPast, nil
	case "FUTURE":
		return FilterFuture, nil
	case "WAITING":
		return FilterWaiting, nil
	case "REJECTED":
		return FilterRejected, nil
	default:
		return 0, apperr.BookingStatusf("Unknown state: %s", state)
	}
}
