package models

type Item struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Available   bool   `json:"available" yaml:"available"`
	OwnerID     int64  `json:"owner_id" yaml:"owner_id"`
	RequestID   int64  `json:"request_id,omitempty" yaml:"request_id"`
}

// ItemPatch carries a partial item update. Nil fields are left untouched,
// so setting available to false is distinct from omitting it.
type ItemPatch struct {
	Name        *string
	Description *string
	Available   *bool
}

// BookingRef is the short booking summary attached to an item for its owner.
type BookingRef struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"booker_id"`
}

// ItemWithBookings is the owner-facing item view: the item itself plus the
// last/next approved booking summaries and the item's comments.
type ItemWithBookings struct {
	Item
	LastBooking *BookingRef `json:"last_booking"`
	NextBooking *BookingRef `json:"next_booking"`
	Comments    []Comment   `json:"comments"`
}
