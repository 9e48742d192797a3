package models

import "time"

type Booking struct {
	ID       int64     `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	ItemID   int64     `json:"item_id"`
	ItemName string    `json:"item_name"`
	BookerID int64     `json:"booker_id"`
	Status   string    `json:"status"`
	// OwnerID is the id of the booked item's owner, filled in on reads for
	// authorization checks. Not a column of the bookings table.
	OwnerID   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
