package models

import "time"

// ItemRequest is a wish for an item that does not exist yet. Items created
// in answer to it carry its id and are attached on reads.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestor_id"`
	Created     time.Time `json:"created"`
	Items       []Item    `json:"items"`
}
