package models

import "time"

// MaxCommentLength caps comment text; longer submissions are rejected at
// the boundary and again in the service.
const MaxCommentLength = 512

type Comment struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	ItemID int64  `json:"item_id"`
	// AuthorID is persisted; AuthorName is joined in on reads.
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Created    time.Time `json:"created"`
}
