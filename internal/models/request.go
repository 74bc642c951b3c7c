package models

import "time"

// ItemRequest is an open ask for an item nobody has listed yet. Items
// answering the request reference it via Item.RequestID; the joined list is
// computed at read time, not stored here.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestor_id"`
	Created     time.Time `json:"created"`
}
