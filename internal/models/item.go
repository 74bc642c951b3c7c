package models

// Item is a thing offered for sharing. Available is an advisory flag set by
// the owner; it blocks new bookings but does not touch existing ones.
// RequestID links the item to the open request it answers, 0 means none.
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     int64  `json:"owner_id"`
	Available   bool   `json:"available"`
	RequestID   int64  `json:"request_id,omitempty"`
}
