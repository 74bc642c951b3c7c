package models

import "time"

// Status is the lifecycle state of a booking. A booking is created WAITING
// and is decided exactly once by the item owner; APPROVED and REJECTED are
// terminal for approval, rejection is always accepted.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

type Booking struct {
	ID       int64     `json:"id"`
	ItemID   int64     `json:"item_id"`
	ItemName string    `json:"item_name"`
	BookerID int64     `json:"booker_id"`
	OwnerID  int64     `json:"owner_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   Status    `json:"status"`
}
