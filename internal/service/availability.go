package service

import (
	"time"

	"shareit/internal/models"
)

// checkBookable decides whether a booking of the item may be created. It is
// a pure check: nothing is reserved or locked, so two concurrent bookings of
// the same item and overlapping interval both pass. That gap is a known
// limitation of the system, not something this gate guards against.
//
// item is nil when the repository lookup found nothing.
func checkBookable(item *models.Item, bookerID int64, start, end time.Time) error {
	if item == nil {
		return newError(KindNotFound, "item not found")
	}
	if !start.Before(end) {
		return newError(KindInvalidRange, "start date is after or equal to end date")
	}
	if !item.Available {
		return newError(KindUnavailable, "item is not available for booking")
	}
	if item.OwnerID == bookerID {
		return newError(KindSelfBooking, "owner cannot book their own item")
	}
	return nil
}
