package service

import "shareit/internal/models"

// applyApproval moves the booking status according to the owner's decision.
// Approval is guarded: a booking already APPROVED cannot be approved again.
// Rejection is not: approved=false sets REJECTED from any current status.
// The asymmetry is deliberate and part of the external contract.
func applyApproval(booking *models.Booking, approved bool) error {
	if approved {
		if booking.Status == models.StatusApproved {
			return newError(KindInvalidTransition, "status APPROVED already set")
		}
		booking.Status = models.StatusApproved
		return nil
	}

	booking.Status = models.StatusRejected
	return nil
}
