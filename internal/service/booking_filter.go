package service

import (
	"sort"
	"strings"
	"time"

	"shareit/internal/models"
)

// BookingState selects the slice of a user's bookings relative to now.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// statePredicates keeps the state set closed: adding a state means adding a
// predicate here, there is no default branch to fall through.
var statePredicates = map[BookingState]func(b *models.Booking, now time.Time) bool{
	StateAll: func(*models.Booking, time.Time) bool { return true },
	StateCurrent: func(b *models.Booking, now time.Time) bool {
		return !b.Start.After(now) && !b.End.Before(now)
	},
	StatePast: func(b *models.Booking, now time.Time) bool {
		return b.End.Before(now)
	},
	StateFuture: func(b *models.Booking, now time.Time) bool {
		return b.Start.After(now)
	},
	StateWaiting: func(b *models.Booking, _ time.Time) bool {
		return b.Status == models.StatusWaiting
	},
	StateRejected: func(b *models.Booking, _ time.Time) bool {
		return b.Status == models.StatusRejected
	},
}

// ParseBookingState resolves a state token case-insensitively; an empty
// token means ALL. Unknown tokens fail carrying the literal token so the
// caller can render it back.
func ParseBookingState(token string) (BookingState, error) {
	if strings.TrimSpace(token) == "" {
		return StateAll, nil
	}
	state := BookingState(strings.ToUpper(strings.TrimSpace(token)))
	if _, ok := statePredicates[state]; !ok {
		return "", newError(KindUnsupportedState, "Unknown state: %s", token)
	}
	return state, nil
}

// classifyBookings filters the list by the state predicate and re-sorts it
// into the canonical order, start descending with ties broken by id
// descending. Some call paths deliver lists sorted only by id, so the sort
// is applied here rather than trusted.
func classifyBookings(bookings []*models.Booking, state BookingState, now time.Time) []*models.Booking {
	predicate := statePredicates[state]

	filtered := make([]*models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if predicate(b, now) {
			filtered = append(filtered, b)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Start.Equal(filtered[j].Start) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].Start.After(filtered[j].Start)
	})

	return filtered
}

// paginate slices [from, from+size) out of the list; an offset past the end
// yields an empty page.
func paginate(bookings []*models.Booking, from, size int) []*models.Booking {
	if from >= len(bookings) {
		return []*models.Booking{}
	}
	end := from + size
	// from+size может переполниться при огромном size
	if end < from || end > len(bookings) {
		end = len(bookings)
	}
	return bookings[from:end]
}

// validatePage mirrors the gateway tier: from must be zero or positive,
// size strictly positive.
func validatePage(from, size int) error {
	if from < 0 {
		return newError(KindValidation, "from must be positive or zero")
	}
	if size <= 0 {
		return newError(KindValidation, "size must be positive")
	}
	return nil
}
