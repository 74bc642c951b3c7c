package service

import (
	"time"

	"shareit/internal/domain"
)

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns a clock backed by time.Now.
func SystemClock() domain.Clock {
	return systemClock{}
}
