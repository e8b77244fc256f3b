package config

import (
	"strconv"
	"time"
)

type LocationConfig interface {
	GetLocationInterval() time.Duration
	GetSuppressedStatuses() []int
}

type Location struct{}

var _ LocationConfig = Location{}

// GetLocationInterval is the cadence of location pushes while a session is
// active.
func (Location) GetLocationInterval() time.Duration {
	ms, err := strconv.Atoi(GetEnv("LOCATION_INTERVAL_MS", "3000"))
	if err != nil || ms <= 0 {
		ms = 3000
	}
	return time.Duration(ms) * time.Millisecond
}

// GetSuppressedStatuses lists the HTTP statuses that location pushes drop
// without logging. Backend rejections of a stale partner are routine noise.
func (Location) GetSuppressedStatuses() []int {
	return []int{400, 403}
}
