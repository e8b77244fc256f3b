package config

import (
	"strconv"
	"time"
)

type APIConfig interface {
	GetAPIBaseURL() string
	GetHTTPTimeout() time.Duration
}

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the base URL of the delivery backend.
func (API) GetAPIBaseURL() string {
	return GetEnv("API_BASE_URL", "https://ice-inventory.vercel.app/api")
}

// GetHTTPTimeout is the only resilience knob for backend calls. The API
// client applies it to every request.
func (API) GetHTTPTimeout() time.Duration {
	seconds, err := strconv.Atoi(GetEnv("HTTP_TIMEOUT_SECONDS", "15"))
	if err != nil || seconds <= 0 {
		seconds = 15
	}
	return time.Duration(seconds) * time.Second
}
