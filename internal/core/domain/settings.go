package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Default client settings.
const (
	DefaultBackendURL       = "http://localhost:8000"
	DefaultTimeout          = 30 * time.Second
	DefaultRateLimit        = 10.0
	DefaultRateBurst        = 5
	DefaultStatusTTL        = 5 * time.Second
	DefaultUploadResetDelay = 2 * time.Second
)

// ClientSettings holds everything needed to talk to the backend and drive the UI.
type ClientSettings struct {
	// BackendURL is the base URL of the document backend.
	BackendURL string

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// RateLimit is the maximum sustained requests per second. Zero disables limiting.
	RateLimit float64

	// RateBurst is the limiter bucket size.
	RateBurst int

	// AllMarker is the wire value meaning "all collections".
	AllMarker string

	// StatusTTL is how long a status message stays visible.
	StatusTTL time.Duration

	// UploadResetDelay is the pause between a successful upload and
	// returning to the documents list.
	UploadResetDelay time.Duration
}

// DefaultClientSettings returns settings for a backend on localhost.
func DefaultClientSettings() ClientSettings {
	return ClientSettings{
		BackendURL:       DefaultBackendURL,
		Timeout:          DefaultTimeout,
		RateLimit:        DefaultRateLimit,
		RateBurst:        DefaultRateBurst,
		AllMarker:        AllCollectionsMarker,
		StatusTTL:        DefaultStatusTTL,
		UploadResetDelay: DefaultUploadResetDelay,
	}
}

// Validate checks the settings are usable.
func (s ClientSettings) Validate() error {
	u, err := url.Parse(s.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{Field: "backend.url", Message: fmt.Sprintf("invalid backend url %q", s.BackendURL)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "backend.url", Message: "backend url must use http or https"}
	}
	if s.Timeout <= 0 {
		return &ValidationError{Field: "backend.timeout", Message: "timeout must be positive"}
	}
	if s.RateLimit < 0 {
		return &ValidationError{Field: "backend.rate_limit", Message: "rate limit must not be negative"}
	}
	if s.RateLimit > 0 && s.RateBurst < 1 {
		return &ValidationError{Field: "backend.rate_burst", Message: "rate burst must be at least 1"}
	}
	if strings.TrimSpace(s.AllMarker) == "" {
		return &ValidationError{Field: "query.all_marker", Message: "all-collections marker must not be empty"}
	}
	if s.StatusTTL <= 0 {
		return &ValidationError{Field: "ui.status_ttl", Message: "status ttl must be positive"}
	}
	if s.UploadResetDelay < 0 {
		return &ValidationError{Field: "ui.upload_reset_delay", Message: "upload reset delay must not be negative"}
	}
	return nil
}

// BaseURL returns the backend URL without a trailing slash.
func (s ClientSettings) BaseURL() string {
	return strings.TrimRight(s.BackendURL, "/")
}
