package detector

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotEnoughData is returned when a series is too short to score.
	ErrNotEnoughData = errors.New("detector: not enough data")

	// ErrDetectorUnavailable wraps failures of a remote detection service.
	ErrDetectorUnavailable = errors.New("detector: service unavailable")

	ErrUnauthorized    = errors.New("detector: unauthorized")
	ErrRateLimited     = errors.New("detector: rate limited")
	ErrInvalidResponse = errors.New("detector: invalid response")
	ErrMissingAPIKey   = errors.New("detector: NIXTLA_API_KEY must be set")
	ErrUnknownKind     = errors.New("detector: unknown kind")
)

func translateStatus(code int, body []byte) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, code)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, code)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrDetectorUnavailable, code, truncate(body, 256))
	}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
