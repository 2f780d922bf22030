package source

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingCredentials is returned when the Supabase source lacks a project or JWT.
	ErrMissingCredentials = errors.New("source: SUPABASE_PROJECT and SUPABASE_JWT must be set")

	// ErrUnknownKind is returned for an unsupported Config.Kind.
	ErrUnknownKind = errors.New("source: unknown kind")

	ErrUnauthorized   = errors.New("source: unauthorized")
	ErrNotFound       = errors.New("source: metrics endpoint not found")
	ErrRateLimited    = errors.New("source: rate limited")
	ErrUpstream       = errors.New("source: upstream error")
	ErrInvalidPayload = errors.New("source: invalid payload")
)

// translateStatus maps an HTTP status to a sentinel error, or nil for 2xx.
func translateStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, code)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", ErrNotFound, code)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, code)
	default:
		return fmt.Errorf("%w: status %d", ErrUpstream, code)
	}
}
