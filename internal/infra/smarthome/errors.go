package smarthome

import (
	"errors"
	"fmt"
)

// ErrBackendUnavailable marks transport-level failures: the backend could
// not be reached at all (connection refused, DNS, TLS, timeout).
var ErrBackendUnavailable = errors.New("smarthome: backend unavailable")

// APIError is a non-2xx reply from the backend.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("smarthome: backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("smarthome: backend returned status %d: %s", e.StatusCode, e.Body)
}

// IsBackendUnavailable reports whether err is a transport-level failure.
func IsBackendUnavailable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}

// IsAPIError unwraps err into an APIError when the backend replied with a
// non-2xx status.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
