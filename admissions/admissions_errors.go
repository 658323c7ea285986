package admissions

import (
	"errors"
	"fmt"

	apperrors "github.com/sunnysmathworld/smw-admin/internal/errors"
	"github.com/sunnysmathworld/smw-admin/session"
)

var (
	ErrNotFound       = apperrors.ErrNotFound
	ErrForbidden      = apperrors.ErrForbidden
	ErrSessionExpired = session.ErrSessionExpired
	ErrInvalidID      = errors.New("application id must be positive")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Detail     string
	kind       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("admissions: %d %s", e.StatusCode, e.Detail)
}

func (e *APIError) Unwrap() error {
	return e.kind
}
