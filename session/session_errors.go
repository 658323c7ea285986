package session

import "errors"

var (
	// ErrAuthentication means the backend rejected the credentials.
	ErrAuthentication = errors.New("authentication failed")
	// ErrAuthorization means the account is valid but not staff.
	ErrAuthorization = errors.New("not authorized")
	// ErrProtocol means a success response was missing required fields.
	ErrProtocol = errors.New("malformed response")
	// ErrTransientNetwork means the backend could not be reached.
	ErrTransientNetwork = errors.New("network unavailable")
	// ErrSessionExpired means refresh could not recover a 401.
	ErrSessionExpired = errors.New("session expired")
)

// User facing login messages.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgMalformedResponse  = "Malformed response from server"
	MsgNotAuthorized      = "This account is not authorized for admin access."
	MsgLoginUnavailable   = "Unable to login right now."
)

// Error carries a user facing message together with its category.
// errors.Is matches both the category and the underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}
