// Package errors holds the sentinel errors shared by the portal packages.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound = errors.New("user not found")

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")

	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not found")
)

// Wrapf prefixes err with a formatted context. The result still matches err
// under errors.Is.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
