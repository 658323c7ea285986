package storage

import (
	"errors"

	apperrors "github.com/sunnysmathworld/smw-admin/internal/errors"
)

var (
	ErrNotFound    = apperrors.ErrNotFound
	ErrKeyRequired = errors.New("key is required")
)
