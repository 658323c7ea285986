package token

import (
	apperrors "github.com/sunnysmathworld/smw-admin/internal/errors"
)

var (
	ErrInvalidToken  = apperrors.ErrInvalidToken
	ErrTokenExpired  = apperrors.ErrTokenExpired
	ErrTokenRevoked  = apperrors.ErrTokenRevoked
	ErrWrongType     = apperrors.Wrapf(apperrors.ErrInvalidToken, "token has wrong type")
	ErrMissingClaims = apperrors.Wrapf(apperrors.ErrInvalidToken, "token is missing claims")
)
