package timeinvalidator

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

var (
	ErrNotExpired            = types.NewProtoError(6200, "invalid time invalidator")
	ErrInvalidIssuer         = types.NewProtoError(6201, "invalid issuer")
	ErrInvalidTokenManager   = types.NewProtoError(6202, "invalid token manager")
	ErrExtensionUnavailable  = types.NewProtoError(6203, "extension not configured")
	ErrInvalidExtension      = types.NewProtoError(6204, "invalid extension amount")
	ErrMaxExpirationExceeded = types.NewProtoError(6205, "max expiration exceeded")
	ErrInvalidPaymentMint    = types.NewProtoError(6206, "invalid payment mint")
	ErrInvalidMaxExpiration  = types.NewProtoError(6207, "invalid max expiration")
	ErrTokenManagerAlive     = types.NewProtoError(6208, "token manager still in use")
)
