package useinvalidator

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

var (
	ErrMaxUsagesReached     = types.NewProtoError(6300, "max usages reached")
	ErrInvalidUser          = types.NewProtoError(6301, "invalid user")
	ErrInvalidIssuer        = types.NewProtoError(6302, "invalid issuer")
	ErrUsagesRemaining      = types.NewProtoError(6303, "invalid use invalidator")
	ErrExtensionUnavailable = types.NewProtoError(6304, "extension not configured")
	ErrInvalidExtension     = types.NewProtoError(6305, "invalid extension amount")
	ErrInvalidPaymentMint   = types.NewProtoError(6306, "invalid payment mint")
	ErrTokenManagerAlive    = types.NewProtoError(6307, "token manager still in use")
)
