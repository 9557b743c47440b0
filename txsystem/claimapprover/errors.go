package claimapprover

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

var (
	ErrInvalidPaymentMint         = types.NewProtoError(6100, "invalid payment mint")
	ErrInvalidPaymentTokenAccount = types.NewProtoError(6101, "invalid payment token account")
	ErrInvalidIssuer              = types.NewProtoError(6102, "invalid issuer")
	ErrInvalidTokenManager        = types.NewProtoError(6103, "invalid token manager")
	ErrTokenManagerAlive          = types.NewProtoError(6104, "token manager still in use")
	ErrAlreadyPaid                = types.NewProtoError(6105, "claim receipt already exists")
)
