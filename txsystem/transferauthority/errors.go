package transferauthority

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

var (
	ErrInvalidAuthority         = types.NewProtoError(6500, "invalid authority")
	ErrInvalidName              = types.NewProtoError(6501, "invalid name")
	ErrMarketplaceNotAllowed    = types.NewProtoError(6502, "marketplace not allowed")
	ErrInvalidPaymentMint       = types.NewProtoError(6503, "invalid payment mint")
	ErrInvalidLister            = types.NewProtoError(6504, "invalid lister")
	ErrListingChanged           = types.NewProtoError(6505, "listing changed")
	ErrTokenManagerNotClaimed   = types.NewProtoError(6506, "token manager not claimed")
	ErrInvalidTransferAuthority = types.NewProtoError(6507, "invalid transfer authority")
	ErrInvalidMarketplace       = types.NewProtoError(6508, "invalid marketplace")
)
