package paymentmanager

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

var (
	ErrInvalidAuthority           = types.NewProtoError(6400, "invalid payment manager authority")
	ErrInvalidFeeCollector        = types.NewProtoError(6401, "invalid fee collector token account")
	ErrInvalidCreatorTokenAccount = types.NewProtoError(6402, "invalid creator payment token account")
	ErrInvalidPaymentMint         = types.NewProtoError(6403, "invalid payment mint")
	ErrInvalidRoyaltyFeeShare     = types.NewProtoError(6404, "invalid royalty fee share")
	ErrInvalidBasisPoints         = types.NewProtoError(6405, "invalid fee basis points")
	ErrInvalidName                = types.NewProtoError(6406, "invalid payment manager name")
)
