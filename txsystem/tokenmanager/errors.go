package tokenmanager

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

var (
	ErrInvalidIssuer              = types.NewProtoError(6000, "invalid issuer")
	ErrInvalidState               = types.NewProtoError(6001, "invalid token manager state")
	ErrInvalidatorsTooBig         = types.NewProtoError(6002, "invalidators too big")
	ErrDuplicateInvalidator       = types.NewProtoError(6003, "duplicate invalidator")
	ErrInvalidInvalidator         = types.NewProtoError(6004, "invalid invalidator")
	ErrInvalidClaimReceipt        = types.NewProtoError(6005, "invalid claim receipt")
	ErrInvalidTransferReceipt     = types.NewProtoError(6006, "invalid transfer receipt")
	ErrInvalidTransferAuthority   = types.NewProtoError(6007, "invalid transfer authority")
	ErrInvalidInvalidationKind    = types.NewProtoError(6008, "invalid invalidation-kind match")
	ErrClaimApproverRequired      = types.NewProtoError(6009, "claim approver required")
	ErrInvalidInvalidationChange  = types.NewProtoError(6010, "invalid invalidation type change")
	ErrInvalidAmount              = types.NewProtoError(6011, "invalid amount")
	ErrInvalidKind                = types.NewProtoError(6012, "invalid kind")
	ErrInvalidInvalidationType    = types.NewProtoError(6013, "invalid invalidation type")
	ErrInvalidMintManager         = types.NewProtoError(6014, "invalid mint manager")
	ErrOutstandingTokenManagers   = types.NewProtoError(6015, "outstanding token managers")
	ErrInvalidMintManagerCloser   = types.NewProtoError(6016, "invalid mint manager initializer")
	ErrInvalidRecipient           = types.NewProtoError(6017, "invalid recipient token account")
	ErrInvalidHolder              = types.NewProtoError(6018, "invalid holder")
	ErrTransfersDisabled          = types.NewProtoError(6019, "transfers disabled")
	ErrInvalidMint                = types.NewProtoError(6020, "invalid mint")
	ErrInvalidClaimApprover       = types.NewProtoError(6021, "invalid claim approver")
	ErrInvalidIssuerTokenAccount  = types.NewProtoError(6022, "invalid issuer token account")
	ErrInvalidReceiptTokenAccount = types.NewProtoError(6023, "invalid receipt token account")
	ErrEmptyInvalidators          = types.NewProtoError(6024, "empty invalidators")
)
