package ledger

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

// Shape errors: wrong record under the supplied address, wrong mint or owner
// on a token account, missing accounts. These indicate a caller-side bug and
// are reported verbatim.
var (
	ErrAccountNotFound        = types.NewProtoError(3000, "account not found")
	ErrAccountExists          = types.NewProtoError(3001, "account already exists")
	ErrInvalidOwner           = types.NewProtoError(3002, "invalid account owner")
	ErrInvalidMint            = types.NewProtoError(3003, "invalid mint")
	ErrInvalidAuthority       = types.NewProtoError(3004, "invalid authority")
	ErrInsufficientFunds      = types.NewProtoError(3005, "insufficient funds")
	ErrAccountFrozen          = types.NewProtoError(3006, "account is frozen")
	ErrAccountNotFrozen       = types.NewProtoError(3007, "account is not frozen")
	ErrNonZeroBalance         = types.NewProtoError(3008, "account balance is not zero")
	ErrInvalidDelegate        = types.NewProtoError(3009, "invalid delegate")
	ErrInsufficientDelegation = types.NewProtoError(3010, "insufficient delegated amount")
	ErrMetadataNotFound       = types.NewProtoError(3011, "metadata not found")
	ErrInvalidTokenStandard   = types.NewProtoError(3012, "invalid token standard")
	ErrEditionNotFound        = types.NewProtoError(3013, "master edition not found")
	ErrTokenRecordLocked      = types.NewProtoError(3014, "token record is locked")
	ErrTokenRecordNotLocked   = types.NewProtoError(3015, "token record is not locked")
)
