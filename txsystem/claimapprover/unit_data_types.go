package claimapprover

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

// PaidClaimApprover charges a fixed price for the right to claim one
// rental. Payment is split through the configured payment manager; the
// collector receives the record's rent when it is closed.
type PaidClaimApprover struct {
	Bump           uint8
	TokenManager   types.Address
	PaymentMint    types.Address
	PaymentAmount  uint64
	PaymentManager types.Address
	Collector      types.Address
}
