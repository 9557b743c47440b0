package paymentmanager

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

// PaymentManager computes maker/taker fee and creator royalty splits for a
// gross amount and performs the transfers that realize the split. Long
// lived; mutated only by its authority.
type PaymentManager struct {
	Bump                uint8
	Name                string
	Authority           types.Address
	FeeCollector        types.Address
	MakerFeeBasisPoints uint16
	TakerFeeBasisPoints uint16
	// RoyaltyFeeShare is the percentage of collected fees shared with the
	// mint's creators.
	RoyaltyFeeShare uint64
}
