package paymentmanager

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

// ProgramID owns every payment manager record.
var ProgramID = types.NewAddress("tokenlease.payment-manager")

const (
	// RecordName tags the persisted record (discriminator input).
	RecordName = "PaymentManager"

	// Label is the derivation seed label of payment manager records.
	Label = "payment-manager"

	// MaxNameLength bounds the payment manager name.
	MaxNameLength = 32
)

// Derive computes the record address of the payment manager with the given
// name.
func Derive(name string) (types.Address, uint8) {
	return types.FindProgramAddress(ProgramID, []byte(Label), []byte(name))
}
