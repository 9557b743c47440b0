package claimapprover

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

// ProgramID owns paid claim approver records.
var ProgramID = types.NewAddress("tokenlease.claim-approver")

const (
	RecordName = "PaidClaimApprover"
	Label      = "paid-claim-approver"
)

// Derive computes the approver address of a token manager. One approver per
// rental.
func Derive(tokenManager types.Address) (types.Address, uint8) {
	return types.FindProgramAddress(ProgramID, []byte(Label), tokenManager[:])
}
