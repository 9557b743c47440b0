package timeinvalidator

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

// ProgramID owns time invalidator records.
var ProgramID = types.NewAddress("tokenlease.time-invalidator")

const (
	RecordName = "TimeInvalidator"
	Label      = "time-invalidator"
)

// Derive computes the time invalidator address of a token manager.
func Derive(tokenManager types.Address) (types.Address, uint8) {
	return types.FindProgramAddress(ProgramID, []byte(Label), tokenManager[:])
}
