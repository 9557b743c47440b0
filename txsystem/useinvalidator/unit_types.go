package useinvalidator

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

// ProgramID owns use invalidator records.
var ProgramID = types.NewAddress("tokenlease.use-invalidator")

const (
	RecordName = "UseInvalidator"
	Label      = "use-invalidator"
)

// Derive computes the use invalidator address of a token manager.
func Derive(tokenManager types.Address) (types.Address, uint8) {
	return types.FindProgramAddress(ProgramID, []byte(Label), tokenManager[:])
}
