package tokenmanager

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

// ProgramID owns token manager, mint counter, mint manager and receipt
// records.
var ProgramID = types.NewAddress("tokenlease.token-manager")

// Record names (discriminator inputs).
const (
	TokenManagerRecordName    = "TokenManager"
	MintCounterRecordName     = "MintCounter"
	MintManagerRecordName     = "MintManager"
	ClaimReceiptRecordName    = "ClaimReceipt"
	TransferReceiptRecordName = "TransferReceipt"
)

// Derivation seed labels.
const (
	TokenManagerLabel    = "token-manager"
	MintCounterLabel     = "mint-counter"
	MintManagerLabel     = "mint-manager"
	ClaimReceiptLabel    = "claim-receipt"
	TransferReceiptLabel = "transfer-receipt"
)

// DeriveTokenManager computes the token manager address of a mint. One live
// token manager exists per mint at a time; the record's count disambiguates
// successive rentals.
func DeriveTokenManager(mint types.Address) (types.Address, uint8) {
	return types.FindProgramAddress(ProgramID, []byte(TokenManagerLabel), mint[:])
}

func DeriveMintCounter(mint types.Address) (types.Address, uint8) {
	return types.FindProgramAddress(ProgramID, []byte(MintCounterLabel), mint[:])
}

func DeriveMintManager(mint types.Address) (types.Address, uint8) {
	return types.FindProgramAddress(ProgramID, []byte(MintManagerLabel), mint[:])
}

func DeriveClaimReceipt(tokenManager, target types.Address) (types.Address, uint8) {
	return types.FindProgramAddress(ProgramID, []byte(ClaimReceiptLabel), tokenManager[:], target[:])
}

func DeriveTransferReceipt(tokenManager types.Address) (types.Address, uint8) {
	return types.FindProgramAddress(ProgramID, []byte(TransferReceiptLabel), tokenManager[:])
}
