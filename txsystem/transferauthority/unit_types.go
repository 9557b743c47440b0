package transferauthority

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

// ProgramID owns transfer authority, marketplace and listing records.
var ProgramID = types.NewAddress("tokenlease.transfer-authority")

// Record names (discriminator inputs).
const (
	TransferAuthorityRecordName = "TransferAuthority"
	MarketplaceRecordName       = "Marketplace"
	ListingRecordName           = "Listing"
)

// Derivation seed labels.
const (
	TransferAuthorityLabel = "transfer-authority"
	MarketplaceLabel       = "marketplace"
	ListingLabel           = "listing"
)

// MaxNameLength bounds transfer authority and marketplace names.
const MaxNameLength = 32

// DeriveTransferAuthority computes the transfer authority address of a name.
func DeriveTransferAuthority(name string) (types.Address, uint8) {
	return types.FindProgramAddress(ProgramID, []byte(TransferAuthorityLabel), []byte(name))
}

// DeriveMarketplace computes the marketplace address of a name.
func DeriveMarketplace(name string) (types.Address, uint8) {
	return types.FindProgramAddress(ProgramID, []byte(MarketplaceLabel), []byte(name))
}

// DeriveListing computes the listing address of a token manager. At most
// one live listing exists per rental.
func DeriveListing(tokenManager types.Address) (types.Address, uint8) {
	return types.FindProgramAddress(ProgramID, []byte(ListingLabel), tokenManager[:])
}
