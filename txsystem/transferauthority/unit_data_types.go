package transferauthority

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

// TransferAuthority is a named principal that mints transfer receipts for
// the rentals it is installed on. A nil AllowedMarketplaces means any
// marketplace may list its tokens.
type TransferAuthority struct {
	Bump                uint8
	Name                string
	Authority           types.Address
	AllowedMarketplaces *[]types.Address
}

// AllowsMarketplace reports whether marketplace may attach listings.
func (ta *TransferAuthority) AllowsMarketplace(marketplace types.Address) bool {
	if ta.AllowedMarketplaces == nil {
		return true
	}
	for _, m := range *ta.AllowedMarketplaces {
		if m.Eq(marketplace) {
			return true
		}
	}
	return false
}

// Marketplace names a transfer authority and the payment manager that
// splits its sale proceeds. A nil PaymentMints means any mint is accepted.
type Marketplace struct {
	Bump              uint8
	Name              string
	TransferAuthority types.Address
	PaymentManager    types.Address
	Authority         types.Address
	PaymentMints      *[]types.Address
}

// AcceptsMint reports whether mint is a legal listing currency.
func (m *Marketplace) AcceptsMint(mint types.Address) bool {
	if m.PaymentMints == nil {
		return true
	}
	for _, pm := range *m.PaymentMints {
		if pm.Eq(mint) {
			return true
		}
	}
	return false
}

// Listing advertises a claimed rental for sale at a price. Destroyed on buy
// or cancel.
type Listing struct {
	Bump          uint8
	Lister        types.Address
	TokenManager  types.Address
	Marketplace   types.Address
	PaymentAmount uint64
	PaymentMint   types.Address
}
