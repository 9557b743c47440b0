package useinvalidator

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

// UseInvalidator ends a rental after a number of discrete uses. TotalUsages
// is the live ceiling grown by paid extensions; MaxUsages is the absolute
// cap no extension may exceed. With neither set, usages are counted but the
// rental never becomes invalidatable on use count alone.
type UseInvalidator struct {
	Bump                   uint8
	TokenManager           types.Address
	Collector              types.Address
	PaymentManager         types.Address
	Usages                 uint64
	TotalUsages            *uint64
	MaxUsages              *uint64
	UseAuthority           *types.Address
	ExtensionPaymentAmount *uint64
	ExtensionPaymentMint   *types.Address
	ExtensionUsages        *uint64
}

// ceiling returns the current usage limit and whether one exists.
func (ui *UseInvalidator) ceiling() (uint64, bool) {
	if ui.TotalUsages != nil {
		return *ui.TotalUsages, true
	}
	if ui.MaxUsages != nil {
		return *ui.MaxUsages, true
	}
	return 0, false
}

func (ui *UseInvalidator) hasExtension() bool {
	return ui.ExtensionPaymentAmount != nil && ui.ExtensionPaymentMint != nil && ui.ExtensionUsages != nil
}
