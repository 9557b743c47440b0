package timeinvalidator

import (
	"github.com/tokenlease-org/tokenlease-go/types"
)

// TimeInvalidator ends a rental at a wall-clock deadline. The deadline is
// either an absolute Expiration, or StateChangedAt plus DurationSeconds once
// the rental is claimed. Extensions buy more seconds at a linear price up to
// MaxExpiration.
type TimeInvalidator struct {
	Bump                     uint8
	TokenManager             types.Address
	Collector                types.Address
	PaymentManager           types.Address
	Expiration               *int64
	DurationSeconds          *int64
	MaxExpiration            *int64
	ExtensionPaymentAmount   *uint64
	ExtensionDurationSeconds *int64
	ExtensionPaymentMint     *types.Address
	DisablePartialExtension  bool
}

// hasExtension reports whether all extension pricing fields are configured.
func (ti *TimeInvalidator) hasExtension() bool {
	return ti.ExtensionPaymentAmount != nil && ti.ExtensionDurationSeconds != nil && ti.ExtensionPaymentMint != nil
}
