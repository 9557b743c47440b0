package timeinvalidator

import "github.com/tokenlease-org/tokenlease-go/types"

// Operation opcodes, wire-stable.
const (
	OpInit byte = iota
	OpSetExpiration
	OpResetExpiration
	OpExtendExpiration
	OpUpdateMaxExpiration
	OpInvalidate
	OpClose
)

type (
	InitAttributes struct {
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

	ExtendExpirationAttributes struct {
		PaymentAmount uint64
	}

	UpdateMaxExpirationAttributes struct {
		MaxExpiration int64
	}
)

// Account order per operation. The first account is always the signer.
const (
	// init: issuer, token manager
	initAccountIssuer = iota
	initAccountTokenManager
	initAccountCount
)

const (
	// set/reset expiration, invalidate, close: caller, time invalidator
	touchAccountCaller = iota
	touchAccountTimeInvalidator
	touchAccountCount
)

const (
	// extend expiration: payer, time invalidator, payer token account, fee
	// collector token account, receipt token account (zero unless a receipt
	// mint is set), then one token account per royalty creator
	extendAccountPayer = iota
	extendAccountTimeInvalidator
	extendAccountPayerToken
	extendAccountFeeCollectorToken
	extendAccountReceiptToken
	extendAccountFixedCount
)

const (
	// update max expiration: issuer, time invalidator
	updateMaxAccountIssuer = iota
	updateMaxAccountTimeInvalidator
	updateMaxAccountCount
)
