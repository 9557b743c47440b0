package useinvalidator

import "github.com/tokenlease-org/tokenlease-go/types"

// Operation opcodes, wire-stable.
const (
	OpInit byte = iota
	OpIncrementUsages
	OpExtendUsages
	OpInvalidate
	OpClose
)

type (
	InitAttributes struct {
		Collector              types.Address
		PaymentManager         types.Address
		TotalUsages            *uint64
		MaxUsages              *uint64
		UseAuthority           *types.Address
		ExtensionPaymentAmount *uint64
		ExtensionPaymentMint   *types.Address
		ExtensionUsages        *uint64
	}

	IncrementUsagesAttributes struct {
		Usages uint64
	}

	ExtendUsagesAttributes struct {
		PaymentAmount uint64
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
	// increment, invalidate, close: caller, use invalidator
	touchAccountCaller = iota
	touchAccountUseInvalidator
	touchAccountCount
)

const (
	// extend usages: payer, use invalidator, payer token account, fee
	// collector token account, then one token account per royalty creator
	extendAccountPayer = iota
	extendAccountUseInvalidator
	extendAccountPayerToken
	extendAccountFeeCollectorToken
	extendAccountFixedCount
)
