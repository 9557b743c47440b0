package paymentmanager

// Operation opcodes, wire-stable.
const (
	OpInit byte = iota
	OpUpdate
	OpClose
	OpHandlePaymentWithRoyalties
	OpHandleNativePaymentWithRoyalties
)

type (
	InitAttributes struct {
		Name                string
		MakerFeeBasisPoints uint16
		TakerFeeBasisPoints uint16
		RoyaltyFeeShare     uint64
	}

	UpdateAttributes struct {
		MakerFeeBasisPoints uint16
		TakerFeeBasisPoints uint16
		RoyaltyFeeShare     uint64
	}

	CloseAttributes struct{}

	HandlePaymentAttributes struct {
		Amount uint64
	}
)

// Account order per operation. The first account is always the signer.
const (
	// init: payer, authority, fee collector
	initAccountPayer = iota
	initAccountAuthority
	initAccountFeeCollector
	initAccountCount
)

const (
	// update: authority, payment manager, fee collector
	updateAccountAuthority = iota
	updateAccountPaymentManager
	updateAccountFeeCollector
	updateAccountCount
)

const (
	// close: authority, payment manager, rent refund target
	closeAccountAuthority = iota
	closeAccountPaymentManager
	closeAccountRefundTo
	closeAccountCount
)

const (
	// handle payment: payer, payment manager, payer token account, target
	// token account, fee collector token account, rented mint, then one
	// token account per royalty creator
	paymentAccountPayer = iota
	paymentAccountPaymentManager
	paymentAccountPayerToken
	paymentAccountTargetToken
	paymentAccountFeeCollectorToken
	paymentAccountMint
	paymentAccountFixedCount
)

const (
	// handle native payment: payer, payment manager, target, rented mint
	nativePaymentAccountPayer = iota
	nativePaymentAccountPaymentManager
	nativePaymentAccountTarget
	nativePaymentAccountMint
	nativePaymentAccountCount
)
