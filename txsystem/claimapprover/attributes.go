package claimapprover

import "github.com/tokenlease-org/tokenlease-go/types"

// Operation opcodes, wire-stable.
const (
	OpInit byte = iota
	OpPay
	OpClose
)

type (
	InitAttributes struct {
		PaymentMint    types.Address
		PaymentAmount  uint64
		PaymentManager types.Address
		Collector      types.Address
	}

	PayAttributes struct{}

	CloseAttributes struct{}
)

// Account order per operation. The first account is always the signer.
const (
	// init: issuer, token manager
	initAccountIssuer = iota
	initAccountTokenManager
	initAccountCount
)

const (
	// pay: payer, claim approver, payer token account, fee collector token
	// account, then one token account per royalty creator
	payAccountPayer = iota
	payAccountClaimApprover
	payAccountPayerToken
	payAccountFeeCollectorToken
	payAccountFixedCount
)

const (
	// close: caller, claim approver
	closeAccountCaller = iota
	closeAccountClaimApprover
	closeAccountCount
)
