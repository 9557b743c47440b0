package tokenmanager

import "github.com/tokenlease-org/tokenlease-go/types"

// Operation opcodes, wire-stable.
const (
	OpInit byte = iota
	OpUninit
	OpSetClaimApprover
	OpSetTransferAuthority
	OpSetReceiptMint
	OpAddInvalidator
	OpUpdateInvalidators
	OpReplaceInvalidator
	OpUpdateInvalidationType
	OpIssue
	OpUnissue
	OpClaim
	OpCreateClaimReceipt
	OpCreateTransferReceipt
	OpTransfer
	OpInvalidate
	OpCreateMintManager
	OpCloseMintManager
)

type (
	InitAttributes struct {
		NumInvalidators uint8
	}

	IssueAttributes struct {
		Amount           uint64
		Kind             uint8
		InvalidationType uint8
	}

	UpdateInvalidatorsAttributes struct {
		Invalidators []types.Address
	}

	UpdateInvalidationTypeAttributes struct {
		InvalidationType uint8
	}
)

// Account order per operation. The first account is always the signer.
const (
	// init: issuer, mint, issuer token account
	initAccountIssuer = iota
	initAccountMint
	initAccountIssuerToken
	initAccountCount
)

const (
	// uninit: issuer, token manager
	uninitAccountIssuer = iota
	uninitAccountTokenManager
	uninitAccountCount
)

const (
	// configure (set claim approver / transfer authority / receipt mint,
	// add or replace invalidator, update invalidation type): issuer or
	// invalidator, token manager, the address being installed
	configAccountSigner = iota
	configAccountTokenManager
	configAccountTarget
	configAccountCount
)

const (
	// update invalidators: invalidator, token manager; the new set rides in
	// the attributes
	updateInvAccountSigner = iota
	updateInvAccountTokenManager
	updateInvAccountCount
)

const (
	// issue: issuer, token manager, issuer token account
	issueAccountIssuer = iota
	issueAccountTokenManager
	issueAccountIssuerToken
	issueAccountCount
)

const (
	// claim: recipient, token manager, recipient token account (zero for
	// the associated account)
	claimAccountRecipient = iota
	claimAccountTokenManager
	claimAccountRecipientToken
	claimAccountCount
)

const (
	// create claim receipt: claim approver, token manager, target
	claimReceiptAccountApprover = iota
	claimReceiptAccountTokenManager
	claimReceiptAccountTarget
	claimReceiptAccountCount
)

const (
	// create transfer receipt: transfer authority, token manager, target
	transferReceiptAccountAuthority = iota
	transferReceiptAccountTokenManager
	transferReceiptAccountTarget
	transferReceiptAccountCount
)

const (
	// transfer: new recipient, token manager, current holder token account,
	// new recipient token account (zero for the associated account)
	transferAccountNewRecipient = iota
	transferAccountTokenManager
	transferAccountCurrentToken
	transferAccountNewToken
	transferAccountCount
)

const (
	// invalidate: caller, token manager, rent collector, receipt token
	// account (zero unless a receipt mint is set)
	invalidateAccountCaller = iota
	invalidateAccountTokenManager
	invalidateAccountCollector
	invalidateAccountReceiptToken
	invalidateAccountCount
)

const (
	// create mint manager: initializer (current freeze authority), mint
	mintManagerAccountInitializer = iota
	mintManagerAccountMint
	mintManagerAccountCount
)

const (
	// close mint manager: initializer, mint manager
	closeMintManagerAccountCaller = iota
	closeMintManagerAccountMintManager
	closeMintManagerAccountCount
)
