package tokenmanager

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/types"
)

// State of the rental lifecycle. Wire-stable, do not reorder.
type State uint8

const (
	StateInitialized State = 0
	StateIssued      State = 1
	StateClaimed     State = 2
	StateInvalidated State = 3
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "Initialized"
	case StateIssued:
		return "Issued"
	case StateClaimed:
		return "Claimed"
	case StateInvalidated:
		return "Invalidated"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Kind is the freeze discipline of a rental. Wire-stable, extend by
// appending, never by renumbering.
type Kind uint8

const (
	KindManaged      Kind = 1
	KindUnmanaged    Kind = 2
	KindEdition      Kind = 3
	KindPermissioned Kind = 4
	KindProgrammable Kind = 5
)

func (k Kind) Valid() bool {
	return k >= KindManaged && k <= KindProgrammable
}

// usesMintManager reports whether claimed rentals of this kind freeze the
// recipient account under the mint manager's authority.
func (k Kind) usesMintManager() bool {
	return k == KindManaged || k == KindPermissioned
}

// InvalidationType is the policy applied when a rental ends. Wire-stable.
type InvalidationType uint8

const (
	InvalidationReturn     InvalidationType = 1
	InvalidationInvalidate InvalidationType = 2
	InvalidationRelease    InvalidationType = 3
	InvalidationReissue    InvalidationType = 4
	InvalidationVest       InvalidationType = 5
)

func (t InvalidationType) Valid() bool {
	return t >= InvalidationReturn && t <= InvalidationVest
}

// TokenManager is the central record: the state machine escrowing one
// rented token, identified by its mint.
type TokenManager struct {
	State                 State
	Kind                  Kind
	InvalidationType      InvalidationType
	Issuer                types.Address
	Mint                  types.Address
	Amount                uint64
	RecipientTokenAccount types.Address
	ClaimApprover         *types.Address
	// TransferAuthority equal to the token manager's own address is the
	// sentinel: transfers stay disabled until one is explicitly set.
	TransferAuthority *types.Address
	ReceiptMint       *types.Address
	NumInvalidators   uint8
	Invalidators      []types.Address
	Count             uint64
	StateChangedAt    int64
	Bump              uint8
}

// HasInvalidator reports whether key is in the invalidator set.
func (tm *TokenManager) HasInvalidator(key types.Address) bool {
	for _, inv := range tm.Invalidators {
		if inv.Eq(key) {
			return true
		}
	}
	return false
}

// TransfersEnabled reports whether a real transfer authority is installed,
// selfAddr being the token manager's own address.
func (tm *TokenManager) TransfersEnabled(selfAddr types.Address) bool {
	return tm.TransferAuthority != nil && !tm.TransferAuthority.Eq(selfAddr)
}

// MintCounter counts the token managers ever created for a mint. Monotonic.
type MintCounter struct {
	Bump  uint8
	Mint  types.Address
	Count uint64
}

// MintManager holds the freeze authority of a mint on behalf of potentially
// many concurrent token managers. TokenManagers is the number of outstanding
// claimed Managed/Permissioned rentals currently freezing this mint.
type MintManager struct {
	Bump          uint8
	Mint          types.Address
	Initializer   types.Address
	TokenManagers uint64
}

// ClaimReceipt is a single-use proof that its target passed the claim gate
// of one specific rental. MintCount pins the receipt to the rental cycle so
// stale receipts of an earlier rental of the same mint are not accepted.
type ClaimReceipt struct {
	Bump         uint8
	MintCount    uint64
	TokenManager types.Address
	Target       types.Address
}

// TransferReceipt is the single-use proof permitting a claimed token to move
// to its target.
type TransferReceipt struct {
	Bump         uint8
	MintCount    uint64
	TokenManager types.Address
	Target       types.Address
}
