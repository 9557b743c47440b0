// Package rental provides test fixtures for the protocol handlers: a funded
// in-memory ledger with all program executors wired up, and shortcuts for
// the common init/issue/claim setup.
package rental

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/txsystem"
	"github.com/tokenlease-org/tokenlease-go/txsystem/claimapprover"
	"github.com/tokenlease-org/tokenlease-go/txsystem/paymentmanager"
	"github.com/tokenlease-org/tokenlease-go/txsystem/timeinvalidator"
	"github.com/tokenlease-org/tokenlease-go/txsystem/tokenmanager"
	"github.com/tokenlease-org/tokenlease-go/txsystem/transferauthority"
	"github.com/tokenlease-org/tokenlease-go/txsystem/useinvalidator"
	"github.com/tokenlease-org/tokenlease-go/types"
)

// ActorLamports is the native balance every fixture actor starts with,
// ample for rent and bounties.
const ActorLamports = 10_000_000_000

// Env is one ledger with every program executor attached.
type Env struct {
	Ledger *ledger.Ledger
	RT     *txsystem.Runtime

	TokenManager      *tokenmanager.Executor
	PaymentManager    *paymentmanager.Executor
	ClaimApprover     *claimapprover.Executor
	TimeInvalidator   *timeinvalidator.Executor
	UseInvalidator    *useinvalidator.Executor
	TransferAuthority *transferauthority.Executor
}

func NewEnv(t *testing.T) *Env {
	t.Helper()
	l := ledger.New()
	l.SetTimestamp(1_700_000_000)
	rt := txsystem.NewRuntime(l, types.DefaultConfig())
	tm := tokenmanager.NewExecutor(rt)
	pm := paymentmanager.NewExecutor(rt)
	return &Env{
		Ledger:            l,
		RT:                rt,
		TokenManager:      tm,
		PaymentManager:    pm,
		ClaimApprover:     claimapprover.NewExecutor(rt, tm, pm),
		TimeInvalidator:   timeinvalidator.NewExecutor(rt, tm, pm),
		UseInvalidator:    useinvalidator.NewExecutor(rt, tm, pm),
		TransferAuthority: transferauthority.NewExecutor(rt, tm, pm),
	}
}

// Actor derives a labeled address and funds it with native balance.
func (e *Env) Actor(t *testing.T, label string) types.Address {
	t.Helper()
	addr := types.NewAddress(label)
	e.Ledger.Fund(addr, ActorLamports)
	return addr
}

// NewMint creates a mint with the given authority over both supply and
// freezing.
func (e *Env) NewMint(t *testing.T, label string, authority types.Address) types.Address {
	t.Helper()
	mint := types.NewAddress(label)
	require.NoError(t, e.Ledger.CreateMint(mint, 0, &authority, &authority))
	return mint
}

// MintTokenTo mints amount into owner's associated account and returns the
// account address.
func (e *Env) MintTokenTo(t *testing.T, mint, owner types.Address, amount uint64, authority types.Address) types.Address {
	t.Helper()
	acc, err := e.Ledger.EnsureTokenAccount(owner, mint)
	require.NoError(t, err)
	require.NoError(t, e.Ledger.MintTo(mint, acc, amount, authority))
	return acc
}

// TokenBalance reads the balance of owner's associated account, zero when
// the account does not exist.
func (e *Env) TokenBalance(t *testing.T, owner, mint types.Address) uint64 {
	t.Helper()
	addr := ledger.AssociatedTokenAddress(owner, mint)
	if !e.Ledger.HasTokenAccount(addr) {
		return 0
	}
	acc, err := e.Ledger.Token(addr)
	require.NoError(t, err)
	return acc.Amount
}

// Rental is the state of one initialized rental fixture.
type Rental struct {
	Issuer             types.Address
	Mint               types.Address
	IssuerTokenAccount types.Address
	TokenManager       types.Address
}

// InitRental mints one token to the issuer and initializes a token manager
// for it.
func (e *Env) InitRental(t *testing.T, issuer types.Address, mintLabel string, numInvalidators uint8) *Rental {
	t.Helper()
	mint := e.NewMint(t, mintLabel, issuer)
	src := e.MintTokenTo(t, mint, issuer, 1, issuer)
	tmAddr, err := e.TokenManager.Init(tokenmanager.InitParams{
		Mint:               mint,
		Issuer:             issuer,
		IssuerTokenAccount: src,
		NumInvalidators:    numInvalidators,
	})
	require.NoError(t, err)
	return &Rental{Issuer: issuer, Mint: mint, IssuerTokenAccount: src, TokenManager: tmAddr}
}

// Issue moves the rental to Issued.
func (e *Env) Issue(t *testing.T, r *Rental, kind tokenmanager.Kind, it tokenmanager.InvalidationType) {
	t.Helper()
	require.NoError(t, e.TokenManager.Issue(tokenmanager.IssueParams{
		TokenManager:       r.TokenManager,
		Issuer:             r.Issuer,
		IssuerTokenAccount: r.IssuerTokenAccount,
		Amount:             1,
		Kind:               kind,
		InvalidationType:   it,
	}))
}

// Claim moves the rental to Claimed for the recipient's associated account.
func (e *Env) Claim(t *testing.T, r *Rental, recipient types.Address) {
	t.Helper()
	require.NoError(t, e.TokenManager.Claim(tokenmanager.ClaimParams{
		TokenManager: r.TokenManager,
		Recipient:    recipient,
	}))
}

// NewPaymentManager creates a payment manager with the given fee schedule.
func (e *Env) NewPaymentManager(t *testing.T, name string, authority, feeCollector types.Address, makerBps, takerBps uint16, royaltyShare uint64) types.Address {
	t.Helper()
	addr, err := e.PaymentManager.Init(paymentmanager.InitParams{
		Name:                name,
		Authority:           authority,
		FeeCollector:        feeCollector,
		MakerFeeBasisPoints: makerBps,
		TakerFeeBasisPoints: takerBps,
		RoyaltyFeeShare:     royaltyShare,
		Payer:               authority,
	})
	require.NoError(t, err)
	return addr
}
