package claimapprover_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/testutils/rental"
	"github.com/tokenlease-org/tokenlease-go/txsystem/claimapprover"
	"github.com/tokenlease-org/tokenlease-go/txsystem/tokenmanager"
	"github.com/tokenlease-org/tokenlease-go/types"
)

type approverFixture struct {
	env       *rental.Env
	rental    *rental.Rental
	issuer    types.Address
	payer     types.Address
	collector types.Address
	payMint   types.Address
	payerAcct types.Address
	collAcct  types.Address
	pmAddr    types.Address
	caAddr    types.Address
}

const claimPrice = 1000

func newApproverFixture(t *testing.T, withPaymentManager bool) *approverFixture {
	e := rental.NewEnv(t)
	f := &approverFixture{
		env:       e,
		issuer:    e.Actor(t, "issuer"),
		payer:     e.Actor(t, "payer"),
		collector: e.Actor(t, "collector"),
	}
	f.rental = e.InitRental(t, f.issuer, "rented-mint", 0)
	f.payMint = e.NewMint(t, "pay-mint", f.collector)
	f.payerAcct = e.MintTokenTo(t, f.payMint, f.payer, 5_000, f.collector)
	var err error
	f.collAcct, err = e.Ledger.EnsureTokenAccount(f.collector, f.payMint)
	require.NoError(t, err)

	f.pmAddr = types.NewAddress("absent-payment-manager")
	if withPaymentManager {
		f.pmAddr = e.NewPaymentManager(t, "fees", f.collector, f.collector, 200, 300, 0)
	}
	f.caAddr, err = e.ClaimApprover.Init(claimapprover.InitParams{
		TokenManager:   f.rental.TokenManager,
		Issuer:         f.issuer,
		PaymentMint:    f.payMint,
		PaymentAmount:  claimPrice,
		PaymentManager: f.pmAddr,
		Collector:      f.collector,
	})
	require.NoError(t, err)
	return f
}

func (f *approverFixture) pay(t *testing.T) error {
	t.Helper()
	return f.env.ClaimApprover.Pay(claimapprover.PayParams{
		ClaimApprover:            f.caAddr,
		Payer:                    f.payer,
		PayerTokenAccount:        f.payerAcct,
		FeeCollectorTokenAccount: f.collAcct,
	})
}

func TestInitInstallsApprover(t *testing.T) {
	f := newApproverFixture(t, false)
	e := f.env

	tm, err := e.TokenManager.Load(f.rental.TokenManager)
	require.NoError(t, err)
	require.NotNil(t, tm.ClaimApprover)
	require.Equal(t, f.caAddr, *tm.ClaimApprover)

	_, err = e.ClaimApprover.Init(claimapprover.InitParams{
		TokenManager: f.rental.TokenManager,
		Issuer:       f.issuer,
	})
	require.ErrorIs(t, err, ledger.ErrAccountExists)

	other := e.InitRental(t, f.issuer, "another-mint", 0)
	_, err = e.ClaimApprover.Init(claimapprover.InitParams{
		TokenManager: other.TokenManager,
		Issuer:       e.Actor(t, "stranger"),
	})
	require.ErrorIs(t, err, claimapprover.ErrInvalidIssuer)
}

func TestPayIssuesReceiptAndGatesClaim(t *testing.T) {
	f := newApproverFixture(t, false)
	e := f.env
	e.Issue(t, f.rental, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)

	// unpaid claims are rejected
	err := e.TokenManager.Claim(tokenmanager.ClaimParams{
		TokenManager: f.rental.TokenManager, Recipient: f.payer,
	})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidClaimReceipt)

	require.NoError(t, f.pay(t))
	// without a live payment manager the full price goes to the issuer
	require.EqualValues(t, claimPrice, e.TokenBalance(t, f.issuer, f.payMint))

	err = f.pay(t)
	require.ErrorIs(t, err, claimapprover.ErrAlreadyPaid)

	receiptAddr, _ := tokenmanager.DeriveClaimReceipt(f.rental.TokenManager, f.payer)
	require.True(t, e.Ledger.HasRecord(receiptAddr))

	e.Claim(t, f.rental, f.payer)
	require.EqualValues(t, 1, e.TokenBalance(t, f.payer, f.rental.Mint))
	require.False(t, e.Ledger.HasRecord(receiptAddr))
}

func TestPaySplitsThroughPaymentManager(t *testing.T) {
	f := newApproverFixture(t, true)
	e := f.env
	e.Issue(t, f.rental, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)

	require.NoError(t, f.pay(t))
	// maker 2% off the issuer leg, maker+taker to the collector
	require.EqualValues(t, claimPrice-20, e.TokenBalance(t, f.issuer, f.payMint))
	require.EqualValues(t, 50, e.TokenBalance(t, f.collector, f.payMint))
	require.EqualValues(t, 5_000-claimPrice-30, e.TokenBalance(t, f.payer, f.payMint))
}

func TestPayValidation(t *testing.T) {
	f := newApproverFixture(t, false)
	e := f.env
	e.Issue(t, f.rental, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)

	wrongMint := e.NewMint(t, "wrong-mint", f.collector)
	wrongAcct := e.MintTokenTo(t, wrongMint, f.payer, claimPrice, f.collector)
	err := e.ClaimApprover.Pay(claimapprover.PayParams{
		ClaimApprover:     f.caAddr,
		Payer:             f.payer,
		PayerTokenAccount: wrongAcct,
	})
	require.ErrorIs(t, err, claimapprover.ErrInvalidPaymentMint)

	err = e.ClaimApprover.Pay(claimapprover.PayParams{
		ClaimApprover:     f.caAddr,
		Payer:             f.payer,
		PayerTokenAccount: f.collAcct,
	})
	require.ErrorIs(t, err, claimapprover.ErrInvalidPaymentTokenAccount)
}

func TestPayRejectsDetachedApprover(t *testing.T) {
	f := newApproverFixture(t, false)
	e := f.env

	// the issuer swaps in a different approver before issuing
	require.NoError(t, e.TokenManager.SetClaimApprover(f.rental.TokenManager, f.issuer, e.Actor(t, "replacement")))
	e.Issue(t, f.rental, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)

	err := f.pay(t)
	require.ErrorIs(t, err, claimapprover.ErrInvalidTokenManager)
}

func TestCloseRules(t *testing.T) {
	f := newApproverFixture(t, false)
	e := f.env

	// Initialized: only the issuer may detach it early
	err := e.ClaimApprover.Close(f.caAddr, e.Actor(t, "stranger"))
	require.ErrorIs(t, err, claimapprover.ErrTokenManagerAlive)

	e.Issue(t, f.rental, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)
	require.NoError(t, f.pay(t))
	e.Claim(t, f.rental, f.payer)

	err = e.ClaimApprover.Close(f.caAddr, f.issuer)
	require.ErrorIs(t, err, claimapprover.ErrTokenManagerAlive)

	// the holder returns the rental; with the token manager gone anyone
	// may reclaim the approver's rent for the collector
	require.NoError(t, e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: f.rental.TokenManager, Caller: f.payer, Collector: f.issuer,
	}))
	collBefore := e.Ledger.Balance(f.collector)
	require.NoError(t, e.ClaimApprover.Close(f.caAddr, e.Actor(t, "anyone")))
	require.False(t, e.Ledger.HasRecord(f.caAddr))
	require.Greater(t, e.Ledger.Balance(f.collector), collBefore)
}

func TestCloseByIssuerWhileInitialized(t *testing.T) {
	f := newApproverFixture(t, false)
	e := f.env
	require.NoError(t, e.ClaimApprover.Close(f.caAddr, f.issuer))
	require.False(t, e.Ledger.HasRecord(f.caAddr))
}
