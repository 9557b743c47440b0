package paymentmanager_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/testutils/rental"
	"github.com/tokenlease-org/tokenlease-go/txsystem/paymentmanager"
	"github.com/tokenlease-org/tokenlease-go/types"
)

func TestInitRejectsBadConfig(t *testing.T) {
	e := rental.NewEnv(t)
	authority := e.Actor(t, "authority")

	_, err := e.PaymentManager.Init(paymentmanager.InitParams{
		Name: "", Authority: authority, Payer: authority,
	})
	require.ErrorIs(t, err, paymentmanager.ErrInvalidName)

	_, err = e.PaymentManager.Init(paymentmanager.InitParams{
		Name: "fees", Authority: authority, Payer: authority,
		MakerFeeBasisPoints: 10_001,
	})
	require.ErrorIs(t, err, paymentmanager.ErrInvalidBasisPoints)

	_, err = e.PaymentManager.Init(paymentmanager.InitParams{
		Name: "fees", Authority: authority, Payer: authority,
		RoyaltyFeeShare: 101,
	})
	require.ErrorIs(t, err, paymentmanager.ErrInvalidRoyaltyFeeShare)
}

func TestUpdateAuthorityOnly(t *testing.T) {
	e := rental.NewEnv(t)
	authority := e.Actor(t, "authority")
	stranger := e.Actor(t, "stranger")
	addr := e.NewPaymentManager(t, "fees", authority, authority, 100, 100, 50)

	err := e.PaymentManager.Update(paymentmanager.UpdateParams{
		PaymentManager: addr, Authority: stranger, FeeCollector: stranger,
	})
	require.ErrorIs(t, err, paymentmanager.ErrInvalidAuthority)

	require.NoError(t, e.PaymentManager.Update(paymentmanager.UpdateParams{
		PaymentManager: addr, Authority: authority, FeeCollector: stranger,
		MakerFeeBasisPoints: 50, TakerFeeBasisPoints: 75, RoyaltyFeeShare: 10,
	}))
	pm, err := e.PaymentManager.Load(addr)
	require.NoError(t, err)
	require.Equal(t, stranger, pm.FeeCollector)
	require.EqualValues(t, 50, pm.MakerFeeBasisPoints)
}

func TestSplitFeesRoyaltyBreakdown(t *testing.T) {
	pm := &paymentmanager.PaymentManager{
		MakerFeeBasisPoints: 200,
		TakerFeeBasisPoints: 300,
		RoyaltyFeeShare:     50,
	}
	creators := []ledger.Creator{
		{Address: types.NewAddress("creator-x"), Share: 70},
		{Address: types.NewAddress("creator-y"), Share: 30},
	}
	split, err := pm.SplitFees(1000, creators, types.BasisPointsDivisor)
	require.NoError(t, err)
	require.EqualValues(t, 20, split.MakerFee)
	require.EqualValues(t, 30, split.TakerFee)
	require.EqualValues(t, 50, split.TotalFee)
	require.EqualValues(t, 25, split.SplitFee)
	require.Equal(t, []uint64{17, 7}, split.CreatorFunds)
	require.EqualValues(t, 26, split.CollectorFee)

	// all legs always reconcile to maker+taker
	var creatorTotal uint64
	for _, f := range split.CreatorFunds {
		creatorTotal += f
	}
	require.Equal(t, split.TotalFee, creatorTotal+split.CollectorFee)
}

func TestSplitFeesNoCreators(t *testing.T) {
	pm := &paymentmanager.PaymentManager{MakerFeeBasisPoints: 100, TakerFeeBasisPoints: 400, RoyaltyFeeShare: 100}
	split, err := pm.SplitFees(10_000, nil, types.BasisPointsDivisor)
	require.NoError(t, err)
	require.EqualValues(t, 500, split.TotalFee)
	require.Empty(t, split.CreatorFunds)
	require.EqualValues(t, 500, split.CollectorFee)

	_, err = pm.SplitFees(1, nil, 0)
	require.ErrorIs(t, err, types.ErrDivisionByZero)
}

// paymentFixture funds a buyer/seller pair in a fungible payment mint with
// royalty metadata on a rented mint.
type paymentFixture struct {
	env          *rental.Env
	pmAddr       types.Address
	payMint      types.Address
	rentedMint   types.Address
	buyer        types.Address
	seller       types.Address
	collector    types.Address
	creatorX     types.Address
	creatorY     types.Address
	buyerToken   types.Address
	sellerToken  types.Address
	collToken    types.Address
	creatorXAcct types.Address
	creatorYAcct types.Address
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	e := rental.NewEnv(t)
	f := &paymentFixture{
		env:       e,
		buyer:     e.Actor(t, "buyer"),
		seller:    e.Actor(t, "seller"),
		collector: e.Actor(t, "collector"),
		creatorX:  e.Actor(t, "creator-x"),
		creatorY:  e.Actor(t, "creator-y"),
	}
	f.pmAddr = e.NewPaymentManager(t, "fees", f.collector, f.collector, 200, 300, 50)
	f.payMint = e.NewMint(t, "pay-mint", f.collector)
	f.rentedMint = e.NewMint(t, "rented-mint", f.seller)
	e.Ledger.SetMetadata(&ledger.Metadata{
		Mint: f.rentedMint,
		Creators: []ledger.Creator{
			{Address: f.creatorX, Share: 70},
			{Address: f.creatorY, Share: 30},
		},
	})
	f.buyerToken = e.MintTokenTo(t, f.payMint, f.buyer, 2_000, f.collector)
	var err error
	f.sellerToken, err = e.Ledger.EnsureTokenAccount(f.seller, f.payMint)
	require.NoError(t, err)
	f.collToken, err = e.Ledger.EnsureTokenAccount(f.collector, f.payMint)
	require.NoError(t, err)
	f.creatorXAcct, err = e.Ledger.EnsureTokenAccount(f.creatorX, f.payMint)
	require.NoError(t, err)
	f.creatorYAcct, err = e.Ledger.EnsureTokenAccount(f.creatorY, f.payMint)
	require.NoError(t, err)
	return f
}

func (f *paymentFixture) payment(amount uint64) paymentmanager.Payment {
	return paymentmanager.Payment{
		PaymentManager:           f.pmAddr,
		Payer:                    f.buyer,
		PayerTokenAccount:        f.buyerToken,
		TargetTokenAccount:       f.sellerToken,
		FeeCollectorTokenAccount: f.collToken,
		Mint:                     f.rentedMint,
		CreatorTokenAccounts:     []types.Address{f.creatorXAcct, f.creatorYAcct},
		Amount:                   amount,
	}
}

func TestHandlePaymentWithRoyalties(t *testing.T) {
	f := newPaymentFixture(t)
	e := f.env

	require.NoError(t, e.PaymentManager.HandlePaymentWithRoyalties(f.payment(1000)))

	require.EqualValues(t, 980, e.TokenBalance(t, f.seller, f.payMint))
	require.EqualValues(t, 17, e.TokenBalance(t, f.creatorX, f.payMint))
	require.EqualValues(t, 7, e.TokenBalance(t, f.creatorY, f.payMint))
	require.EqualValues(t, 26, e.TokenBalance(t, f.collector, f.payMint))
	// buyer pays the gross plus the taker fee
	require.EqualValues(t, 2_000-1030, e.TokenBalance(t, f.buyer, f.payMint))
}

func TestHandlePaymentCreatorAccountChecks(t *testing.T) {
	f := newPaymentFixture(t)
	e := f.env

	p := f.payment(1000)
	p.CreatorTokenAccounts = []types.Address{f.creatorXAcct}
	err := e.PaymentManager.HandlePaymentWithRoyalties(p)
	require.ErrorIs(t, err, paymentmanager.ErrInvalidCreatorTokenAccount)

	p = f.payment(1000)
	p.CreatorTokenAccounts = []types.Address{f.creatorXAcct, f.collToken}
	err = e.PaymentManager.HandlePaymentWithRoyalties(p)
	require.ErrorIs(t, err, paymentmanager.ErrInvalidCreatorTokenAccount)
}

func TestHandlePaymentNoMetadataPaysCollector(t *testing.T) {
	f := newPaymentFixture(t)
	e := f.env

	p := f.payment(1000)
	p.Mint = e.NewMint(t, "bare-mint", f.seller)
	p.CreatorTokenAccounts = nil
	require.NoError(t, e.PaymentManager.HandlePaymentWithRoyalties(p))
	require.EqualValues(t, 50, e.TokenBalance(t, f.collector, f.payMint))
	require.EqualValues(t, 980, e.TokenBalance(t, f.seller, f.payMint))
}

func TestHandlePaymentRejectsWrongCollector(t *testing.T) {
	f := newPaymentFixture(t)
	e := f.env

	p := f.payment(1000)
	p.FeeCollectorTokenAccount = f.sellerToken
	err := e.PaymentManager.HandlePaymentWithRoyalties(p)
	require.ErrorIs(t, err, paymentmanager.ErrInvalidFeeCollector)
}

func TestHandleNativePaymentWithRoyalties(t *testing.T) {
	f := newPaymentFixture(t)
	e := f.env
	sellerBefore := e.Ledger.Balance(f.seller)
	buyerBefore := e.Ledger.Balance(f.buyer)
	collectorBefore := e.Ledger.Balance(f.collector)

	require.NoError(t, e.PaymentManager.HandleNativePaymentWithRoyalties(paymentmanager.NativePayment{
		PaymentManager: f.pmAddr,
		Payer:          f.buyer,
		Target:         f.seller,
		Mint:           f.rentedMint,
		Amount:         1000,
	}))
	require.Equal(t, sellerBefore+980, e.Ledger.Balance(f.seller))
	require.Equal(t, buyerBefore-1030, e.Ledger.Balance(f.buyer))
	require.Equal(t, collectorBefore+26, e.Ledger.Balance(f.collector))
	require.Equal(t, rental.ActorLamports+17, int(e.Ledger.Balance(f.creatorX)))
	require.Equal(t, rental.ActorLamports+7, int(e.Ledger.Balance(f.creatorY)))
}

func TestCloseRefundsRent(t *testing.T) {
	e := rental.NewEnv(t)
	authority := e.Actor(t, "authority")
	sink := types.NewAddress("rent-sink")
	addr := e.NewPaymentManager(t, "fees", authority, authority, 0, 0, 0)

	err := e.PaymentManager.Close(addr, types.NewAddress("stranger"), sink)
	require.ErrorIs(t, err, paymentmanager.ErrInvalidAuthority)

	require.NoError(t, e.PaymentManager.Close(addr, authority, sink))
	require.False(t, e.Ledger.HasRecord(addr))
	require.NotZero(t, e.Ledger.Balance(sink))
}
