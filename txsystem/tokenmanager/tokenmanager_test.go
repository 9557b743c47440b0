package tokenmanager_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/testutils/rental"
	"github.com/tokenlease-org/tokenlease-go/txsystem/tokenmanager"
	"github.com/tokenlease-org/tokenlease-go/types"
)

func TestInitAndUninit(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	r := e.InitRental(t, issuer, "mint", 1)

	tm, err := e.TokenManager.Load(r.TokenManager)
	require.NoError(t, err)
	require.Equal(t, tokenmanager.StateInitialized, tm.State)
	require.EqualValues(t, 1, tm.Count)
	require.False(t, tm.TransfersEnabled(r.TokenManager))

	err = e.TokenManager.Uninit(r.TokenManager, e.Actor(t, "stranger"))
	require.ErrorIs(t, err, tokenmanager.ErrInvalidIssuer)

	require.NoError(t, e.TokenManager.Uninit(r.TokenManager, issuer))
	require.False(t, e.Ledger.HasRecord(r.TokenManager))

	// the mint counter is monotonic across rental cycles
	again, err := e.TokenManager.Init(tokenmanager.InitParams{
		Mint: r.Mint, Issuer: issuer, IssuerTokenAccount: r.IssuerTokenAccount,
	})
	require.NoError(t, err)
	tm, err = e.TokenManager.Load(again)
	require.NoError(t, err)
	require.EqualValues(t, 2, tm.Count)
}

func TestInitValidation(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	mint := e.NewMint(t, "mint", issuer)
	src := e.MintTokenTo(t, mint, issuer, 1, issuer)

	_, err := e.TokenManager.Init(tokenmanager.InitParams{
		Mint: mint, Issuer: issuer, IssuerTokenAccount: src,
		NumInvalidators: types.MaxInvalidators + 1,
	})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidatorsTooBig)

	other := e.Actor(t, "other")
	otherAcc, err := e.Ledger.EnsureTokenAccount(other, mint)
	require.NoError(t, err)
	_, err = e.TokenManager.Init(tokenmanager.InitParams{
		Mint: mint, Issuer: issuer, IssuerTokenAccount: otherAcc,
	})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidIssuerTokenAccount)

	_, err = e.TokenManager.Init(tokenmanager.InitParams{
		Mint: mint, Issuer: other, IssuerTokenAccount: otherAcc,
	})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidAmount)

	_, err = e.TokenManager.Init(tokenmanager.InitParams{
		Mint: mint, Issuer: issuer, IssuerTokenAccount: src,
		NumInvalidators: types.MaxInvalidators,
	})
	require.NoError(t, err)

	_, err = e.TokenManager.Init(tokenmanager.InitParams{
		Mint: mint, Issuer: issuer, IssuerTokenAccount: src,
	})
	require.ErrorIs(t, err, ledger.ErrAccountExists)
}

func TestConfigRequiresInitializedState(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	r := e.InitRental(t, issuer, "mint", 1)
	stranger := e.Actor(t, "stranger")

	err := e.TokenManager.SetClaimApprover(r.TokenManager, stranger, stranger)
	require.ErrorIs(t, err, tokenmanager.ErrInvalidIssuer)

	e.Issue(t, r, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)
	err = e.TokenManager.SetClaimApprover(r.TokenManager, issuer, stranger)
	require.ErrorIs(t, err, tokenmanager.ErrInvalidState)
	err = e.TokenManager.SetTransferAuthority(r.TokenManager, issuer, stranger)
	require.ErrorIs(t, err, tokenmanager.ErrInvalidState)
}

func TestInvalidatorSetOperations(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	r := e.InitRental(t, issuer, "mint", 2)
	invA := e.Actor(t, "invalidator-a")
	invB := e.Actor(t, "invalidator-b")
	invC := e.Actor(t, "invalidator-c")

	require.NoError(t, e.TokenManager.AddInvalidator(r.TokenManager, issuer, invA))
	err := e.TokenManager.AddInvalidator(r.TokenManager, issuer, invA)
	require.ErrorIs(t, err, tokenmanager.ErrDuplicateInvalidator)
	require.NoError(t, e.TokenManager.AddInvalidator(r.TokenManager, issuer, invB))
	err = e.TokenManager.AddInvalidator(r.TokenManager, issuer, invC)
	require.ErrorIs(t, err, tokenmanager.ErrInvalidatorsTooBig)

	err = e.TokenManager.UpdateInvalidators(r.TokenManager, invC, []types.Address{invC})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidInvalidator)
	err = e.TokenManager.UpdateInvalidators(r.TokenManager, invA, nil)
	require.ErrorIs(t, err, tokenmanager.ErrEmptyInvalidators)
	err = e.TokenManager.UpdateInvalidators(r.TokenManager, invA, []types.Address{invA, invB, invC})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidatorsTooBig)
	err = e.TokenManager.UpdateInvalidators(r.TokenManager, invA, []types.Address{invC, invC})
	require.ErrorIs(t, err, tokenmanager.ErrDuplicateInvalidator)
	require.NoError(t, e.TokenManager.UpdateInvalidators(r.TokenManager, invA, []types.Address{invC}))

	tm, err := e.TokenManager.Load(r.TokenManager)
	require.NoError(t, err)
	require.Equal(t, []types.Address{invC}, tm.Invalidators)

	err = e.TokenManager.ReplaceInvalidator(r.TokenManager, invA, invB)
	require.ErrorIs(t, err, tokenmanager.ErrInvalidInvalidator)
	require.NoError(t, e.TokenManager.ReplaceInvalidator(r.TokenManager, invC, invA))
	tm, err = e.TokenManager.Load(r.TokenManager)
	require.NoError(t, err)
	require.True(t, tm.HasInvalidator(invA))
	require.False(t, tm.HasInvalidator(invC))
}

func TestUpdateInvalidationType(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	r := e.InitRental(t, issuer, "mint", 0)
	e.Issue(t, r, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)

	err := e.TokenManager.UpdateInvalidationType(r.TokenManager, e.Actor(t, "stranger"), tokenmanager.InvalidationReissue)
	require.ErrorIs(t, err, tokenmanager.ErrInvalidIssuer)

	require.NoError(t, e.TokenManager.UpdateInvalidationType(r.TokenManager, issuer, tokenmanager.InvalidationReissue))
	require.NoError(t, e.TokenManager.UpdateInvalidationType(r.TokenManager, issuer, tokenmanager.InvalidationReturn))

	err = e.TokenManager.UpdateInvalidationType(r.TokenManager, issuer, tokenmanager.InvalidationRelease)
	require.ErrorIs(t, err, tokenmanager.ErrInvalidInvalidationChange)
}

func TestIssueValidation(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	r := e.InitRental(t, issuer, "mint", 0)

	issue := func(amount uint64, kind tokenmanager.Kind, it tokenmanager.InvalidationType) error {
		return e.TokenManager.Issue(tokenmanager.IssueParams{
			TokenManager:       r.TokenManager,
			Issuer:             r.Issuer,
			IssuerTokenAccount: r.IssuerTokenAccount,
			Amount:             amount,
			Kind:               kind,
			InvalidationType:   it,
		})
	}

	require.ErrorIs(t, issue(0, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn), tokenmanager.ErrInvalidAmount)
	require.ErrorIs(t, issue(1, tokenmanager.Kind(0), tokenmanager.InvalidationReturn), tokenmanager.ErrInvalidKind)
	require.ErrorIs(t, issue(1, tokenmanager.KindUnmanaged, tokenmanager.InvalidationType(0)), tokenmanager.ErrInvalidInvalidationType)
	require.ErrorIs(t, issue(1, tokenmanager.KindUnmanaged, tokenmanager.InvalidationType(6)), tokenmanager.ErrInvalidInvalidationType)
	// a permissioned rental can only release
	require.ErrorIs(t, issue(1, tokenmanager.KindPermissioned, tokenmanager.InvalidationReturn), tokenmanager.ErrInvalidInvalidationKind)
	// vesting needs a claim gate deciding who vests
	require.ErrorIs(t, issue(1, tokenmanager.KindUnmanaged, tokenmanager.InvalidationVest), tokenmanager.ErrClaimApproverRequired)

	err := e.TokenManager.Issue(tokenmanager.IssueParams{
		TokenManager:       r.TokenManager,
		Issuer:             e.Actor(t, "stranger"),
		IssuerTokenAccount: r.IssuerTokenAccount,
		Amount:             1,
		Kind:               tokenmanager.KindUnmanaged,
		InvalidationType:   tokenmanager.InvalidationReturn,
	})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidIssuer)
}

func TestIssueEscrowsAndUnissueReturns(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	r := e.InitRental(t, issuer, "mint", 0)
	custody := tokenmanager.CustodyAccount(r.TokenManager, r.Mint)

	e.Issue(t, r, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)
	require.EqualValues(t, 0, e.TokenBalance(t, issuer, r.Mint))
	require.EqualValues(t, 1, e.TokenBalance(t, r.TokenManager, r.Mint))

	tm, err := e.TokenManager.Load(r.TokenManager)
	require.NoError(t, err)
	require.Equal(t, tokenmanager.StateIssued, tm.State)
	require.Equal(t, custody, tm.RecipientTokenAccount)

	require.NoError(t, e.TokenManager.Unissue(r.TokenManager, issuer))
	require.EqualValues(t, 1, e.TokenBalance(t, issuer, r.Mint))
	require.False(t, e.Ledger.HasRecord(r.TokenManager))
	require.False(t, e.Ledger.HasTokenAccount(custody))
}

func TestPermissionedIssuePaysReward(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	r := e.InitRental(t, issuer, "mint", 0)
	sink := e.RT.Config.PermissionedRewardAddress
	before := e.Ledger.Balance(sink)

	e.Issue(t, r, tokenmanager.KindPermissioned, tokenmanager.InvalidationRelease)
	require.Equal(t, before+e.RT.Config.PermissionedRewardLamports, e.Ledger.Balance(sink))
}

func TestClaimUnmanaged(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	recipient := e.Actor(t, "recipient")
	r := e.InitRental(t, issuer, "mint", 0)

	err := e.TokenManager.Claim(tokenmanager.ClaimParams{TokenManager: r.TokenManager, Recipient: recipient})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidState)

	e.Issue(t, r, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)
	e.Claim(t, r, recipient)

	require.EqualValues(t, 1, e.TokenBalance(t, recipient, r.Mint))
	tm, err := e.TokenManager.Load(r.TokenManager)
	require.NoError(t, err)
	require.Equal(t, tokenmanager.StateClaimed, tm.State)

	// the token manager keeps delegate authority to pull the token back
	acc, err := e.Ledger.Token(tm.RecipientTokenAccount)
	require.NoError(t, err)
	require.NotNil(t, acc.Delegate)
	require.Equal(t, r.TokenManager, *acc.Delegate)
}

func TestClaimReceiptGate(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	approver := e.Actor(t, "approver")
	target := e.Actor(t, "target")
	intruder := e.Actor(t, "intruder")
	r := e.InitRental(t, issuer, "mint", 0)
	require.NoError(t, e.TokenManager.SetClaimApprover(r.TokenManager, issuer, approver))
	e.Issue(t, r, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)

	err := e.TokenManager.Claim(tokenmanager.ClaimParams{TokenManager: r.TokenManager, Recipient: target})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidClaimReceipt)

	_, err = e.TokenManager.CreateClaimReceipt(r.TokenManager, intruder, target, intruder)
	require.ErrorIs(t, err, tokenmanager.ErrInvalidClaimApprover)

	receiptAddr, err := e.TokenManager.CreateClaimReceipt(r.TokenManager, approver, target, approver)
	require.NoError(t, err)
	require.True(t, e.Ledger.HasRecord(receiptAddr))

	err = e.TokenManager.Claim(tokenmanager.ClaimParams{TokenManager: r.TokenManager, Recipient: intruder})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidClaimReceipt)

	e.Claim(t, r, target)
	require.EqualValues(t, 1, e.TokenBalance(t, target, r.Mint))
	require.False(t, e.Ledger.HasRecord(receiptAddr))
}

func TestClaimIntoForeignAccountRejected(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	recipient := e.Actor(t, "recipient")
	other := e.Actor(t, "other")
	r := e.InitRental(t, issuer, "mint", 0)
	e.Issue(t, r, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)

	otherAcc, err := e.Ledger.EnsureTokenAccount(other, r.Mint)
	require.NoError(t, err)
	err = e.TokenManager.Claim(tokenmanager.ClaimParams{
		TokenManager:          r.TokenManager,
		Recipient:             recipient,
		RecipientTokenAccount: otherAcc,
	})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidRecipient)
}

func TestManagedClaimFreezesUnderMintManager(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	recipient := e.Actor(t, "recipient")
	r := e.InitRental(t, issuer, "mint", 1)
	require.NoError(t, e.TokenManager.AddInvalidator(r.TokenManager, issuer, issuer))
	e.Issue(t, r, tokenmanager.KindManaged, tokenmanager.InvalidationReturn)

	// no mint manager yet
	err := e.TokenManager.Claim(tokenmanager.ClaimParams{TokenManager: r.TokenManager, Recipient: recipient})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidMintManager)

	mmAddr, err := e.TokenManager.CreateMintManager(r.Mint, issuer)
	require.NoError(t, err)
	e.Claim(t, r, recipient)

	mm, err := e.TokenManager.LoadMintManager(mmAddr)
	require.NoError(t, err)
	require.EqualValues(t, 1, mm.TokenManagers)

	tm, err := e.TokenManager.Load(r.TokenManager)
	require.NoError(t, err)
	acc, err := e.Ledger.Token(tm.RecipientTokenAccount)
	require.NoError(t, err)
	require.True(t, acc.Frozen)

	// a frozen holder cannot move the token out of the rental
	issuerAcc, err := e.Ledger.EnsureTokenAccount(issuer, r.Mint)
	require.NoError(t, err)
	err = e.Ledger.Transfer(tm.RecipientTokenAccount, issuerAcc, 1, recipient)
	require.ErrorIs(t, err, ledger.ErrAccountFrozen)

	// return thaws, settles the outstanding count and hands the token back
	require.NoError(t, e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r.TokenManager,
		Caller:       issuer,
		Collector:    issuer,
	}))
	require.EqualValues(t, 1, e.TokenBalance(t, issuer, r.Mint))
	require.False(t, e.Ledger.HasRecord(r.TokenManager))
	mm, err = e.TokenManager.LoadMintManager(mmAddr)
	require.NoError(t, err)
	require.Zero(t, mm.TokenManagers)
}

func TestReissueCycle(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	first := e.Actor(t, "first-renter")
	second := e.Actor(t, "second-renter")
	r := e.InitRental(t, issuer, "mint", 0)
	mmAddr, err := e.TokenManager.CreateMintManager(r.Mint, issuer)
	require.NoError(t, err)
	e.Issue(t, r, tokenmanager.KindManaged, tokenmanager.InvalidationReissue)
	e.Claim(t, r, first)

	// the renter ends their own reissue rental and collects the bounty they
	// lodged at claim time
	before := e.Ledger.Balance(first)
	require.NoError(t, e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r.TokenManager,
		Caller:       first,
		Collector:    issuer,
	}))
	require.Equal(t, before+e.RT.Config.InvalidationRewardLamports, e.Ledger.Balance(first))

	tm, err := e.TokenManager.Load(r.TokenManager)
	require.NoError(t, err)
	require.Equal(t, tokenmanager.StateIssued, tm.State)
	require.Equal(t, tokenmanager.CustodyAccount(r.TokenManager, r.Mint), tm.RecipientTokenAccount)
	require.EqualValues(t, 0, e.TokenBalance(t, first, r.Mint))

	mm, err := e.TokenManager.LoadMintManager(mmAddr)
	require.NoError(t, err)
	require.Zero(t, mm.TokenManagers)

	// the same record serves the next renter
	e.Claim(t, r, second)
	require.EqualValues(t, 1, e.TokenBalance(t, second, r.Mint))
	mm, err = e.TokenManager.LoadMintManager(mmAddr)
	require.NoError(t, err)
	require.EqualValues(t, 1, mm.TokenManagers)
}

func TestInvalidateAuthorization(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	holder := e.Actor(t, "holder")
	stranger := e.Actor(t, "stranger")
	r := e.InitRental(t, issuer, "mint", 0)
	e.Issue(t, r, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)
	e.Claim(t, r, holder)

	err := e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r.TokenManager, Caller: stranger, Collector: stranger,
	})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidInvalidator)

	// the holder may end a return rental themselves
	require.NoError(t, e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r.TokenManager, Caller: holder, Collector: issuer,
	}))
	require.EqualValues(t, 1, e.TokenBalance(t, issuer, r.Mint))
}

func TestHolderCannotEndReleaseRental(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	holder := e.Actor(t, "holder")
	r := e.InitRental(t, issuer, "mint", 0)
	e.Issue(t, r, tokenmanager.KindUnmanaged, tokenmanager.InvalidationRelease)
	e.Claim(t, r, holder)

	err := e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r.TokenManager, Caller: holder, Collector: issuer,
	})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidHolder)

	stranger := e.Actor(t, "stranger")
	err = e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r.TokenManager, Caller: stranger, Collector: issuer,
	})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidInvalidator)
}

func TestInvalidateFromIssued(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	inv := e.Actor(t, "invalidator")

	// an unclaimed invalidate-type rental cannot be ended early
	r := e.InitRental(t, issuer, "mint-a", 1)
	require.NoError(t, e.TokenManager.AddInvalidator(r.TokenManager, issuer, inv))
	e.Issue(t, r, tokenmanager.KindUnmanaged, tokenmanager.InvalidationInvalidate)
	err := e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r.TokenManager, Caller: inv, Collector: inv,
	})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidState)

	// a return rental unwinds to the issuer from Issued
	r2 := e.InitRental(t, issuer, "mint-b", 1)
	require.NoError(t, e.TokenManager.AddInvalidator(r2.TokenManager, issuer, inv))
	e.Issue(t, r2, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)
	require.NoError(t, e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r2.TokenManager, Caller: inv, Collector: inv,
	}))
	require.EqualValues(t, 1, e.TokenBalance(t, issuer, r2.Mint))
	require.False(t, e.Ledger.HasRecord(r2.TokenManager))
}

func TestInvalidateTypeLeavesTokenWithHolder(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	holder := e.Actor(t, "holder")
	inv := e.Actor(t, "invalidator")
	r := e.InitRental(t, issuer, "mint", 1)
	require.NoError(t, e.TokenManager.AddInvalidator(r.TokenManager, issuer, inv))
	e.Issue(t, r, tokenmanager.KindUnmanaged, tokenmanager.InvalidationInvalidate)
	e.Claim(t, r, holder)

	before := e.Ledger.Balance(inv)
	require.NoError(t, e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r.TokenManager, Caller: inv, Collector: inv,
	}))
	require.Equal(t, before+e.RT.Config.InvalidationRewardLamports, e.Ledger.Balance(inv))

	// the holder keeps the token, free of the manager's delegation
	require.EqualValues(t, 1, e.TokenBalance(t, holder, r.Mint))
	tm, err := e.TokenManager.Load(r.TokenManager)
	require.NoError(t, err)
	require.Equal(t, tokenmanager.StateInvalidated, tm.State)
	acc, err := e.Ledger.Token(tm.RecipientTokenAccount)
	require.NoError(t, err)
	require.Nil(t, acc.Delegate)

	// a dead record cannot be invalidated again
	err = e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r.TokenManager, Caller: inv, Collector: inv,
	})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidState)
}

func TestReleaseUnlocksToHolder(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	holder := e.Actor(t, "holder")
	inv := e.Actor(t, "invalidator")
	r := e.InitRental(t, issuer, "mint", 1)
	require.NoError(t, e.TokenManager.AddInvalidator(r.TokenManager, issuer, inv))
	e.Issue(t, r, tokenmanager.KindUnmanaged, tokenmanager.InvalidationRelease)
	e.Claim(t, r, holder)

	require.NoError(t, e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r.TokenManager, Caller: inv, Collector: inv,
	}))
	require.EqualValues(t, 1, e.TokenBalance(t, holder, r.Mint))
	require.False(t, e.Ledger.HasRecord(r.TokenManager))

	// released outright: the holder can now move the token freely
	acc, err := e.Ledger.Token(ledger.AssociatedTokenAddress(holder, r.Mint))
	require.NoError(t, err)
	require.Nil(t, acc.Delegate)
}

func TestTransferRequiresAuthorityAndReceipt(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	holder := e.Actor(t, "holder")
	buyer := e.Actor(t, "buyer")
	authority := e.Actor(t, "transfer-authority")

	// transfers stay disabled until an authority is installed
	locked := e.InitRental(t, issuer, "mint-a", 0)
	e.Issue(t, locked, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)
	e.Claim(t, locked, holder)
	_, err := e.TokenManager.CreateTransferReceipt(locked.TokenManager, authority, buyer, authority)
	require.ErrorIs(t, err, tokenmanager.ErrTransfersDisabled)

	r := e.InitRental(t, issuer, "mint-b", 0)
	require.NoError(t, e.TokenManager.SetTransferAuthority(r.TokenManager, issuer, authority))
	e.Issue(t, r, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)
	e.Claim(t, r, holder)

	_, err = e.TokenManager.CreateTransferReceipt(r.TokenManager, holder, buyer, holder)
	require.ErrorIs(t, err, tokenmanager.ErrInvalidTransferAuthority)

	err = e.TokenManager.Transfer(tokenmanager.TransferParams{
		TokenManager:              r.TokenManager,
		NewRecipient:              buyer,
		CurrentRecipientTokenAcct: ledger.AssociatedTokenAddress(holder, r.Mint),
	})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidTransferReceipt)

	receiptAddr, err := e.TokenManager.CreateTransferReceipt(r.TokenManager, authority, buyer, authority)
	require.NoError(t, err)

	// the receipt pins its target
	err = e.TokenManager.Transfer(tokenmanager.TransferParams{
		TokenManager:              r.TokenManager,
		NewRecipient:              holder,
		CurrentRecipientTokenAcct: ledger.AssociatedTokenAddress(holder, r.Mint),
	})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidTransferReceipt)

	require.NoError(t, e.TokenManager.Transfer(tokenmanager.TransferParams{
		TokenManager:              r.TokenManager,
		NewRecipient:              buyer,
		CurrentRecipientTokenAcct: ledger.AssociatedTokenAddress(holder, r.Mint),
	}))
	require.EqualValues(t, 0, e.TokenBalance(t, holder, r.Mint))
	require.EqualValues(t, 1, e.TokenBalance(t, buyer, r.Mint))
	require.False(t, e.Ledger.HasRecord(receiptAddr))

	tm, err := e.TokenManager.Load(r.TokenManager)
	require.NoError(t, err)
	require.Equal(t, tokenmanager.StateClaimed, tm.State)
	require.Equal(t, ledger.AssociatedTokenAddress(buyer, r.Mint), tm.RecipientTokenAccount)
	acc, err := e.Ledger.Token(tm.RecipientTokenAccount)
	require.NoError(t, err)
	require.Equal(t, r.TokenManager, *acc.Delegate)
}

func TestProgrammableRentalLifecycle(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	holder := e.Actor(t, "holder")
	inv := e.Actor(t, "invalidator")
	r := e.InitRental(t, issuer, "mint", 1)
	e.Ledger.SetMetadata(&ledger.Metadata{
		Mint:          r.Mint,
		TokenStandard: ledger.StandardProgrammableNonFungible,
	})
	require.NoError(t, e.TokenManager.AddInvalidator(r.TokenManager, issuer, inv))

	// the kind upgrades from the metadata regardless of what was asked
	e.Issue(t, r, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)
	tm, err := e.TokenManager.Load(r.TokenManager)
	require.NoError(t, err)
	require.Equal(t, tokenmanager.KindProgrammable, tm.Kind)

	e.Claim(t, r, holder)
	rta := ledger.AssociatedTokenAddress(holder, r.Mint)
	acc, err := e.Ledger.Token(rta)
	require.NoError(t, err)
	require.True(t, acc.Frozen)
	tr, err := e.Ledger.TokenRecord(rta)
	require.NoError(t, err)
	require.Equal(t, ledger.TokenStateLocked, tr.State)

	issuerAcc, err := e.Ledger.EnsureTokenAccount(issuer, r.Mint)
	require.NoError(t, err)
	err = e.Ledger.Transfer(rta, issuerAcc, 1, holder)
	require.ErrorIs(t, err, ledger.ErrAccountFrozen)

	require.NoError(t, e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r.TokenManager, Caller: inv, Collector: inv,
	}))
	require.EqualValues(t, 1, e.TokenBalance(t, issuer, r.Mint))
	require.False(t, e.Ledger.HasRecord(r.TokenManager))
}

func TestEditionRentalLifecycle(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	holder := e.Actor(t, "holder")
	inv := e.Actor(t, "invalidator")
	r := e.InitRental(t, issuer, "mint", 1)
	e.Ledger.SetMasterEdition(&ledger.MasterEdition{Mint: r.Mint})
	require.NoError(t, e.TokenManager.AddInvalidator(r.TokenManager, issuer, inv))
	e.Issue(t, r, tokenmanager.KindEdition, tokenmanager.InvalidationReturn)
	e.Claim(t, r, holder)

	acc, err := e.Ledger.Token(ledger.AssociatedTokenAddress(holder, r.Mint))
	require.NoError(t, err)
	require.True(t, acc.Frozen)

	require.NoError(t, e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r.TokenManager, Caller: inv, Collector: inv,
	}))
	require.EqualValues(t, 1, e.TokenBalance(t, issuer, r.Mint))
}

func TestReturnToReceiptMintHolder(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	holder := e.Actor(t, "holder")
	investor := e.Actor(t, "investor")
	inv := e.Actor(t, "invalidator")
	r := e.InitRental(t, issuer, "mint", 1)

	receiptMint := e.NewMint(t, "receipt-mint", issuer)
	receiptAcc := e.MintTokenTo(t, receiptMint, investor, 1, issuer)
	require.NoError(t, e.TokenManager.SetReceiptMint(r.TokenManager, issuer, receiptMint))
	require.NoError(t, e.TokenManager.AddInvalidator(r.TokenManager, issuer, inv))
	e.Issue(t, r, tokenmanager.KindUnmanaged, tokenmanager.InvalidationReturn)
	e.Claim(t, r, holder)

	wrongAcc, err := e.Ledger.EnsureTokenAccount(issuer, receiptMint)
	require.NoError(t, err)
	err = e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r.TokenManager, Caller: inv, Collector: inv,
		ReceiptTokenAccount: wrongAcc,
	})
	require.ErrorIs(t, err, tokenmanager.ErrInvalidReceiptTokenAccount)

	require.NoError(t, e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r.TokenManager, Caller: inv, Collector: inv,
		ReceiptTokenAccount: receiptAcc,
	}))
	require.EqualValues(t, 1, e.TokenBalance(t, investor, r.Mint))
	require.EqualValues(t, 0, e.TokenBalance(t, issuer, r.Mint))
}

func TestMintManagerLifecycle(t *testing.T) {
	e := rental.NewEnv(t)
	issuer := e.Actor(t, "issuer")
	recipient := e.Actor(t, "recipient")
	r := e.InitRental(t, issuer, "mint", 1)
	require.NoError(t, e.TokenManager.AddInvalidator(r.TokenManager, issuer, issuer))

	mmAddr, err := e.TokenManager.CreateMintManager(r.Mint, issuer)
	require.NoError(t, err)
	_, err = e.TokenManager.CreateMintManager(r.Mint, issuer)
	require.ErrorIs(t, err, ledger.ErrAccountExists)

	// freeze authority moved to the mint manager
	err = e.Ledger.Freeze(r.IssuerTokenAccount, issuer)
	require.ErrorIs(t, err, ledger.ErrInvalidAuthority)

	e.Issue(t, r, tokenmanager.KindManaged, tokenmanager.InvalidationInvalidate)
	e.Claim(t, r, recipient)

	err = e.TokenManager.CloseMintManager(mmAddr, recipient)
	require.ErrorIs(t, err, tokenmanager.ErrInvalidMintManagerCloser)
	err = e.TokenManager.CloseMintManager(mmAddr, issuer)
	require.ErrorIs(t, err, tokenmanager.ErrOutstandingTokenManagers)

	require.NoError(t, e.TokenManager.Invalidate(tokenmanager.InvalidateParams{
		TokenManager: r.TokenManager, Caller: issuer, Collector: issuer,
	}))
	require.NoError(t, e.TokenManager.CloseMintManager(mmAddr, issuer))
	require.False(t, e.Ledger.HasRecord(mmAddr))

	// freeze authority handed back to the initializer
	rta := ledger.AssociatedTokenAddress(recipient, r.Mint)
	require.NoError(t, e.Ledger.Freeze(rta, issuer))
}
