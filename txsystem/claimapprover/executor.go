package claimapprover

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/txsystem"
	"github.com/tokenlease-org/tokenlease-go/txsystem/paymentmanager"
	"github.com/tokenlease-org/tokenlease-go/txsystem/tokenmanager"
	"github.com/tokenlease-org/tokenlease-go/types"
)

// Executor runs the paid claim approver: a gate that sells claim receipts
// for a fixed price routed through a payment manager.
type Executor struct {
	rt *txsystem.Runtime
	tm *tokenmanager.Executor
	pm *paymentmanager.Executor
}

func NewExecutor(rt *txsystem.Runtime, tm *tokenmanager.Executor, pm *paymentmanager.Executor) *Executor {
	return &Executor{rt: rt, tm: tm, pm: pm}
}

// Load reads the approver record at addr.
func (x *Executor) Load(addr types.Address) (*PaidClaimApprover, error) {
	return txsystem.LoadRecord[PaidClaimApprover](x.rt.Ledger, addr, ProgramID, RecordName)
}

type InitParams struct {
	TokenManager   types.Address
	Issuer         types.Address // signer
	PaymentMint    types.Address
	PaymentAmount  uint64
	PaymentManager types.Address
	Collector      types.Address
}

// Init creates the approver and installs it as the rental's claim approver.
// Only the issuer may attach one, and only before issuance.
func (x *Executor) Init(p InitParams) (types.Address, error) {
	l := x.rt.Ledger
	tm, err := x.tm.Load(p.TokenManager)
	if err != nil {
		return types.ZeroAddress, err
	}
	if !tm.Issuer.Eq(p.Issuer) {
		return types.ZeroAddress, fmt.Errorf("init claim approver: %w", ErrInvalidIssuer)
	}
	addr, bump := Derive(p.TokenManager)
	if l.HasRecord(addr) {
		return types.ZeroAddress, fmt.Errorf("claim approver for %s: %w", p.TokenManager, ledger.ErrAccountExists)
	}
	ca := &PaidClaimApprover{
		Bump:           bump,
		TokenManager:   p.TokenManager,
		PaymentMint:    p.PaymentMint,
		PaymentAmount:  p.PaymentAmount,
		PaymentManager: p.PaymentManager,
		Collector:      p.Collector,
	}
	if err := txsystem.StoreRecord(l, addr, ProgramID, RecordName, ca, p.Issuer); err != nil {
		return types.ZeroAddress, err
	}
	if err := x.tm.SetClaimApprover(p.TokenManager, p.Issuer, addr); err != nil {
		return types.ZeroAddress, err
	}
	return addr, nil
}

type PayParams struct {
	ClaimApprover            types.Address
	Payer                    types.Address // signer
	PayerTokenAccount        types.Address
	FeeCollectorTokenAccount types.Address
	CreatorTokenAccounts     []types.Address
}

// Pay charges the configured price and issues a claim receipt to the payer.
// When the configured payment manager record exists the payment runs
// through its fee and royalty split; otherwise the full amount moves
// straight to the issuer's payment account.
func (x *Executor) Pay(p PayParams) error {
	l := x.rt.Ledger
	ca, err := x.Load(p.ClaimApprover)
	if err != nil {
		return err
	}
	tm, err := x.tm.Load(ca.TokenManager)
	if err != nil {
		return err
	}
	if tm.ClaimApprover == nil || !tm.ClaimApprover.Eq(p.ClaimApprover) {
		return fmt.Errorf("pay: %w", ErrInvalidTokenManager)
	}
	if receiptAddr, _ := tokenmanager.DeriveClaimReceipt(ca.TokenManager, p.Payer); l.HasRecord(receiptAddr) {
		return fmt.Errorf("pay by %s: %w", p.Payer, ErrAlreadyPaid)
	}
	src, err := l.Token(p.PayerTokenAccount)
	if err != nil {
		return err
	}
	if !src.Mint.Eq(ca.PaymentMint) {
		return fmt.Errorf("paying with %s: %w", src.Mint, ErrInvalidPaymentMint)
	}
	if !src.Owner.Eq(p.Payer) {
		return fmt.Errorf("paying from %s: %w", p.PayerTokenAccount, ErrInvalidPaymentTokenAccount)
	}
	target, err := l.EnsureTokenAccount(tm.Issuer, ca.PaymentMint)
	if err != nil {
		return err
	}

	if l.HasRecord(ca.PaymentManager) {
		err = x.pm.HandlePaymentWithRoyalties(paymentmanager.Payment{
			PaymentManager:           ca.PaymentManager,
			Payer:                    p.Payer,
			PayerTokenAccount:        p.PayerTokenAccount,
			TargetTokenAccount:       target,
			FeeCollectorTokenAccount: p.FeeCollectorTokenAccount,
			Mint:                     tm.Mint,
			CreatorTokenAccounts:     p.CreatorTokenAccounts,
			Amount:                   ca.PaymentAmount,
		})
	} else {
		err = l.Transfer(p.PayerTokenAccount, target, ca.PaymentAmount, p.Payer)
	}
	if err != nil {
		return fmt.Errorf("claim payment: %w", err)
	}

	_, err = x.tm.CreateClaimReceipt(ca.TokenManager, p.ClaimApprover, p.Payer, p.Payer)
	return err
}

// Close destroys the approver once its rental is over: the token manager is
// gone, Invalidated, or back in Initialized with the issuer signing. Rent
// goes to the configured collector.
func (x *Executor) Close(claimApprover, caller types.Address) error {
	l := x.rt.Ledger
	ca, err := x.Load(claimApprover)
	if err != nil {
		return err
	}
	if l.HasRecord(ca.TokenManager) {
		tm, err := x.tm.Load(ca.TokenManager)
		if err != nil {
			return err
		}
		switch {
		case tm.State == tokenmanager.StateInvalidated:
		case tm.State == tokenmanager.StateInitialized && tm.Issuer.Eq(caller):
		default:
			return fmt.Errorf("close claim approver in %s: %w", tm.State, ErrTokenManagerAlive)
		}
	}
	return l.CloseRecord(claimApprover, ProgramID, ca.Collector)
}
