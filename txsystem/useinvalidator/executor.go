package useinvalidator

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/txsystem"
	"github.com/tokenlease-org/tokenlease-go/txsystem/paymentmanager"
	"github.com/tokenlease-org/tokenlease-go/txsystem/tokenmanager"
	"github.com/tokenlease-org/tokenlease-go/types"
	"github.com/tokenlease-org/tokenlease-go/util"
)

// Executor runs the use invalidator: an invalidator principal that counts
// discrete uses and ends the rental once the allowance is spent.
type Executor struct {
	rt *txsystem.Runtime
	tm *tokenmanager.Executor
	pm *paymentmanager.Executor
}

func NewExecutor(rt *txsystem.Runtime, tm *tokenmanager.Executor, pm *paymentmanager.Executor) *Executor {
	return &Executor{rt: rt, tm: tm, pm: pm}
}

// Load reads the use invalidator record at addr.
func (x *Executor) Load(addr types.Address) (*UseInvalidator, error) {
	return txsystem.LoadRecord[UseInvalidator](x.rt.Ledger, addr, ProgramID, RecordName)
}

func (x *Executor) store(addr types.Address, ui *UseInvalidator, payer types.Address) error {
	return txsystem.StoreRecord(x.rt.Ledger, addr, ProgramID, RecordName, ui, payer)
}

type InitParams struct {
	TokenManager           types.Address
	Issuer                 types.Address // signer
	Collector              types.Address
	PaymentManager         types.Address
	TotalUsages            *uint64
	MaxUsages              *uint64
	UseAuthority           *types.Address
	ExtensionPaymentAmount *uint64
	ExtensionPaymentMint   *types.Address
	ExtensionUsages        *uint64
}

// Init creates the invalidator and registers it in the rental's invalidator
// set. The token manager must still be Initialized.
func (x *Executor) Init(p InitParams) (types.Address, error) {
	l := x.rt.Ledger
	tm, err := x.tm.Load(p.TokenManager)
	if err != nil {
		return types.ZeroAddress, err
	}
	if !tm.Issuer.Eq(p.Issuer) {
		return types.ZeroAddress, fmt.Errorf("init use invalidator: %w", ErrInvalidIssuer)
	}
	addr, bump := Derive(p.TokenManager)
	if l.HasRecord(addr) {
		return types.ZeroAddress, fmt.Errorf("use invalidator for %s: %w", p.TokenManager, ledger.ErrAccountExists)
	}
	if p.TotalUsages != nil && p.MaxUsages != nil && *p.TotalUsages > *p.MaxUsages {
		return types.ZeroAddress, fmt.Errorf("init use invalidator: %w", ErrInvalidExtension)
	}
	ui := &UseInvalidator{
		Bump:                   bump,
		TokenManager:           p.TokenManager,
		Collector:              p.Collector,
		PaymentManager:         p.PaymentManager,
		TotalUsages:            p.TotalUsages,
		MaxUsages:              p.MaxUsages,
		UseAuthority:           p.UseAuthority,
		ExtensionPaymentAmount: p.ExtensionPaymentAmount,
		ExtensionPaymentMint:   p.ExtensionPaymentMint,
		ExtensionUsages:        p.ExtensionUsages,
	}
	if err := x.store(addr, ui, p.Issuer); err != nil {
		return types.ZeroAddress, err
	}
	if err := x.tm.AddInvalidator(p.TokenManager, p.Issuer, addr); err != nil {
		return types.ZeroAddress, err
	}
	return addr, nil
}

// IncrementUsages spends n uses. Callable by the configured use authority
// or, when none is set, by the current holder.
func (x *Executor) IncrementUsages(useInvalidator, caller types.Address, n uint64) error {
	l := x.rt.Ledger
	ui, err := x.Load(useInvalidator)
	if err != nil {
		return err
	}
	tm, err := x.tm.Load(ui.TokenManager)
	if err != nil {
		return err
	}
	switch {
	case ui.UseAuthority != nil:
		if !ui.UseAuthority.Eq(caller) {
			return fmt.Errorf("increment by %s: %w", caller, ErrInvalidUser)
		}
	default:
		if tm.State != tokenmanager.StateClaimed {
			return fmt.Errorf("increment in %s: %w", tm.State, ErrInvalidUser)
		}
		acc, err := l.Token(tm.RecipientTokenAccount)
		if err != nil {
			return err
		}
		if !acc.Owner.Eq(caller) {
			return fmt.Errorf("increment by %s: %w", caller, ErrInvalidUser)
		}
	}
	used, ok := util.SafeAdd(ui.Usages, n)
	if !ok {
		return types.ErrOverflow
	}
	if limit, bounded := ui.ceiling(); bounded && used > limit {
		return fmt.Errorf("incrementing to %d of %d: %w", used, limit, ErrMaxUsagesReached)
	}
	ui.Usages = used
	return x.store(useInvalidator, ui, caller)
}

type ExtendParams struct {
	UseInvalidator           types.Address
	Payer                    types.Address // signer
	PayerTokenAccount        types.Address
	FeeCollectorTokenAccount types.Address
	CreatorTokenAccounts     []types.Address
	PaymentAmount            uint64
}

// ExtendUsages buys more uses at the configured linear price. The payment
// must buy a whole number of extension steps, and the grown allowance may
// not exceed MaxUsages.
func (x *Executor) ExtendUsages(p ExtendParams) error {
	l := x.rt.Ledger
	ui, err := x.Load(p.UseInvalidator)
	if err != nil {
		return err
	}
	if !ui.hasExtension() {
		return fmt.Errorf("extend usages: %w", ErrExtensionUnavailable)
	}
	if *ui.ExtensionPaymentAmount == 0 {
		return types.ErrDivisionByZero
	}
	if p.PaymentAmount == 0 || p.PaymentAmount%*ui.ExtensionPaymentAmount != 0 {
		return fmt.Errorf("extending by %d: %w", p.PaymentAmount, ErrInvalidExtension)
	}
	tm, err := x.tm.Load(ui.TokenManager)
	if err != nil {
		return err
	}
	product, ok := util.SafeMul(p.PaymentAmount, *ui.ExtensionUsages)
	if !ok {
		return types.ErrOverflow
	}
	usagesToAdd := product / *ui.ExtensionPaymentAmount

	base := ui.Usages
	if ui.TotalUsages != nil {
		base = *ui.TotalUsages
	} else if ui.MaxUsages != nil {
		base = *ui.MaxUsages
	}
	newTotal, ok := util.SafeAdd(base, usagesToAdd)
	if !ok {
		return types.ErrOverflow
	}
	if ui.MaxUsages != nil && newTotal > *ui.MaxUsages {
		return fmt.Errorf("extending to %d of %d: %w", newTotal, *ui.MaxUsages, ErrMaxUsagesReached)
	}

	src, err := l.Token(p.PayerTokenAccount)
	if err != nil {
		return err
	}
	if !src.Mint.Eq(*ui.ExtensionPaymentMint) {
		return fmt.Errorf("extending with %s: %w", src.Mint, ErrInvalidPaymentMint)
	}
	target, err := l.EnsureTokenAccount(tm.Issuer, *ui.ExtensionPaymentMint)
	if err != nil {
		return err
	}
	if l.HasRecord(ui.PaymentManager) {
		err = x.pm.HandlePaymentWithRoyalties(paymentmanager.Payment{
			PaymentManager:           ui.PaymentManager,
			Payer:                    p.Payer,
			PayerTokenAccount:        p.PayerTokenAccount,
			TargetTokenAccount:       target,
			FeeCollectorTokenAccount: p.FeeCollectorTokenAccount,
			Mint:                     tm.Mint,
			CreatorTokenAccounts:     p.CreatorTokenAccounts,
			Amount:                   p.PaymentAmount,
		})
	} else {
		err = l.Transfer(p.PayerTokenAccount, target, p.PaymentAmount, p.Payer)
	}
	if err != nil {
		return fmt.Errorf("extension payment: %w", err)
	}

	ui.TotalUsages = &newTotal
	return x.store(p.UseInvalidator, ui, p.Payer)
}

// Invalidate ends the rental once the allowance is spent. Callable by
// anyone; the invalidation bounty goes to the caller.
func (x *Executor) Invalidate(useInvalidator, caller types.Address) error {
	ui, err := x.Load(useInvalidator)
	if err != nil {
		return err
	}
	limit, bounded := ui.ceiling()
	if !bounded || ui.Usages < limit {
		return fmt.Errorf("invalidate at %d uses: %w", ui.Usages, ErrUsagesRemaining)
	}
	return x.tm.Invalidate(tokenmanager.InvalidateParams{
		TokenManager:    ui.TokenManager,
		Caller:          useInvalidator,
		Collector:       ui.Collector,
		BountyRecipient: caller,
	})
}

// Close destroys the record once its rental is over: the token manager is
// gone, Invalidated, or back in Initialized with the issuer signing.
func (x *Executor) Close(useInvalidator, caller types.Address) error {
	l := x.rt.Ledger
	ui, err := x.Load(useInvalidator)
	if err != nil {
		return err
	}
	if l.HasRecord(ui.TokenManager) {
		tm, err := x.tm.Load(ui.TokenManager)
		if err != nil {
			return err
		}
		switch {
		case tm.State == tokenmanager.StateInvalidated:
		case tm.State == tokenmanager.StateInitialized && tm.Issuer.Eq(caller):
		default:
			return fmt.Errorf("close use invalidator in %s: %w", tm.State, ErrTokenManagerAlive)
		}
	}
	return l.CloseRecord(useInvalidator, ProgramID, ui.Collector)
}
