package timeinvalidator

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/txsystem"
	"github.com/tokenlease-org/tokenlease-go/txsystem/paymentmanager"
	"github.com/tokenlease-org/tokenlease-go/txsystem/tokenmanager"
	"github.com/tokenlease-org/tokenlease-go/types"
	"github.com/tokenlease-org/tokenlease-go/util"
)

// Executor runs the time invalidator: an invalidator principal that ends a
// rental once its deadline has passed and optionally sells extensions.
type Executor struct {
	rt *txsystem.Runtime
	tm *tokenmanager.Executor
	pm *paymentmanager.Executor
}

func NewExecutor(rt *txsystem.Runtime, tm *tokenmanager.Executor, pm *paymentmanager.Executor) *Executor {
	return &Executor{rt: rt, tm: tm, pm: pm}
}

// Load reads the time invalidator record at addr.
func (x *Executor) Load(addr types.Address) (*TimeInvalidator, error) {
	return txsystem.LoadRecord[TimeInvalidator](x.rt.Ledger, addr, ProgramID, RecordName)
}

func (x *Executor) store(addr types.Address, ti *TimeInvalidator, payer types.Address) error {
	return txsystem.StoreRecord(x.rt.Ledger, addr, ProgramID, RecordName, ti, payer)
}

type InitParams struct {
	TokenManager             types.Address
	Issuer                   types.Address // signer
	Collector                types.Address
	PaymentManager           types.Address
	Expiration               *int64
	DurationSeconds          *int64
	MaxExpiration            *int64
	ExtensionPaymentAmount   *uint64
	ExtensionDurationSeconds *int64
	ExtensionPaymentMint     *types.Address
	DisablePartialExtension  bool
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
		return types.ZeroAddress, fmt.Errorf("init time invalidator: %w", ErrInvalidIssuer)
	}
	addr, bump := Derive(p.TokenManager)
	if l.HasRecord(addr) {
		return types.ZeroAddress, fmt.Errorf("time invalidator for %s: %w", p.TokenManager, ledger.ErrAccountExists)
	}
	ti := &TimeInvalidator{
		Bump:                     bump,
		TokenManager:             p.TokenManager,
		Collector:                p.Collector,
		PaymentManager:           p.PaymentManager,
		Expiration:               p.Expiration,
		DurationSeconds:          p.DurationSeconds,
		MaxExpiration:            p.MaxExpiration,
		ExtensionPaymentAmount:   p.ExtensionPaymentAmount,
		ExtensionDurationSeconds: p.ExtensionDurationSeconds,
		ExtensionPaymentMint:     p.ExtensionPaymentMint,
		DisablePartialExtension:  p.DisablePartialExtension,
	}
	if ti.MaxExpiration != nil && ti.Expiration != nil && *ti.Expiration > *ti.MaxExpiration {
		return types.ZeroAddress, fmt.Errorf("init time invalidator: %w", ErrMaxExpirationExceeded)
	}
	if err := x.store(addr, ti, p.Issuer); err != nil {
		return types.ZeroAddress, err
	}
	if err := x.tm.AddInvalidator(p.TokenManager, p.Issuer, addr); err != nil {
		return types.ZeroAddress, err
	}
	return addr, nil
}

// SetExpiration pins the deadline once the rental is claimed. Idempotent; a
// deadline that is already absolute stays as it is.
func (x *Executor) SetExpiration(timeInvalidator, payer types.Address) error {
	ti, err := x.Load(timeInvalidator)
	if err != nil {
		return err
	}
	if ti.Expiration != nil || ti.DurationSeconds == nil {
		return nil
	}
	tm, err := x.tm.Load(ti.TokenManager)
	if err != nil {
		return err
	}
	if tm.State != tokenmanager.StateClaimed {
		return fmt.Errorf("set expiration in %s: %w", tm.State, ErrInvalidTokenManager)
	}
	exp, ok := util.SafeAddInt64(tm.StateChangedAt, *ti.DurationSeconds)
	if !ok {
		return types.ErrOverflow
	}
	ti.Expiration = &exp
	return x.store(timeInvalidator, ti, payer)
}

// ResetExpiration clears the deadline of a rental that went back to Issued,
// so the next claim starts a fresh period.
func (x *Executor) ResetExpiration(timeInvalidator, payer types.Address) error {
	ti, err := x.Load(timeInvalidator)
	if err != nil {
		return err
	}
	tm, err := x.tm.Load(ti.TokenManager)
	if err != nil {
		return err
	}
	if tm.State != tokenmanager.StateIssued {
		return fmt.Errorf("reset expiration in %s: %w", tm.State, ErrInvalidTokenManager)
	}
	ti.Expiration = nil
	return x.store(timeInvalidator, ti, payer)
}

type ExtendParams struct {
	TimeInvalidator          types.Address
	Payer                    types.Address // signer
	PayerTokenAccount        types.Address
	FeeCollectorTokenAccount types.Address
	CreatorTokenAccounts     []types.Address
	// ReceiptTokenAccount holds the receipt mint token when one is set on
	// the rental; the payment then goes to its owner instead of the issuer.
	ReceiptTokenAccount types.Address
	PaymentAmount       uint64
}

// ExtendExpiration buys more seconds at the configured linear price. The
// bought time may not push the deadline past MaxExpiration, and when partial
// extension is disabled the payment must buy a whole number of periods.
func (x *Executor) ExtendExpiration(p ExtendParams) error {
	l := x.rt.Ledger
	ti, err := x.Load(p.TimeInvalidator)
	if err != nil {
		return err
	}
	if !ti.hasExtension() {
		return fmt.Errorf("extend expiration: %w", ErrExtensionUnavailable)
	}
	if *ti.ExtensionPaymentAmount == 0 {
		return types.ErrDivisionByZero
	}
	tm, err := x.tm.Load(ti.TokenManager)
	if err != nil {
		return err
	}
	if p.PaymentAmount == 0 {
		return fmt.Errorf("extend expiration: %w", ErrInvalidExtension)
	}
	if ti.DisablePartialExtension && p.PaymentAmount%*ti.ExtensionPaymentAmount != 0 {
		return fmt.Errorf("extending by %d: %w", p.PaymentAmount, ErrInvalidExtension)
	}
	product, ok := util.SafeMul(p.PaymentAmount, uint64(*ti.ExtensionDurationSeconds))
	if !ok {
		return types.ErrOverflow
	}
	timeToAdd := int64(product / *ti.ExtensionPaymentAmount)

	current := tm.StateChangedAt
	if ti.Expiration != nil {
		current = *ti.Expiration
	} else if ti.DurationSeconds != nil {
		if current, ok = util.SafeAddInt64(current, *ti.DurationSeconds); !ok {
			return types.ErrOverflow
		}
	}
	newExpiration, ok := util.SafeAddInt64(current, timeToAdd)
	if !ok {
		return types.ErrOverflow
	}
	if ti.MaxExpiration != nil && newExpiration > *ti.MaxExpiration {
		return fmt.Errorf("extending to %d: %w", newExpiration, ErrMaxExpirationExceeded)
	}

	src, err := l.Token(p.PayerTokenAccount)
	if err != nil {
		return err
	}
	if !src.Mint.Eq(*ti.ExtensionPaymentMint) {
		return fmt.Errorf("extending with %s: %w", src.Mint, ErrInvalidPaymentMint)
	}
	payee := tm.Issuer
	if tm.ReceiptMint != nil {
		acc, err := l.Token(p.ReceiptTokenAccount)
		if err != nil || !acc.Mint.Eq(*tm.ReceiptMint) || acc.Amount < 1 {
			return fmt.Errorf("extending with receipt mint: %w", tokenmanager.ErrInvalidReceiptTokenAccount)
		}
		payee = acc.Owner
	}
	target, err := l.EnsureTokenAccount(payee, *ti.ExtensionPaymentMint)
	if err != nil {
		return err
	}
	if l.HasRecord(ti.PaymentManager) {
		err = x.pm.HandlePaymentWithRoyalties(paymentmanager.Payment{
			PaymentManager:           ti.PaymentManager,
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

	ti.Expiration = &newExpiration
	return x.store(p.TimeInvalidator, ti, p.Payer)
}

// UpdateMaxExpiration raises or pins the ceiling. Issuer only; the ceiling
// may never drop below the current deadline.
func (x *Executor) UpdateMaxExpiration(timeInvalidator, issuer types.Address, newMax int64) error {
	ti, err := x.Load(timeInvalidator)
	if err != nil {
		return err
	}
	tm, err := x.tm.Load(ti.TokenManager)
	if err != nil {
		return err
	}
	if !tm.Issuer.Eq(issuer) {
		return fmt.Errorf("update max expiration: %w", ErrInvalidIssuer)
	}
	if ti.Expiration != nil && newMax < *ti.Expiration {
		return fmt.Errorf("max expiration %d below deadline %d: %w", newMax, *ti.Expiration, ErrInvalidMaxExpiration)
	}
	if ti.Expiration == nil && ti.MaxExpiration != nil && newMax < *ti.MaxExpiration {
		return fmt.Errorf("max expiration %d below current %d: %w", newMax, *ti.MaxExpiration, ErrInvalidMaxExpiration)
	}
	ti.MaxExpiration = &newMax
	return x.store(timeInvalidator, ti, issuer)
}

// expired evaluates the invalidation predicate against the ledger clock.
func (ti *TimeInvalidator) expired(tm *tokenmanager.TokenManager, now int64) bool {
	if ti.MaxExpiration != nil && *ti.MaxExpiration <= now {
		return true
	}
	if tm.State != tokenmanager.StateClaimed {
		return false
	}
	if ti.Expiration != nil {
		return *ti.Expiration <= now
	}
	if ti.DurationSeconds != nil {
		deadline, ok := util.SafeAddInt64(tm.StateChangedAt, *ti.DurationSeconds)
		return ok && deadline <= now
	}
	return false
}

// Invalidate ends the rental once the deadline has passed. Callable by
// anyone; the invalidation bounty goes to the caller.
func (x *Executor) Invalidate(timeInvalidator, caller types.Address) error {
	ti, err := x.Load(timeInvalidator)
	if err != nil {
		return err
	}
	tm, err := x.tm.Load(ti.TokenManager)
	if err != nil {
		return err
	}
	if !ti.expired(tm, x.rt.Now()) {
		return fmt.Errorf("invalidate at %d: %w", x.rt.Now(), ErrNotExpired)
	}
	return x.tm.Invalidate(tokenmanager.InvalidateParams{
		TokenManager:    ti.TokenManager,
		Caller:          timeInvalidator,
		Collector:       ti.Collector,
		BountyRecipient: caller,
	})
}

// Close destroys the record once its rental is over: the token manager is
// gone, Invalidated, or back in Initialized with the issuer signing.
func (x *Executor) Close(timeInvalidator, caller types.Address) error {
	l := x.rt.Ledger
	ti, err := x.Load(timeInvalidator)
	if err != nil {
		return err
	}
	if l.HasRecord(ti.TokenManager) {
		tm, err := x.tm.Load(ti.TokenManager)
		if err != nil {
			return err
		}
		switch {
		case tm.State == tokenmanager.StateInvalidated:
		case tm.State == tokenmanager.StateInitialized && tm.Issuer.Eq(caller):
		default:
			return fmt.Errorf("close time invalidator in %s: %w", tm.State, ErrTokenManagerAlive)
		}
	}
	return l.CloseRecord(timeInvalidator, ProgramID, ti.Collector)
}
