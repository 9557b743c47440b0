package tokenmanager

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/txsystem"
	"github.com/tokenlease-org/tokenlease-go/types"
)

// Executor enforces the rental state machine against the ledger. All
// preconditions are checked before any side effect; the ledger's transaction
// atomicity keeps a failed transition from leaving a half-mutated record.
type Executor struct {
	rt *txsystem.Runtime
}

func NewExecutor(rt *txsystem.Runtime) *Executor {
	return &Executor{rt: rt}
}

// Runtime exposes the execution environment to collaborating programs.
func (x *Executor) Runtime() *txsystem.Runtime {
	return x.rt
}

// Load reads the token manager record at addr.
func (x *Executor) Load(addr types.Address) (*TokenManager, error) {
	return txsystem.LoadRecord[TokenManager](x.rt.Ledger, addr, ProgramID, TokenManagerRecordName)
}

func (x *Executor) store(addr types.Address, tm *TokenManager, payer types.Address) error {
	return txsystem.StoreRecord(x.rt.Ledger, addr, ProgramID, TokenManagerRecordName, tm, payer)
}

// LoadMintManager reads the mint manager record at addr.
func (x *Executor) LoadMintManager(addr types.Address) (*MintManager, error) {
	return txsystem.LoadRecord[MintManager](x.rt.Ledger, addr, ProgramID, MintManagerRecordName)
}

// CustodyAccount returns the token manager's own escrow token account.
func CustodyAccount(tokenManager, mint types.Address) types.Address {
	return ledger.AssociatedTokenAddress(tokenManager, mint)
}

type InitParams struct {
	Mint               types.Address
	Issuer             types.Address // signer, pays rent
	IssuerTokenAccount types.Address
	NumInvalidators    uint8
}

// Init allocates the token manager record in Initialized state. The
// per-mint counter is incremented and its new value recorded, so receipts of
// an earlier rental of the same mint cannot gate this one.
func (x *Executor) Init(p InitParams) (types.Address, error) {
	l := x.rt.Ledger
	if p.NumInvalidators > types.MaxInvalidators {
		return types.ZeroAddress, fmt.Errorf("init with %d invalidators: %w", p.NumInvalidators, ErrInvalidatorsTooBig)
	}
	src, err := l.Token(p.IssuerTokenAccount)
	if err != nil {
		return types.ZeroAddress, err
	}
	if !src.Owner.Eq(p.Issuer) || !src.Mint.Eq(p.Mint) {
		return types.ZeroAddress, fmt.Errorf("init token manager: %w", ErrInvalidIssuerTokenAccount)
	}
	if src.Amount < 1 {
		return types.ZeroAddress, fmt.Errorf("init token manager with empty source: %w", ErrInvalidAmount)
	}
	addr, bump := DeriveTokenManager(p.Mint)
	if l.HasRecord(addr) {
		return types.ZeroAddress, fmt.Errorf("token manager for mint %s: %w", p.Mint, ledger.ErrAccountExists)
	}

	counterAddr, counterBump := DeriveMintCounter(p.Mint)
	counter := &MintCounter{Bump: counterBump, Mint: p.Mint}
	if l.HasRecord(counterAddr) {
		if counter, err = txsystem.LoadRecord[MintCounter](l, counterAddr, ProgramID, MintCounterRecordName); err != nil {
			return types.ZeroAddress, err
		}
	}
	counter.Count++
	if err := txsystem.StoreRecord(l, counterAddr, ProgramID, MintCounterRecordName, counter, p.Issuer); err != nil {
		return types.ZeroAddress, err
	}

	tm := &TokenManager{
		State:             StateInitialized,
		Issuer:            p.Issuer,
		Mint:              p.Mint,
		NumInvalidators:   p.NumInvalidators,
		TransferAuthority: &addr, // sentinel: transfers disabled
		Count:             counter.Count,
		StateChangedAt:    x.rt.Now(),
		Bump:              bump,
	}
	if err := x.store(addr, tm, p.Issuer); err != nil {
		return types.ZeroAddress, err
	}
	return addr, nil
}

// Uninit destroys an Initialized token manager and reclaims its storage.
func (x *Executor) Uninit(tokenManager, issuer types.Address) error {
	tm, err := x.Load(tokenManager)
	if err != nil {
		return err
	}
	if tm.State != StateInitialized {
		return fmt.Errorf("uninit from %s: %w", tm.State, ErrInvalidState)
	}
	if !tm.Issuer.Eq(issuer) {
		return fmt.Errorf("uninit: %w", ErrInvalidIssuer)
	}
	return x.rt.Ledger.CloseRecord(tokenManager, ProgramID, issuer)
}

// SetClaimApprover installs the claim gate. Initialized only, by issuer.
func (x *Executor) SetClaimApprover(tokenManager, issuer, claimApprover types.Address) error {
	tm, err := x.loadInitializedFor(tokenManager, issuer)
	if err != nil {
		return err
	}
	tm.ClaimApprover = &claimApprover
	return x.store(tokenManager, tm, issuer)
}

// SetTransferAuthority installs the transfer gate. Initialized only, by
// issuer.
func (x *Executor) SetTransferAuthority(tokenManager, issuer, transferAuthority types.Address) error {
	tm, err := x.loadInitializedFor(tokenManager, issuer)
	if err != nil {
		return err
	}
	tm.TransferAuthority = &transferAuthority
	return x.store(tokenManager, tm, issuer)
}

// SetReceiptMint designates a one-of-one receipt token; on Return the
// balance goes to the receipt's current holder instead of the issuer.
func (x *Executor) SetReceiptMint(tokenManager, issuer, receiptMint types.Address) error {
	tm, err := x.loadInitializedFor(tokenManager, issuer)
	if err != nil {
		return err
	}
	tm.ReceiptMint = &receiptMint
	return x.store(tokenManager, tm, issuer)
}

// AddInvalidator appends to the invalidator set. Initialized only, by
// issuer; the set is bounded by NumInvalidators and free of duplicates.
func (x *Executor) AddInvalidator(tokenManager, issuer, invalidator types.Address) error {
	tm, err := x.loadInitializedFor(tokenManager, issuer)
	if err != nil {
		return err
	}
	if len(tm.Invalidators) >= int(tm.NumInvalidators) {
		return fmt.Errorf("adding invalidator %s: %w", invalidator, ErrInvalidatorsTooBig)
	}
	if tm.HasInvalidator(invalidator) {
		return fmt.Errorf("adding invalidator %s: %w", invalidator, ErrDuplicateInvalidator)
	}
	tm.Invalidators = append(tm.Invalidators, invalidator)
	return x.store(tokenManager, tm, issuer)
}

// UpdateInvalidators replaces the whole invalidator set. Callable by an
// existing invalidator; NumInvalidators itself is immutable.
func (x *Executor) UpdateInvalidators(tokenManager, caller types.Address, invalidators []types.Address) error {
	tm, err := x.Load(tokenManager)
	if err != nil {
		return err
	}
	if !tm.HasInvalidator(caller) {
		return fmt.Errorf("update invalidators by %s: %w", caller, ErrInvalidInvalidator)
	}
	if len(invalidators) == 0 {
		return fmt.Errorf("update invalidators: %w", ErrEmptyInvalidators)
	}
	if len(invalidators) > int(tm.NumInvalidators) {
		return fmt.Errorf("update to %d invalidators: %w", len(invalidators), ErrInvalidatorsTooBig)
	}
	for i, a := range invalidators {
		for _, b := range invalidators[:i] {
			if a.Eq(b) {
				return fmt.Errorf("update invalidators: %w", ErrDuplicateInvalidator)
			}
		}
	}
	tm.Invalidators = invalidators
	return x.store(tokenManager, tm, caller)
}

// ReplaceInvalidator swaps the calling invalidator for a new key.
func (x *Executor) ReplaceInvalidator(tokenManager, caller, replacement types.Address) error {
	tm, err := x.Load(tokenManager)
	if err != nil {
		return err
	}
	if !tm.HasInvalidator(caller) {
		return fmt.Errorf("replace invalidator by %s: %w", caller, ErrInvalidInvalidator)
	}
	if !replacement.Eq(caller) && tm.HasInvalidator(replacement) {
		return fmt.Errorf("replace invalidator with %s: %w", replacement, ErrDuplicateInvalidator)
	}
	for i, inv := range tm.Invalidators {
		if inv.Eq(caller) {
			tm.Invalidators[i] = replacement
			break
		}
	}
	return x.store(tokenManager, tm, caller)
}

// UpdateInvalidationType changes the end-of-rental policy; only the
// Return/Reissue pair is interchangeable.
func (x *Executor) UpdateInvalidationType(tokenManager, issuer types.Address, invalidationType InvalidationType) error {
	tm, err := x.Load(tokenManager)
	if err != nil {
		return err
	}
	if !tm.Issuer.Eq(issuer) {
		return fmt.Errorf("update invalidation type: %w", ErrInvalidIssuer)
	}
	if tm.State == StateInvalidated {
		return fmt.Errorf("update invalidation type from %s: %w", tm.State, ErrInvalidState)
	}
	returnOrReissue := func(t InvalidationType) bool {
		return t == InvalidationReturn || t == InvalidationReissue
	}
	if tm.InvalidationType != invalidationType &&
		!(returnOrReissue(tm.InvalidationType) && returnOrReissue(invalidationType)) {
		return fmt.Errorf("update invalidation type %d -> %d: %w", tm.InvalidationType, invalidationType, ErrInvalidInvalidationChange)
	}
	tm.InvalidationType = invalidationType
	return x.store(tokenManager, tm, issuer)
}

func (x *Executor) loadInitializedFor(tokenManager, issuer types.Address) (*TokenManager, error) {
	tm, err := x.Load(tokenManager)
	if err != nil {
		return nil, err
	}
	if tm.State != StateInitialized {
		return nil, fmt.Errorf("configuring from %s: %w", tm.State, ErrInvalidState)
	}
	if !tm.Issuer.Eq(issuer) {
		return nil, fmt.Errorf("configuring token manager: %w", ErrInvalidIssuer)
	}
	return tm, nil
}
