package ledger

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/types"
	"github.com/tokenlease-org/tokenlease-go/util"
)

type Mint struct {
	Supply          uint64
	Decimals        uint8
	MintAuthority   *types.Address
	FreezeAuthority *types.Address
}

type TokenAccount struct {
	Mint            types.Address
	Owner           types.Address
	Amount          uint64
	Delegate        *types.Address
	DelegatedAmount uint64
	Frozen          bool
}

// AssociatedTokenAddress derives the canonical token account of owner for
// mint.
func AssociatedTokenAddress(owner, mint types.Address) types.Address {
	addr, _ := types.FindProgramAddress(TokenProgramID, []byte("token-account"), owner[:], mint[:])
	return addr
}

func (l *Ledger) CreateMint(mint types.Address, decimals uint8, mintAuthority, freezeAuthority *types.Address) error {
	if _, ok := l.mints[mint]; ok {
		return fmt.Errorf("mint %s: %w", mint, ErrAccountExists)
	}
	l.mints[mint] = &Mint{Decimals: decimals, MintAuthority: mintAuthority, FreezeAuthority: freezeAuthority}
	return nil
}

func (l *Ledger) Mint(mint types.Address) (*Mint, error) {
	m, ok := l.mints[mint]
	if !ok {
		return nil, fmt.Errorf("mint %s: %w", mint, ErrAccountNotFound)
	}
	return m, nil
}

func (l *Ledger) CreateTokenAccount(addr, mint, owner types.Address) error {
	if _, ok := l.tokenAccounts[addr]; ok {
		return fmt.Errorf("token account %s: %w", addr, ErrAccountExists)
	}
	if _, err := l.Mint(mint); err != nil {
		return err
	}
	l.tokenAccounts[addr] = &TokenAccount{Mint: mint, Owner: owner}
	return nil
}

// EnsureTokenAccount creates the associated token account of owner for mint
// unless it already exists, returning its address either way.
func (l *Ledger) EnsureTokenAccount(owner, mint types.Address) (types.Address, error) {
	addr := AssociatedTokenAddress(owner, mint)
	if _, ok := l.tokenAccounts[addr]; ok {
		return addr, nil
	}
	if err := l.CreateTokenAccount(addr, mint, owner); err != nil {
		return types.ZeroAddress, err
	}
	return addr, nil
}

func (l *Ledger) Token(addr types.Address) (*TokenAccount, error) {
	acc, ok := l.tokenAccounts[addr]
	if !ok {
		return nil, fmt.Errorf("token account %s: %w", addr, ErrAccountNotFound)
	}
	return acc, nil
}

// HasTokenAccount reports whether a token account exists at addr.
func (l *Ledger) HasTokenAccount(addr types.Address) bool {
	_, ok := l.tokenAccounts[addr]
	return ok
}

func (l *Ledger) MintTo(mint, account types.Address, amount uint64, authority types.Address) error {
	m, err := l.Mint(mint)
	if err != nil {
		return err
	}
	if m.MintAuthority == nil || !m.MintAuthority.Eq(authority) {
		return fmt.Errorf("minting %s: %w", mint, ErrInvalidAuthority)
	}
	acc, err := l.Token(account)
	if err != nil {
		return err
	}
	if !acc.Mint.Eq(mint) {
		return fmt.Errorf("minting to %s: %w", account, ErrInvalidMint)
	}
	supply, ok := util.SafeAdd(m.Supply, amount)
	if !ok {
		return fmt.Errorf("minting %d to %s: %w", amount, account, types.ErrOverflow)
	}
	m.Supply = supply
	acc.Amount += amount
	return nil
}

// Transfer moves tokens between accounts of the same mint. The authority
// must be the source owner or its delegate with sufficient delegated amount;
// frozen accounts are immobile on both sides.
func (l *Ledger) Transfer(from, to types.Address, amount uint64, authority types.Address) error {
	src, err := l.Token(from)
	if err != nil {
		return err
	}
	dst, err := l.Token(to)
	if err != nil {
		return err
	}
	if !src.Mint.Eq(dst.Mint) {
		return fmt.Errorf("transfer %s -> %s: %w", from, to, ErrInvalidMint)
	}
	if src.Frozen {
		return fmt.Errorf("transfer from %s: %w", from, ErrAccountFrozen)
	}
	if dst.Frozen {
		return fmt.Errorf("transfer to %s: %w", to, ErrAccountFrozen)
	}
	if src.Amount < amount {
		return fmt.Errorf("transfer of %d from %s holding %d: %w", amount, from, src.Amount, ErrInsufficientFunds)
	}
	switch {
	case src.Owner.Eq(authority):
	case src.Delegate != nil && src.Delegate.Eq(authority):
		if src.DelegatedAmount < amount {
			return fmt.Errorf("delegate transfer of %d from %s: %w", amount, from, ErrInsufficientDelegation)
		}
		src.DelegatedAmount -= amount
		if src.DelegatedAmount == 0 {
			src.Delegate = nil
		}
	default:
		return fmt.Errorf("transfer from %s by %s: %w", from, authority, ErrInvalidAuthority)
	}
	src.Amount -= amount
	dst.Amount += amount
	return nil
}

// Approve installs a delegate on the token account. A token account has at
// most one delegate at a time.
func (l *Ledger) Approve(account, delegate types.Address, amount uint64, authority types.Address) error {
	acc, err := l.Token(account)
	if err != nil {
		return err
	}
	if !acc.Owner.Eq(authority) {
		return fmt.Errorf("approving delegate on %s: %w", account, ErrInvalidAuthority)
	}
	if acc.Frozen {
		return fmt.Errorf("approving delegate on %s: %w", account, ErrAccountFrozen)
	}
	acc.Delegate = &delegate
	acc.DelegatedAmount = amount
	return nil
}

func (l *Ledger) Revoke(account types.Address, authority types.Address) error {
	acc, err := l.Token(account)
	if err != nil {
		return err
	}
	if !acc.Owner.Eq(authority) {
		return fmt.Errorf("revoking delegate on %s: %w", account, ErrInvalidAuthority)
	}
	acc.Delegate = nil
	acc.DelegatedAmount = 0
	return nil
}

// Freeze makes the token account immobile. Only the mint's freeze authority
// may freeze.
func (l *Ledger) Freeze(account types.Address, authority types.Address) error {
	acc, err := l.Token(account)
	if err != nil {
		return err
	}
	m, err := l.Mint(acc.Mint)
	if err != nil {
		return err
	}
	if m.FreezeAuthority == nil || !m.FreezeAuthority.Eq(authority) {
		return fmt.Errorf("freezing %s: %w", account, ErrInvalidAuthority)
	}
	if acc.Frozen {
		return fmt.Errorf("freezing %s: %w", account, ErrAccountFrozen)
	}
	acc.Frozen = true
	return nil
}

func (l *Ledger) Thaw(account types.Address, authority types.Address) error {
	acc, err := l.Token(account)
	if err != nil {
		return err
	}
	m, err := l.Mint(acc.Mint)
	if err != nil {
		return err
	}
	if m.FreezeAuthority == nil || !m.FreezeAuthority.Eq(authority) {
		return fmt.Errorf("thawing %s: %w", account, ErrInvalidAuthority)
	}
	if !acc.Frozen {
		return fmt.Errorf("thawing %s: %w", account, ErrAccountNotFrozen)
	}
	acc.Frozen = false
	return nil
}

// SetFreezeAuthority hands the mint's freeze authority over to newAuthority
// (or removes it when nil). The current freeze authority must sign.
func (l *Ledger) SetFreezeAuthority(mint types.Address, current types.Address, newAuthority *types.Address) error {
	m, err := l.Mint(mint)
	if err != nil {
		return err
	}
	if m.FreezeAuthority == nil || !m.FreezeAuthority.Eq(current) {
		return fmt.Errorf("setting freeze authority of %s: %w", mint, ErrInvalidAuthority)
	}
	m.FreezeAuthority = newAuthority
	return nil
}

// CloseTokenAccount destroys an empty, unfrozen token account.
func (l *Ledger) CloseTokenAccount(account types.Address, authority types.Address) error {
	acc, err := l.Token(account)
	if err != nil {
		return err
	}
	if !acc.Owner.Eq(authority) {
		return fmt.Errorf("closing token account %s: %w", account, ErrInvalidAuthority)
	}
	if acc.Amount != 0 {
		return fmt.Errorf("closing token account %s holding %d: %w", account, acc.Amount, ErrNonZeroBalance)
	}
	if acc.Frozen {
		return fmt.Errorf("closing token account %s: %w", account, ErrAccountFrozen)
	}
	delete(l.tokenAccounts, account)
	delete(l.tokenRecords, account)
	return nil
}
