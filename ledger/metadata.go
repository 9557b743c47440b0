package ledger

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/types"
)

// TokenStandard values mirror the metadata collaborator's wire enum; only
// the entries the protocol branches on are named.
type TokenStandard uint8

const (
	StandardNonFungible             TokenStandard = 0
	StandardFungible                TokenStandard = 2
	StandardProgrammableNonFungible TokenStandard = 4
)

type Creator struct {
	Address  types.Address
	Verified bool
	Share    uint8 // percent of the royalty pool, all creators sum to 100
}

// Metadata is the collaborator record carrying creator-royalty data and the
// token standard of a mint.
type Metadata struct {
	Mint                 types.Address
	UpdateAuthority      types.Address
	Name                 string
	Symbol               string
	SellerFeeBasisPoints uint16
	Creators             []Creator
	TokenStandard        TokenStandard
}

// MasterEdition is the edition-level proof required for delegated freezing
// of Edition-kind rentals.
type MasterEdition struct {
	Mint      types.Address
	MaxSupply *uint64
}

type TokenRecordState uint8

const (
	TokenStateUnlocked TokenRecordState = 0
	TokenStateLocked   TokenRecordState = 1
)

// TokenRecord carries the programmable token state of one token account:
// the installed delegate, its locked-transfer restriction and the lock flag.
type TokenRecord struct {
	TokenAccount   types.Address
	State          TokenRecordState
	Delegate       *types.Address
	LockedTransfer *types.Address
}

// SetMetadata installs the metadata record of a mint. Stands in for the
// metadata program's own mint flow.
func (l *Ledger) SetMetadata(md *Metadata) {
	l.metadata[md.Mint] = md
}

func (l *Ledger) Metadata(mint types.Address) (*Metadata, error) {
	md, ok := l.metadata[mint]
	if !ok {
		return nil, fmt.Errorf("metadata of mint %s: %w", mint, ErrMetadataNotFound)
	}
	return md, nil
}

// HasMetadata reports whether the mint has a readable metadata record.
func (l *Ledger) HasMetadata(mint types.Address) bool {
	_, ok := l.metadata[mint]
	return ok
}

func (l *Ledger) SetMasterEdition(ed *MasterEdition) {
	l.editions[ed.Mint] = ed
}

func (l *Ledger) MasterEdition(mint types.Address) (*MasterEdition, error) {
	ed, ok := l.editions[mint]
	if !ok {
		return nil, fmt.Errorf("master edition of mint %s: %w", mint, ErrEditionNotFound)
	}
	return ed, nil
}

func (l *Ledger) TokenRecord(account types.Address) (*TokenRecord, error) {
	tr, ok := l.tokenRecords[account]
	if !ok {
		return nil, fmt.Errorf("token record of %s: %w", account, ErrAccountNotFound)
	}
	return tr, nil
}

// FreezeDelegated freezes a token account through the metadata program with
// the master edition as proof: the caller must be the installed delegate.
func (l *Ledger) FreezeDelegated(account types.Address, delegate types.Address) error {
	acc, err := l.Token(account)
	if err != nil {
		return err
	}
	if _, err := l.MasterEdition(acc.Mint); err != nil {
		return err
	}
	if acc.Delegate == nil || !acc.Delegate.Eq(delegate) {
		return fmt.Errorf("freeze delegated on %s: %w", account, ErrInvalidDelegate)
	}
	if acc.Frozen {
		return fmt.Errorf("freeze delegated on %s: %w", account, ErrAccountFrozen)
	}
	acc.Frozen = true
	return nil
}

func (l *Ledger) ThawDelegated(account types.Address, delegate types.Address) error {
	acc, err := l.Token(account)
	if err != nil {
		return err
	}
	if _, err := l.MasterEdition(acc.Mint); err != nil {
		return err
	}
	if acc.Delegate == nil || !acc.Delegate.Eq(delegate) {
		return fmt.Errorf("thaw delegated on %s: %w", account, ErrInvalidDelegate)
	}
	if !acc.Frozen {
		return fmt.Errorf("thaw delegated on %s: %w", account, ErrAccountNotFrozen)
	}
	acc.Frozen = false
	return nil
}

// ProgrammableTransfer moves a programmable token, carrying its token-record
// state to the destination account. Rejected while the record is locked.
func (l *Ledger) ProgrammableTransfer(from, to types.Address, amount uint64, authority types.Address) error {
	src, err := l.Token(from)
	if err != nil {
		return err
	}
	md, err := l.Metadata(src.Mint)
	if err != nil {
		return err
	}
	if md.TokenStandard != StandardProgrammableNonFungible {
		return fmt.Errorf("programmable transfer of mint %s: %w", src.Mint, ErrInvalidTokenStandard)
	}
	if tr, ok := l.tokenRecords[from]; ok && tr.State == TokenStateLocked {
		return fmt.Errorf("programmable transfer from %s: %w", from, ErrTokenRecordLocked)
	}
	if err := l.Transfer(from, to, amount, authority); err != nil {
		return err
	}
	delete(l.tokenRecords, from)
	l.tokenRecords[to] = &TokenRecord{TokenAccount: to}
	return nil
}

// DelegateLockedTransfer installs a locked-transfer delegate on the token
// record: while locked, the token may only move to lockedTransfer.
func (l *Ledger) DelegateLockedTransfer(account, delegate, lockedTransfer types.Address, authority types.Address) error {
	acc, err := l.Token(account)
	if err != nil {
		return err
	}
	if !acc.Owner.Eq(authority) {
		return fmt.Errorf("locked transfer delegate on %s: %w", account, ErrInvalidAuthority)
	}
	tr, ok := l.tokenRecords[account]
	if !ok {
		tr = &TokenRecord{TokenAccount: account}
		l.tokenRecords[account] = tr
	}
	if tr.State == TokenStateLocked {
		return fmt.Errorf("locked transfer delegate on %s: %w", account, ErrTokenRecordLocked)
	}
	tr.Delegate = &delegate
	tr.LockedTransfer = &lockedTransfer
	acc.Delegate = &delegate
	acc.DelegatedAmount = acc.Amount
	return nil
}

// Lock freezes a programmable token in place; only the token record's
// delegate may lock.
func (l *Ledger) Lock(account types.Address, delegate types.Address) error {
	tr, err := l.TokenRecord(account)
	if err != nil {
		return err
	}
	if tr.Delegate == nil || !tr.Delegate.Eq(delegate) {
		return fmt.Errorf("locking %s: %w", account, ErrInvalidDelegate)
	}
	if tr.State == TokenStateLocked {
		return fmt.Errorf("locking %s: %w", account, ErrTokenRecordLocked)
	}
	acc, err := l.Token(account)
	if err != nil {
		return err
	}
	tr.State = TokenStateLocked
	acc.Frozen = true
	return nil
}

func (l *Ledger) Unlock(account types.Address, delegate types.Address) error {
	tr, err := l.TokenRecord(account)
	if err != nil {
		return err
	}
	if tr.Delegate == nil || !tr.Delegate.Eq(delegate) {
		return fmt.Errorf("unlocking %s: %w", account, ErrInvalidDelegate)
	}
	if tr.State != TokenStateLocked {
		return fmt.Errorf("unlocking %s: %w", account, ErrTokenRecordNotLocked)
	}
	acc, err := l.Token(account)
	if err != nil {
		return err
	}
	tr.State = TokenStateUnlocked
	acc.Frozen = false
	return nil
}
