/*
Package ledger is the reference implementation of the account ledger the
rental protocol runs on: native balances, mints, token accounts and
program-owned record accounts, with the transfer/freeze/thaw/delegate
primitives and the metadata collaborator surface the protocol handlers
invoke. It is in-memory and deterministic; every mutator enforces the same
authority and balance rules the production ledger would, so handler
preconditions are exercised for real in tests.
*/
package ledger

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/types"
)

var (
	// TokenProgramID owns all mints and token accounts.
	TokenProgramID = types.NewAddress("tokenlease.token-ledger")
	// MetadataProgramID owns metadata, edition and token record accounts.
	MetadataProgramID = types.NewAddress("tokenlease.token-metadata")
	// SystemProgramID owns plain native balance accounts.
	SystemProgramID = types.NewAddress("tokenlease.system")
	// NativeMint is the sentinel a payment mint field carries when the
	// payment runs in the chain's native balance instead of a token.
	NativeMint = types.NewAddress("tokenlease.native-mint")
)

const rentLamportsPerByte = 6_960

// RentExempt returns the lamports a record of the given size must hold to
// stay alive. Refunded to the designated collector when the record closes.
func RentExempt(dataLen int) uint64 {
	return uint64(128+dataLen) * rentLamportsPerByte
}

// RecordAccount is a program-owned account holding an encoded record. Only
// the owner program mutates or closes it.
type RecordAccount struct {
	Owner    types.Address
	Lamports uint64
	Data     []byte
}

type Ledger struct {
	timestamp     int64
	balances      map[types.Address]uint64
	records       map[types.Address]*RecordAccount
	mints         map[types.Address]*Mint
	tokenAccounts map[types.Address]*TokenAccount
	metadata      map[types.Address]*Metadata
	editions      map[types.Address]*MasterEdition
	tokenRecords  map[types.Address]*TokenRecord
}

func New() *Ledger {
	return &Ledger{
		balances:      map[types.Address]uint64{},
		records:       map[types.Address]*RecordAccount{},
		mints:         map[types.Address]*Mint{},
		tokenAccounts: map[types.Address]*TokenAccount{},
		metadata:      map[types.Address]*Metadata{},
		editions:      map[types.Address]*MasterEdition{},
		tokenRecords:  map[types.Address]*TokenRecord{},
	}
}

// Timestamp returns the ledger clock in unix seconds.
func (l *Ledger) Timestamp() int64 {
	return l.timestamp
}

func (l *Ledger) SetTimestamp(ts int64) {
	l.timestamp = ts
}

func (l *Ledger) AdvanceTime(seconds int64) {
	l.timestamp += seconds
}

func (l *Ledger) Balance(addr types.Address) uint64 {
	return l.balances[addr]
}

// Fund credits addr with lamports out of thin air. Genesis/test helper.
func (l *Ledger) Fund(addr types.Address, lamports uint64) {
	l.balances[addr] += lamports
}

// TransferNative moves lamports between native balances.
func (l *Ledger) TransferNative(from, to types.Address, lamports uint64) error {
	if l.balances[from] < lamports {
		return fmt.Errorf("native transfer of %d from %s: %w", lamports, from, ErrInsufficientFunds)
	}
	l.balances[from] -= lamports
	l.balances[to] += lamports
	return nil
}

// CreateRecord allocates a program-owned record account funded by payer with
// the rent for its data size.
func (l *Ledger) CreateRecord(addr, owner types.Address, data []byte, payer types.Address) error {
	if _, ok := l.records[addr]; ok {
		return fmt.Errorf("record %s: %w", addr, ErrAccountExists)
	}
	rent := RentExempt(len(data))
	if l.balances[payer] < rent {
		return fmt.Errorf("paying %d rent for record %s: %w", rent, addr, ErrInsufficientFunds)
	}
	l.balances[payer] -= rent
	l.records[addr] = &RecordAccount{Owner: owner, Lamports: rent, Data: data}
	return nil
}

func (l *Ledger) Record(addr types.Address) (*RecordAccount, error) {
	rec, ok := l.records[addr]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", addr, ErrAccountNotFound)
	}
	return rec, nil
}

// HasRecord reports whether a record account exists at addr.
func (l *Ledger) HasRecord(addr types.Address) bool {
	_, ok := l.records[addr]
	return ok
}

// SetRecordData overwrites the record's data. Only the owner program may
// mutate; growth must be paid for by payer.
func (l *Ledger) SetRecordData(addr, owner types.Address, data []byte, payer types.Address) error {
	rec, err := l.Record(addr)
	if err != nil {
		return err
	}
	if !rec.Owner.Eq(owner) {
		return fmt.Errorf("record %s owned by %s: %w", addr, rec.Owner, ErrInvalidOwner)
	}
	required := RentExempt(len(data))
	if required > rec.Lamports {
		diff := required - rec.Lamports
		if l.balances[payer] < diff {
			return fmt.Errorf("topping up %d rent for record %s: %w", diff, addr, ErrInsufficientFunds)
		}
		l.balances[payer] -= diff
		rec.Lamports += diff
	}
	rec.Data = data
	return nil
}

// DepositToRecord moves lamports from a native balance into a record
// account, on top of its rent. Used for the invalidation bounty.
func (l *Ledger) DepositToRecord(addr types.Address, from types.Address, lamports uint64) error {
	rec, err := l.Record(addr)
	if err != nil {
		return err
	}
	if l.balances[from] < lamports {
		return fmt.Errorf("depositing %d to record %s: %w", lamports, addr, ErrInsufficientFunds)
	}
	l.balances[from] -= lamports
	rec.Lamports += lamports
	return nil
}

// WithdrawFromRecord moves surplus lamports (above rent for the current
// data) out of a record account. Only the owner program may do this.
func (l *Ledger) WithdrawFromRecord(addr, owner types.Address, to types.Address, lamports uint64) error {
	rec, err := l.Record(addr)
	if err != nil {
		return err
	}
	if !rec.Owner.Eq(owner) {
		return fmt.Errorf("record %s owned by %s: %w", addr, rec.Owner, ErrInvalidOwner)
	}
	surplus := uint64(0)
	if rent := RentExempt(len(rec.Data)); rec.Lamports > rent {
		surplus = rec.Lamports - rent
	}
	if lamports > surplus {
		return fmt.Errorf("withdrawing %d of %d surplus from record %s: %w", lamports, surplus, addr, ErrInsufficientFunds)
	}
	rec.Lamports -= lamports
	l.balances[to] += lamports
	return nil
}

// CloseRecord destroys the record and refunds all its lamports to refundTo.
// Only the owner program may close.
func (l *Ledger) CloseRecord(addr, owner types.Address, refundTo types.Address) error {
	rec, err := l.Record(addr)
	if err != nil {
		return err
	}
	if !rec.Owner.Eq(owner) {
		return fmt.Errorf("record %s owned by %s: %w", addr, rec.Owner, ErrInvalidOwner)
	}
	l.balances[refundTo] += rec.Lamports
	delete(l.records, addr)
	return nil
}
