package txsystem

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/borsh"
	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/types"
)

// LoadRecord reads the record at addr, verifying the owning program and the
// record discriminator.
func LoadRecord[T any](l *ledger.Ledger, addr, program types.Address, name string) (*T, error) {
	rec, err := l.Record(addr)
	if err != nil {
		return nil, err
	}
	if !rec.Owner.Eq(program) {
		return nil, fmt.Errorf("record %s owned by %s: %w", addr, rec.Owner, ledger.ErrInvalidOwner)
	}
	v := new(T)
	if err := borsh.UnmarshalRecord(name, rec.Data, v); err != nil {
		return nil, fmt.Errorf("decoding %s record %s: %w", name, addr, err)
	}
	return v, nil
}

// StoreRecord writes the record at addr, creating the account when needed.
// Rent (or rent growth) is funded by payer.
func StoreRecord(l *ledger.Ledger, addr, program types.Address, name string, v any, payer types.Address) error {
	data, err := borsh.MarshalRecord(name, v)
	if err != nil {
		return err
	}
	if l.HasRecord(addr) {
		return l.SetRecordData(addr, program, data, payer)
	}
	return l.CreateRecord(addr, program, data, payer)
}
