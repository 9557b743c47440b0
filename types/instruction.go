package types

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/borsh"
)

// Instruction is the operation envelope: the target program, the accounts
// the handler's preconditions reference (in the order the handler expects)
// and the payload. The first payload byte selects the operation, the rest is
// the borsh encoding of the operation's argument struct.
type Instruction struct {
	Program  Address
	Accounts []Address
	Data     []byte
}

func NewInstruction(program Address, op byte, args any, accounts ...Address) (*Instruction, error) {
	data, err := borsh.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encoding arguments: %w", err)
	}
	return &Instruction{
		Program:  program,
		Accounts: accounts,
		Data:     append([]byte{op}, data...),
	}, nil
}

func (ix *Instruction) Op() (byte, error) {
	if len(ix.Data) == 0 {
		return 0, fmt.Errorf("instruction data is empty")
	}
	return ix.Data[0], nil
}

// Args decodes the argument struct following the opcode byte.
func (ix *Instruction) Args(v any) error {
	if len(ix.Data) == 0 {
		return fmt.Errorf("instruction data is empty")
	}
	return borsh.Unmarshal(ix.Data[1:], v)
}

func (ix *Instruction) Account(i int) (Address, error) {
	if i >= len(ix.Accounts) {
		return ZeroAddress, fmt.Errorf("instruction expects account at index %d, got %d accounts", i, len(ix.Accounts))
	}
	return ix.Accounts[i], nil
}

// RequireAccounts errors unless the account list has exactly n entries.
func (ix *Instruction) RequireAccounts(n int) error {
	if len(ix.Accounts) != n {
		return fmt.Errorf("instruction expects %d accounts, got %d", n, len(ix.Accounts))
	}
	return nil
}
