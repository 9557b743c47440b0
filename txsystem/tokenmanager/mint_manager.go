package tokenmanager

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/txsystem"
	"github.com/tokenlease-org/tokenlease-go/types"
)

// CreateMintManager takes over the mint's freeze authority so claimed
// Managed and Permissioned rentals can freeze recipient accounts. The
// initializer must currently hold that authority.
func (x *Executor) CreateMintManager(mint, initializer types.Address) (types.Address, error) {
	l := x.rt.Ledger
	addr, bump := DeriveMintManager(mint)
	if l.HasRecord(addr) {
		return types.ZeroAddress, fmt.Errorf("mint manager for %s: %w", mint, ledger.ErrAccountExists)
	}
	if err := l.SetFreezeAuthority(mint, initializer, &addr); err != nil {
		return types.ZeroAddress, fmt.Errorf("claiming freeze authority of %s: %w", mint, err)
	}
	mm := &MintManager{Bump: bump, Mint: mint, Initializer: initializer}
	if err := txsystem.StoreRecord(l, addr, ProgramID, MintManagerRecordName, mm, initializer); err != nil {
		return types.ZeroAddress, err
	}
	return addr, nil
}

// CloseMintManager hands the freeze authority back to the initializer. Only
// possible once no claimed rental is freezing under this manager.
func (x *Executor) CloseMintManager(mintManager, caller types.Address) error {
	l := x.rt.Ledger
	mm, err := x.LoadMintManager(mintManager)
	if err != nil {
		return err
	}
	if !mm.Initializer.Eq(caller) {
		return fmt.Errorf("close mint manager by %s: %w", caller, ErrInvalidMintManagerCloser)
	}
	if mm.TokenManagers != 0 {
		return fmt.Errorf("close mint manager with %d outstanding: %w", mm.TokenManagers, ErrOutstandingTokenManagers)
	}
	if err := l.SetFreezeAuthority(mm.Mint, mintManager, &mm.Initializer); err != nil {
		return err
	}
	return l.CloseRecord(mintManager, ProgramID, caller)
}
