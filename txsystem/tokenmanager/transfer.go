package tokenmanager

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/txsystem"
	"github.com/tokenlease-org/tokenlease-go/types"
)

// CreateTransferReceipt lets the installed transfer authority permit the
// claimed token to move to target. The receipt address depends only on the
// token manager, so at most one pending transfer exists per rental and a
// later receipt overwrites an unconsumed earlier one.
func (x *Executor) CreateTransferReceipt(tokenManager, transferAuthority, target, payer types.Address) (types.Address, error) {
	l := x.rt.Ledger
	tm, err := x.Load(tokenManager)
	if err != nil {
		return types.ZeroAddress, err
	}
	if !tm.TransfersEnabled(tokenManager) {
		return types.ZeroAddress, fmt.Errorf("create transfer receipt: %w", ErrTransfersDisabled)
	}
	if !tm.TransferAuthority.Eq(transferAuthority) {
		return types.ZeroAddress, fmt.Errorf("create transfer receipt by %s: %w", transferAuthority, ErrInvalidTransferAuthority)
	}
	addr, bump := DeriveTransferReceipt(tokenManager)
	receipt := &TransferReceipt{Bump: bump, MintCount: tm.Count, TokenManager: tokenManager, Target: target}
	if err := txsystem.StoreRecord(l, addr, ProgramID, TransferReceiptRecordName, receipt, payer); err != nil {
		return types.ZeroAddress, err
	}
	return addr, nil
}

type TransferParams struct {
	TokenManager              types.Address
	NewRecipient              types.Address // signer
	NewRecipientTokenAccount  types.Address
	CurrentRecipientTokenAcct types.Address
}

// Transfer moves a claimed token to a new holder, consuming the pending
// transfer receipt. The lock is lifted on the old account and reinstated on
// the new one; the mint manager's outstanding count is unchanged since the
// rental stays claimed.
func (x *Executor) Transfer(p TransferParams) error {
	l := x.rt.Ledger
	tm, err := x.Load(p.TokenManager)
	if err != nil {
		return err
	}
	if tm.State != StateClaimed {
		return fmt.Errorf("transfer from %s: %w", tm.State, ErrInvalidState)
	}
	if !tm.RecipientTokenAccount.Eq(p.CurrentRecipientTokenAcct) {
		return fmt.Errorf("transfer from %s: %w", p.CurrentRecipientTokenAcct, ErrInvalidRecipient)
	}

	receiptAddr, _ := DeriveTransferReceipt(p.TokenManager)
	receipt, err := txsystem.LoadRecord[TransferReceipt](l, receiptAddr, ProgramID, TransferReceiptRecordName)
	if err != nil {
		return fmt.Errorf("transfer to %s: %w", p.NewRecipient, ErrInvalidTransferReceipt)
	}
	if receipt.MintCount != tm.Count || !receipt.Target.Eq(p.NewRecipient) {
		return fmt.Errorf("transfer to %s: %w", p.NewRecipient, ErrInvalidTransferReceipt)
	}

	rta := p.NewRecipientTokenAccount
	if rta.IsZero() || rta.Eq(ledger.AssociatedTokenAddress(p.NewRecipient, tm.Mint)) {
		if rta, err = l.EnsureTokenAccount(p.NewRecipient, tm.Mint); err != nil {
			return err
		}
	} else {
		acc, err := l.Token(rta)
		if err != nil {
			return err
		}
		if !acc.Owner.Eq(p.NewRecipient) || !acc.Mint.Eq(tm.Mint) {
			return fmt.Errorf("transfer into %s: %w", rta, ErrInvalidRecipient)
		}
	}

	old := tm.RecipientTokenAccount
	mmAddr, _ := DeriveMintManager(tm.Mint)
	switch {
	case tm.Kind == KindProgrammable:
		if err := l.Unlock(old, p.TokenManager); err != nil {
			return err
		}
		if err := l.ProgrammableTransfer(old, rta, tm.Amount, p.TokenManager); err != nil {
			return err
		}
		if err := l.DelegateLockedTransfer(rta, p.TokenManager, p.TokenManager, p.NewRecipient); err != nil {
			return err
		}
		if err := l.Lock(rta, p.TokenManager); err != nil {
			return err
		}
	case tm.Kind.usesMintManager():
		if err := l.Thaw(old, mmAddr); err != nil {
			return err
		}
		if err := l.Transfer(old, rta, tm.Amount, p.TokenManager); err != nil {
			return err
		}
		if err := l.Approve(rta, p.TokenManager, tm.Amount, p.NewRecipient); err != nil {
			return err
		}
		if err := l.Freeze(rta, mmAddr); err != nil {
			return err
		}
	case tm.Kind == KindEdition:
		if err := l.ThawDelegated(old, p.TokenManager); err != nil {
			return err
		}
		if err := l.Transfer(old, rta, tm.Amount, p.TokenManager); err != nil {
			return err
		}
		if err := l.Approve(rta, p.TokenManager, tm.Amount, p.NewRecipient); err != nil {
			return err
		}
		if err := l.FreezeDelegated(rta, p.TokenManager); err != nil {
			return err
		}
	default: // Unmanaged
		if err := l.Transfer(old, rta, tm.Amount, p.TokenManager); err != nil {
			return err
		}
		if err := l.Approve(rta, p.TokenManager, tm.Amount, p.NewRecipient); err != nil {
			return err
		}
	}

	if err := l.CloseRecord(receiptAddr, ProgramID, p.NewRecipient); err != nil {
		return err
	}

	tm.RecipientTokenAccount = rta
	tm.StateChangedAt = x.rt.Now()
	return x.store(p.TokenManager, tm, p.NewRecipient)
}
