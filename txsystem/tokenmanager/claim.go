package tokenmanager

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/txsystem"
	"github.com/tokenlease-org/tokenlease-go/types"
)

// CreateClaimReceipt lets the installed claim approver authorize target to
// claim. The receipt is pinned to the current rental cycle.
func (x *Executor) CreateClaimReceipt(tokenManager, claimApprover, target, payer types.Address) (types.Address, error) {
	l := x.rt.Ledger
	tm, err := x.Load(tokenManager)
	if err != nil {
		return types.ZeroAddress, err
	}
	if tm.ClaimApprover == nil || !tm.ClaimApprover.Eq(claimApprover) {
		return types.ZeroAddress, fmt.Errorf("create claim receipt by %s: %w", claimApprover, ErrInvalidClaimApprover)
	}
	addr, bump := DeriveClaimReceipt(tokenManager, target)
	if l.HasRecord(addr) {
		return types.ZeroAddress, fmt.Errorf("claim receipt %s: %w", addr, ledger.ErrAccountExists)
	}
	receipt := &ClaimReceipt{Bump: bump, MintCount: tm.Count, TokenManager: tokenManager, Target: target}
	if err := txsystem.StoreRecord(l, addr, ProgramID, ClaimReceiptRecordName, receipt, payer); err != nil {
		return types.ZeroAddress, err
	}
	return addr, nil
}

type ClaimParams struct {
	TokenManager          types.Address
	Recipient             types.Address // signer
	RecipientTokenAccount types.Address
}

// Claim moves the escrowed token to the recipient and locks it there
// according to the rental kind. When a claim approver is installed the
// recipient must hold a receipt for the current cycle; the receipt is
// consumed. The token manager keeps delegate authority over the recipient
// account so it can always pull the token back.
func (x *Executor) Claim(p ClaimParams) error {
	l := x.rt.Ledger
	tm, err := x.Load(p.TokenManager)
	if err != nil {
		return err
	}
	if tm.State != StateIssued {
		return fmt.Errorf("claim from %s: %w", tm.State, ErrInvalidState)
	}

	var receiptAddr types.Address
	if tm.ClaimApprover != nil {
		receiptAddr, _ = DeriveClaimReceipt(p.TokenManager, p.Recipient)
		receipt, err := txsystem.LoadRecord[ClaimReceipt](l, receiptAddr, ProgramID, ClaimReceiptRecordName)
		if err != nil {
			return fmt.Errorf("claim by %s: %w", p.Recipient, ErrInvalidClaimReceipt)
		}
		if receipt.MintCount != tm.Count || !receipt.Target.Eq(p.Recipient) {
			return fmt.Errorf("claim by %s: %w", p.Recipient, ErrInvalidClaimReceipt)
		}
	}

	rta := p.RecipientTokenAccount
	if rta.IsZero() || rta.Eq(ledger.AssociatedTokenAddress(p.Recipient, tm.Mint)) {
		if rta, err = l.EnsureTokenAccount(p.Recipient, tm.Mint); err != nil {
			return err
		}
	} else {
		acc, err := l.Token(rta)
		if err != nil {
			return err
		}
		if !acc.Owner.Eq(p.Recipient) || !acc.Mint.Eq(tm.Mint) {
			return fmt.Errorf("claim into %s: %w", rta, ErrInvalidRecipient)
		}
	}

	// A mint that became programmable after issuance upgrades the rental.
	kind := tm.Kind
	if md, mdErr := l.Metadata(tm.Mint); mdErr == nil && md.TokenStandard == ledger.StandardProgrammableNonFungible {
		kind = KindProgrammable
	}

	custody := tm.RecipientTokenAccount
	if kind == KindProgrammable {
		if err := l.ProgrammableTransfer(custody, rta, tm.Amount, p.TokenManager); err != nil {
			return fmt.Errorf("claiming %s: %w", tm.Mint, err)
		}
		if err := l.DelegateLockedTransfer(rta, p.TokenManager, p.TokenManager, p.Recipient); err != nil {
			return err
		}
		if err := l.Lock(rta, p.TokenManager); err != nil {
			return err
		}
	} else {
		if err := l.Transfer(custody, rta, tm.Amount, p.TokenManager); err != nil {
			return fmt.Errorf("claiming %s: %w", tm.Mint, err)
		}
		if err := l.Approve(rta, p.TokenManager, tm.Amount, p.Recipient); err != nil {
			return err
		}
		switch {
		case kind.usesMintManager():
			mmAddr, _ := DeriveMintManager(tm.Mint)
			mm, err := x.LoadMintManager(mmAddr)
			if err != nil {
				return fmt.Errorf("claiming managed rental: %w", ErrInvalidMintManager)
			}
			if err := l.Freeze(rta, mmAddr); err != nil {
				return err
			}
			mm.TokenManagers++
			if err := txsystem.StoreRecord(l, mmAddr, ProgramID, MintManagerRecordName, mm, p.Recipient); err != nil {
				return err
			}
		case kind == KindEdition:
			if err := l.FreezeDelegated(rta, p.TokenManager); err != nil {
				return err
			}
		}
	}

	// The invalidation bounty: rentals ending in Reissue or Invalidate keep
	// their record alive, so whoever finally invalidates is compensated.
	if tm.InvalidationType == InvalidationReissue || tm.InvalidationType == InvalidationInvalidate {
		if err := l.DepositToRecord(p.TokenManager, p.Recipient, x.rt.Config.InvalidationRewardLamports); err != nil {
			return err
		}
	}

	if tm.ClaimApprover != nil {
		if err := l.CloseRecord(receiptAddr, ProgramID, p.Recipient); err != nil {
			return err
		}
	}

	tm.State = StateClaimed
	tm.Kind = kind
	tm.RecipientTokenAccount = rta
	tm.StateChangedAt = x.rt.Now()
	return x.store(p.TokenManager, tm, p.Recipient)
}
