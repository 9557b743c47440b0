package tokenmanager

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/txsystem"
	"github.com/tokenlease-org/tokenlease-go/types"
)

type InvalidateParams struct {
	TokenManager types.Address
	Caller       types.Address // signer
	// Collector receives the record rent when the record is closed, and the
	// non-bounty remainder otherwise.
	Collector types.Address
	// BountyRecipient receives the invalidation reward; zero means the
	// caller. Plugin invalidators set it to whoever invoked them, since
	// their own record address is what sits in the invalidator set.
	BountyRecipient types.Address
	// ReceiptTokenAccount holds the receipt mint token when one is set; the
	// returned token goes to that account's owner instead of the issuer.
	ReceiptTokenAccount types.Address
}

func (p InvalidateParams) bountyTo() types.Address {
	if p.BountyRecipient.IsZero() {
		return p.Caller
	}
	return p.BountyRecipient
}

// Invalidate ends a rental, applying the token manager's invalidation type.
// Invalidators may always invalidate; the current holder may end Return and
// Reissue rentals themselves. From Issued only Return and Vest apply, since
// nothing was claimed yet.
func (x *Executor) Invalidate(p InvalidateParams) error {
	l := x.rt.Ledger
	tm, err := x.Load(p.TokenManager)
	if err != nil {
		return err
	}
	if tm.State != StateIssued && tm.State != StateClaimed {
		return fmt.Errorf("invalidate from %s: %w", tm.State, ErrInvalidState)
	}

	holder := types.ZeroAddress
	if tm.State == StateClaimed {
		acc, err := l.Token(tm.RecipientTokenAccount)
		if err != nil {
			return err
		}
		holder = acc.Owner
	}
	if !tm.HasInvalidator(p.Caller) {
		if tm.State != StateClaimed || !p.Caller.Eq(holder) {
			return fmt.Errorf("invalidate by %s: %w", p.Caller, ErrInvalidInvalidator)
		}
		// the holder may only end rentals that hand the token back
		if tm.InvalidationType != InvalidationReturn && tm.InvalidationType != InvalidationReissue {
			return fmt.Errorf("invalidate by holder %s: %w", p.Caller, ErrInvalidHolder)
		}
	}
	if tm.State == StateIssued &&
		tm.InvalidationType != InvalidationReturn && tm.InvalidationType != InvalidationVest {
		return fmt.Errorf("invalidate unclaimed %d rental: %w", tm.InvalidationType, ErrInvalidState)
	}

	custody := CustodyAccount(p.TokenManager, tm.Mint)
	mmAddr, _ := DeriveMintManager(tm.Mint)

	// Lift the lock and settle the outstanding mint manager count before any
	// token moves.
	if tm.State == StateClaimed {
		switch {
		case tm.Kind == KindProgrammable:
			if err := l.Unlock(tm.RecipientTokenAccount, p.TokenManager); err != nil {
				return err
			}
		case tm.Kind.usesMintManager():
			if err := l.Thaw(tm.RecipientTokenAccount, mmAddr); err != nil {
				return err
			}
			mm, err := x.LoadMintManager(mmAddr)
			if err != nil {
				return err
			}
			mm.TokenManagers--
			if err := txsystem.StoreRecord(l, mmAddr, ProgramID, MintManagerRecordName, mm, p.Caller); err != nil {
				return err
			}
		case tm.Kind == KindEdition:
			if err := l.ThawDelegated(tm.RecipientTokenAccount, p.TokenManager); err != nil {
				return err
			}
		}
	}

	switch tm.InvalidationType {
	case InvalidationReturn:
		dest, err := x.returnDestination(tm, p.ReceiptTokenAccount)
		if err != nil {
			return err
		}
		if err := x.moveOut(tm, dest); err != nil {
			return err
		}
		return x.closeOut(p, tm, custody)

	case InvalidationInvalidate:
		if tm.State == StateClaimed {
			// Round-trip through custody so the holder keeps the token with
			// the manager's delegation cleared.
			if err := x.roundTrip(tm); err != nil {
				return err
			}
		}
		if err := x.closeCustody(tm, custody); err != nil {
			return err
		}
		if err := x.payBounty(p.TokenManager, p.bountyTo()); err != nil {
			return err
		}
		tm.State = StateInvalidated
		tm.StateChangedAt = x.rt.Now()
		return x.store(p.TokenManager, tm, p.Caller)

	case InvalidationRelease:
		if tm.State == StateClaimed {
			if err := x.roundTrip(tm); err != nil {
				return err
			}
		}
		return x.closeOut(p, tm, custody)

	case InvalidationReissue:
		if err := x.moveOut(tm, custody); err != nil {
			return err
		}
		if err := x.payBounty(p.TokenManager, p.bountyTo()); err != nil {
			return err
		}
		tm.State = StateIssued
		tm.RecipientTokenAccount = custody
		tm.StateChangedAt = x.rt.Now()
		return x.store(p.TokenManager, tm, p.Caller)

	case InvalidationVest:
		if tm.ClaimApprover == nil {
			return fmt.Errorf("vesting rental: %w", ErrClaimApproverRequired)
		}
		if tm.State == StateIssued {
			dest, err := l.EnsureTokenAccount(*tm.ClaimApprover, tm.Mint)
			if err != nil {
				return err
			}
			if err := x.moveOut(tm, dest); err != nil {
				return err
			}
		} else if err := x.roundTrip(tm); err != nil {
			return err
		}
		return x.closeOut(p, tm, custody)
	}
	return fmt.Errorf("invalidation type %d: %w", tm.InvalidationType, ErrInvalidInvalidationType)
}

// returnDestination resolves where a returned token goes: the issuer's
// associated account, or the receipt holder's when a receipt mint is set.
func (x *Executor) returnDestination(tm *TokenManager, receiptTokenAccount types.Address) (types.Address, error) {
	l := x.rt.Ledger
	if tm.ReceiptMint == nil {
		return l.EnsureTokenAccount(tm.Issuer, tm.Mint)
	}
	acc, err := l.Token(receiptTokenAccount)
	if err != nil {
		return types.ZeroAddress, fmt.Errorf("return with receipt mint: %w", ErrInvalidReceiptTokenAccount)
	}
	if !acc.Mint.Eq(*tm.ReceiptMint) || acc.Amount < 1 {
		return types.ZeroAddress, fmt.Errorf("return with receipt mint: %w", ErrInvalidReceiptTokenAccount)
	}
	return l.EnsureTokenAccount(acc.Owner, tm.Mint)
}

// moveOut sends the managed token from wherever it currently sits to dest.
func (x *Executor) moveOut(tm *TokenManager, dest types.Address) error {
	l := x.rt.Ledger
	if tm.Kind == KindProgrammable {
		return l.ProgrammableTransfer(tm.RecipientTokenAccount, dest, tm.Amount, tm.TokenManagerAddress())
	}
	return l.Transfer(tm.RecipientTokenAccount, dest, tm.Amount, tm.TokenManagerAddress())
}

// roundTrip moves the token from the holder's account into custody and
// straight back. Delegated transfers clear the delegation once the full
// delegated amount has moved, so the holder ends up with an unencumbered
// account.
func (x *Executor) roundTrip(tm *TokenManager) error {
	l := x.rt.Ledger
	self := tm.TokenManagerAddress()
	custody := CustodyAccount(self, tm.Mint)
	rta := tm.RecipientTokenAccount
	if tm.Kind == KindProgrammable {
		if err := l.ProgrammableTransfer(rta, custody, tm.Amount, self); err != nil {
			return err
		}
		return l.ProgrammableTransfer(custody, rta, tm.Amount, self)
	}
	if err := l.Transfer(rta, custody, tm.Amount, self); err != nil {
		return err
	}
	return l.Transfer(custody, rta, tm.Amount, self)
}

// closeCustody removes the escrow account once it is empty.
func (x *Executor) closeCustody(tm *TokenManager, custody types.Address) error {
	l := x.rt.Ledger
	if !l.HasTokenAccount(custody) {
		return nil
	}
	if acc, err := l.Token(custody); err != nil || acc.Amount != 0 {
		if err != nil {
			return err
		}
		return fmt.Errorf("closing custody %s: %w", custody, ledger.ErrNonZeroBalance)
	}
	return l.CloseTokenAccount(custody, tm.TokenManagerAddress())
}

// payBounty pays the caller the invalidation reward out of the record's
// surplus lamports, when the surplus covers it.
func (x *Executor) payBounty(tokenManager, caller types.Address) error {
	l := x.rt.Ledger
	reward := x.rt.Config.InvalidationRewardLamports
	rec, err := l.Record(tokenManager)
	if err != nil {
		return err
	}
	if rec.Lamports < ledger.RentExempt(len(rec.Data))+reward {
		return nil
	}
	return l.WithdrawFromRecord(tokenManager, ProgramID, caller, reward)
}

// closeOut pays the bounty, closes custody and destroys the record.
func (x *Executor) closeOut(p InvalidateParams, tm *TokenManager, custody types.Address) error {
	if err := x.closeCustody(tm, custody); err != nil {
		return err
	}
	if err := x.payBounty(p.TokenManager, p.bountyTo()); err != nil {
		return err
	}
	return x.rt.Ledger.CloseRecord(p.TokenManager, ProgramID, p.Collector)
}

// TokenManagerAddress recomputes the record's own derived address.
func (tm *TokenManager) TokenManagerAddress() types.Address {
	addr, _ := DeriveTokenManager(tm.Mint)
	return addr
}
