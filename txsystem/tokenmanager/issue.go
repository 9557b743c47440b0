package tokenmanager

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/types"
)

type IssueParams struct {
	TokenManager       types.Address
	Issuer             types.Address // signer
	IssuerTokenAccount types.Address
	Amount             uint64
	Kind               Kind
	InvalidationType   InvalidationType
}

// Issue escrows the token into the manager's own account and opens the
// rental for claiming. Permissioned rentals must release on invalidation and
// pay the protocol reward up front; a mint carrying programmable metadata
// forces the Programmable kind regardless of what was requested.
func (x *Executor) Issue(p IssueParams) error {
	l := x.rt.Ledger
	tm, err := x.Load(p.TokenManager)
	if err != nil {
		return err
	}
	if tm.State != StateInitialized {
		return fmt.Errorf("issue from %s: %w", tm.State, ErrInvalidState)
	}
	if !tm.Issuer.Eq(p.Issuer) {
		return fmt.Errorf("issue: %w", ErrInvalidIssuer)
	}
	if p.Amount < 1 {
		return fmt.Errorf("issue amount %d: %w", p.Amount, ErrInvalidAmount)
	}
	if !p.Kind.Valid() {
		return fmt.Errorf("issue kind %d: %w", p.Kind, ErrInvalidKind)
	}
	if !p.InvalidationType.Valid() {
		return fmt.Errorf("issue invalidation type %d: %w", p.InvalidationType, ErrInvalidInvalidationType)
	}
	if p.Kind == KindPermissioned && p.InvalidationType != InvalidationRelease {
		return fmt.Errorf("permissioned rental with %d: %w", p.InvalidationType, ErrInvalidInvalidationKind)
	}
	if p.InvalidationType == InvalidationVest && tm.ClaimApprover == nil {
		return fmt.Errorf("vesting rental: %w", ErrClaimApproverRequired)
	}

	kind := p.Kind
	if md, mdErr := l.Metadata(tm.Mint); mdErr == nil && md.TokenStandard == ledger.StandardProgrammableNonFungible {
		kind = KindProgrammable
	}

	custody, err := l.EnsureTokenAccount(p.TokenManager, tm.Mint)
	if err != nil {
		return err
	}
	if kind == KindProgrammable {
		err = l.ProgrammableTransfer(p.IssuerTokenAccount, custody, p.Amount, p.Issuer)
	} else {
		err = l.Transfer(p.IssuerTokenAccount, custody, p.Amount, p.Issuer)
	}
	if err != nil {
		return fmt.Errorf("escrowing %d of %s: %w", p.Amount, tm.Mint, err)
	}

	if kind == KindPermissioned {
		reward := x.rt.Config.PermissionedRewardLamports
		if err := l.TransferNative(p.Issuer, x.rt.Config.PermissionedRewardAddress, reward); err != nil {
			return fmt.Errorf("permissioned issue reward: %w", err)
		}
	}

	tm.State = StateIssued
	tm.Kind = kind
	tm.InvalidationType = p.InvalidationType
	tm.Amount = p.Amount
	tm.RecipientTokenAccount = custody
	tm.StateChangedAt = x.rt.Now()
	return x.store(p.TokenManager, tm, p.Issuer)
}

// Unissue takes an Issued rental back: the escrowed balance returns to the
// issuer and the record is destroyed, as if init never happened.
func (x *Executor) Unissue(tokenManager, issuer types.Address) error {
	l := x.rt.Ledger
	tm, err := x.Load(tokenManager)
	if err != nil {
		return err
	}
	if tm.State != StateIssued {
		return fmt.Errorf("unissue from %s: %w", tm.State, ErrInvalidState)
	}
	if !tm.Issuer.Eq(issuer) {
		return fmt.Errorf("unissue: %w", ErrInvalidIssuer)
	}
	dest, err := l.EnsureTokenAccount(issuer, tm.Mint)
	if err != nil {
		return err
	}
	if err := x.moveOut(tm, dest); err != nil {
		return err
	}
	custody := CustodyAccount(tokenManager, tm.Mint)
	if err := x.closeCustody(tm, custody); err != nil {
		return err
	}
	return l.CloseRecord(tokenManager, ProgramID, issuer)
}
