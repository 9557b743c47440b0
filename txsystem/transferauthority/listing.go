package transferauthority

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/txsystem"
	"github.com/tokenlease-org/tokenlease-go/txsystem/paymentmanager"
	"github.com/tokenlease-org/tokenlease-go/txsystem/tokenmanager"
	"github.com/tokenlease-org/tokenlease-go/types"
)

type CreateListingParams struct {
	TokenManager  types.Address
	Lister        types.Address // signer, current holder
	Marketplace   types.Address
	PaymentAmount uint64
	PaymentMint   types.Address
}

// CreateListing advertises a claimed rental for sale. The lister must be
// the current holder, the marketplace must be whitelisted by the rental's
// transfer authority, and the mint must be an accepted currency.
func (x *Executor) CreateListing(p CreateListingParams) (types.Address, error) {
	l := x.rt.Ledger
	tm, err := x.tm.Load(p.TokenManager)
	if err != nil {
		return types.ZeroAddress, err
	}
	if tm.State != tokenmanager.StateClaimed {
		return types.ZeroAddress, fmt.Errorf("listing in %s: %w", tm.State, ErrTokenManagerNotClaimed)
	}
	acc, err := l.Token(tm.RecipientTokenAccount)
	if err != nil {
		return types.ZeroAddress, err
	}
	if !acc.Owner.Eq(p.Lister) {
		return types.ZeroAddress, fmt.Errorf("listing by %s: %w", p.Lister, ErrInvalidLister)
	}
	m, err := x.LoadMarketplace(p.Marketplace)
	if err != nil {
		return types.ZeroAddress, fmt.Errorf("listing on %s: %w", p.Marketplace, ErrInvalidMarketplace)
	}
	if !tm.TransfersEnabled(p.TokenManager) || !tm.TransferAuthority.Eq(m.TransferAuthority) {
		return types.ZeroAddress, fmt.Errorf("listing on %s: %w", p.Marketplace, ErrInvalidTransferAuthority)
	}
	ta, err := x.Load(m.TransferAuthority)
	if err != nil {
		return types.ZeroAddress, err
	}
	if !ta.AllowsMarketplace(p.Marketplace) {
		return types.ZeroAddress, fmt.Errorf("listing on %s: %w", p.Marketplace, ErrMarketplaceNotAllowed)
	}
	if !m.AcceptsMint(p.PaymentMint) {
		return types.ZeroAddress, fmt.Errorf("listing in %s: %w", p.PaymentMint, ErrInvalidPaymentMint)
	}
	addr, bump := DeriveListing(p.TokenManager)
	listing := &Listing{
		Bump:          bump,
		Lister:        p.Lister,
		TokenManager:  p.TokenManager,
		Marketplace:   p.Marketplace,
		PaymentAmount: p.PaymentAmount,
		PaymentMint:   p.PaymentMint,
	}
	if err := txsystem.StoreRecord(l, addr, ProgramID, ListingRecordName, listing, p.Lister); err != nil {
		return types.ZeroAddress, err
	}
	return addr, nil
}

// UpdateListing reprices an existing listing. Lister only.
func (x *Executor) UpdateListing(listing, lister types.Address, paymentAmount uint64, paymentMint types.Address) error {
	ls, err := x.LoadListing(listing)
	if err != nil {
		return err
	}
	if !ls.Lister.Eq(lister) {
		return fmt.Errorf("update listing: %w", ErrInvalidLister)
	}
	m, err := x.LoadMarketplace(ls.Marketplace)
	if err != nil {
		return err
	}
	if !m.AcceptsMint(paymentMint) {
		return fmt.Errorf("repricing in %s: %w", paymentMint, ErrInvalidPaymentMint)
	}
	ls.PaymentAmount = paymentAmount
	ls.PaymentMint = paymentMint
	return txsystem.StoreRecord(x.rt.Ledger, listing, ProgramID, ListingRecordName, ls, lister)
}

// RemoveListing cancels a listing. Lister only; rent returns to the lister.
// A Permissioned token still delegated to its token manager is undelegated.
func (x *Executor) RemoveListing(listing, lister types.Address) error {
	l := x.rt.Ledger
	ls, err := x.LoadListing(listing)
	if err != nil {
		return err
	}
	if !ls.Lister.Eq(lister) {
		return fmt.Errorf("remove listing: %w", ErrInvalidLister)
	}
	tm, err := x.tm.Load(ls.TokenManager)
	if err != nil {
		return err
	}
	if tm.Kind == tokenmanager.KindPermissioned {
		acc, err := l.Token(tm.RecipientTokenAccount)
		if err != nil {
			return err
		}
		if acc.Delegate != nil && acc.Delegate.Eq(ls.TokenManager) {
			if err := l.Revoke(tm.RecipientTokenAccount, lister); err != nil {
				return err
			}
		}
	}
	return l.CloseRecord(listing, ProgramID, lister)
}

type AcceptListingParams struct {
	Listing                  types.Address
	Buyer                    types.Address // signer
	BuyerPaymentTokenAccount types.Address
	BuyerTokenAccount        types.Address // zero for the associated account
	FeeCollectorTokenAccount types.Address
	CreatorTokenAccounts     []types.Address
	// PaymentAmount is the price the buyer observed; a listing repriced
	// since then is rejected instead of silently charging the new price.
	PaymentAmount uint64
	PaymentMint   types.Address
}

// AcceptListing buys a listed rental: the price is split through the
// marketplace's payment manager, a transfer receipt is minted for the buyer
// and the claimed token moves to them. The listing is destroyed.
func (x *Executor) AcceptListing(p AcceptListingParams) error {
	l := x.rt.Ledger
	ls, err := x.LoadListing(p.Listing)
	if err != nil {
		return err
	}
	if ls.PaymentAmount != p.PaymentAmount || !ls.PaymentMint.Eq(p.PaymentMint) {
		return fmt.Errorf("accepting at %d: %w", p.PaymentAmount, ErrListingChanged)
	}
	tm, err := x.tm.Load(ls.TokenManager)
	if err != nil {
		return err
	}
	m, err := x.LoadMarketplace(ls.Marketplace)
	if err != nil {
		return err
	}

	if ls.PaymentMint.Eq(ledger.NativeMint) {
		err = x.pm.HandleNativePaymentWithRoyalties(paymentmanager.NativePayment{
			PaymentManager: m.PaymentManager,
			Payer:          p.Buyer,
			Target:         ls.Lister,
			Mint:           tm.Mint,
			Amount:         ls.PaymentAmount,
		})
	} else {
		var target types.Address
		if target, err = l.EnsureTokenAccount(ls.Lister, ls.PaymentMint); err != nil {
			return err
		}
		err = x.pm.HandlePaymentWithRoyalties(paymentmanager.Payment{
			PaymentManager:           m.PaymentManager,
			Payer:                    p.Buyer,
			PayerTokenAccount:        p.BuyerPaymentTokenAccount,
			TargetTokenAccount:       target,
			FeeCollectorTokenAccount: p.FeeCollectorTokenAccount,
			Mint:                     tm.Mint,
			CreatorTokenAccounts:     p.CreatorTokenAccounts,
			Amount:                   ls.PaymentAmount,
		})
	}
	if err != nil {
		return fmt.Errorf("listing payment: %w", err)
	}

	if _, err := x.tm.CreateTransferReceipt(ls.TokenManager, m.TransferAuthority, p.Buyer, p.Buyer); err != nil {
		return err
	}
	if err := x.tm.Transfer(tokenmanager.TransferParams{
		TokenManager:              ls.TokenManager,
		NewRecipient:              p.Buyer,
		NewRecipientTokenAccount:  p.BuyerTokenAccount,
		CurrentRecipientTokenAcct: tm.RecipientTokenAccount,
	}); err != nil {
		return err
	}
	return l.CloseRecord(p.Listing, ProgramID, ls.Lister)
}
