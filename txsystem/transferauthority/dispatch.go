package transferauthority

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/types"
)

// Dispatch decodes and executes one transfer authority instruction.
func (x *Executor) Dispatch(ix *types.Instruction) error {
	if !ix.Program.Eq(ProgramID) {
		return fmt.Errorf("instruction for program %s dispatched to transfer authority", ix.Program)
	}
	op, err := ix.Op()
	if err != nil {
		return err
	}
	if err := x.execute(op, ix); err != nil {
		return err
	}
	return x.rt.LogApplied(ix)
}

func (x *Executor) execute(op byte, ix *types.Instruction) error {
	switch op {
	case OpInit:
		if err := ix.RequireAccounts(initAccountCount); err != nil {
			return err
		}
		attr := &InitAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		_, err := x.Init(InitParams{
			Name:                attr.Name,
			Authority:           ix.Accounts[initAccountAuthority],
			AllowedMarketplaces: attr.AllowedMarketplaces,
		})
		return err
	case OpUpdate:
		if err := ix.RequireAccounts(updateAccountCount); err != nil {
			return err
		}
		attr := &UpdateAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		return x.Update(
			ix.Accounts[updateAccountTransferAuthority],
			ix.Accounts[updateAccountAuthority],
			attr.Authority,
		)
	case OpWhitelistMarketplaces:
		if err := ix.RequireAccounts(updateAccountCount); err != nil {
			return err
		}
		attr := &WhitelistMarketplacesAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		return x.WhitelistMarketplaces(
			ix.Accounts[updateAccountTransferAuthority],
			ix.Accounts[updateAccountAuthority],
			attr.AllowedMarketplaces,
		)
	case OpInitMarketplace:
		if err := ix.RequireAccounts(initMarketAccountCount); err != nil {
			return err
		}
		attr := &InitMarketplaceAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		_, err := x.InitMarketplace(InitMarketplaceParams{
			Name:              attr.Name,
			TransferAuthority: ix.Accounts[initMarketAccountTransferAuthority],
			PaymentManager:    ix.Accounts[initMarketAccountPaymentManager],
			Authority:         ix.Accounts[initMarketAccountAuthority],
			PaymentMints:      attr.PaymentMints,
		})
		return err
	case OpUpdateMarketplace:
		if err := ix.RequireAccounts(updateMarketAccountCount); err != nil {
			return err
		}
		attr := &UpdateMarketplaceAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		return x.UpdateMarketplace(
			ix.Accounts[updateMarketAccountMarketplace],
			ix.Accounts[updateMarketAccountAuthority],
			attr.PaymentManager,
			attr.PaymentMints,
		)
	case OpCreateListing:
		if err := ix.RequireAccounts(createListingAccountCount); err != nil {
			return err
		}
		attr := &CreateListingAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		_, err := x.CreateListing(CreateListingParams{
			TokenManager:  ix.Accounts[createListingAccountTokenManager],
			Lister:        ix.Accounts[createListingAccountLister],
			Marketplace:   ix.Accounts[createListingAccountMarketplace],
			PaymentAmount: attr.PaymentAmount,
			PaymentMint:   attr.PaymentMint,
		})
		return err
	case OpUpdateListing:
		if err := ix.RequireAccounts(listingAccountCount); err != nil {
			return err
		}
		attr := &UpdateListingAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		return x.UpdateListing(
			ix.Accounts[listingAccountListing],
			ix.Accounts[listingAccountLister],
			attr.PaymentAmount,
			attr.PaymentMint,
		)
	case OpAcceptListing:
		if len(ix.Accounts) < acceptAccountFixedCount {
			return fmt.Errorf("instruction expects at least %d accounts, got %d", acceptAccountFixedCount, len(ix.Accounts))
		}
		attr := &AcceptListingAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		return x.AcceptListing(AcceptListingParams{
			Listing:                  ix.Accounts[acceptAccountListing],
			Buyer:                    ix.Accounts[acceptAccountBuyer],
			BuyerPaymentTokenAccount: ix.Accounts[acceptAccountBuyerPaymentToken],
			BuyerTokenAccount:        ix.Accounts[acceptAccountBuyerToken],
			FeeCollectorTokenAccount: ix.Accounts[acceptAccountFeeCollectorToken],
			CreatorTokenAccounts:     ix.Accounts[acceptAccountFixedCount:],
			PaymentAmount:            attr.PaymentAmount,
			PaymentMint:              attr.PaymentMint,
		})
	case OpRemoveListing:
		if err := ix.RequireAccounts(listingAccountCount); err != nil {
			return err
		}
		return x.RemoveListing(ix.Accounts[listingAccountListing], ix.Accounts[listingAccountLister])
	case OpRelease:
		if err := ix.RequireAccounts(releaseAccountCount); err != nil {
			return err
		}
		return x.Release(
			ix.Accounts[releaseAccountTransferAuthority],
			ix.Accounts[releaseAccountAuthority],
			ix.Accounts[releaseAccountTokenManager],
			ix.Accounts[releaseAccountCollector],
		)
	default:
		return fmt.Errorf("unknown transfer authority operation %d", op)
	}
}
