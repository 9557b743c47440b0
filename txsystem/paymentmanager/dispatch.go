package paymentmanager

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/types"
)

// Dispatch decodes and executes one payment manager instruction.
func (x *Executor) Dispatch(ix *types.Instruction) error {
	if !ix.Program.Eq(ProgramID) {
		return fmt.Errorf("instruction for program %s dispatched to payment manager", ix.Program)
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
			FeeCollector:        ix.Accounts[initAccountFeeCollector],
			MakerFeeBasisPoints: attr.MakerFeeBasisPoints,
			TakerFeeBasisPoints: attr.TakerFeeBasisPoints,
			RoyaltyFeeShare:     attr.RoyaltyFeeShare,
			Payer:               ix.Accounts[initAccountPayer],
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
		return x.Update(UpdateParams{
			PaymentManager:      ix.Accounts[updateAccountPaymentManager],
			Authority:           ix.Accounts[updateAccountAuthority],
			FeeCollector:        ix.Accounts[updateAccountFeeCollector],
			MakerFeeBasisPoints: attr.MakerFeeBasisPoints,
			TakerFeeBasisPoints: attr.TakerFeeBasisPoints,
			RoyaltyFeeShare:     attr.RoyaltyFeeShare,
		})
	case OpClose:
		if err := ix.RequireAccounts(closeAccountCount); err != nil {
			return err
		}
		return x.Close(
			ix.Accounts[closeAccountPaymentManager],
			ix.Accounts[closeAccountAuthority],
			ix.Accounts[closeAccountRefundTo],
		)
	case OpHandlePaymentWithRoyalties:
		if len(ix.Accounts) < paymentAccountFixedCount {
			return fmt.Errorf("instruction expects at least %d accounts, got %d", paymentAccountFixedCount, len(ix.Accounts))
		}
		attr := &HandlePaymentAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		return x.HandlePaymentWithRoyalties(Payment{
			PaymentManager:           ix.Accounts[paymentAccountPaymentManager],
			Payer:                    ix.Accounts[paymentAccountPayer],
			PayerTokenAccount:        ix.Accounts[paymentAccountPayerToken],
			TargetTokenAccount:       ix.Accounts[paymentAccountTargetToken],
			FeeCollectorTokenAccount: ix.Accounts[paymentAccountFeeCollectorToken],
			Mint:                     ix.Accounts[paymentAccountMint],
			CreatorTokenAccounts:     ix.Accounts[paymentAccountFixedCount:],
			Amount:                   attr.Amount,
		})
	case OpHandleNativePaymentWithRoyalties:
		if err := ix.RequireAccounts(nativePaymentAccountCount); err != nil {
			return err
		}
		attr := &HandlePaymentAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		return x.HandleNativePaymentWithRoyalties(NativePayment{
			PaymentManager: ix.Accounts[nativePaymentAccountPaymentManager],
			Payer:          ix.Accounts[nativePaymentAccountPayer],
			Target:         ix.Accounts[nativePaymentAccountTarget],
			Mint:           ix.Accounts[nativePaymentAccountMint],
			Amount:         attr.Amount,
		})
	default:
		return fmt.Errorf("unknown payment manager operation %d", op)
	}
}
