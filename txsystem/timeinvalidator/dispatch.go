package timeinvalidator

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/types"
)

// Dispatch decodes and executes one time invalidator instruction.
func (x *Executor) Dispatch(ix *types.Instruction) error {
	if !ix.Program.Eq(ProgramID) {
		return fmt.Errorf("instruction for program %s dispatched to time invalidator", ix.Program)
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
			TokenManager:             ix.Accounts[initAccountTokenManager],
			Issuer:                   ix.Accounts[initAccountIssuer],
			Collector:                attr.Collector,
			PaymentManager:           attr.PaymentManager,
			Expiration:               attr.Expiration,
			DurationSeconds:          attr.DurationSeconds,
			MaxExpiration:            attr.MaxExpiration,
			ExtensionPaymentAmount:   attr.ExtensionPaymentAmount,
			ExtensionDurationSeconds: attr.ExtensionDurationSeconds,
			ExtensionPaymentMint:     attr.ExtensionPaymentMint,
			DisablePartialExtension:  attr.DisablePartialExtension,
		})
		return err
	case OpSetExpiration:
		if err := ix.RequireAccounts(touchAccountCount); err != nil {
			return err
		}
		return x.SetExpiration(ix.Accounts[touchAccountTimeInvalidator], ix.Accounts[touchAccountCaller])
	case OpResetExpiration:
		if err := ix.RequireAccounts(touchAccountCount); err != nil {
			return err
		}
		return x.ResetExpiration(ix.Accounts[touchAccountTimeInvalidator], ix.Accounts[touchAccountCaller])
	case OpExtendExpiration:
		if len(ix.Accounts) < extendAccountFixedCount {
			return fmt.Errorf("instruction expects at least %d accounts, got %d", extendAccountFixedCount, len(ix.Accounts))
		}
		attr := &ExtendExpirationAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		return x.ExtendExpiration(ExtendParams{
			TimeInvalidator:          ix.Accounts[extendAccountTimeInvalidator],
			Payer:                    ix.Accounts[extendAccountPayer],
			PayerTokenAccount:        ix.Accounts[extendAccountPayerToken],
			FeeCollectorTokenAccount: ix.Accounts[extendAccountFeeCollectorToken],
			ReceiptTokenAccount:      ix.Accounts[extendAccountReceiptToken],
			CreatorTokenAccounts:     ix.Accounts[extendAccountFixedCount:],
			PaymentAmount:            attr.PaymentAmount,
		})
	case OpUpdateMaxExpiration:
		if err := ix.RequireAccounts(updateMaxAccountCount); err != nil {
			return err
		}
		attr := &UpdateMaxExpirationAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		return x.UpdateMaxExpiration(
			ix.Accounts[updateMaxAccountTimeInvalidator],
			ix.Accounts[updateMaxAccountIssuer],
			attr.MaxExpiration,
		)
	case OpInvalidate:
		if err := ix.RequireAccounts(touchAccountCount); err != nil {
			return err
		}
		return x.Invalidate(ix.Accounts[touchAccountTimeInvalidator], ix.Accounts[touchAccountCaller])
	case OpClose:
		if err := ix.RequireAccounts(touchAccountCount); err != nil {
			return err
		}
		return x.Close(ix.Accounts[touchAccountTimeInvalidator], ix.Accounts[touchAccountCaller])
	default:
		return fmt.Errorf("unknown time invalidator operation %d", op)
	}
}
