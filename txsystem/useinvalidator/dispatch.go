package useinvalidator

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/types"
)

// Dispatch decodes and executes one use invalidator instruction.
func (x *Executor) Dispatch(ix *types.Instruction) error {
	if !ix.Program.Eq(ProgramID) {
		return fmt.Errorf("instruction for program %s dispatched to use invalidator", ix.Program)
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
			TokenManager:           ix.Accounts[initAccountTokenManager],
			Issuer:                 ix.Accounts[initAccountIssuer],
			Collector:              attr.Collector,
			PaymentManager:         attr.PaymentManager,
			TotalUsages:            attr.TotalUsages,
			MaxUsages:              attr.MaxUsages,
			UseAuthority:           attr.UseAuthority,
			ExtensionPaymentAmount: attr.ExtensionPaymentAmount,
			ExtensionPaymentMint:   attr.ExtensionPaymentMint,
			ExtensionUsages:        attr.ExtensionUsages,
		})
		return err
	case OpIncrementUsages:
		if err := ix.RequireAccounts(touchAccountCount); err != nil {
			return err
		}
		attr := &IncrementUsagesAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		return x.IncrementUsages(
			ix.Accounts[touchAccountUseInvalidator],
			ix.Accounts[touchAccountCaller],
			attr.Usages,
		)
	case OpExtendUsages:
		if len(ix.Accounts) < extendAccountFixedCount {
			return fmt.Errorf("instruction expects at least %d accounts, got %d", extendAccountFixedCount, len(ix.Accounts))
		}
		attr := &ExtendUsagesAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		return x.ExtendUsages(ExtendParams{
			UseInvalidator:           ix.Accounts[extendAccountUseInvalidator],
			Payer:                    ix.Accounts[extendAccountPayer],
			PayerTokenAccount:        ix.Accounts[extendAccountPayerToken],
			FeeCollectorTokenAccount: ix.Accounts[extendAccountFeeCollectorToken],
			CreatorTokenAccounts:     ix.Accounts[extendAccountFixedCount:],
			PaymentAmount:            attr.PaymentAmount,
		})
	case OpInvalidate:
		if err := ix.RequireAccounts(touchAccountCount); err != nil {
			return err
		}
		return x.Invalidate(ix.Accounts[touchAccountUseInvalidator], ix.Accounts[touchAccountCaller])
	case OpClose:
		if err := ix.RequireAccounts(touchAccountCount); err != nil {
			return err
		}
		return x.Close(ix.Accounts[touchAccountUseInvalidator], ix.Accounts[touchAccountCaller])
	default:
		return fmt.Errorf("unknown use invalidator operation %d", op)
	}
}
