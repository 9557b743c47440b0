package claimapprover

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/types"
)

// Dispatch decodes and executes one claim approver instruction.
func (x *Executor) Dispatch(ix *types.Instruction) error {
	if !ix.Program.Eq(ProgramID) {
		return fmt.Errorf("instruction for program %s dispatched to claim approver", ix.Program)
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
			TokenManager:   ix.Accounts[initAccountTokenManager],
			Issuer:         ix.Accounts[initAccountIssuer],
			PaymentMint:    attr.PaymentMint,
			PaymentAmount:  attr.PaymentAmount,
			PaymentManager: attr.PaymentManager,
			Collector:      attr.Collector,
		})
		return err
	case OpPay:
		if len(ix.Accounts) < payAccountFixedCount {
			return fmt.Errorf("instruction expects at least %d accounts, got %d", payAccountFixedCount, len(ix.Accounts))
		}
		return x.Pay(PayParams{
			ClaimApprover:            ix.Accounts[payAccountClaimApprover],
			Payer:                    ix.Accounts[payAccountPayer],
			PayerTokenAccount:        ix.Accounts[payAccountPayerToken],
			FeeCollectorTokenAccount: ix.Accounts[payAccountFeeCollectorToken],
			CreatorTokenAccounts:     ix.Accounts[payAccountFixedCount:],
		})
	case OpClose:
		if err := ix.RequireAccounts(closeAccountCount); err != nil {
			return err
		}
		return x.Close(ix.Accounts[closeAccountClaimApprover], ix.Accounts[closeAccountCaller])
	default:
		return fmt.Errorf("unknown claim approver operation %d", op)
	}
}
