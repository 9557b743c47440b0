package tokenmanager

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/types"
)

// Dispatch decodes and executes one token manager instruction.
func (x *Executor) Dispatch(ix *types.Instruction) error {
	if !ix.Program.Eq(ProgramID) {
		return fmt.Errorf("instruction for program %s dispatched to token manager", ix.Program)
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
			Mint:               ix.Accounts[initAccountMint],
			Issuer:             ix.Accounts[initAccountIssuer],
			IssuerTokenAccount: ix.Accounts[initAccountIssuerToken],
			NumInvalidators:    attr.NumInvalidators,
		})
		return err
	case OpUninit:
		if err := ix.RequireAccounts(uninitAccountCount); err != nil {
			return err
		}
		return x.Uninit(ix.Accounts[uninitAccountTokenManager], ix.Accounts[uninitAccountIssuer])
	case OpSetClaimApprover, OpSetTransferAuthority, OpSetReceiptMint, OpAddInvalidator,
		OpReplaceInvalidator:
		if err := ix.RequireAccounts(configAccountCount); err != nil {
			return err
		}
		tm := ix.Accounts[configAccountTokenManager]
		signer := ix.Accounts[configAccountSigner]
		target := ix.Accounts[configAccountTarget]
		switch op {
		case OpSetClaimApprover:
			return x.SetClaimApprover(tm, signer, target)
		case OpSetTransferAuthority:
			return x.SetTransferAuthority(tm, signer, target)
		case OpSetReceiptMint:
			return x.SetReceiptMint(tm, signer, target)
		case OpAddInvalidator:
			return x.AddInvalidator(tm, signer, target)
		default:
			return x.ReplaceInvalidator(tm, signer, target)
		}
	case OpUpdateInvalidators:
		if err := ix.RequireAccounts(updateInvAccountCount); err != nil {
			return err
		}
		attr := &UpdateInvalidatorsAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		return x.UpdateInvalidators(
			ix.Accounts[updateInvAccountTokenManager],
			ix.Accounts[updateInvAccountSigner],
			attr.Invalidators,
		)
	case OpUpdateInvalidationType:
		if err := ix.RequireAccounts(updateInvAccountCount); err != nil {
			return err
		}
		attr := &UpdateInvalidationTypeAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		return x.UpdateInvalidationType(
			ix.Accounts[updateInvAccountTokenManager],
			ix.Accounts[updateInvAccountSigner],
			InvalidationType(attr.InvalidationType),
		)
	case OpIssue:
		if err := ix.RequireAccounts(issueAccountCount); err != nil {
			return err
		}
		attr := &IssueAttributes{}
		if err := ix.Args(attr); err != nil {
			return err
		}
		return x.Issue(IssueParams{
			TokenManager:       ix.Accounts[issueAccountTokenManager],
			Issuer:             ix.Accounts[issueAccountIssuer],
			IssuerTokenAccount: ix.Accounts[issueAccountIssuerToken],
			Amount:             attr.Amount,
			Kind:               Kind(attr.Kind),
			InvalidationType:   InvalidationType(attr.InvalidationType),
		})
	case OpUnissue:
		if err := ix.RequireAccounts(uninitAccountCount); err != nil {
			return err
		}
		return x.Unissue(ix.Accounts[uninitAccountTokenManager], ix.Accounts[uninitAccountIssuer])
	case OpClaim:
		if err := ix.RequireAccounts(claimAccountCount); err != nil {
			return err
		}
		return x.Claim(ClaimParams{
			TokenManager:          ix.Accounts[claimAccountTokenManager],
			Recipient:             ix.Accounts[claimAccountRecipient],
			RecipientTokenAccount: ix.Accounts[claimAccountRecipientToken],
		})
	case OpCreateClaimReceipt:
		if err := ix.RequireAccounts(claimReceiptAccountCount); err != nil {
			return err
		}
		_, err := x.CreateClaimReceipt(
			ix.Accounts[claimReceiptAccountTokenManager],
			ix.Accounts[claimReceiptAccountApprover],
			ix.Accounts[claimReceiptAccountTarget],
			ix.Accounts[claimReceiptAccountApprover],
		)
		return err
	case OpCreateTransferReceipt:
		if err := ix.RequireAccounts(transferReceiptAccountCount); err != nil {
			return err
		}
		_, err := x.CreateTransferReceipt(
			ix.Accounts[transferReceiptAccountTokenManager],
			ix.Accounts[transferReceiptAccountAuthority],
			ix.Accounts[transferReceiptAccountTarget],
			ix.Accounts[transferReceiptAccountAuthority],
		)
		return err
	case OpTransfer:
		if err := ix.RequireAccounts(transferAccountCount); err != nil {
			return err
		}
		return x.Transfer(TransferParams{
			TokenManager:              ix.Accounts[transferAccountTokenManager],
			NewRecipient:              ix.Accounts[transferAccountNewRecipient],
			NewRecipientTokenAccount:  ix.Accounts[transferAccountNewToken],
			CurrentRecipientTokenAcct: ix.Accounts[transferAccountCurrentToken],
		})
	case OpInvalidate:
		if err := ix.RequireAccounts(invalidateAccountCount); err != nil {
			return err
		}
		return x.Invalidate(InvalidateParams{
			TokenManager:        ix.Accounts[invalidateAccountTokenManager],
			Caller:              ix.Accounts[invalidateAccountCaller],
			Collector:           ix.Accounts[invalidateAccountCollector],
			ReceiptTokenAccount: ix.Accounts[invalidateAccountReceiptToken],
		})
	case OpCreateMintManager:
		if err := ix.RequireAccounts(mintManagerAccountCount); err != nil {
			return err
		}
		_, err := x.CreateMintManager(
			ix.Accounts[mintManagerAccountMint],
			ix.Accounts[mintManagerAccountInitializer],
		)
		return err
	case OpCloseMintManager:
		if err := ix.RequireAccounts(closeMintManagerAccountCount); err != nil {
			return err
		}
		return x.CloseMintManager(
			ix.Accounts[closeMintManagerAccountMintManager],
			ix.Accounts[closeMintManagerAccountCaller],
		)
	default:
		return fmt.Errorf("unknown token manager operation %d", op)
	}
}
