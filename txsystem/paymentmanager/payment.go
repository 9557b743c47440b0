package paymentmanager

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/types"
)

// Payment is one gross token payment to split between the target, the fee
// collector and the mint's creators.
type Payment struct {
	PaymentManager types.Address
	Payer          types.Address // signer
	// PayerTokenAccount funds all legs of the split.
	PayerTokenAccount types.Address
	// TargetTokenAccount receives gross minus the maker fee.
	TargetTokenAccount types.Address
	// FeeCollectorTokenAccount receives the fee remainder after creator
	// royalties.
	FeeCollectorTokenAccount types.Address
	// Mint is the rented token's mint; its metadata supplies the creator
	// shares.
	Mint types.Address
	// CreatorTokenAccounts are payment accounts for the mint's creators
	// with a non-zero share, in creator order. Owner and mint are checked.
	CreatorTokenAccounts []types.Address
	Amount               uint64
}

// HandlePaymentWithRoyalties performs the fee+royalty split of a gross token
// amount. If the mint has no readable metadata or no creators, the entire
// fee goes to the fee collector.
func (x *Executor) HandlePaymentWithRoyalties(p Payment) error {
	l := x.rt.Ledger
	pm, err := x.Load(p.PaymentManager)
	if err != nil {
		return err
	}
	payerAcc, err := l.Token(p.PayerTokenAccount)
	if err != nil {
		return err
	}
	targetAcc, err := l.Token(p.TargetTokenAccount)
	if err != nil {
		return err
	}
	if !targetAcc.Mint.Eq(payerAcc.Mint) {
		return fmt.Errorf("payment target: %w", ErrInvalidPaymentMint)
	}
	collectorAcc, err := l.Token(p.FeeCollectorTokenAccount)
	if err != nil {
		return err
	}
	if !collectorAcc.Owner.Eq(pm.FeeCollector) || !collectorAcc.Mint.Eq(payerAcc.Mint) {
		return fmt.Errorf("payment fee leg: %w", ErrInvalidFeeCollector)
	}

	creators := x.royaltyCreators(p.Mint)
	split, err := pm.SplitFees(p.Amount, creators, x.rt.Config.BasisPointsDivisor)
	if err != nil {
		return fmt.Errorf("payment via %q: %w", pm.Name, err)
	}
	if len(p.CreatorTokenAccounts) != len(split.CreatorFunds) {
		return fmt.Errorf("payment expects %d creator accounts, got %d: %w",
			len(split.CreatorFunds), len(p.CreatorTokenAccounts), ErrInvalidCreatorTokenAccount)
	}

	// target leg first, then royalties, then the fee remainder
	if err := l.Transfer(p.PayerTokenAccount, p.TargetTokenAccount, p.Amount-split.MakerFee, p.Payer); err != nil {
		return fmt.Errorf("payment target leg: %w", err)
	}
	i := 0
	for _, c := range creators {
		if c.Share == 0 {
			continue
		}
		creatorAddr := p.CreatorTokenAccounts[i]
		creatorAcc, err := l.Token(creatorAddr)
		if err != nil {
			return err
		}
		if !creatorAcc.Owner.Eq(c.Address) || !creatorAcc.Mint.Eq(payerAcc.Mint) {
			return fmt.Errorf("creator %s payment account %s: %w", c.Address, creatorAddr, ErrInvalidCreatorTokenAccount)
		}
		if split.CreatorFunds[i] > 0 {
			if err := l.Transfer(p.PayerTokenAccount, creatorAddr, split.CreatorFunds[i], p.Payer); err != nil {
				return fmt.Errorf("payment creator leg: %w", err)
			}
		}
		i++
	}
	if split.CollectorFee > 0 {
		if err := l.Transfer(p.PayerTokenAccount, p.FeeCollectorTokenAccount, split.CollectorFee, p.Payer); err != nil {
			return fmt.Errorf("payment fee leg: %w", err)
		}
	}
	return nil
}

// NativePayment mirrors Payment for the chain's native balance.
type NativePayment struct {
	PaymentManager types.Address
	Payer          types.Address // signer
	Target         types.Address
	Mint           types.Address
	Amount         uint64
}

// HandleNativePaymentWithRoyalties performs the fee+royalty split of a gross
// native amount. Creator and collector legs credit native balances directly.
func (x *Executor) HandleNativePaymentWithRoyalties(p NativePayment) error {
	l := x.rt.Ledger
	pm, err := x.Load(p.PaymentManager)
	if err != nil {
		return err
	}
	creators := x.royaltyCreators(p.Mint)
	split, err := pm.SplitFees(p.Amount, creators, x.rt.Config.BasisPointsDivisor)
	if err != nil {
		return fmt.Errorf("native payment via %q: %w", pm.Name, err)
	}
	if err := l.TransferNative(p.Payer, p.Target, p.Amount-split.MakerFee); err != nil {
		return fmt.Errorf("native payment target leg: %w", err)
	}
	i := 0
	for _, c := range creators {
		if c.Share == 0 {
			continue
		}
		if split.CreatorFunds[i] > 0 {
			if err := l.TransferNative(p.Payer, c.Address, split.CreatorFunds[i]); err != nil {
				return fmt.Errorf("native payment creator leg: %w", err)
			}
		}
		i++
	}
	if split.CollectorFee > 0 {
		if err := l.TransferNative(p.Payer, pm.FeeCollector, split.CollectorFee); err != nil {
			return fmt.Errorf("native payment fee leg: %w", err)
		}
	}
	return nil
}

// royaltyCreators returns the mint's creator shares, or nil when metadata is
// absent or unreadable.
func (x *Executor) royaltyCreators(mint types.Address) []ledger.Creator {
	md, err := x.rt.Ledger.Metadata(mint)
	if err != nil {
		return nil
	}
	return md.Creators
}
