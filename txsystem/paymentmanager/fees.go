package paymentmanager

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/types"
	"github.com/tokenlease-org/tokenlease-go/util"
)

// FeeSplit is the breakdown of one gross payment. The buyer pays
// gross+TakerFee in total, the seller receives gross-MakerFee, and
// CollectorFee + sum(CreatorFunds) == MakerFee+TakerFee exactly: the
// rounding residual of the creator legs is routed to the fee collector.
type FeeSplit struct {
	MakerFee     uint64
	TakerFee     uint64
	TotalFee     uint64
	SplitFee     uint64
	CreatorFunds []uint64 // aligned with creators passed to SplitFees
	CollectorFee uint64
}

// SplitFees computes the fee breakdown of a gross amount against the given
// creator shares. Division is truncating throughout; intermediates are
// 256-bit so a product can never wrap silently.
func (pm *PaymentManager) SplitFees(amount uint64, creators []ledger.Creator, divisor uint64) (*FeeSplit, error) {
	if divisor == 0 {
		return nil, fmt.Errorf("fee split of %d: %w", amount, types.ErrDivisionByZero)
	}
	s := &FeeSplit{
		MakerFee: mulDiv(amount, uint64(pm.MakerFeeBasisPoints), divisor),
		TakerFee: mulDiv(amount, uint64(pm.TakerFeeBasisPoints), divisor),
	}
	total, ok := util.SafeAdd(s.MakerFee, s.TakerFee)
	if !ok {
		return nil, fmt.Errorf("total fee of %d: %w", amount, types.ErrOverflow)
	}
	s.TotalFee = total
	s.SplitFee = mulDiv(total, pm.RoyaltyFeeShare, 100)

	remaining := s.TotalFee
	for _, c := range creators {
		if c.Share == 0 {
			continue
		}
		funds := mulDiv(s.SplitFee, uint64(c.Share), 100)
		sub, ok := util.SafeSub(remaining, funds)
		if !ok {
			return nil, fmt.Errorf("creator funds exceed total fee: %w", types.ErrUnderflow)
		}
		remaining = sub
		s.CreatorFunds = append(s.CreatorFunds, funds)
	}
	s.CollectorFee = remaining
	return s, nil
}

// mulDiv returns a*b/c with a 256-bit intermediate product. The quotient is
// only used where it is bounded by a, so it always fits uint64.
func mulDiv(a, b, c uint64) uint64 {
	z := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	z.Div(z, uint256.NewInt(c))
	return z.Uint64()
}
