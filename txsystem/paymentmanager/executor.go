package paymentmanager

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/borsh"
	"github.com/tokenlease-org/tokenlease-go/txsystem"
	"github.com/tokenlease-org/tokenlease-go/types"
)

type Executor struct {
	rt *txsystem.Runtime
}

func NewExecutor(rt *txsystem.Runtime) *Executor {
	return &Executor{rt: rt}
}

// Load reads the payment manager record at addr, verifying ownership and
// discriminator.
func (x *Executor) Load(addr types.Address) (*PaymentManager, error) {
	return txsystem.LoadRecord[PaymentManager](x.rt.Ledger, addr, ProgramID, RecordName)
}

func (x *Executor) store(addr types.Address, pm *PaymentManager, payer types.Address) error {
	return txsystem.StoreRecord(x.rt.Ledger, addr, ProgramID, RecordName, pm, payer)
}

type InitParams struct {
	Name                string
	Authority           types.Address
	FeeCollector        types.Address
	MakerFeeBasisPoints uint16
	TakerFeeBasisPoints uint16
	RoyaltyFeeShare     uint64
	Payer               types.Address
}

// Init creates the payment manager record addressed by its name.
func (x *Executor) Init(p InitParams) (types.Address, error) {
	if p.Name == "" || len(p.Name) > MaxNameLength {
		return types.ZeroAddress, fmt.Errorf("init payment manager: %w", ErrInvalidName)
	}
	if err := validateFees(p.MakerFeeBasisPoints, p.TakerFeeBasisPoints, p.RoyaltyFeeShare); err != nil {
		return types.ZeroAddress, fmt.Errorf("init payment manager %q: %w", p.Name, err)
	}
	addr, bump := Derive(p.Name)
	pm := &PaymentManager{
		Bump:                bump,
		Name:                p.Name,
		Authority:           p.Authority,
		FeeCollector:        p.FeeCollector,
		MakerFeeBasisPoints: p.MakerFeeBasisPoints,
		TakerFeeBasisPoints: p.TakerFeeBasisPoints,
		RoyaltyFeeShare:     p.RoyaltyFeeShare,
	}
	data, err := borsh.MarshalRecord(RecordName, pm)
	if err != nil {
		return types.ZeroAddress, err
	}
	if err := x.rt.Ledger.CreateRecord(addr, ProgramID, data, p.Payer); err != nil {
		return types.ZeroAddress, fmt.Errorf("init payment manager %q: %w", p.Name, err)
	}
	return addr, nil
}

type UpdateParams struct {
	PaymentManager      types.Address
	Authority           types.Address // signer
	FeeCollector        types.Address
	MakerFeeBasisPoints uint16
	TakerFeeBasisPoints uint16
	RoyaltyFeeShare     uint64
}

// Update mutates the fee configuration; only the authority may update.
func (x *Executor) Update(p UpdateParams) error {
	pm, err := x.Load(p.PaymentManager)
	if err != nil {
		return err
	}
	if !pm.Authority.Eq(p.Authority) {
		return fmt.Errorf("update payment manager %q: %w", pm.Name, ErrInvalidAuthority)
	}
	if err := validateFees(p.MakerFeeBasisPoints, p.TakerFeeBasisPoints, p.RoyaltyFeeShare); err != nil {
		return fmt.Errorf("update payment manager %q: %w", pm.Name, err)
	}
	pm.FeeCollector = p.FeeCollector
	pm.MakerFeeBasisPoints = p.MakerFeeBasisPoints
	pm.TakerFeeBasisPoints = p.TakerFeeBasisPoints
	pm.RoyaltyFeeShare = p.RoyaltyFeeShare
	return x.store(p.PaymentManager, pm, p.Authority)
}

// Close destroys the record, refunding rent to refundTo. Authority only.
func (x *Executor) Close(paymentManager, authority, refundTo types.Address) error {
	pm, err := x.Load(paymentManager)
	if err != nil {
		return err
	}
	if !pm.Authority.Eq(authority) {
		return fmt.Errorf("close payment manager %q: %w", pm.Name, ErrInvalidAuthority)
	}
	return x.rt.Ledger.CloseRecord(paymentManager, ProgramID, refundTo)
}

func validateFees(makerBps, takerBps uint16, royaltyShare uint64) error {
	if uint64(makerBps) > types.BasisPointsDivisor || uint64(takerBps) > types.BasisPointsDivisor {
		return ErrInvalidBasisPoints
	}
	if royaltyShare > 100 {
		return ErrInvalidRoyaltyFeeShare
	}
	return nil
}
