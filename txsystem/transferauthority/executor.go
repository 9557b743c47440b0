package transferauthority

import (
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/ledger"
	"github.com/tokenlease-org/tokenlease-go/txsystem"
	"github.com/tokenlease-org/tokenlease-go/txsystem/paymentmanager"
	"github.com/tokenlease-org/tokenlease-go/txsystem/tokenmanager"
	"github.com/tokenlease-org/tokenlease-go/types"
)

// Executor runs the transfer authority surface: named transfer gates, the
// marketplaces allowed to list under them, and the listings themselves.
type Executor struct {
	rt *txsystem.Runtime
	tm *tokenmanager.Executor
	pm *paymentmanager.Executor
}

func NewExecutor(rt *txsystem.Runtime, tm *tokenmanager.Executor, pm *paymentmanager.Executor) *Executor {
	return &Executor{rt: rt, tm: tm, pm: pm}
}

// Load reads the transfer authority record at addr.
func (x *Executor) Load(addr types.Address) (*TransferAuthority, error) {
	return txsystem.LoadRecord[TransferAuthority](x.rt.Ledger, addr, ProgramID, TransferAuthorityRecordName)
}

// LoadMarketplace reads the marketplace record at addr.
func (x *Executor) LoadMarketplace(addr types.Address) (*Marketplace, error) {
	return txsystem.LoadRecord[Marketplace](x.rt.Ledger, addr, ProgramID, MarketplaceRecordName)
}

// LoadListing reads the listing record at addr.
func (x *Executor) LoadListing(addr types.Address) (*Listing, error) {
	return txsystem.LoadRecord[Listing](x.rt.Ledger, addr, ProgramID, ListingRecordName)
}

type InitParams struct {
	Name                string
	Authority           types.Address // signer, pays rent
	AllowedMarketplaces *[]types.Address
}

// Init creates a named transfer authority.
func (x *Executor) Init(p InitParams) (types.Address, error) {
	l := x.rt.Ledger
	if p.Name == "" || len(p.Name) > MaxNameLength {
		return types.ZeroAddress, fmt.Errorf("transfer authority name %q: %w", p.Name, ErrInvalidName)
	}
	addr, bump := DeriveTransferAuthority(p.Name)
	if l.HasRecord(addr) {
		return types.ZeroAddress, fmt.Errorf("transfer authority %q: %w", p.Name, ledger.ErrAccountExists)
	}
	ta := &TransferAuthority{Bump: bump, Name: p.Name, Authority: p.Authority, AllowedMarketplaces: p.AllowedMarketplaces}
	if err := txsystem.StoreRecord(l, addr, ProgramID, TransferAuthorityRecordName, ta, p.Authority); err != nil {
		return types.ZeroAddress, err
	}
	return addr, nil
}

// Update changes the controlling authority. Authority-gated.
func (x *Executor) Update(transferAuthority, authority, newAuthority types.Address) error {
	ta, err := x.Load(transferAuthority)
	if err != nil {
		return err
	}
	if !ta.Authority.Eq(authority) {
		return fmt.Errorf("update transfer authority: %w", ErrInvalidAuthority)
	}
	ta.Authority = newAuthority
	return txsystem.StoreRecord(x.rt.Ledger, transferAuthority, ProgramID, TransferAuthorityRecordName, ta, authority)
}

// WhitelistMarketplaces replaces the set of marketplaces allowed to list
// under this authority. Authority-gated; nil clears the restriction.
func (x *Executor) WhitelistMarketplaces(transferAuthority, authority types.Address, marketplaces *[]types.Address) error {
	ta, err := x.Load(transferAuthority)
	if err != nil {
		return err
	}
	if !ta.Authority.Eq(authority) {
		return fmt.Errorf("whitelist marketplaces: %w", ErrInvalidAuthority)
	}
	ta.AllowedMarketplaces = marketplaces
	return txsystem.StoreRecord(x.rt.Ledger, transferAuthority, ProgramID, TransferAuthorityRecordName, ta, authority)
}

type InitMarketplaceParams struct {
	Name              string
	TransferAuthority types.Address
	PaymentManager    types.Address
	Authority         types.Address // signer, pays rent
	PaymentMints      *[]types.Address
}

// InitMarketplace creates a named marketplace under a transfer authority.
func (x *Executor) InitMarketplace(p InitMarketplaceParams) (types.Address, error) {
	l := x.rt.Ledger
	if p.Name == "" || len(p.Name) > MaxNameLength {
		return types.ZeroAddress, fmt.Errorf("marketplace name %q: %w", p.Name, ErrInvalidName)
	}
	if _, err := x.Load(p.TransferAuthority); err != nil {
		return types.ZeroAddress, fmt.Errorf("marketplace under %s: %w", p.TransferAuthority, ErrInvalidTransferAuthority)
	}
	addr, bump := DeriveMarketplace(p.Name)
	if l.HasRecord(addr) {
		return types.ZeroAddress, fmt.Errorf("marketplace %q: %w", p.Name, ledger.ErrAccountExists)
	}
	m := &Marketplace{
		Bump:              bump,
		Name:              p.Name,
		TransferAuthority: p.TransferAuthority,
		PaymentManager:    p.PaymentManager,
		Authority:         p.Authority,
		PaymentMints:      p.PaymentMints,
	}
	if err := txsystem.StoreRecord(l, addr, ProgramID, MarketplaceRecordName, m, p.Authority); err != nil {
		return types.ZeroAddress, err
	}
	return addr, nil
}

// UpdateMarketplace changes the payment manager or accepted mints.
// Authority-gated.
func (x *Executor) UpdateMarketplace(marketplace, authority, paymentManager types.Address, paymentMints *[]types.Address) error {
	m, err := x.LoadMarketplace(marketplace)
	if err != nil {
		return err
	}
	if !m.Authority.Eq(authority) {
		return fmt.Errorf("update marketplace: %w", ErrInvalidAuthority)
	}
	m.PaymentManager = paymentManager
	m.PaymentMints = paymentMints
	return txsystem.StoreRecord(x.rt.Ledger, marketplace, ProgramID, MarketplaceRecordName, m, authority)
}

// Release ends a rental this authority is registered on as an invalidator,
// leaving the token with its current holder. Authority-gated.
func (x *Executor) Release(transferAuthority, authority, tokenManager, collector types.Address) error {
	ta, err := x.Load(transferAuthority)
	if err != nil {
		return err
	}
	if !ta.Authority.Eq(authority) {
		return fmt.Errorf("release: %w", ErrInvalidAuthority)
	}
	return x.tm.Invalidate(tokenmanager.InvalidateParams{
		TokenManager:    tokenManager,
		Caller:          transferAuthority,
		Collector:       collector,
		BountyRecipient: authority,
	})
}
