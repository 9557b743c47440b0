package transferauthority

import "github.com/tokenlease-org/tokenlease-go/types"

// Operation opcodes, wire-stable.
const (
	OpInit byte = iota
	OpUpdate
	OpWhitelistMarketplaces
	OpInitMarketplace
	OpUpdateMarketplace
	OpCreateListing
	OpUpdateListing
	OpAcceptListing
	OpRemoveListing
	OpRelease
)

type (
	InitAttributes struct {
		Name                string
		AllowedMarketplaces *[]types.Address
	}

	UpdateAttributes struct {
		Authority types.Address
	}

	WhitelistMarketplacesAttributes struct {
		AllowedMarketplaces *[]types.Address
	}

	InitMarketplaceAttributes struct {
		Name         string
		PaymentMints *[]types.Address
	}

	UpdateMarketplaceAttributes struct {
		PaymentManager types.Address
		PaymentMints   *[]types.Address
	}

	CreateListingAttributes struct {
		PaymentAmount uint64
		PaymentMint   types.Address
	}

	UpdateListingAttributes struct {
		PaymentAmount uint64
		PaymentMint   types.Address
	}

	AcceptListingAttributes struct {
		PaymentAmount uint64
		PaymentMint   types.Address
	}
)

// Account order per operation. The first account is always the signer.
const (
	// init: authority
	initAccountAuthority = iota
	initAccountCount
)

const (
	// update / whitelist: authority, transfer authority
	updateAccountAuthority = iota
	updateAccountTransferAuthority
	updateAccountCount
)

const (
	// init marketplace: authority, transfer authority, payment manager
	initMarketAccountAuthority = iota
	initMarketAccountTransferAuthority
	initMarketAccountPaymentManager
	initMarketAccountCount
)

const (
	// update marketplace: authority, marketplace
	updateMarketAccountAuthority = iota
	updateMarketAccountMarketplace
	updateMarketAccountCount
)

const (
	// create listing: lister, token manager, marketplace
	createListingAccountLister = iota
	createListingAccountTokenManager
	createListingAccountMarketplace
	createListingAccountCount
)

const (
	// update/remove listing: lister, listing
	listingAccountLister = iota
	listingAccountListing
	listingAccountCount
)

const (
	// accept listing: buyer, listing, buyer payment token account, buyer
	// token account (zero for the associated account), fee collector token
	// account, then one token account per royalty creator
	acceptAccountBuyer = iota
	acceptAccountListing
	acceptAccountBuyerPaymentToken
	acceptAccountBuyerToken
	acceptAccountFeeCollectorToken
	acceptAccountFixedCount
)

const (
	// release: authority, transfer authority, token manager, collector
	releaseAccountAuthority = iota
	releaseAccountTransferAuthority
	releaseAccountTokenManager
	releaseAccountCollector
	releaseAccountCount
)
