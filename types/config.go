package types

const (
	// MaxInvalidators bounds the invalidator set of a single token manager.
	MaxInvalidators = 5

	// BasisPointsDivisor converts basis points to a fraction.
	BasisPointsDivisor = 10_000

	// DefaultInvalidationRewardLamports is the bounty lodged at claim time
	// for Reissue/Invalidate rentals, sized to cover the invalidation
	// transaction cost plus a small margin.
	DefaultInvalidationRewardLamports = 5_000_000
)

// ProtocolConfig carries the deployment-time constants of the protocol.
// There is no other configuration surface: no files, no environment.
type ProtocolConfig struct {
	_                          struct{} `cbor:",toarray"`
	PermissionedRewardAddress  Address
	PermissionedRewardLamports uint64
	InvalidationRewardLamports uint64
	BasisPointsDivisor         uint64
}

func DefaultConfig() ProtocolConfig {
	return ProtocolConfig{
		PermissionedRewardAddress:  NewAddress("tokenlease.permissioned-reward-sink"),
		PermissionedRewardLamports: 10_000_000,
		InvalidationRewardLamports: DefaultInvalidationRewardLamports,
		BasisPointsDivisor:         BasisPointsDivisor,
	}
}
