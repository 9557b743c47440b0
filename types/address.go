package types

import (
	"bytes"
	"fmt"

	"github.com/tokenlease-org/tokenlease-go/hash"
	"github.com/tokenlease-org/tokenlease-go/types/hex"
)

const (
	AddressLength = 32

	// MaxBump is the first candidate tried by FindProgramAddress.
	MaxBump = 255
)

// Address identifies an account on the ledger: a wallet, a mint, a token
// account or a program-owned record. Record addresses are derived
// deterministically from a program ID and a list of seeds, see
// FindProgramAddress.
type Address [AddressLength]byte

var ZeroAddress Address

func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressLength {
		return ZeroAddress, fmt.Errorf("address length must be %d bytes, got %d bytes", AddressLength, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// NewAddress returns the fixed address assigned to the given label. Used for
// program IDs and other deployment constants.
func NewAddress(label string) Address {
	a, _ := AddressFromBytes(hash.Sum256([]byte("address:" + label)))
	return a
}

func (a Address) Bytes() []byte {
	return bytes.Clone(a[:])
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) Eq(b Address) bool {
	return a == b
}

func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

func (a Address) String() string {
	return fmt.Sprintf("%X", a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return hex.Encode(a[:]), nil
}

func (a *Address) UnmarshalText(src []byte) error {
	res, err := hex.Decode(src)
	if err != nil {
		return err
	}
	addr, err := AddressFromBytes(res)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// derivationSeparator domain-separates derived record addresses from every
// other SHA-256 use in the protocol.
const derivationSeparator = "TokenleaseDerivedAddress"

// CreateProgramAddress computes the record address for the given seeds and
// bump under programID. Clients recompute addresses with the bump stored on
// the record.
func CreateProgramAddress(programID Address, bump uint8, seeds ...[]byte) Address {
	buf := make([]byte, 0, 256)
	for _, s := range seeds {
		buf = append(buf, s...)
	}
	buf = append(buf, bump)
	buf = append(buf, programID[:]...)
	buf = append(buf, derivationSeparator...)
	a, _ := AddressFromBytes(hash.Sum256(buf))
	return a
}

// FindProgramAddress searches downward from MaxBump for the first bump whose
// derived address is usable and returns both. The only reserved address in
// the hash-derived space is the program ID itself, so in practice the search
// terminates at MaxBump; the loop keeps the client-side recomputation
// contract explicit.
func FindProgramAddress(programID Address, seeds ...[]byte) (Address, uint8) {
	for bump := MaxBump; bump >= 0; bump-- {
		candidate := CreateProgramAddress(programID, uint8(bump), seeds...)
		if !candidate.Eq(programID) {
			return candidate, uint8(bump)
		}
	}
	// unreachable: 256 distinct digests cannot all equal programID
	panic(fmt.Sprintf("no valid bump for program %s", programID))
}
