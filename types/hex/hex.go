/*
Package hex implements the 0x-prefixed hexadecimal text encoding used for
addresses and raw byte fields in JSON and log output.
*/
package hex

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Bytes is a byte slice which encodes as 0x-prefixed hex in text form.
type Bytes []byte

func Encode(src []byte) []byte {
	return []byte(hexutil.Encode(src))
}

func Decode(src []byte) ([]byte, error) {
	return hexutil.Decode(string(src))
}

func (b Bytes) MarshalText() ([]byte, error) {
	return Encode(b), nil
}

func (b *Bytes) UnmarshalText(src []byte) error {
	res, err := Decode(src)
	if err == nil {
		*b = res
	}
	return err
}
