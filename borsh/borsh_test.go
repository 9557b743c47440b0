package borsh

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

type wireRecord struct {
	Flag     bool
	Small    uint8
	Medium   uint16
	Large    uint64
	Signed   int64
	Name     string
	Key      [32]byte
	Optional *uint64
	Keys     [][32]byte
}

func TestMarshalRoundTrip(t *testing.T) {
	amount := uint64(42)
	in := &wireRecord{
		Flag:     true,
		Small:    7,
		Medium:   512,
		Large:    1 << 40,
		Signed:   -3,
		Name:     "rental",
		Key:      [32]byte{1, 2, 3},
		Optional: &amount,
		Keys:     [][32]byte{{4}, {5}},
	}
	data, err := Marshal(in)
	require.NoError(t, err)

	out := &wireRecord{}
	require.NoError(t, Unmarshal(data, out))
	require.Equal(t, in, out)
}

func TestMarshalNilOption(t *testing.T) {
	in := &wireRecord{Name: "no-option"}
	data, err := Marshal(in)
	require.NoError(t, err)

	out := &wireRecord{}
	require.NoError(t, Unmarshal(data, out))
	require.Nil(t, out.Optional)
	require.Equal(t, in, out)
}

func TestOptionEncoding(t *testing.T) {
	type holder struct {
		V *uint16
	}
	data, err := Marshal(&holder{})
	require.NoError(t, err)
	require.Equal(t, []byte{0}, data)

	v := uint16(0x0201)
	data, err = Marshal(&holder{V: &v})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0x01, 0x02}, data)
}

func TestIntegersLittleEndian(t *testing.T) {
	type holder struct {
		A uint32
	}
	data, err := Marshal(&holder{A: 0x04030201})
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, data)
}

func TestStringLengthPrefixed(t *testing.T) {
	type holder struct {
		S string
	}
	data, err := Marshal(&holder{S: "ab"})
	require.NoError(t, err)
	require.Equal(t, []byte{2, 0, 0, 0, 'a', 'b'}, data)
}

func TestUnmarshalTrailingBytes(t *testing.T) {
	type holder struct {
		A uint8
	}
	err := Unmarshal([]byte{1, 2}, &holder{})
	require.Error(t, err)
}

func TestUnmarshalShortBuffer(t *testing.T) {
	type holder struct {
		A uint64
	}
	err := Unmarshal([]byte{1, 2, 3}, &holder{})
	require.Error(t, err)
}

func TestUnmarshalSliceLengthBoundedByInput(t *testing.T) {
	type holder struct {
		Keys []uint64
	}
	// length prefix claims 50M elements but carries none
	data := []byte{0x80, 0xf0, 0xfa, 0x02}
	err := Unmarshal(data, &holder{})
	require.ErrorContains(t, err, "declared length 50000000 exceeds 0 remaining bytes")

	// max u32 count from a 5-byte payload
	err = Unmarshal([]byte{0xff, 0xff, 0xff, 0xff, 0x01}, &holder{})
	require.ErrorContains(t, err, "exceeds 1 remaining bytes")
}

func TestDiscriminator(t *testing.T) {
	sum := sha256.Sum256([]byte("account:TokenManager"))
	require.Equal(t, sum[:8], Discriminator("TokenManager"))
	require.NotEqual(t, Discriminator("TokenManager"), Discriminator("MintManager"))
}

func TestRecordRoundTrip(t *testing.T) {
	type record struct {
		Count uint64
	}
	data, err := MarshalRecord("MintCounter", &record{Count: 9})
	require.NoError(t, err)
	require.True(t, IsRecord("MintCounter", data))
	require.False(t, IsRecord("TokenManager", data))

	out := &record{}
	require.NoError(t, UnmarshalRecord("MintCounter", data, out))
	require.EqualValues(t, 9, out.Count)

	require.Error(t, UnmarshalRecord("TokenManager", data, out))
}
