/*
Package borsh implements the record and instruction wire encoding: fixed-size
little-endian integers, bool as a single byte, length-prefixed (u32 LE)
strings and vectors, pointer fields as 1-byte-tagged options and fixed byte
arrays raw. Struct fields encode in declaration order.

Persisted records are prefixed with an 8-byte type discriminator, a stable
hash of the record name, see MarshalRecord / UnmarshalRecord.
*/
package borsh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/tokenlease-org/tokenlease-go/hash"
)

const DiscriminatorLength = 8

// Discriminator returns the 8-byte type tag of a named record.
func Discriminator(name string) []byte {
	return hash.Sum256([]byte("account:" + name))[:DiscriminatorLength]
}

// Marshal encodes v. A top-level pointer is the value to encode, not an
// option; option semantics apply to pointer fields only.
func Marshal(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("marshal source must be non-nil")
		}
		rv = rv.Elem()
	}
	buf := &bytes.Buffer{}
	if err := encodeValue(buf, rv); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data into v, which must be a non-nil pointer. Trailing
// bytes are an error: every record and argument struct is self-delimiting.
func Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("unmarshal target must be a non-nil pointer")
	}
	d := &decoder{data: data}
	if err := d.decodeValue(rv.Elem()); err != nil {
		return err
	}
	if d.pos != len(d.data) {
		return fmt.Errorf("%d trailing bytes after decoding %T", len(d.data)-d.pos, v)
	}
	return nil
}

// MarshalRecord encodes a persisted record: discriminator followed by the
// record fields.
func MarshalRecord(name string, v any) ([]byte, error) {
	data, err := Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", name, err)
	}
	return append(Discriminator(name), data...), nil
}

// UnmarshalRecord verifies the discriminator of a persisted record and
// decodes the fields into v.
func UnmarshalRecord(name string, data []byte, v any) error {
	if len(data) < DiscriminatorLength {
		return fmt.Errorf("record too short for %s discriminator: %d bytes", name, len(data))
	}
	if !bytes.Equal(data[:DiscriminatorLength], Discriminator(name)) {
		return fmt.Errorf("record discriminator mismatch, expected %s", name)
	}
	return Unmarshal(data[DiscriminatorLength:], v)
}

// IsRecord reports whether data carries the discriminator of the named
// record.
func IsRecord(name string, data []byte) bool {
	return len(data) >= DiscriminatorLength && bytes.Equal(data[:DiscriminatorLength], Discriminator(name))
}

func encodeValue(buf *bytes.Buffer, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		b := byte(0)
		if v.Bool() {
			b = 1
		}
		buf.WriteByte(b)
	case reflect.Uint8:
		buf.WriteByte(uint8(v.Uint()))
	case reflect.Uint16:
		writeLE(buf, 2, v.Uint())
	case reflect.Uint32:
		writeLE(buf, 4, v.Uint())
	case reflect.Uint64:
		writeLE(buf, 8, v.Uint())
	case reflect.Int8:
		buf.WriteByte(uint8(v.Int()))
	case reflect.Int16:
		writeLE(buf, 2, uint64(v.Int()))
	case reflect.Int32:
		writeLE(buf, 4, uint64(v.Int()))
	case reflect.Int64:
		writeLE(buf, 8, uint64(v.Int()))
	case reflect.String:
		s := v.String()
		writeLE(buf, 4, uint64(len(s)))
		buf.WriteString(s)
	case reflect.Pointer:
		// option: 1-byte tag followed by the value when present
		if v.IsNil() {
			buf.WriteByte(0)
			return nil
		}
		buf.WriteByte(1)
		return encodeValue(buf, v.Elem())
	case reflect.Array:
		if v.Type().Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("unsupported array element type %s", v.Type().Elem())
		}
		for i := 0; i < v.Len(); i++ {
			buf.WriteByte(uint8(v.Index(i).Uint()))
		}
	case reflect.Slice:
		writeLE(buf, 4, uint64(v.Len()))
		if v.Type().Elem().Kind() == reflect.Uint8 {
			buf.Write(v.Bytes())
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := encodeValue(buf, v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("borsh") == "-" {
				continue
			}
			if err := encodeValue(buf, v.Field(i)); err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
		}
	default:
		return fmt.Errorf("unsupported kind %s", v.Kind())
	}
	return nil
}

func writeLE(buf *bytes.Buffer, size int, u uint64) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, u)
	buf.Write(b[:size])
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) take(n int) ([]byte, error) {
	if d.pos+n > len(d.data) {
		return nil, fmt.Errorf("unexpected end of input: need %d bytes at offset %d of %d", n, d.pos, len(d.data))
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) readLE(size int) (uint64, error) {
	b, err := d.take(size)
	if err != nil {
		return 0, err
	}
	full := make([]byte, 8)
	copy(full, b)
	return binary.LittleEndian.Uint64(full), nil
}

func (d *decoder) decodeValue(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		b, err := d.take(1)
		if err != nil {
			return err
		}
		switch b[0] {
		case 0:
			v.SetBool(false)
		case 1:
			v.SetBool(true)
		default:
			return fmt.Errorf("invalid bool byte %#x", b[0])
		}
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := d.readLE(intSize(v.Kind()))
		if err != nil {
			return err
		}
		v.SetUint(u)
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		u, err := d.readLE(intSize(v.Kind()))
		if err != nil {
			return err
		}
		v.SetInt(signExtend(u, intSize(v.Kind())))
	case reflect.String:
		n, err := d.readLE(4)
		if err != nil {
			return err
		}
		b, err := d.take(int(n))
		if err != nil {
			return err
		}
		v.SetString(string(b))
	case reflect.Pointer:
		tag, err := d.take(1)
		if err != nil {
			return err
		}
		switch tag[0] {
		case 0:
			v.SetZero()
		case 1:
			v.Set(reflect.New(v.Type().Elem()))
			return d.decodeValue(v.Elem())
		default:
			return fmt.Errorf("invalid option tag %#x", tag[0])
		}
	case reflect.Array:
		if v.Type().Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("unsupported array element type %s", v.Type().Elem())
		}
		b, err := d.take(v.Len())
		if err != nil {
			return err
		}
		reflect.Copy(v, reflect.ValueOf(b))
	case reflect.Slice:
		n, err := d.readLE(4)
		if err != nil {
			return err
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b, err := d.take(int(n))
			if err != nil {
				return err
			}
			v.SetBytes(bytes.Clone(b))
			return nil
		}
		// every element takes at least one byte, so the declared count
		// bounds the allocation by what the input can actually carry
		if rem := uint64(len(d.data) - d.pos); n > rem {
			return fmt.Errorf("declared length %d exceeds %d remaining bytes", n, rem)
		}
		s := reflect.MakeSlice(v.Type(), int(n), int(n))
		for i := 0; i < int(n); i++ {
			if err := d.decodeValue(s.Index(i)); err != nil {
				return err
			}
		}
		v.Set(s)
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("borsh") == "-" {
				continue
			}
			if err := d.decodeValue(v.Field(i)); err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
		}
	default:
		return fmt.Errorf("unsupported kind %s", v.Kind())
	}
	return nil
}

func intSize(k reflect.Kind) int {
	switch k {
	case reflect.Uint8, reflect.Int8:
		return 1
	case reflect.Uint16, reflect.Int16:
		return 2
	case reflect.Uint32, reflect.Int32:
		return 4
	default:
		return 8
	}
}

func signExtend(u uint64, size int) int64 {
	shift := uint(64 - 8*size)
	return int64(u<<shift) >> shift
}
