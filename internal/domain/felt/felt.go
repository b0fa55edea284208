// Package felt provides the field element type used for every Starknet value
// (hashes, addresses, selectors and calldata).
package felt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

// Bits is the number of bits needed to represent a field element
const Bits = fp.Bits

// ErrOutOfRange is returned when a value does not fit in the field
var ErrOutOfRange = errors.New("value exceeds field modulus")

// Felt is an element of the Stark prime field
type Felt struct {
	val fp.Element
}

// Zero is the zero element
var Zero = Felt{}

// New wraps a gnark field element
func New(e *fp.Element) *Felt {
	return &Felt{val: *e}
}

// FromUint64 returns the element with value u
func FromUint64(u uint64) *Felt {
	var f Felt
	f.val.SetUint64(u)
	return &f
}

// FromBytes interprets b as a big-endian integer reduced modulo the field prime
func FromBytes(b []byte) *Felt {
	var f Felt
	f.val.SetBytes(b)
	return &f
}

// FromBigInt returns the element with value b. Negative values and values not
// below the modulus are rejected.
func FromBigInt(b *big.Int) (*Felt, error) {
	if b.Sign() < 0 || b.Cmp(fp.Modulus()) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrOutOfRange, b.String())
	}
	var f Felt
	f.val.SetBigInt(b)
	return &f, nil
}

// FromString parses a 0x-prefixed hexadecimal or a decimal integer
func FromString(s string) (*Felt, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty felt")
	}

	b := new(big.Int)
	var ok bool
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := s[2:]
		if digits == "" {
			digits = "0"
		}
		_, ok = b.SetString(digits, 16)
	} else {
		_, ok = b.SetString(s, 10)
	}
	if !ok {
		return nil, fmt.Errorf("invalid felt %q", s)
	}
	return FromBigInt(b)
}

// MustFromString is FromString for constants; it panics on invalid input
func MustFromString(s string) *Felt {
	f, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return f
}

// FromShortString encodes an ASCII string of at most 31 characters
func FromShortString(s string) (*Felt, error) {
	if len(s) > 31 {
		return nil, fmt.Errorf("short string %q longer than 31 characters", s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return nil, fmt.Errorf("short string %q is not ASCII", s)
		}
	}
	return FromBytes([]byte(s)), nil
}

// Impl returns the underlying field element
func (z *Felt) Impl() *fp.Element {
	return &z.val
}

// String returns the lowercase 0x-prefixed hex value without leading zeros
func (z *Felt) String() string {
	return "0x" + z.val.Text(16)
}

// Padded returns the value as 0x followed by 64 hex digits
func (z *Felt) Padded() string {
	b := z.val.Bytes()
	return fmt.Sprintf("0x%x", b[:])
}

// BigInt returns the value as a new big.Int
func (z *Felt) BigInt() *big.Int {
	return z.val.BigInt(new(big.Int))
}

// Bytes returns the big-endian 32 byte representation
func (z *Felt) Bytes() [32]byte {
	return z.val.Bytes()
}

// Uint64 returns the low 64 bits of the value
func (z *Felt) Uint64() uint64 {
	return z.BigInt().Uint64()
}

// Equal reports whether z and x hold the same value
func (z *Felt) Equal(x *Felt) bool {
	return z.val.Equal(&x.val)
}

// Add sets z to x + y and returns z
func (z *Felt) Add(x, y *Felt) *Felt {
	z.val.Add(&x.val, &y.val)
	return z
}

// IsZero reports whether z is zero
func (z *Felt) IsZero() bool {
	return z.val.IsZero()
}

// MarshalJSON encodes the value as a hex string
func (z *Felt) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.String())
}

// UnmarshalJSON accepts hex strings, decimal strings and JSON numbers
func (z *Felt) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}

	f, err := FromString(s)
	if err != nil {
		return err
	}
	*z = *f
	return nil
}

// Strings formats each element with String
func Strings(fs []*Felt) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.String()
	}
	return out
}

// ParseAll parses every string with FromString
func ParseAll(ss []string) ([]*Felt, error) {
	out := make([]*Felt, len(ss))
	for i, s := range ss {
		f, err := FromString(s)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}
