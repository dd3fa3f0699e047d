package types

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// BigInt is a big.Int wrapper which marshals to JSON as a decimal string and
// to CBOR as a bignum.
type BigInt big.Int

// NewInt returns a new BigInt holding x.
func NewInt(x uint64) *BigInt {
	return new(BigInt).SetUint64(x)
}

// MathBigInt converts b to a math/big *Int.
func (b *BigInt) MathBigInt() *big.Int {
	return (*big.Int)(b)
}

// String returns the decimal representation of b.
func (b *BigInt) String() string {
	return b.MathBigInt().String()
}

// SetUint64 sets b to x and returns it.
func (b *BigInt) SetUint64(x uint64) *BigInt {
	b.MathBigInt().SetUint64(x)
	return b
}

// SetBytes interprets buf as a big-endian unsigned integer and returns b.
func (b *BigInt) SetBytes(buf []byte) *BigInt {
	b.MathBigInt().SetBytes(buf)
	return b
}

// Bytes returns the big-endian absolute value of b.
func (b *BigInt) Bytes() []byte {
	return b.MathBigInt().Bytes()
}

// Add sets b to x + y and returns it.
func (b *BigInt) Add(x, y *BigInt) *BigInt {
	b.MathBigInt().Add(x.MathBigInt(), y.MathBigInt())
	return b
}

// Equal reports whether b == other.
func (b *BigInt) Equal(other *BigInt) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.MathBigInt().Cmp(other.MathBigInt()) == 0
}

// MarshalText returns the decimal string representation of the big number.
// If the receiver is nil, we return "0".
func (b *BigInt) MarshalText() ([]byte, error) {
	if b == nil {
		return []byte("0"), nil
	}
	return b.MathBigInt().MarshalText()
}

// UnmarshalText parses a decimal string.
func (b *BigInt) UnmarshalText(input []byte) error {
	if _, ok := b.MathBigInt().SetString(string(input), 0); !ok {
		return fmt.Errorf("invalid big integer %q", input)
	}
	return nil
}

// MarshalJSON encodes b as a quoted decimal string.
func (b *BigInt) MarshalJSON() ([]byte, error) {
	text, err := b.MarshalText()
	if err != nil {
		return nil, err
	}
	return []byte(`"` + string(text) + `"`), nil
}

// UnmarshalJSON accepts both quoted and bare decimal numbers.
func (b *BigInt) UnmarshalJSON(input []byte) error {
	if len(input) >= 2 && input[0] == '"' && input[len(input)-1] == '"' {
		input = input[1 : len(input)-1]
	}
	return b.UnmarshalText(input)
}

// MarshalCBOR encodes b as a CBOR bignum.
func (b *BigInt) MarshalCBOR() ([]byte, error) {
	if b == nil {
		return cbor.Marshal(new(big.Int))
	}
	return cbor.Marshal(b.MathBigInt())
}

// UnmarshalCBOR decodes a CBOR bignum into b.
func (b *BigInt) UnmarshalCBOR(data []byte) error {
	bi := new(big.Int)
	if err := cbor.Unmarshal(data, bi); err != nil {
		return err
	}
	b.MathBigInt().Set(bi)
	return nil
}
