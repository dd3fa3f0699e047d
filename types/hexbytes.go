package types

import (
	"encoding/hex"
	"fmt"

	"github.com/vocdoni/zk-governance/util"
)

// HexBytes is a []byte which encodes as hexadecimal in json, as opposed to
// the base64 default.
type HexBytes []byte

// String returns the lowercase hexadecimal representation, without prefix.
func (b HexBytes) String() string {
	return hex.EncodeToString(b)
}

// Bytes returns the raw byte slice.
func (b HexBytes) Bytes() []byte {
	return b
}

// Equal reports whether b and other hold the same bytes.
func (b HexBytes) Equal(other HexBytes) bool {
	return string(b) == string(other)
}

// MarshalText implements encoding.TextMarshaler, so HexBytes can also be
// used as a json map key.
func (b HexBytes) MarshalText() ([]byte, error) {
	enc := make([]byte, hex.EncodedLen(len(b)))
	hex.Encode(enc, b)
	return enc, nil
}

// UnmarshalText implements encoding.TextUnmarshaler. A 0x prefix is
// accepted and ignored.
func (b *HexBytes) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(util.TrimHex(string(text)))
	if err != nil {
		return fmt.Errorf("invalid hex bytes %q: %w", text, err)
	}
	*b = decoded
	return nil
}

// HexStringToHexBytes decodes a hex string, with or without 0x prefix.
func HexStringToHexBytes(s string) (HexBytes, error) {
	b := HexBytes{}
	if err := b.UnmarshalText([]byte(s)); err != nil {
		return nil, err
	}
	return b, nil
}
