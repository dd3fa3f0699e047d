package elgamal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/vocdoni/zk-governance/crypto/ecc"
	"github.com/vocdoni/zk-governance/crypto/ecc/curves"
)

// NumCiphertexts represents how many Ciphertexts are grouped
const NumCiphertexts = 2

// sizes in bytes needed to serialize Ciphertexts. Both supported curves
// compress a point into 32 bytes.
const (
	SizePoint       = 32
	SizeCiphertext  = 2 * SizePoint
	SizeCiphertexts = NumCiphertexts * SizeCiphertext
)

// Ciphertexts groups NumCiphertexts ciphertexts under the same key. Each one
// is encrypted with its own randomness.
type Ciphertexts [NumCiphertexts]*Ciphertext

// NewCiphertexts returns a group of identity ciphertexts (encryptions of
// zero with zero randomness) on the curve of the given point.
func NewCiphertexts(curve ecc.Point) *Ciphertexts {
	cs := &Ciphertexts{}
	for i := range cs {
		cs[i] = NewCiphertext(curve)
	}
	return cs
}

// Encrypt encrypts each message with fresh randomness.
func (cs *Ciphertexts) Encrypt(message [NumCiphertexts]*big.Int, publicKey ecc.Point) (*Ciphertexts, error) {
	for i := range cs {
		if _, err := cs[i].Encrypt(message[i], publicKey, nil); err != nil {
			return nil, err
		}
	}
	return cs, nil
}

// Add adds two Ciphertexts and stores the result in the receiver, which is also returned.
func (cs *Ciphertexts) Add(x, y *Ciphertexts) *Ciphertexts {
	for i := range cs {
		cs[i].Add(x[i], y[i])
	}
	return cs
}

// Equal reports whether both groups hold the same points.
func (cs *Ciphertexts) Equal(other *Ciphertexts) bool {
	for i := range cs {
		if !cs[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Serialize returns a slice of len NumCiphertexts*SizeCiphertext bytes,
// the compressed C1 and C2 of every ciphertext in order.
func (cs *Ciphertexts) Serialize() []byte {
	var buf bytes.Buffer
	for _, z := range cs {
		buf.Write(z.Serialize())
	}
	return buf.Bytes()
}

// Deserialize reconstructs a Ciphertexts from a slice of bytes produced by
// Serialize. The receiver must have been created with NewCiphertexts so the
// curve is known.
func (cs *Ciphertexts) Deserialize(data []byte) error {
	if len(data) != SizeCiphertexts {
		return fmt.Errorf("invalid input length: got %d bytes, expected %d bytes", len(data), SizeCiphertexts)
	}
	for i := range cs {
		if err := cs[i].Deserialize(data[i*SizeCiphertext : (i+1)*SizeCiphertext]); err != nil {
			return fmt.Errorf("ciphertext %d: %w", i, err)
		}
	}
	return nil
}

// Ciphertext represents an ElGamal encrypted message with homomorphic properties.
// It is a wrapper for convenience of the elGamal ciphersystem that encapsulates the two points of a ciphertext.
type Ciphertext struct {
	C1 ecc.Point `json:"c1"`
	C2 ecc.Point `json:"c2"`
}

// NewCiphertext creates a new Ciphertext on the same curve as the given Point.
// The Point must be one on of the supported curves by crypto/ecc/curves package,
// can be easily created with curves.New(type)
func NewCiphertext(curve ecc.Point) *Ciphertext {
	return &Ciphertext{C1: curve.New(), C2: curve.New()}
}

// Encrypt encrypts a message using the public key provided as elliptic curve point.
// The randomness k can be provided or nil to generate a new one.
func (z *Ciphertext) Encrypt(message *big.Int, publicKey ecc.Point, k *big.Int) (*Ciphertext, error) {
	var err error
	if k == nil {
		k, err = RandK()
		if err != nil {
			return nil, fmt.Errorf("elgamal encryption failed: %w", err)
		}
	}
	c1, c2, err := EncryptWithK(publicKey, message, k)
	if err != nil {
		return nil, fmt.Errorf("elgamal encryption failed: %w", err)
	}
	z.C1 = c1
	z.C2 = c2
	return z, nil
}

// Add adds two Ciphertext and stores the result in z, which is also returned.
func (z *Ciphertext) Add(x, y *Ciphertext) *Ciphertext {
	z.C1.SafeAdd(x.C1, y.C1)
	z.C2.SafeAdd(x.C2, y.C2)
	return z
}

// Equal reports whether both ciphertexts hold the same points.
func (z *Ciphertext) Equal(other *Ciphertext) bool {
	return z.C1.Equal(other.C1) && z.C2.Equal(other.C2)
}

// Serialize returns the compressed C1 followed by the compressed C2.
func (z *Ciphertext) Serialize() []byte {
	var buf bytes.Buffer
	buf.Write(z.C1.Marshal())
	buf.Write(z.C2.Marshal())
	return buf.Bytes()
}

// Deserialize reconstructs a Ciphertext from the output of Serialize.
func (z *Ciphertext) Deserialize(data []byte) error {
	if len(data) != SizeCiphertext {
		return fmt.Errorf("invalid input length: got %d bytes, expected %d bytes", len(data), SizeCiphertext)
	}
	if err := z.C1.Unmarshal(data[:SizePoint]); err != nil {
		return fmt.Errorf("invalid C1: %w", err)
	}
	if err := z.C2.Unmarshal(data[SizePoint:]); err != nil {
		return fmt.Errorf("invalid C2: %w", err)
	}
	return nil
}

// Marshal converts Ciphertext to a byte slice.
func (z *Ciphertext) Marshal() ([]byte, error) {
	return json.Marshal(z)
}

// String returns a string representation of the Ciphertext.
func (z *Ciphertext) String() string {
	if z == nil || z.C1 == nil || z.C2 == nil {
		return "{C1: nil, C2: nil}"
	}
	return fmt.Sprintf("{C1: %s, C2: %s}", z.C1.String(), z.C2.String())
}

// wireCiphertexts is the cbor envelope of a Ciphertexts group. It carries
// the curve so the points can be decoded without context.
type wireCiphertexts struct {
	Curve string `cbor:"0,keyasint"`
	Data  []byte `cbor:"1,keyasint"`
}

// MarshalCBOR encodes the curve type and the serialized points.
func (cs *Ciphertexts) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(&wireCiphertexts{Curve: cs[0].C1.Type(), Data: cs.Serialize()})
}

// UnmarshalCBOR decodes the output of MarshalCBOR.
func (cs *Ciphertexts) UnmarshalCBOR(data []byte) error {
	w := &wireCiphertexts{}
	if err := cbor.Unmarshal(data, w); err != nil {
		return err
	}
	curve, err := curves.New(w.Curve)
	if err != nil {
		return err
	}
	*cs = *NewCiphertexts(curve)
	return cs.Deserialize(w.Data)
}
