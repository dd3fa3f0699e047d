package elgamal

import (
	"encoding/json"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/fxamacker/cbor/v2"
	"github.com/vocdoni/zk-governance/crypto/ecc"
	"github.com/vocdoni/zk-governance/crypto/ecc/curves"
)

func TestCiphertextSerializeDeserialize(t *testing.T) {
	c := qt.New(t)

	for _, curveType := range curves.Curves() {
		curve, err := curves.New(curveType)
		c.Assert(err, qt.IsNil)
		publicKey, _, err := GenerateKey(curve)
		c.Assert(err, qt.IsNil)

		encrypted, err := NewCiphertext(publicKey).Encrypt(big.NewInt(42), publicKey, big.NewInt(789))
		c.Assert(err, qt.IsNil)

		serialized := encrypted.Serialize()
		c.Assert(serialized, qt.HasLen, SizeCiphertext)

		deserialized := NewCiphertext(publicKey)
		c.Assert(deserialized.Deserialize(serialized), qt.IsNil)
		c.Assert(deserialized.Equal(encrypted), qt.IsTrue, qt.Commentf("curve %s", curveType))
	}
}

func TestPointEncodingSize(t *testing.T) {
	c := qt.New(t)

	for _, curveType := range curves.Curves() {
		curve, err := curves.New(curveType)
		c.Assert(err, qt.IsNil)
		publicKey, _, err := GenerateKey(curve)
		c.Assert(err, qt.IsNil)
		generator := curve.New()
		generator.SetGenerator()

		for _, p := range []ecc.Point{curve.New(), generator, publicKey} {
			data := p.Marshal()
			c.Assert(data, qt.HasLen, SizePoint, qt.Commentf("curve %s", curveType))
			decoded := curve.New()
			c.Assert(decoded.Unmarshal(data), qt.IsNil)
			c.Assert(decoded.Equal(p), qt.IsTrue)
		}
	}
}

func TestCiphertextMarshalJSON(t *testing.T) {
	c := qt.New(t)

	curve, err := curves.New(curves.CurveTypeBN254)
	c.Assert(err, qt.IsNil)
	publicKey, _, err := GenerateKey(curve)
	c.Assert(err, qt.IsNil)

	encrypted, err := NewCiphertext(publicKey).Encrypt(big.NewInt(42), publicKey, big.NewInt(789))
	c.Assert(err, qt.IsNil)

	marshaled, err := encrypted.Marshal()
	c.Assert(err, qt.IsNil)

	unmarshaled := NewCiphertext(publicKey)
	c.Assert(json.Unmarshal(marshaled, unmarshaled), qt.IsNil)
	c.Assert(unmarshaled.Equal(encrypted), qt.IsTrue)
}

func TestCiphertextString(t *testing.T) {
	c := qt.New(t)

	curve, err := curves.New(curves.CurveTypeBN254)
	c.Assert(err, qt.IsNil)
	publicKey, _, err := GenerateKey(curve)
	c.Assert(err, qt.IsNil)

	encrypted, err := NewCiphertext(publicKey).Encrypt(big.NewInt(42), publicKey, big.NewInt(789))
	c.Assert(err, qt.IsNil)
	c.Assert(encrypted.String(), qt.Matches, `\{C1: .+, C2: .+\}`)

	var empty *Ciphertext
	c.Assert(empty.String(), qt.Equals, "{C1: nil, C2: nil}")
}

func TestCiphertextDeserializeError(t *testing.T) {
	c := qt.New(t)

	curve, err := curves.New(curves.CurveTypeBN254)
	c.Assert(err, qt.IsNil)

	c.Assert(NewCiphertext(curve).Deserialize(make([]byte, SizeCiphertext-1)),
		qt.ErrorMatches, "invalid input length.*")
	c.Assert(NewCiphertexts(curve).Deserialize(make([]byte, SizeCiphertexts+1)),
		qt.ErrorMatches, "invalid input length.*")
}

func TestCiphertextsEncryptAdd(t *testing.T) {
	c := qt.New(t)

	curve, err := curves.New(curves.CurveTypeBN254)
	c.Assert(err, qt.IsNil)
	publicKey, privateKey, err := GenerateKey(curve)
	c.Assert(err, qt.IsNil)

	a, err := NewCiphertexts(publicKey).Encrypt([NumCiphertexts]*big.Int{big.NewInt(4), big.NewInt(0)}, publicKey)
	c.Assert(err, qt.IsNil)
	b, err := NewCiphertexts(publicKey).Encrypt([NumCiphertexts]*big.Int{big.NewInt(0), big.NewInt(9)}, publicKey)
	c.Assert(err, qt.IsNil)

	sum := NewCiphertexts(publicKey).Add(a, b)
	expected := []int64{4, 9}
	for i, ct := range sum {
		_, m, err := Decrypt(publicKey, privateKey, ct.C1, ct.C2, 100)
		c.Assert(err, qt.IsNil)
		c.Assert(m.Int64(), qt.Equals, expected[i])
	}
}

func TestCiphertextsMarshalCBOR(t *testing.T) {
	c := qt.New(t)

	for _, curveType := range curves.Curves() {
		curve, err := curves.New(curveType)
		c.Assert(err, qt.IsNil)
		publicKey, _, err := GenerateKey(curve)
		c.Assert(err, qt.IsNil)

		cs, err := NewCiphertexts(publicKey).Encrypt([NumCiphertexts]*big.Int{big.NewInt(1), big.NewInt(2)}, publicKey)
		c.Assert(err, qt.IsNil)

		data, err := cbor.Marshal(cs)
		c.Assert(err, qt.IsNil)

		decoded := &Ciphertexts{}
		c.Assert(cbor.Unmarshal(data, decoded), qt.IsNil)
		c.Assert(decoded[0].C1.Type(), qt.Equals, curveType)
		c.Assert(decoded.Equal(cs), qt.IsTrue)
	}
}
