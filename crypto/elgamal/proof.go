package elgamal

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/vocdoni/zk-governance/crypto/ecc"
)

// ErrInvalidDecryptionProof is returned when a decryption proof does not
// verify.
var ErrInvalidDecryptionProof = errors.New("invalid decryption proof")

// DecryptionProof is a Chaum-Pedersen proof that the holder of the private
// key behind a public key decrypted a ciphertext to a given message, that
// is log_G(pub) == log_C1(C2 - msg*G). It reveals nothing about the key.
type DecryptionProof struct {
	A []byte   `json:"a" cbor:"0,keyasint"`
	B []byte   `json:"b" cbor:"1,keyasint"`
	S *big.Int `json:"s" cbor:"2,keyasint"`
}

// ProveDecryption builds a non-interactive proof that c decrypts to msg
// under privateKey.
func ProveDecryption(publicKey ecc.Point, privateKey *big.Int, c *Ciphertext, msg *big.Int) (*DecryptionProof, error) {
	order := publicKey.Order()
	r, err := rand.Int(rand.Reader, order)
	if err != nil {
		return nil, fmt.Errorf("failed to generate proof nonce: %w", err)
	}
	G := publicKey.New()
	G.SetGenerator()
	A := publicKey.New()
	A.ScalarMult(G, r)
	B := publicKey.New()
	B.ScalarMult(c.C1, r)
	D := sharedPoint(c, msg)

	e := challenge(order, G, publicKey, c.C1, D, A, B)
	s := new(big.Int).Mul(e, privateKey)
	s.Add(s, r)
	s.Mod(s, order)
	return &DecryptionProof{A: A.Marshal(), B: B.Marshal(), S: s}, nil
}

// VerifyDecryption checks a proof produced by ProveDecryption.
func VerifyDecryption(publicKey ecc.Point, c *Ciphertext, msg *big.Int, proof *DecryptionProof) error {
	if proof == nil || proof.S == nil {
		return fmt.Errorf("%w: empty proof", ErrInvalidDecryptionProof)
	}
	order := publicKey.Order()
	if proof.S.Sign() < 0 || proof.S.Cmp(order) >= 0 {
		return fmt.Errorf("%w: response out of range", ErrInvalidDecryptionProof)
	}
	A := publicKey.New()
	if err := A.Unmarshal(proof.A); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDecryptionProof, err)
	}
	B := publicKey.New()
	if err := B.Unmarshal(proof.B); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDecryptionProof, err)
	}
	G := publicKey.New()
	G.SetGenerator()
	D := sharedPoint(c, msg)
	e := challenge(order, G, publicKey, c.C1, D, A, B)

	// s*G == A + e*pub
	lhs := publicKey.New()
	lhs.ScalarMult(G, proof.S)
	rhs := publicKey.New()
	rhs.ScalarMult(publicKey, e)
	rhs.Add(A, rhs)
	if !lhs.Equal(rhs) {
		return fmt.Errorf("%w: key equation", ErrInvalidDecryptionProof)
	}
	// s*C1 == B + e*D
	lhs.ScalarMult(c.C1, proof.S)
	rhs.ScalarMult(D, e)
	rhs.Add(B, rhs)
	if !lhs.Equal(rhs) {
		return fmt.Errorf("%w: ciphertext equation", ErrInvalidDecryptionProof)
	}
	return nil
}

// sharedPoint returns C2 - msg*G.
func sharedPoint(c *Ciphertext, msg *big.Int) ecc.Point {
	M := c.C2.New()
	M.ScalarBaseMult(new(big.Int).Mod(msg, c.C2.Order()))
	M.Neg(M)
	D := c.C2.New()
	D.Add(c.C2, M)
	return D
}

func challenge(order *big.Int, points ...ecc.Point) *big.Int {
	data := make([][]byte, 0, len(points))
	for _, p := range points {
		data = append(data, p.Marshal())
	}
	e := new(big.Int).SetBytes(ethcrypto.Keccak256(data...))
	return e.Mod(e, order)
}
