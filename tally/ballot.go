package tally

import (
	"fmt"
	"math/big"

	"github.com/vocdoni/zk-governance/crypto/ecc"
	"github.com/vocdoni/zk-governance/crypto/elgamal"
	"github.com/vocdoni/zk-governance/types"
	"github.com/vocdoni/zk-governance/util"
)

// Ballot is the encrypted payload relayed with a vote.
type Ballot struct {
	Ciphertext types.HexBytes `json:"ciphertext"`
	PubKey     types.HexBytes `json:"pubKey"`
	Nonce      types.HexBytes `json:"nonce"`
}

// EncryptBallot encrypts a vote under the proposal tally key. PubKey is the
// compressed tally key so relays can check which key a ballot targets.
func EncryptBallot(pubKey ecc.Point, weight uint64, choice uint8) (*Ballot, error) {
	yes, err := Contribution(weight, choice)
	if err != nil {
		return nil, err
	}
	msgs := [elgamal.NumCiphertexts]*big.Int{
		new(big.Int).SetUint64(yes),
		new(big.Int).SetUint64(weight - yes),
	}
	cs, err := elgamal.NewCiphertexts(pubKey).Encrypt(msgs, pubKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt ballot: %w", err)
	}
	return &Ballot{
		Ciphertext: cs.Serialize(),
		PubKey:     pubKey.Marshal(),
		Nonce:      util.RandomBytes(types.BallotNonceSize),
	}, nil
}

// DecodeCiphertexts parses a serialized ballot ciphertext on the curve of
// pubKey.
func DecodeCiphertexts(pubKey ecc.Point, data []byte) (*elgamal.Ciphertexts, error) {
	cs := elgamal.NewCiphertexts(pubKey)
	if err := cs.Deserialize(data); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidBallot, err)
	}
	return cs, nil
}
