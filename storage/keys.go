package storage

import (
	"fmt"
	"math/big"

	"github.com/vocdoni/zk-governance/crypto/ecc"
	"github.com/vocdoni/zk-governance/crypto/ecc/curves"
	"github.com/vocdoni/zk-governance/types"
	"go.vocdoni.io/dvote/db"
)

// EncryptionKeys is the stored tally key pair of a proposal.
type EncryptionKeys struct {
	Curve      string   `cbor:"0,keyasint"`
	PublicKey  []byte   `cbor:"1,keyasint"`
	PrivateKey *big.Int `cbor:"2,keyasint"`
}

// SetEncryptionKeys stores the tally keys of a proposal in wTx.
func (s *Storage) SetEncryptionKeys(wTx db.WriteTx, id types.ProposalID, publicKey ecc.Point, privateKey *big.Int) error {
	eks := &EncryptionKeys{
		Curve:      publicKey.Type(),
		PublicKey:  publicKey.Marshal(),
		PrivateKey: privateKey,
	}
	return setArtifact(wTx, encryptionKeyPrefix, id.Marshal(), eks)
}

// EncryptionKeys loads the tally keys of a proposal. Returns ErrNotFound if
// the keys do not exist.
func (s *Storage) EncryptionKeys(id types.ProposalID) (ecc.Point, *big.Int, error) {
	eks := &EncryptionKeys{}
	if err := getArtifact(s.db, encryptionKeyPrefix, id.Marshal(), eks); err != nil {
		return nil, nil, err
	}
	pubKey, err := curves.New(eks.Curve)
	if err != nil {
		return nil, nil, err
	}
	if err := pubKey.Unmarshal(eks.PublicKey); err != nil {
		return nil, nil, fmt.Errorf("could not decode public key: %w", err)
	}
	return pubKey, eks.PrivateKey, nil
}
