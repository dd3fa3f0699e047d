package tally

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/vocdoni/zk-governance/crypto/ecc"
	"github.com/vocdoni/zk-governance/crypto/elgamal"
	"github.com/vocdoni/zk-governance/log"
	"github.com/vocdoni/zk-governance/types"
)

// Proof shows that the yes and no totals are the decryption of the sum of
// the first Ballots positions of the ballot sequence of a proposal. Spoiled
// ballots in that range are skipped. A proof verifies only when Ballots is
// the whole sequence.
type Proof struct {
	ProposalID types.ProposalID                                `json:"proposalId" cbor:"0,keyasint"`
	Ballots    uint64                                          `json:"ballots"    cbor:"1,keyasint"`
	Sums       *elgamal.Ciphertexts                            `json:"sums"       cbor:"2,keyasint"`
	Decryption [elgamal.NumCiphertexts]*elgamal.DecryptionProof `json:"decryption" cbor:"3,keyasint"`
}

// Marshal encodes the proof as the opaque bytes passed to Finalize.
func (p *Proof) Marshal() ([]byte, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(p)
}

// UnmarshalProof decodes the output of Marshal.
func UnmarshalProof(data []byte) (*Proof, error) {
	p := &Proof{}
	if err := cbor.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("decode tally proof: %w", err)
	}
	if p.Sums == nil {
		return nil, fmt.Errorf("decode tally proof: missing sums")
	}
	for i, dp := range p.Decryption {
		if dp == nil {
			return nil, fmt.Errorf("decode tally proof: missing decryption proof %d", i)
		}
	}
	return p, nil
}

// BallotSource gives the verifier access to the stored ballots and tally
// keys. *storage.Storage implements it.
type BallotSource interface {
	Ballots(id types.ProposalID, from uint64, fn func(rec *types.NullifierRecord) bool) error
	EncryptionKeys(id types.ProposalID) (ecc.Point, *big.Int, error)
}

// Verifier checks tally proofs against the stored ballots.
type Verifier struct {
	source BallotSource
}

// NewVerifier returns a verifier reading ballots from source.
func NewVerifier(source BallotSource) *Verifier {
	return &Verifier{source: source}
}

// VerifyProof recomputes the encrypted totals from the stored ballots and
// checks that the proof decrypts them to the claimed yes and no votes. A
// proof that does not match returns false with no error.
func (v *Verifier) VerifyProof(data []byte, in *types.TallyInputs) (bool, error) {
	proof, err := UnmarshalProof(data)
	if err != nil {
		return false, err
	}
	if proof.ProposalID != in.ProposalID {
		log.Debugw("tally proof for another proposal", "proof", proof.ProposalID.String(), "proposal", in.ProposalID.String())
		return false, nil
	}
	if proof.Ballots != in.VoteCount {
		log.Debugw("tally proof does not cover every ballot", "proposal", in.ProposalID.String(),
			"ballots", proof.Ballots, "votes", in.VoteCount)
		return false, nil
	}
	pubKey, _, err := v.source.EncryptionKeys(in.ProposalID)
	if err != nil {
		return false, fmt.Errorf("tally key: %w", err)
	}
	if !onCurve(proof.Sums, pubKey.Type()) {
		log.Debugw("tally proof sums on another curve", "proposal", in.ProposalID.String(), "curve", pubKey.Type())
		return false, nil
	}
	agg, err := Recompute(v.source, in.ProposalID, pubKey, proof.Ballots)
	if err != nil {
		return false, err
	}
	if agg.Processed() != proof.Ballots {
		log.Debugw("tally proof covers missing ballots", "proposal", in.ProposalID.String(), "ballots", proof.Ballots, "stored", agg.Processed())
		return false, nil
	}
	sums := agg.Sums()
	if !sums.Equal(proof.Sums) {
		return false, nil
	}
	totals := [elgamal.NumCiphertexts]uint64{in.YesVotes, in.NoVotes}
	for i, c := range sums {
		msg := new(big.Int).SetUint64(totals[i])
		if err := elgamal.VerifyDecryption(pubKey, c, msg, proof.Decryption[i]); err != nil {
			if errors.Is(err, elgamal.ErrInvalidDecryptionProof) {
				log.Debugw("tally decryption proof rejected", "proposal", in.ProposalID.String(), "total", i, "err", err)
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

// onCurve reports whether every point of cs belongs to the given curve.
func onCurve(cs *elgamal.Ciphertexts, curveType string) bool {
	for _, c := range cs {
		if c == nil || c.C1 == nil || c.C2 == nil {
			return false
		}
		if c.C1.Type() != curveType || c.C2.Type() != curveType {
			return false
		}
	}
	return true
}

// Recompute aggregates the first limit positions of the ballot sequence of
// a proposal.
func Recompute(source BallotSource, id types.ProposalID, pubKey ecc.Point, limit uint64) (*Aggregator, error) {
	agg := NewAggregator(id, pubKey)
	if limit == 0 {
		return agg, nil
	}
	if err := source.Ballots(id, 0, func(rec *types.NullifierRecord) bool {
		AddRecord(agg, rec)
		return agg.Processed() < limit
	}); err != nil {
		return nil, err
	}
	return agg, nil
}

// AddRecord adds a stored ballot to agg, logging it when spoiled.
func AddRecord(agg *Aggregator, rec *types.NullifierRecord) {
	if err := agg.Add(rec.Ciphertext); err != nil {
		log.Debugw("spoiled ballot skipped", "proposal", rec.ProposalID.String(), "index", rec.Index, "err", err)
	}
}
