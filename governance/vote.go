package governance

import (
	"errors"
	"fmt"

	"github.com/vocdoni/zk-governance/crypto"
	"github.com/vocdoni/zk-governance/log"
	"github.com/vocdoni/zk-governance/storage"
	"github.com/vocdoni/zk-governance/types"
	"go.vocdoni.io/dvote/db"
)

// VoteRequest is an anonymous ballot relayed to a proposal.
type VoteRequest struct {
	ProposalID  types.ProposalID   `json:"proposalId"`
	Nullifier   types.HexBytes     `json:"nullifier"`
	Ciphertext  types.HexBytes     `json:"ciphertext"`
	PubKey      types.HexBytes     `json:"pubKey"`
	Nonce       types.HexBytes     `json:"nonce"`
	CensusProof *types.CensusProof `json:"censusProof,omitempty"`
}

// SubmitVote records a ballot and spends its nullifier. The record gets the
// next position of the ballot sequence and the vote counter is incremented,
// both in the transaction that creates the nullifier. A nullifier can be
// spent only once per proposal.
func (e *Engine) SubmitVote(req *VoteRequest) (*types.NullifierRecord, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidBallot)
	}
	rec := &types.NullifierRecord{
		ProposalID: req.ProposalID,
		Nullifier:  req.Nullifier,
		Ciphertext: req.Ciphertext,
		PubKey:     req.PubKey,
		Nonce:      req.Nonce,
	}
	if err := rec.ValidateShape(); err != nil {
		return nil, err
	}
	_, err := e.update(req.ProposalID, func(p *types.Proposal, wTx db.WriteTx) error {
		if !p.Open() {
			return fmt.Errorf("%w: proposal %s is %s (executed %t, closed %t)",
				ErrVotingClosed, p.ID, p.TallyResult, p.IsExecuted, p.VotingClosed)
		}
		ok, err := e.eligibility.VerifyInclusion(p.MerkleRoot, req.CensusProof)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNotEligible, err)
		}
		if !ok {
			return ErrNotEligible
		}
		rec.Proposal = p.Address
		rec.Address = crypto.NullifierAddress(e.program, p.Address, rec.Nullifier)
		rec.Index = p.VoteCount
		if err := e.stg.InsertNullifier(wTx, rec); err != nil {
			if errors.Is(err, storage.ErrKeyAlreadyExists) {
				return fmt.Errorf("%w: %s", ErrDuplicateVote, rec.Nullifier)
			}
			return err
		}
		return p.RecordVote()
	})
	if err != nil {
		return nil, err
	}
	log.Debugw("vote recorded",
		"proposal", rec.ProposalID.String(),
		"nullifier", rec.Nullifier.String(),
		"index", rec.Index)
	return rec, nil
}

// CloseVoting stops a private commitment proposal from accepting ballots.
// The ballot sequence is final afterwards, and only then can its tally be
// revealed. With relayers configured only they can close voting.
func (e *Engine) CloseVoting(id types.ProposalID, caller types.HexBytes) (*types.Proposal, error) {
	if err := e.checkRelayer(caller); err != nil {
		return nil, err
	}
	p, err := e.update(id, func(p *types.Proposal, _ db.WriteTx) error {
		if p.Version != types.SchemaPrivateCommitment {
			return fmt.Errorf("%w: CloseVoting on %s", ErrUnsupportedOperation, p.Version)
		}
		if p.IsExecuted {
			return ErrAlreadyExecuted
		}
		if p.VotingClosed {
			return fmt.Errorf("%w: proposal %s", ErrVotingClosed, p.ID)
		}
		p.VotingClosed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Infow("voting closed", "id", id.String(), "votes", p.VoteCount)
	return p, nil
}
