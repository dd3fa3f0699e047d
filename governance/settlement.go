package governance

import (
	"fmt"

	"github.com/vocdoni/zk-governance/crypto"
	"github.com/vocdoni/zk-governance/log"
	"github.com/vocdoni/zk-governance/types"
	"go.vocdoni.io/dvote/db"
)

// FinalizeRequest carries a claimed tally and the proof binding it.
type FinalizeRequest struct {
	ProposalID types.ProposalID `json:"proposalId"`
	Caller     types.HexBytes   `json:"caller,omitempty"`
	Proof      types.HexBytes   `json:"proof"`
	YesVotes   uint64           `json:"yesVotes"`
	NoVotes    uint64           `json:"noVotes"`
	// Threshold is the required yes share, in percent.
	Threshold uint64 `json:"threshold"`
	Quorum    uint64 `json:"quorum"`
}

// SetTally records the outcome of an authority gated proposal.
func (e *Engine) SetTally(id types.ProposalID, caller types.HexBytes, result types.TallyResult) (*types.Proposal, error) {
	return e.update(id, func(p *types.Proposal, _ db.WriteTx) error {
		if !p.Version.AuthorityGated() {
			return fmt.Errorf("%w: SetTally on %s", ErrUnsupportedOperation, p.Version)
		}
		if !caller.Equal(p.Authority) {
			return ErrUnauthorized
		}
		if p.IsExecuted {
			return ErrAlreadyExecuted
		}
		if result != types.TallyPassed && result != types.TallyRejected {
			return fmt.Errorf("%w: %s", ErrInvalidTallyResult, result)
		}
		p.TallyResult = result
		log.Infow("tally recorded", "id", id.String(), "result", result.String())
		return nil
	})
}

// Execute pays out a passed authority gated proposal. The transfer and the
// execution latch commit together.
func (e *Engine) Execute(id types.ProposalID, caller types.HexBytes) (*types.Proposal, error) {
	e.ledger.Lock()
	defer e.ledger.Unlock()
	p, err := e.update(id, func(p *types.Proposal, wTx db.WriteTx) error {
		if !p.Version.AuthorityGated() {
			return fmt.Errorf("%w: Execute on %s", ErrUnsupportedOperation, p.Version)
		}
		if !caller.Equal(p.Authority) {
			return ErrUnauthorized
		}
		if p.IsExecuted {
			return ErrAlreadyExecuted
		}
		if !p.Passed() {
			return ErrProposalNotPassed
		}
		if err := e.settle(wTx, p); err != nil {
			return err
		}
		p.IsExecuted = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	logSettled(p)
	return p, nil
}

// Finalize verifies a tally proof, enforces quorum and majority and settles
// the payout of a private commitment proposal. On success the tally is
// recorded as passed and the proposal is latched as executed; on any error
// nothing changes.
func (e *Engine) Finalize(req *FinalizeRequest) (*types.Proposal, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidProof)
	}
	if err := e.checkRelayer(req.Caller); err != nil {
		return nil, err
	}
	e.ledger.Lock()
	defer e.ledger.Unlock()
	p, err := e.update(req.ProposalID, func(p *types.Proposal, wTx db.WriteTx) error {
		if p.Version != types.SchemaPrivateCommitment {
			return fmt.Errorf("%w: Finalize on %s", ErrUnsupportedOperation, p.Version)
		}
		if p.IsExecuted {
			return ErrAlreadyExecuted
		}
		if len(req.Proof) == 0 {
			return fmt.Errorf("%w: empty proof", ErrInvalidProof)
		}
		ok, err := e.proofs.VerifyProof(req.Proof, &types.TallyInputs{
			ProposalID: p.ID,
			VoteCount:  p.VoteCount,
			YesVotes:   req.YesVotes,
			NoVotes:    req.NoVotes,
			Threshold:  req.Threshold,
			Quorum:     req.Quorum,
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProof, err)
		}
		if !ok {
			return ErrInvalidProof
		}
		if err := checkOutcome(req.YesVotes, req.NoVotes, req.Threshold, req.Quorum); err != nil {
			return err
		}
		if err := e.settle(wTx, p); err != nil {
			return err
		}
		p.TallyResult = types.TallyPassed
		p.YesVotes = req.YesVotes
		p.NoVotes = req.NoVotes
		p.IsExecuted = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	logSettled(p)
	return p, nil
}

// checkRelayer accepts every caller unless relayers are configured.
func (e *Engine) checkRelayer(caller types.HexBytes) error {
	if len(e.relayers) == 0 {
		return nil
	}
	if _, ok := e.relayers[string(caller)]; !ok {
		return fmt.Errorf("%w: %s is not a relayer", ErrUnauthorized, caller)
	}
	return nil
}

// checkOutcome enforces yes+no >= quorum and yes*100 >= (yes+no)*threshold
// with checked arithmetic.
func checkOutcome(yes, no, threshold, quorum uint64) error {
	total, err := types.CheckedAdd(yes, no)
	if err != nil {
		return fmt.Errorf("%w: total votes", ErrArithmeticOverflow)
	}
	if total < quorum {
		return fmt.Errorf("%w: %d votes, quorum %d", ErrQuorumNotMet, total, quorum)
	}
	share, err := types.CheckedMul(yes, 100)
	if err != nil {
		return fmt.Errorf("%w: yes share", ErrArithmeticOverflow)
	}
	required, err := types.CheckedMul(total, threshold)
	if err != nil {
		return fmt.Errorf("%w: required share", ErrArithmeticOverflow)
	}
	if share < required {
		return fmt.Errorf("%w: %d yes of %d, threshold %d%%", ErrMajorityNotMet, yes, total, threshold)
	}
	return nil
}

// settle moves the execution amount from the custody holding to the target
// wallet inside wTx, signed by the proposal address. Callers hold the
// ledger lock.
func (e *Engine) settle(wTx db.WriteTx, p *types.Proposal) error {
	if !p.Version.HasPayout() {
		return fmt.Errorf("%w: %s proposals have no payout", ErrUnsupportedOperation, p.Version)
	}
	m, err := e.treasuryMint(p)
	if err != nil {
		return err
	}
	to, err := e.ledger.OpenHolding(wTx, p.TargetWallet, p.TreasuryMint)
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}
	signer := &types.Authority{
		Address: p.Address,
		Program: e.program,
		Seeds:   crypto.ProposalSeeds(p.ID),
	}
	if err := e.ledger.TransferChecked(wTx, p.Custody, to, signer,
		p.TreasuryMint, p.ExecutionAmount, m.Decimals); err != nil {
		return fmt.Errorf("settlement: %w", err)
	}
	return nil
}

func logSettled(p *types.Proposal) {
	log.Infow("proposal settled",
		"id", p.ID.String(),
		"amount", p.ExecutionAmount,
		"target", p.TargetWallet.String())
}
