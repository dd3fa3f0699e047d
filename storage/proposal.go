package storage

import (
	"fmt"

	"github.com/vocdoni/zk-governance/types"
	"go.vocdoni.io/dvote/db"
)

// Proposal retrieves a proposal from the storage. It returns ErrNotFound if
// the proposal does not exist.
func (s *Storage) Proposal(id types.ProposalID) (*types.Proposal, error) {
	return proposalFrom(s.db, id)
}

func proposalFrom(rd db.Reader, id types.ProposalID) (*types.Proposal, error) {
	p := &types.Proposal{}
	if err := getArtifact(rd, proposalPrefix, id.Marshal(), p); err != nil {
		return nil, err
	}
	if !p.Version.Valid() {
		return nil, fmt.Errorf("%w: proposal %s has version %d", types.ErrUnknownSchema, id, p.Version)
	}
	return p, nil
}

// CreateProposal stores a new proposal and its metadata. It fails with
// ErrKeyAlreadyExists if the id is in use, leaving the stored proposal
// untouched. The hook, if any, runs inside the same transaction so its
// writes commit or fail together with the proposal.
func (s *Storage) CreateProposal(p *types.Proposal, meta *types.ProposalMetadata, hook func(wTx db.WriteTx) error) error {
	if p == nil {
		return fmt.Errorf("nil proposal")
	}
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	key := p.ID.Marshal()
	return s.update(func(wTx db.WriteTx) error {
		exists, err := hasArtifact(wTx, proposalPrefix, key)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: proposal %s", ErrKeyAlreadyExists, p.ID)
		}
		if err := setArtifact(wTx, proposalPrefix, key, p); err != nil {
			return fmt.Errorf("set proposal: %w", err)
		}
		if meta != nil {
			if err := setArtifact(wTx, metadataPrefix, key, meta); err != nil {
				return fmt.Errorf("set metadata: %w", err)
			}
		}
		if hook != nil {
			return hook(wTx)
		}
		return nil
	})
}

// UpdateProposal loads the proposal, hands it to fn and stores the result,
// all within one transaction and while holding the proposal lock. Any write
// fn performs on wTx is committed atomically with the proposal. If fn fails
// nothing is written. It returns the stored proposal.
func (s *Storage) UpdateProposal(id types.ProposalID, fn func(p *types.Proposal, wTx db.WriteTx) error) (*types.Proposal, error) {
	key := id.Marshal()
	unlock := s.lockProposal(key)
	defer unlock()

	var updated *types.Proposal
	err := s.update(func(wTx db.WriteTx) error {
		p, err := proposalFrom(wTx, id)
		if err != nil {
			return err
		}
		if err := fn(p, wTx); err != nil {
			return err
		}
		if p.ID != id {
			return fmt.Errorf("proposal id cannot change")
		}
		if err := setArtifact(wTx, proposalPrefix, key, p); err != nil {
			return fmt.Errorf("set proposal: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListProposals returns the stored proposals accepted by filter, ordered by
// id. A nil filter accepts all of them.
func (s *Storage) ListProposals(filter func(p *types.Proposal) bool) ([]*types.Proposal, error) {
	keys, err := listArtifacts(s.db, proposalPrefix)
	if err != nil {
		return nil, err
	}
	proposals := []*types.Proposal{}
	for _, k := range keys {
		var id types.ProposalID
		if err := id.Unmarshal(k); err != nil {
			return nil, err
		}
		p, err := s.Proposal(id)
		if err != nil {
			return nil, err
		}
		if filter == nil || filter(p) {
			proposals = append(proposals, p)
		}
	}
	return proposals, nil
}

// NextProposalID returns the highest stored id plus one, or 1 when there
// are no proposals.
func (s *Storage) NextProposalID() (types.ProposalID, error) {
	keys, err := listArtifacts(s.db, proposalPrefix)
	if err != nil {
		return 0, err
	}
	var highest types.ProposalID
	for _, k := range keys {
		var id types.ProposalID
		if err := id.Unmarshal(k); err != nil {
			return 0, err
		}
		if id > highest {
			highest = id
		}
	}
	next, err := types.CheckedAdd(highest.Uint64(), 1)
	if err != nil {
		return 0, err
	}
	return types.ProposalID(next), nil
}
