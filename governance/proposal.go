package governance

import (
	"errors"
	"fmt"
	"time"

	"github.com/vocdoni/zk-governance/log"
	"github.com/vocdoni/zk-governance/storage"
	"github.com/vocdoni/zk-governance/types"
	"go.vocdoni.io/dvote/db"
)

// InitRequest holds the configuration of a new proposal.
type InitRequest struct {
	ID types.ProposalID `json:"id"`
	// Version defaults to types.LatestSchema.
	Version           types.SchemaVersion     `json:"version,omitempty"`
	Authority         types.HexBytes          `json:"authority,omitempty"`
	CreatorCommitment types.HexBytes          `json:"creatorCommitment,omitempty"`
	VotingMint        types.HexBytes          `json:"votingMint"`
	TreasuryMint      types.HexBytes          `json:"treasuryMint,omitempty"`
	MerkleRoot        types.HexBytes          `json:"merkleRoot"`
	ExecutionAmount   uint64                  `json:"executionAmount,omitempty"`
	TargetWallet      types.HexBytes          `json:"targetWallet,omitempty"`
	Metadata          *types.ProposalMetadata `json:"metadata,omitempty"`
}

// Initialize creates a proposal at its derived address. For payout schemas
// the custody holding of the treasury asset is opened in the same
// transaction, and so are the writes of every init hook.
func (e *Engine) Initialize(req *InitRequest) (*types.Proposal, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", types.ErrInvalidProposal)
	}
	version := req.Version
	if version == 0 {
		version = types.LatestSchema
	}
	if version.HasPayout() && req.ExecutionAmount == 0 {
		return nil, ErrInvalidAmount
	}
	p := &types.Proposal{
		ID:                req.ID,
		Version:           version,
		Address:           e.ProposalAddress(req.ID),
		Authority:         req.Authority,
		CreatorCommitment: req.CreatorCommitment,
		VotingMint:        req.VotingMint,
		MerkleRoot:        req.MerkleRoot,
		TallyResult:       types.TallyPending,
	}
	if version.HasPayout() {
		p.TreasuryMint = req.TreasuryMint
		p.ExecutionAmount = req.ExecutionAmount
		p.TargetWallet = req.TargetWallet
		if len(req.TreasuryMint) > 0 {
			p.Custody = e.ledger.HoldingAddress(p.Address, p.TreasuryMint)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, err := e.ledger.Mint(p.VotingMint); err != nil {
		return nil, fmt.Errorf("%w: voting mint: %w", ErrInvalidMint, err)
	}
	if version.HasPayout() {
		if _, err := e.treasuryMint(p); err != nil {
			return nil, err
		}
		e.ledger.Lock()
		defer e.ledger.Unlock()
	}

	meta := req.Metadata
	if meta != nil && meta.CreatedAt.IsZero() {
		m := *meta
		m.CreatedAt = time.Now().UTC()
		meta = &m
	}
	err := e.stg.CreateProposal(p, meta, func(wTx db.WriteTx) error {
		if version.HasPayout() {
			custody, err := e.ledger.OpenHolding(wTx, p.Address, p.TreasuryMint)
			if err != nil {
				return fmt.Errorf("open custody: %w", err)
			}
			if !custody.Equal(p.Custody) {
				return fmt.Errorf("custody address mismatch: %s != %s", custody, p.Custody)
			}
		}
		for _, hook := range e.initHooks {
			if err := hook(wTx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, storage.ErrKeyAlreadyExists) {
		return nil, fmt.Errorf("%w: %s", ErrStorageAlreadyExists, p.ID)
	}
	if err != nil {
		return nil, err
	}
	log.Infow("proposal initialized",
		"id", p.ID.String(),
		"version", p.Version.String(),
		"address", p.Address.String())
	return p, nil
}

// treasuryMint returns the treasury asset of p. For the legacy schema it
// must belong to the legacy token standard.
func (e *Engine) treasuryMint(p *types.Proposal) (*types.Mint, error) {
	m, err := e.ledger.Mint(p.TreasuryMint)
	if err != nil {
		return nil, fmt.Errorf("%w: treasury mint: %w", ErrInvalidMint, err)
	}
	if p.Version == types.SchemaLegacyToken && m.Standard != types.TokenStandardLegacy {
		return nil, fmt.Errorf("%w: %s proposals require a %s mint", ErrInvalidMint, p.Version, types.TokenStandardLegacy)
	}
	return m, nil
}

// Migrate moves a stored proposal to a newer schema version. Moving to the
// legacy schema requires the treasury mint to be a legacy one.
func (e *Engine) Migrate(id types.ProposalID, to types.SchemaVersion) (*types.Proposal, error) {
	return e.update(id, func(p *types.Proposal, _ db.WriteTx) error {
		from := p.Version
		if err := p.Migrate(to); err != nil {
			return err
		}
		if from != to && to == types.SchemaLegacyToken {
			if _, err := e.treasuryMint(p); err != nil {
				return err
			}
		}
		log.Infow("proposal migrated", "id", id.String(), "from", from.String(), "to", to.String())
		return nil
	})
}
