// Package governance implements the proposal state machine: initialization,
// anonymous vote relay guarded by nullifiers, tally recording, proof checked
// finalization and the one time settlement of the bound payout.
//
// Every operation is one atomic transition. It runs under the proposal lock
// of the storage and writes the proposal, the nullifier records and the
// ledger movements in a single transaction, so a failure never leaves a
// partial update behind.
package governance

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vocdoni/zk-governance/crypto"
	"github.com/vocdoni/zk-governance/storage"
	"github.com/vocdoni/zk-governance/types"
	"go.vocdoni.io/dvote/db"
)

// DefaultProgram identifies this node in address derivation when no
// program is configured.
var DefaultProgram = types.HexBytes("zk-governance")

// AssetTransfer is the fungible asset ledger the engine pays out through.
// Holdings written inside an engine transaction are protected by the
// ledger lock, which the engine holds until the transaction commits.
type AssetTransfer interface {
	sync.Locker
	Mint(address []byte) (*types.Mint, error)
	HoldingAddress(owner, asset []byte) types.HexBytes
	OpenHolding(wTx db.WriteTx, owner, asset []byte) (types.HexBytes, error)
	TransferChecked(wTx db.WriteTx, from, to []byte, authority *types.Authority,
		asset []byte, amount uint64, decimals uint8) error
}

// InitHook runs inside the transaction that creates a proposal.
type InitHook func(wTx db.WriteTx, p *types.Proposal) error

// Engine drives the proposal lifecycle.
type Engine struct {
	stg         *storage.Storage
	ledger      AssetTransfer
	program     types.HexBytes
	eligibility EligibilityVerifier
	proofs      ProofVerifier
	initHooks   []InitHook
	relayers    map[string]struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithEligibilityVerifier sets the census inclusion check run before a vote
// is accepted. The default accepts every voter.
func WithEligibilityVerifier(v EligibilityVerifier) Option {
	return func(e *Engine) { e.eligibility = v }
}

// WithProofVerifier sets the tally proof check used by Finalize. The default
// only requires a non empty proof.
func WithProofVerifier(v ProofVerifier) Option {
	return func(e *Engine) { e.proofs = v }
}

// WithInitHook registers a hook run when a proposal is created.
func WithInitHook(h InitHook) Option {
	return func(e *Engine) { e.initHooks = append(e.initHooks, h) }
}

// WithRelayers restricts CloseVoting and Finalize to the given callers.
func WithRelayers(relayers ...types.HexBytes) Option {
	return func(e *Engine) {
		for _, r := range relayers {
			e.relayers[string(r)] = struct{}{}
		}
	}
}

// WithProgram sets the program id used to derive addresses.
func WithProgram(program []byte) Option {
	return func(e *Engine) { e.program = program }
}

// New returns an engine over the given storage and ledger.
func New(stg *storage.Storage, ledger AssetTransfer, opts ...Option) *Engine {
	e := &Engine{
		stg:         stg,
		ledger:      ledger,
		program:     DefaultProgram,
		eligibility: AlwaysEligible{},
		proofs:      PresenceVerifier{},
		relayers:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Program returns the program id used for address derivation.
func (e *Engine) Program() types.HexBytes {
	return e.program
}

// ProposalAddress returns the deterministic address of a proposal id.
func (e *Engine) ProposalAddress(id types.ProposalID) types.HexBytes {
	return crypto.ProposalAddress(e.program, id)
}

// update wraps storage.UpdateProposal mapping its errors.
func (e *Engine) update(id types.ProposalID, fn func(p *types.Proposal, wTx db.WriteTx) error) (*types.Proposal, error) {
	p, err := e.stg.UpdateProposal(id, fn)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProposalNotFound, id)
	}
	return p, err
}

// Proposal returns the stored proposal.
func (e *Engine) Proposal(id types.ProposalID) (*types.Proposal, error) {
	p, err := e.stg.Proposal(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProposalNotFound, id)
	}
	return p, err
}

// Metadata returns the metadata stored with a proposal.
func (e *Engine) Metadata(id types.ProposalID) (*types.ProposalMetadata, error) {
	m, err := e.stg.ProposalMetadata(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: no metadata for %s", ErrProposalNotFound, id)
	}
	return m, err
}

// Nullifier returns the record of a spent nullifier.
func (e *Engine) Nullifier(id types.ProposalID, nullifier []byte) (*types.NullifierRecord, error) {
	return e.stg.Nullifier(id, nullifier)
}

// Ballots iterates the ballot sequence of a proposal from position from.
func (e *Engine) Ballots(id types.ProposalID, from uint64, fn func(rec *types.NullifierRecord) bool) error {
	return e.stg.Ballots(id, from, fn)
}

// ProposalFilter selects proposals in ListProposals.
type ProposalFilter struct {
	// ActiveOnly keeps the proposals not executed yet.
	ActiveOnly bool
	// VotingMint keeps the proposals voted with the given asset.
	VotingMint types.HexBytes
}

// ListProposals returns the proposals matching the filter, ordered by id.
func (e *Engine) ListProposals(f ProposalFilter) ([]*types.Proposal, error) {
	return e.stg.ListProposals(func(p *types.Proposal) bool {
		if f.ActiveOnly && p.IsExecuted {
			return false
		}
		if len(f.VotingMint) > 0 && !f.VotingMint.Equal(p.VotingMint) {
			return false
		}
		return true
	})
}

// NextProposalID returns the id following the highest stored one.
func (e *Engine) NextProposalID() (types.ProposalID, error) {
	return e.stg.NextProposalID()
}
