package api

import (
	"github.com/google/uuid"
	"github.com/vocdoni/zk-governance/types"
)

// CensusSnapshot is the request to build a census from asset holders.
type CensusSnapshot struct {
	Holders []types.CensusHolder `json:"holders"`
	// Quadratic weights holders by the square root of their balance. It
	// defaults to the node configuration.
	Quadratic *bool `json:"quadratic,omitempty"`
}

// Census is the response to a census snapshot request.
type Census struct {
	ID   uuid.UUID      `json:"id"`
	Root types.HexBytes `json:"root"`
	Size int            `json:"size"`
}

// CensusSize is the response to a census size request.
type CensusSize struct {
	Size int `json:"size"`
}

// Proposal is a stored proposal with its metadata and tally key.
type Proposal struct {
	*types.Proposal
	Metadata   *types.ProposalMetadata `json:"metadata,omitempty"`
	TallyKey   types.HexBytes          `json:"tallyKey,omitempty"`
	TallyCurve string                  `json:"tallyCurve,omitempty"`
}

// ProposalList is the response to a proposal listing.
type ProposalList struct {
	Proposals []*types.Proposal `json:"proposals"`
}

// NextProposalID is the response to a next id request.
type NextProposalID struct {
	ID types.ProposalID `json:"id"`
}

// EligibleProposal is a proposal a census key can vote on, with the weight
// of the key in its census.
type EligibleProposal struct {
	ID     types.ProposalID `json:"id"`
	Weight *types.BigInt    `json:"weight"`
}

// EligibleProposals is the response to an eligibility lookup.
type EligibleProposals struct {
	Proposals []*EligibleProposal `json:"proposals"`
}

// Vote is an anonymous ballot relayed to a proposal.
type Vote struct {
	Nullifier   types.HexBytes     `json:"nullifier"`
	Ciphertext  types.HexBytes     `json:"ciphertext"`
	PubKey      types.HexBytes     `json:"pubKey"`
	Nonce       types.HexBytes     `json:"nonce"`
	CensusProof *types.CensusProof `json:"censusProof,omitempty"`
}

// SetTally records the outcome of an authority gated proposal. Result is
// "passed" or "rejected".
type SetTally struct {
	Caller types.HexBytes `json:"caller"`
	Result string         `json:"result"`
}

// Caller identifies who calls an authority gated operation.
type Caller struct {
	Caller types.HexBytes `json:"caller"`
}

// Finalize carries the claimed tally of a private proposal.
type Finalize struct {
	Caller    types.HexBytes `json:"caller,omitempty"`
	Proof     types.HexBytes `json:"proof"`
	YesVotes  uint64         `json:"yesVotes"`
	NoVotes   uint64         `json:"noVotes"`
	Threshold uint64         `json:"threshold"`
	Quorum    uint64         `json:"quorum"`
}

// TallyProof is a revealed tally with the proof to finalize it.
type TallyProof struct {
	YesVotes uint64         `json:"yesVotes"`
	NoVotes  uint64         `json:"noVotes"`
	Ballots  uint64         `json:"ballots"`
	Spoiled  uint64         `json:"spoiled"`
	Proof    types.HexBytes `json:"proof"`
}

// Migrate is the request to move a proposal to a newer schema.
type Migrate struct {
	Version types.SchemaVersion `json:"version"`
}

// NewMint is the request to create a mint.
type NewMint struct {
	Decimals uint8               `json:"decimals"`
	Standard types.TokenStandard `json:"standard"`
}

// Deposit is the request to issue tokens to an owner.
type Deposit struct {
	Owner  types.HexBytes `json:"owner"`
	Asset  types.HexBytes `json:"asset"`
	Amount uint64         `json:"amount"`
}

// Holding is the balance of an asset owned by an address.
type Holding struct {
	Address types.HexBytes `json:"address"`
	Owner   types.HexBytes `json:"owner"`
	Asset   types.HexBytes `json:"asset"`
	Amount  uint64         `json:"amount"`
}
