package tally

import (
	"errors"

	"github.com/vocdoni/zk-governance/types"
)

var (
	// ErrNoTallyKey is returned for proposals created without a tally key.
	ErrNoTallyKey = errors.New("proposal has no tally key")
	// ErrVotingOpen is returned when revealing the tally of a proposal that
	// still accepts ballots.
	ErrVotingOpen = errors.New("voting still open")
)

// Progress is the state of the encrypted tally of a proposal.
type Progress struct {
	ProposalID types.ProposalID `json:"proposalId"`
	VoteCount  uint64           `json:"voteCount"`
	Ballots    uint64           `json:"ballots"`
	Spoiled    uint64           `json:"spoiled"`
	Sums       types.HexBytes   `json:"sums"`
}
