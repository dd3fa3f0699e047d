package governance

import (
	"errors"

	"github.com/vocdoni/zk-governance/types"
)

var (
	// ErrDuplicateVote is returned when a nullifier was already used on the
	// proposal.
	ErrDuplicateVote = errors.New("duplicate vote")
	// ErrAlreadyExecuted is returned by every transition attempted after
	// the settlement latch was set.
	ErrAlreadyExecuted = errors.New("proposal already executed")
	// ErrProposalNotPassed is returned by Execute before a passing tally.
	ErrProposalNotPassed = errors.New("proposal not passed")
	// ErrInvalidProof is returned when the tally proof is empty or does not
	// verify.
	ErrInvalidProof = errors.New("invalid tally proof")
	// ErrQuorumNotMet is returned when yes+no is below the quorum.
	ErrQuorumNotMet = errors.New("quorum not met")
	// ErrMajorityNotMet is returned when yes*100 < (yes+no)*threshold.
	ErrMajorityNotMet = errors.New("majority not met")
	// ErrArithmeticOverflow is returned by any checked operation that
	// would wrap.
	ErrArithmeticOverflow = types.ErrArithmeticOverflow
	// ErrStorageAlreadyExists is returned when initializing an id in use.
	ErrStorageAlreadyExists = errors.New("proposal already exists")

	ErrProposalNotFound     = errors.New("proposal not found")
	ErrInvalidAmount        = errors.New("execution amount must be positive")
	ErrInvalidBallot        = types.ErrInvalidBallot
	ErrNotEligible          = errors.New("voter not eligible")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrUnsupportedOperation = errors.New("operation not supported by the proposal schema")
	ErrVotingClosed         = errors.New("voting closed")
	ErrInvalidTallyResult   = errors.New("invalid tally result")
	ErrInvalidMint          = errors.New("invalid mint")
)
