package governance

import "github.com/vocdoni/zk-governance/types"

// EligibilityVerifier checks that a voter is part of the census committed
// by a proposal merkle root.
type EligibilityVerifier interface {
	VerifyInclusion(root types.HexBytes, proof *types.CensusProof) (bool, error)
}

// AlwaysEligible accepts every voter. Eligibility is then enforced outside
// the node, before ballots are relayed. It is the default so that the
// missing check is visible where the engine is built.
type AlwaysEligible struct{}

// VerifyInclusion always returns true.
func (AlwaysEligible) VerifyInclusion(types.HexBytes, *types.CensusProof) (bool, error) {
	return true, nil
}
