package governance

import "github.com/vocdoni/zk-governance/types"

// ProofVerifier checks the proof accompanying a Finalize against its public
// inputs.
type ProofVerifier interface {
	VerifyProof(proof []byte, in *types.TallyInputs) (bool, error)
}

// PresenceVerifier accepts any non empty proof. It is a placeholder for a
// cryptographic verifier and the default of the engine.
type PresenceVerifier struct{}

// VerifyProof reports whether proof is not empty.
func (PresenceVerifier) VerifyProof(proof []byte, _ *types.TallyInputs) (bool, error) {
	return len(proof) > 0, nil
}
