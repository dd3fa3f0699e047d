package census

import (
	"bytes"
	"fmt"

	"github.com/vocdoni/arbo"
	"github.com/vocdoni/zk-governance/types"
)

// Verifier checks census merkle proofs against an eligibility root. It does
// not need access to the census tree.
type Verifier struct{}

// VerifyInclusion reports whether proof shows the key and weight are
// included in the census with the given root.
func (Verifier) VerifyInclusion(root types.HexBytes, proof *types.CensusProof) (bool, error) {
	if proof == nil {
		return false, fmt.Errorf("missing census proof")
	}
	if len(proof.Root) > 0 && !bytes.Equal(proof.Root, root) {
		return false, nil
	}
	if len(proof.Key) == 0 || len(proof.Key) > types.CensusKeyMaxLen {
		return false, fmt.Errorf("invalid census key length %d", len(proof.Key))
	}
	if proof.Weight != nil && proof.Weight.MathBigInt().Cmp(arbo.BytesToBigInt(proof.Value)) != 0 {
		return false, nil
	}
	return arbo.CheckProof(hashFunction, proof.Key, proof.Value, root, proof.Siblings)
}

// VerifyProof checks a proof against the root it carries.
func (c *CensusDB) VerifyProof(proof *types.CensusProof) bool {
	ok, err := Verifier{}.VerifyInclusion(proof.Root, proof)
	return err == nil && ok
}
