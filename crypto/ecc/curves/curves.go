package curves

import (
	"fmt"

	"github.com/vocdoni/zk-governance/crypto/ecc"
	bjj_iden3 "github.com/vocdoni/zk-governance/crypto/ecc/bjj_iden3"
	"github.com/vocdoni/zk-governance/crypto/ecc/bn254"
)

const (
	CurveTypeBabyJubJub      = bjj_iden3.CurveType // Default bjj curve type
	CurveTypeBabyJubJubIden3 = bjj_iden3.CurveType
	CurveTypeBN254           = bn254.CurveType
	// DefaultCurve is used for tally keys when none is configured.
	DefaultCurve = CurveTypeBN254
)

// New creates a new instance of a Point implementation based on the provided
// type string, set to the identity element.
func New(curveType string) (ecc.Point, error) {
	switch curveType {
	case CurveTypeBN254:
		return bn254.New(), nil
	case CurveTypeBabyJubJubIden3:
		return bjj_iden3.New(), nil
	default:
		return nil, fmt.Errorf("unsupported curve type: %s", curveType)
	}
}

// Curves returns the list of supported curve types.
func Curves() []string {
	return []string{CurveTypeBN254, CurveTypeBabyJubJubIden3}
}

// IsValid reports whether curveType is supported.
func IsValid(curveType string) bool {
	_, err := New(curveType)
	return err == nil
}
