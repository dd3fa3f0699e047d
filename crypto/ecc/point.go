// Package ecc defines the group element abstraction shared by the supported
// elliptic curves. Implementations live in the subpackages and are created
// through the curves package.
package ecc

import (
	"math/big"
)

// Point defines the common operations that can be performed on elliptic curve
// group elements, in affine representation.
type Point interface {
	// New returns a new elliptic curve point on the same curve, set to the
	// identity element.
	New() Point

	// Order returns the order of the elliptic curve group.
	Order() *big.Int

	// Add sets the receiver to a + b. The receiver may alias a or b.
	Add(a, b Point)

	// SafeAdd is Add holding the receiver lock, for accumulators shared
	// between goroutines.
	SafeAdd(a, b Point)

	// ScalarMult sets the receiver to scalar * a.
	ScalarMult(a Point, scalar *big.Int)

	// ScalarBaseMult sets the receiver to scalar * G.
	ScalarBaseMult(scalar *big.Int)

	// Marshal serializes the point into its compressed form.
	Marshal() []byte

	// Unmarshal deserializes a compressed point.
	Unmarshal(buf []byte) error

	// Equal checks if two elliptic curve elements are equal.
	Equal(a Point) bool

	// Neg sets the receiver to -a.
	Neg(a Point)

	// SetZero sets the receiver to the identity element.
	SetZero()

	// Set sets the receiver to a.
	Set(a Point)

	// SetGenerator sets the receiver to the group generator.
	SetGenerator()

	// String returns a canonical string for the point, suitable as map key.
	String() string

	// Point returns the X and Y affine coordinates.
	Point() (*big.Int, *big.Int)

	// SetPoint sets the X and Y affine coordinates and returns the receiver.
	SetPoint(x, y *big.Int) Point

	// Type returns the curve identifier.
	Type() string
}
