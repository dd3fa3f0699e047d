package census

import (
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/vocdoni/arbo"
)

// CensusRef is a stored census snapshot.
type CensusRef struct {
	ID        uuid.UUID `cbor:"0,keyasint"`
	Quadratic bool      `cbor:"1,keyasint"`
	CreatedAt time.Time `cbor:"2,keyasint"`
	root      []byte
	size      int

	// treeMu serializes the reads of the arbo tree.
	treeMu sync.Mutex
	tree   *arbo.Tree
}

type wireCensusRef struct {
	ID        uuid.UUID `cbor:"0,keyasint"`
	Quadratic bool      `cbor:"1,keyasint"`
	CreatedAt time.Time `cbor:"2,keyasint"`
	Root      []byte    `cbor:"3,keyasint"`
	Size      int       `cbor:"4,keyasint"`
}

// MarshalCBOR encodes the reference with its root and size.
func (cr *CensusRef) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(&wireCensusRef{
		ID:        cr.ID,
		Quadratic: cr.Quadratic,
		CreatedAt: cr.CreatedAt,
		Root:      cr.root,
		Size:      cr.size,
	})
}

// UnmarshalCBOR decodes the output of MarshalCBOR.
func (cr *CensusRef) UnmarshalCBOR(data []byte) error {
	w := &wireCensusRef{}
	if err := cbor.Unmarshal(data, w); err != nil {
		return err
	}
	cr.ID, cr.Quadratic, cr.CreatedAt = w.ID, w.Quadratic, w.CreatedAt
	cr.root, cr.size = w.Root, w.Size
	return nil
}

// Root returns the merkle root of the census.
func (cr *CensusRef) Root() []byte {
	return cr.root
}

// Size returns the number of voters in the census.
func (cr *CensusRef) Size() int {
	return cr.size
}

// GenProof generates a merkle proof for the given leaf key. It returns the
// key, value and siblings of the proof and whether the key is included.
func (cr *CensusRef) GenProof(key []byte) ([]byte, []byte, []byte, bool, error) {
	cr.treeMu.Lock()
	defer cr.treeMu.Unlock()
	return cr.tree.GenProof(key)
}

// VerifyProof verifies a Merkle proof for the given leaf key.
func VerifyProof(key, value, root, siblings []byte) bool {
	valid, err := arbo.CheckProof(hashFunction, key, value, root, siblings)
	if err != nil {
		return false
	}
	return valid
}
