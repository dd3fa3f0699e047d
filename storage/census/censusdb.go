// Package census stores the eligibility snapshots of the governance node.
// A snapshot is a poseidon arbo tree mapping voter commitments to weights.
// Snapshots never change once built, so a root identifies exactly one
// census.
package census

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/vocdoni/arbo"
	"github.com/vocdoni/zk-governance/log"
	"github.com/vocdoni/zk-governance/types"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

var (
	treePrefix      = []byte("cs_")
	referencePrefix = []byte("cr_")
	rootPrefix      = []byte("ri_")
)

var (
	// ErrCensusNotFound is returned when a census is not found in the database.
	ErrCensusNotFound = fmt.Errorf("census not found in the local database")
	// ErrRootNotFound is returned when no census has the requested root.
	ErrRootNotFound = fmt.Errorf("no census found with the provided root")
	// ErrKeyNotFound is returned when a key is not found in the Merkle tree.
	ErrKeyNotFound = fmt.Errorf("key not found")

	hashFunction = arbo.HashFunctionPoseidon
)

// CensusDB keeps the census snapshots and the index from root to census.
// Opened trees are cached in memory.
type CensusDB struct {
	mu     sync.RWMutex
	db     db.Database
	loaded map[uuid.UUID]*CensusRef
}

// NewCensusDB returns a CensusDB over db.
func NewCensusDB(db db.Database) *CensusDB {
	return &CensusDB{
		db:     db,
		loaded: make(map[uuid.UUID]*CensusRef),
	}
}

// HashLen returns the length of the hash function output in bytes.
func (c *CensusDB) HashLen() int {
	return hashFunction.Len()
}

func (c *CensusDB) openTree(id uuid.UUID) (*arbo.Tree, error) {
	return arbo.NewTree(arbo.Config{
		Database:     prefixeddb.NewPrefixedDatabase(c.db, treeKey(id)),
		MaxLevels:    types.CensusTreeMaxLevels,
		HashFunction: hashFunction,
	})
}

// store indexes a fully built census. If another census already has the
// same root, that one is returned and the new tree is discarded.
func (c *CensusDB) store(ref *CensusRef) (*CensusRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, err := c.lookupRoot(ref.Root())
	switch {
	case err == nil:
		c.deleteTree(ref.ID)
		return c.load(existing)
	case !errors.Is(err, ErrRootNotFound):
		return nil, err
	}
	data, err := cbor.Marshal(ref)
	if err != nil {
		return nil, err
	}
	wTx := c.db.WriteTx()
	defer wTx.Discard()
	if err := wTx.Set(referenceKey(ref.ID), data); err != nil {
		return nil, err
	}
	if err := wTx.Set(rootKey(ref.root), ref.ID[:]); err != nil {
		return nil, err
	}
	if err := wTx.Commit(); err != nil {
		return nil, err
	}
	c.loaded[ref.ID] = ref
	return ref, nil
}

func (c *CensusDB) lookupRoot(root []byte) (uuid.UUID, error) {
	b, err := c.db.Get(rootKey(root))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return uuid.UUID{}, fmt.Errorf("%w: %x", ErrRootNotFound, root)
		}
		return uuid.UUID{}, err
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid root index entry: %w", err)
	}
	return id, nil
}

// Load returns the census with the given id.
func (c *CensusDB) Load(id uuid.UUID) (*CensusRef, error) {
	c.mu.RLock()
	ref, ok := c.loaded[id]
	c.mu.RUnlock()
	if ok {
		return ref, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(id)
}

// load opens a census from the database. Callers hold c.mu.
func (c *CensusDB) load(id uuid.UUID) (*CensusRef, error) {
	if ref, ok := c.loaded[id]; ok {
		return ref, nil
	}
	b, err := c.db.Get(referenceKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCensusNotFound, id)
		}
		return nil, err
	}
	ref := &CensusRef{}
	if err := cbor.Unmarshal(b, ref); err != nil {
		return nil, err
	}
	if ref.tree, err = c.openTree(id); err != nil {
		return nil, err
	}
	c.loaded[id] = ref
	return ref, nil
}

// ByRoot returns the census with the given root.
func (c *CensusDB) ByRoot(root []byte) (*CensusRef, error) {
	c.mu.RLock()
	id, err := c.lookupRoot(root)
	c.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return c.Load(id)
}

// ProofByRoot generates the merkle proof of leafKey in the census with the
// given root.
func (c *CensusDB) ProofByRoot(root, leafKey []byte) (*types.CensusProof, error) {
	ref, err := c.ByRoot(root)
	if err != nil {
		return nil, err
	}
	key, value, siblings, inclusion, err := ref.GenProof(leafKey)
	if err != nil {
		return nil, err
	}
	if !inclusion {
		return nil, ErrKeyNotFound
	}
	return &types.CensusProof{
		Root:     root,
		Key:      key,
		Value:    value,
		Siblings: siblings,
		Weight:   (*types.BigInt)(arbo.BytesToBigInt(value)),
	}, nil
}

// SizeByRoot returns the number of voters in the census with the given
// root.
func (c *CensusDB) SizeByRoot(root []byte) (int, error) {
	ref, err := c.ByRoot(root)
	if err != nil {
		return 0, err
	}
	return ref.Size(), nil
}

// deleteTree removes the nodes of an unindexed census tree.
func (c *CensusDB) deleteTree(id uuid.UUID) {
	database := prefixeddb.NewPrefixedDatabase(c.db, treeKey(id))
	wTx := database.WriteTx()
	defer wTx.Discard()
	if err := database.Iterate(nil, func(k, _ []byte) bool {
		if err := wTx.Delete(append([]byte(nil), k...)); err != nil {
			log.Warnw("could not remove census node", "key", hex.EncodeToString(k), "err", err)
		}
		return true
	}); err != nil {
		log.Warnw("could not iterate census tree", "id", id.String(), "err", err)
		return
	}
	if err := wTx.Commit(); err != nil {
		log.Warnw("could not delete census tree", "id", id.String(), "err", err)
	}
}

func treeKey(id uuid.UUID) []byte {
	return append(append([]byte(nil), treePrefix...), id[:]...)
}

func rootKey(root []byte) []byte {
	return append(append([]byte(nil), rootPrefix...), root...)
}

func referenceKey(id uuid.UUID) []byte {
	return append(append([]byte(nil), referencePrefix...), id[:]...)
}
