package census

import (
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/vocdoni/arbo"
	"github.com/vocdoni/zk-governance/types"
)

// ErrTooManyVoters is returned when a snapshot would exceed
// types.MaxSnapshotVoters.
var ErrTooManyVoters = fmt.Errorf("too many voters in census snapshot")

// Weight returns the voting weight of a balance: the balance itself, or its
// integer square root when quadratic voting is used.
func Weight(balance uint64, quadratic bool) uint64 {
	if !quadratic {
		return balance
	}
	return new(big.Int).Sqrt(new(big.Int).SetUint64(balance)).Uint64()
}

// LeafValue encodes a weight as a census leaf value.
func (c *CensusDB) LeafValue(weight uint64) []byte {
	return arbo.BigIntToBytes(c.HashLen(), new(big.Int).SetUint64(weight))
}

// Snapshot builds a new census from the given holders and returns it. Each
// leaf maps the holder key (its voter commitment) to its weight. Holders
// with a zero weight are skipped. Building the same holder set twice
// returns the first census.
func (c *CensusDB) Snapshot(holders []types.CensusHolder, quadratic bool) (*CensusRef, error) {
	keys := make([][]byte, 0, len(holders))
	values := make([][]byte, 0, len(holders))
	seen := make(map[string]struct{}, len(holders))
	for _, h := range holders {
		w := Weight(h.Balance, quadratic)
		if w == 0 {
			continue
		}
		if len(h.Key) == 0 || len(h.Key) > types.CensusKeyMaxLen {
			return nil, fmt.Errorf("invalid holder key %s: must be 1..%d bytes", h.Key, types.CensusKeyMaxLen)
		}
		if _, ok := seen[string(h.Key)]; ok {
			return nil, fmt.Errorf("duplicated holder key %s", h.Key)
		}
		seen[string(h.Key)] = struct{}{}
		keys = append(keys, h.Key)
		values = append(values, c.LeafValue(w))
	}
	if len(keys) > types.MaxSnapshotVoters {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyVoters, len(keys), types.MaxSnapshotVoters)
	}

	ref := &CensusRef{ID: uuid.New(), Quadratic: quadratic, CreatedAt: time.Now()}
	tree, err := c.openTree(ref.ID)
	if err != nil {
		return nil, err
	}
	if len(keys) > 0 {
		invalid, err := tree.AddBatch(keys, values)
		if err == nil && len(invalid) > 0 {
			err = fmt.Errorf("%d holders could not be added to the census", len(invalid))
		}
		if err != nil {
			c.deleteTree(ref.ID)
			return nil, err
		}
	}
	if ref.root, err = tree.Root(); err != nil {
		return nil, err
	}
	ref.size = len(keys)
	ref.tree = tree
	return c.store(ref)
}
