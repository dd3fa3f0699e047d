package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/vocdoni/zk-governance/types"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

func nullifierKey(id types.ProposalID, nullifier []byte) []byte {
	return append(id.Marshal(), nullifier...)
}

func ballotIndexKey(id types.ProposalID, index uint64) []byte {
	k := make([]byte, 16)
	binary.BigEndian.PutUint64(k, id.Uint64())
	binary.BigEndian.PutUint64(k[8:], index)
	return k
}

// InsertNullifier creates the nullifier record inside wTx and indexes it by
// its position. It fails with ErrKeyAlreadyExists if the nullifier was
// already used for the proposal. Callers must hold the proposal lock, which
// UpdateProposal does.
func (s *Storage) InsertNullifier(wTx db.WriteTx, rec *types.NullifierRecord) error {
	key := nullifierKey(rec.ProposalID, rec.Nullifier)
	exists, err := hasArtifact(wTx, nullifierPrefix, key)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: nullifier %s", ErrKeyAlreadyExists, rec.Nullifier)
	}
	if err := setArtifact(wTx, nullifierPrefix, key, rec); err != nil {
		return fmt.Errorf("set nullifier: %w", err)
	}
	idx := prefixeddb.NewPrefixedWriteTx(wTx, ballotIndexPrefix)
	return idx.Set(ballotIndexKey(rec.ProposalID, rec.Index), rec.Nullifier)
}

// Nullifier returns the record of a spent nullifier or ErrNotFound.
func (s *Storage) Nullifier(id types.ProposalID, nullifier []byte) (*types.NullifierRecord, error) {
	rec := &types.NullifierRecord{}
	if err := getArtifact(s.db, nullifierPrefix, nullifierKey(id, nullifier), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Ballots calls fn with every record of the proposal in ballot sequence
// order, starting at position from, until fn returns false or the sequence
// ends.
func (s *Storage) Ballots(id types.ProposalID, from uint64, fn func(rec *types.NullifierRecord) bool) error {
	idx := prefixeddb.NewPrefixedReader(s.db, ballotIndexPrefix)
	for i := from; ; i++ {
		nullifier, err := idx.Get(ballotIndexKey(id, i))
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				return nil
			}
			return fmt.Errorf("get ballot index %d: %w", i, err)
		}
		rec, err := s.Nullifier(id, nullifier)
		if err != nil {
			return fmt.Errorf("ballot %d: %w", i, err)
		}
		if rec.Index != i || !bytes.Equal(rec.Nullifier, nullifier) {
			return fmt.Errorf("ballot index %d points to record %d", i, rec.Index)
		}
		if !fn(rec) {
			return nil
		}
	}
}

// CountNullifiers counts the stored nullifier records of a proposal.
func (s *Storage) CountNullifiers(id types.ProposalID) (uint64, error) {
	var count uint64
	if err := prefixeddb.NewPrefixedReader(s.db, nullifierPrefix).Iterate(id.Marshal(), func(_, _ []byte) bool {
		count++
		return true
	}); err != nil {
		return 0, err
	}
	return count, nil
}
