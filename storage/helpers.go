package storage

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// Artifact encoding/decoding
func encodeArtifact(a any) ([]byte, error) {
	encOpts := cbor.CoreDetEncOptions()
	em, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return em.Marshal(a)
}

func decodeArtifact(data []byte, out any) error {
	return cbor.Unmarshal(data, out)
}

// getArtifact reads and decodes the artifact stored under prefix+key. It
// returns ErrNotFound if there is none.
func getArtifact(rd db.Reader, prefix, key []byte, out any) error {
	data, err := prefixeddb.NewPrefixedReader(rd, prefix).Get(key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get artifact: %w", err)
	}
	if err := decodeArtifact(data, out); err != nil {
		return fmt.Errorf("decode artifact: %w", err)
	}
	return nil
}

// setArtifact encodes and writes the artifact under prefix+key inside wTx.
func setArtifact(wTx db.WriteTx, prefix, key []byte, a any) error {
	data, err := encodeArtifact(a)
	if err != nil {
		return err
	}
	return prefixeddb.NewPrefixedWriteTx(wTx, prefix).Set(key, data)
}

// hasArtifact reports whether prefix+key is set.
func hasArtifact(rd db.Reader, prefix, key []byte) (bool, error) {
	_, err := prefixeddb.NewPrefixedReader(rd, prefix).Get(key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, db.ErrKeyNotFound) {
		return false, nil
	}
	return false, err
}

// listArtifacts returns a copy of every key stored under prefix, with the
// prefix removed.
func listArtifacts(rd db.Reader, prefix []byte) ([][]byte, error) {
	var keys [][]byte
	if err := prefixeddb.NewPrefixedReader(rd, prefix).Iterate(nil, func(k, _ []byte) bool {
		keys = append(keys, append([]byte(nil), k...))
		return true
	}); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return keys, nil
}

// update runs fn inside a new write transaction and commits it. The
// transaction is discarded if fn fails.
func (s *Storage) update(fn func(wTx db.WriteTx) error) error {
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := fn(wTx); err != nil {
		return err
	}
	return wTx.Commit()
}
