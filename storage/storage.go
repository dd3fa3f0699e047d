// storage package contains all the artifacts of the governance node that are
// stored in the database. It is built on a prefixed key-value store where
// the following prefixes are used:
//   - 'p/' for proposals, keyed by their big-endian id
//   - 'n/' for nullifier records, keyed by proposal id and nullifier
//   - 'bi/' for the ballot index, proposal id and position to nullifier
//   - 'm/' for proposal metadata
//   - 'k/' for the tally encryption keys
//   - 'c/' for census trees (see the census subpackage)
//   - 't/' for the treasury ledger (see the treasury package)
//
// Updates of a single proposal are serialized by a per proposal lock and
// written in one transaction. Creation is serialized by a global lock.
package storage

import (
	"sync"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

var (
	// Prefixes for the keys in the database.
	proposalPrefix      = []byte("p/")
	nullifierPrefix     = []byte("n/")
	ballotIndexPrefix   = []byte("bi/")
	metadataPrefix      = []byte("m/")
	encryptionKeyPrefix = []byte("k/")
	censusPrefix        = []byte("c/")
)

// Storage gives access to the governance artifacts.
type Storage struct {
	db         db.Database
	globalLock sync.Mutex
	// proposalLocks holds a *sync.Mutex per proposal id.
	proposalLocks sync.Map
}

// New creates a new Storage instance.
func New(db db.Database) *Storage {
	return &Storage{db: db}
}

// Close closes the storage.
func (s *Storage) Close() {
	s.db.Close()
}

// DB returns the underlying database. Collaborators writing their own
// prefixes inside a proposal transaction use it.
func (s *Storage) DB() db.Database {
	return s.db
}

// CensusDB returns the database reserved to census trees.
func (s *Storage) CensusDB() db.Database {
	return prefixeddb.NewPrefixedDatabase(s.db, censusPrefix)
}

// lockProposal acquires the lock of the given proposal key and returns the
// function that releases it.
func (s *Storage) lockProposal(key []byte) func() {
	v, _ := s.proposalLocks.LoadOrStore(string(key), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
