package storage

import (
	"github.com/vocdoni/zk-governance/types"
)

// ProposalMetadata retrieves the metadata stored with a proposal. It returns
// ErrNotFound if there is none.
func (s *Storage) ProposalMetadata(id types.ProposalID) (*types.ProposalMetadata, error) {
	meta := &types.ProposalMetadata{}
	if err := getArtifact(s.db, metadataPrefix, id.Marshal(), meta); err != nil {
		return nil, err
	}
	return meta, nil
}
