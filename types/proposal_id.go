package types

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// ProposalID identifies a governance proposal. It is chosen by the creator
// and must be unique.
type ProposalID uint64

// Marshal encodes the ID as 8 bytes big-endian. The encoding keeps storage
// keys sorted by ID.
func (p ProposalID) Marshal() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(p))
	return b
}

// Unmarshal decodes an 8 byte big-endian ID.
func (p *ProposalID) Unmarshal(data []byte) error {
	if len(data) != 8 {
		return fmt.Errorf("invalid ProposalID length: %d", len(data))
	}
	*p = ProposalID(binary.BigEndian.Uint64(data))
	return nil
}

// LE returns the 8 byte little-endian encoding used as address derivation
// seed.
func (p ProposalID) LE() []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(p))
	return b
}

// Uint64 returns the ID as a plain integer.
func (p ProposalID) Uint64() uint64 {
	return uint64(p)
}

// String returns the decimal representation of the ID.
func (p ProposalID) String() string {
	return strconv.FormatUint(uint64(p), 10)
}

// ParseProposalID parses a decimal proposal ID.
func ParseProposalID(s string) (ProposalID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid proposal id %q: %w", s, err)
	}
	return ProposalID(v), nil
}
