package types

import (
	"time"
)

type (
	GenericMetadata    map[string]string
	MultilingualString map[string]string
)

type MediaMetadata struct {
	Header string `json:"header" cbor:"0,keyasint,omitempty"`
	Logo   string `json:"logo"   cbor:"1,keyasint,omitempty"`
}

// ProposalMetadata is the human readable description of a proposal. It is
// stored next to the proposal and never read by the state machine.
type ProposalMetadata struct {
	Title       MultilingualString `json:"title"       cbor:"0,keyasint,omitempty"`
	Description MultilingualString `json:"description" cbor:"1,keyasint,omitempty"`
	Media       MediaMetadata      `json:"media"       cbor:"2,keyasint,omitempty"`
	Meta        GenericMetadata    `json:"meta"        cbor:"3,keyasint,omitempty"`
	Duration    time.Duration      `json:"duration"    cbor:"4,keyasint,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"   cbor:"5,keyasint,omitempty"`
}

// EndsAt returns the end of the voting period, or the zero time when the
// proposal has no duration.
func (m *ProposalMetadata) EndsAt() time.Time {
	if m == nil || m.Duration == 0 {
		return time.Time{}
	}
	return m.CreatedAt.Add(m.Duration)
}
