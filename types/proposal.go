package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/bits"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrArithmeticOverflow is returned by every checked operation that
	// would wrap around.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrUnknownSchema is returned when a proposal carries a schema version
	// this node does not know.
	ErrUnknownSchema = errors.New("unknown proposal schema version")
	// ErrSchemaDowngrade is returned when migrating to an older schema.
	ErrSchemaDowngrade = errors.New("proposal schema downgrade not allowed")
	// ErrIncompatibleSchema is returned when a migration would change the
	// immutable configuration or the proposal state forbids it.
	ErrIncompatibleSchema = errors.New("incompatible proposal schema migration")
	// ErrInvalidProposal is returned by Validate.
	ErrInvalidProposal = errors.New("invalid proposal")
	// ErrInvalidBallot is returned when a ballot has a malformed shape.
	ErrInvalidBallot = errors.New("invalid ballot")
)

// SchemaVersion tags the layout and the operation set of a proposal.
type SchemaVersion uint8

const (
	// SchemaPlainTally only counts votes. It has no payout configuration.
	SchemaPlainTally SchemaVersion = iota + 1
	// SchemaTokenInterface pays out through any token standard, with an
	// authority gated SetTally and Execute.
	SchemaTokenInterface
	// SchemaLegacyToken is SchemaTokenInterface restricted to mints of the
	// legacy token standard.
	SchemaLegacyToken
	// SchemaPrivateCommitment hides the creator behind a commitment and
	// settles on a proof-accompanied Finalize.
	SchemaPrivateCommitment
)

// LatestSchema is the version used when none is requested.
const LatestSchema = SchemaPrivateCommitment

// Valid reports whether v is a known schema version.
func (v SchemaVersion) Valid() bool {
	return v >= SchemaPlainTally && v <= SchemaPrivateCommitment
}

// HasPayout reports whether proposals of this version bind a fund transfer.
func (v SchemaVersion) HasPayout() bool {
	return v >= SchemaTokenInterface
}

// AuthorityGated reports whether SetTally and Execute are gated by a
// plaintext authority.
func (v SchemaVersion) AuthorityGated() bool {
	return v == SchemaTokenInterface || v == SchemaLegacyToken
}

func (v SchemaVersion) String() string {
	switch v {
	case SchemaPlainTally:
		return "plain-tally"
	case SchemaTokenInterface:
		return "token-interface"
	case SchemaLegacyToken:
		return "legacy-token"
	case SchemaPrivateCommitment:
		return "private-commitment"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(v))
	}
}

// TallyResult is the recorded outcome of a proposal.
type TallyResult uint8

const (
	TallyPending TallyResult = iota
	TallyPassed
	TallyRejected
)

func (r TallyResult) String() string {
	switch r {
	case TallyPending:
		return "pending"
	case TallyPassed:
		return "passed"
	case TallyRejected:
		return "rejected"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(r))
	}
}

// Proposal is the persisted governance proposal. Everything but VoteCount,
// VotingClosed, TallyResult, YesVotes, NoVotes and IsExecuted is fixed at
// initialization.
type Proposal struct {
	ID                ProposalID    `json:"id"                          cbor:"0,keyasint"`
	Version           SchemaVersion `json:"version"                     cbor:"1,keyasint"`
	Address           HexBytes      `json:"address"                     cbor:"2,keyasint"`
	Authority         HexBytes      `json:"authority,omitempty"         cbor:"3,keyasint,omitempty"`
	CreatorCommitment HexBytes      `json:"creatorCommitment,omitempty" cbor:"4,keyasint,omitempty"`
	VotingMint        HexBytes      `json:"votingMint"                  cbor:"5,keyasint"`
	TreasuryMint      HexBytes      `json:"treasuryMint,omitempty"      cbor:"6,keyasint,omitempty"`
	MerkleRoot        HexBytes      `json:"merkleRoot"                  cbor:"7,keyasint"`
	VoteCount         uint64        `json:"voteCount"                   cbor:"8,keyasint"`
	TallyResult       TallyResult   `json:"tallyResult"                 cbor:"9,keyasint"`
	YesVotes          uint64        `json:"yesVotes"                    cbor:"10,keyasint"`
	NoVotes           uint64        `json:"noVotes"                     cbor:"11,keyasint"`
	ExecutionAmount   uint64        `json:"executionAmount,omitempty"   cbor:"12,keyasint,omitempty"`
	TargetWallet      HexBytes      `json:"targetWallet,omitempty"      cbor:"13,keyasint,omitempty"`
	Custody           HexBytes      `json:"custody,omitempty"           cbor:"14,keyasint,omitempty"`
	IsExecuted        bool          `json:"isExecuted"                  cbor:"15,keyasint"`
	VotingClosed      bool          `json:"votingClosed,omitempty"      cbor:"16,keyasint,omitempty"`
}

func (p *Proposal) String() string {
	data, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(data)
}

// Passed reports whether the recorded tally is a pass.
func (p *Proposal) Passed() bool {
	return p.TallyResult == TallyPassed
}

// Open reports whether the proposal still accepts ballots.
func (p *Proposal) Open() bool {
	return !p.IsExecuted && !p.VotingClosed && p.TallyResult == TallyPending
}

// RecordVote increments the vote counter, failing on overflow.
func (p *Proposal) RecordVote() error {
	count, err := CheckedAdd(p.VoteCount, 1)
	if err != nil {
		return err
	}
	p.VoteCount = count
	return nil
}

// Validate checks that the configuration fields match the schema version.
func (p *Proposal) Validate() error {
	if !p.Version.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownSchema, p.Version)
	}
	if len(p.Address) != AddressSize {
		return fmt.Errorf("%w: address must be %d bytes", ErrInvalidProposal, AddressSize)
	}
	if len(p.MerkleRoot) != MerkleRootSize {
		return fmt.Errorf("%w: merkle root must be %d bytes", ErrInvalidProposal, MerkleRootSize)
	}
	if len(p.VotingMint) == 0 {
		return fmt.Errorf("%w: missing voting mint", ErrInvalidProposal)
	}
	switch p.Version {
	case SchemaPrivateCommitment:
		if len(p.CreatorCommitment) != CreatorCommitmentSize {
			return fmt.Errorf("%w: creator commitment must be %d bytes", ErrInvalidProposal, CreatorCommitmentSize)
		}
		if len(p.Authority) != 0 {
			return fmt.Errorf("%w: private proposals carry no plaintext authority", ErrInvalidProposal)
		}
	default:
		if len(p.Authority) == 0 {
			return fmt.Errorf("%w: missing authority", ErrInvalidProposal)
		}
	}
	if !p.Version.HasPayout() {
		if p.ExecutionAmount != 0 || len(p.TargetWallet) != 0 || len(p.TreasuryMint) != 0 {
			return fmt.Errorf("%w: %s proposals have no payout", ErrInvalidProposal, p.Version)
		}
		return nil
	}
	if p.ExecutionAmount == 0 {
		return fmt.Errorf("%w: execution amount must be positive", ErrInvalidProposal)
	}
	if len(p.TreasuryMint) == 0 {
		return fmt.Errorf("%w: missing treasury mint", ErrInvalidProposal)
	}
	if len(p.TargetWallet) == 0 {
		return fmt.Errorf("%w: missing target wallet", ErrInvalidProposal)
	}
	return nil
}

// Migrate moves the proposal to a newer schema version. Plain tally
// proposals cannot gain a payout, downgrades are rejected, and moving to
// the private schema is only possible while nothing has been tallied. The
// authority is then replaced by Keccak256(authority || address).
func (p *Proposal) Migrate(to SchemaVersion) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownSchema, to)
	}
	switch {
	case to == p.Version:
		return nil
	case to < p.Version:
		return fmt.Errorf("%w: %s to %s", ErrSchemaDowngrade, p.Version, to)
	case p.Version == SchemaPlainTally:
		return fmt.Errorf("%w: %s proposals cannot gain a payout", ErrIncompatibleSchema, p.Version)
	case to == SchemaPrivateCommitment:
		if p.IsExecuted || p.TallyResult != TallyPending {
			return fmt.Errorf("%w: proposal already tallied", ErrIncompatibleSchema)
		}
		p.CreatorCommitment = ethcrypto.Keccak256(p.Authority, p.Address)
		p.Authority = nil
	}
	p.Version = to
	return nil
}

// NullifierRecord is a spent voting right together with the encrypted
// ballot it carried. Records are created once and never modified.
type NullifierRecord struct {
	ProposalID ProposalID `json:"proposalId" cbor:"0,keyasint"`
	Proposal   HexBytes   `json:"proposal"   cbor:"1,keyasint"`
	Nullifier  HexBytes   `json:"nullifier"  cbor:"2,keyasint"`
	Ciphertext HexBytes   `json:"ciphertext" cbor:"3,keyasint"`
	PubKey     HexBytes   `json:"pubKey"     cbor:"4,keyasint"`
	Nonce      HexBytes   `json:"nonce"      cbor:"5,keyasint"`
	Index      uint64     `json:"index"      cbor:"6,keyasint"`
	Address    HexBytes   `json:"address"    cbor:"7,keyasint"`
}

// ValidateShape checks the fixed sizes of the ballot fields. The ciphertext
// content is opaque here.
func (r *NullifierRecord) ValidateShape() error {
	switch {
	case len(r.Nullifier) != NullifierSize:
		return fmt.Errorf("%w: nullifier must be %d bytes", ErrInvalidBallot, NullifierSize)
	case len(r.PubKey) != BallotPubKeySize:
		return fmt.Errorf("%w: pubkey must be %d bytes", ErrInvalidBallot, BallotPubKeySize)
	case len(r.Nonce) != BallotNonceSize:
		return fmt.Errorf("%w: nonce must be %d bytes", ErrInvalidBallot, BallotNonceSize)
	case len(r.Ciphertext) == 0 || len(r.Ciphertext) > MaxCiphertextSize:
		return fmt.Errorf("%w: ciphertext must be 1..%d bytes", ErrInvalidBallot, MaxCiphertextSize)
	}
	return nil
}

// TallyInputs are the public inputs bound by a tally proof. VoteCount is
// the length of the ballot sequence the proof must cover.
type TallyInputs struct {
	ProposalID ProposalID `json:"proposalId"`
	VoteCount  uint64     `json:"voteCount"`
	YesVotes   uint64     `json:"yesVotes"`
	NoVotes    uint64     `json:"noVotes"`
	Threshold  uint64     `json:"threshold"`
	Quorum     uint64     `json:"quorum"`
}

// CheckedAdd returns a + b or ErrArithmeticOverflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

// CheckedMul returns a * b or ErrArithmeticOverflow.
func CheckedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrArithmeticOverflow
	}
	return lo, nil
}
