package types

const (
	// CensusTreeMaxLevels is the maximum number of levels in the census merkle tree.
	CensusTreeMaxLevels = 160
	// CensusKeyMaxLen is the maximum length of a census key in bytes.
	CensusKeyMaxLen = CensusTreeMaxLevels / 8
	// MaxSnapshotVoters is the maximum number of holders a census snapshot
	// accepts.
	MaxSnapshotVoters = 256

	// AddressSize is the length of every derived or account address.
	AddressSize = 32
	// MerkleRootSize is the length of the eligibility root.
	MerkleRootSize = 32
	// NullifierSize is the length of a vote nullifier.
	NullifierSize = 32
	// BallotPubKeySize is the length of the ballot ephemeral public key.
	BallotPubKeySize = 32
	// BallotNonceSize is the length of the ballot nonce (a little-endian u128).
	BallotNonceSize = 16
	// MaxCiphertextSize bounds the opaque ballot ciphertext.
	MaxCiphertextSize = 200
	// CreatorCommitmentSize is the length of a proposal creator commitment.
	CreatorCommitmentSize = 32

	// ProposalSeed is the namespace tag for proposal address derivation.
	ProposalSeed = "svrn_v5"
	// ProposalSeedPrefix precedes the namespace tag in proposal seeds.
	ProposalSeedPrefix = "proposal"
	// NullifierSeed is the namespace tag for nullifier record addresses.
	NullifierSeed = "nullifier"
	// HoldingSeed is the namespace tag for asset holding addresses.
	HoldingSeed = "holding"
)
