package crypto

import (
	"encoding/binary"
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/vocdoni/arbo"
	"github.com/vocdoni/zk-governance/crypto/hash/poseidon"
	"github.com/vocdoni/zk-governance/types"
)

const SerializedFieldSize = 32 // bytes

// DeriveAddress returns the deterministic address owned by program for the
// given seeds. Every seed is length prefixed so different seed splits never
// collide.
func DeriveAddress(program []byte, seeds ...[]byte) types.HexBytes {
	data := make([][]byte, 0, 2*len(seeds)+1)
	for _, s := range seeds {
		l := make([]byte, 4)
		binary.LittleEndian.PutUint32(l, uint32(len(s)))
		data = append(data, l, s)
	}
	data = append(data, program)
	return ethcrypto.Keccak256(data...)
}

// ProposalSeeds returns the derivation seeds of a proposal address.
func ProposalSeeds(id types.ProposalID) [][]byte {
	return [][]byte{[]byte(types.ProposalSeedPrefix), []byte(types.ProposalSeed), id.LE()}
}

// ProposalAddress derives the address of the proposal with the given id.
func ProposalAddress(program []byte, id types.ProposalID) types.HexBytes {
	return DeriveAddress(program, ProposalSeeds(id)...)
}

// NullifierAddress derives the address of a nullifier record, scoped by the
// proposal address.
func NullifierAddress(program, proposal, nullifier []byte) types.HexBytes {
	return DeriveAddress(program, []byte(types.NullifierSeed), proposal, nullifier)
}

// CreatorCommitment hides the creator of a private proposal. The salt is
// kept by the creator to later prove ownership.
func CreatorCommitment(creator, salt []byte) types.HexBytes {
	return ethcrypto.Keccak256(creator, salt)
}

// VoterCommitment returns the census key of a voter: the poseidon hash of
// its secret, truncated to the census key length.
func VoterCommitment(secret []byte) (types.HexBytes, error) {
	h, err := poseidon.MultiPoseidon(secretToFF(secret))
	if err != nil {
		return nil, fmt.Errorf("voter commitment: %w", err)
	}
	return arbo.BigIntToBytes(SerializedFieldSize, h)[:types.CensusKeyMaxLen], nil
}

// Nullifier returns poseidon(secret, proposalID). It is unique per voter and
// proposal and reveals nothing about the secret.
func Nullifier(secret []byte, id types.ProposalID) (types.HexBytes, error) {
	h, err := poseidon.MultiPoseidon(secretToFF(secret), new(big.Int).SetUint64(id.Uint64()))
	if err != nil {
		return nil, fmt.Errorf("nullifier: %w", err)
	}
	return arbo.BigIntToBytes(SerializedFieldSize, h), nil
}

// DeriveSecret derives a voter secret from a signature or any other private
// material.
func DeriveSecret(material []byte) []byte {
	return ethcrypto.Keccak256([]byte("vote-secret"), material)
}

func secretToFF(secret []byte) *big.Int {
	return BigToFF(arbo.BN254BaseField, new(big.Int).SetBytes(secret))
}

// BigToFF function returns the finite field representation of the big.Int
// provided. It uses the curve scalar field to represent the provided number.
func BigToFF(baseField, iv *big.Int) *big.Int {
	z := big.NewInt(0)
	if c := iv.Cmp(baseField); c == 0 {
		return z
	} else if c != 1 && iv.Cmp(z) != -1 {
		return iv
	}
	return z.Mod(iv, baseField)
}
