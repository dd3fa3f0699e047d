// Package tally aggregates encrypted ballots. A ballot encrypts the pair
// (yes weight, no weight) under the tally key of its proposal with additively
// homomorphic ElGamal, so the aggregate of any set of ballots is the point
// wise sum of their ciphertexts and only the two totals are ever decrypted.
package tally

import (
	"errors"
	"fmt"

	"github.com/vocdoni/zk-governance/types"
)

// Ballot choices.
const (
	ChoiceNo  uint8 = 0
	ChoiceYes uint8 = 1
)

// ErrInvalidChoice is returned for choices other than ChoiceYes and ChoiceNo.
var ErrInvalidChoice = errors.New("invalid choice")

// Contribution returns the weight a ballot adds to the yes total: the full
// weight for ChoiceYes, zero otherwise.
func Contribution(weight uint64, choice uint8) (uint64, error) {
	switch choice {
	case ChoiceYes:
		return weight, nil
	case ChoiceNo:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidChoice, choice)
	}
}

// Vote is a plaintext ballot.
type Vote struct {
	Weight uint64 `json:"weight"`
	Choice uint8  `json:"choice"`
}

// Fold sums plaintext votes into the yes and no totals with checked
// arithmetic. Reveal over the encrypted ballots yields the same totals.
func Fold(votes []Vote) (yes, no uint64, err error) {
	for _, v := range votes {
		c, err := Contribution(v.Weight, v.Choice)
		if err != nil {
			return 0, 0, err
		}
		if yes, err = types.CheckedAdd(yes, c); err != nil {
			return 0, 0, err
		}
		if no, err = types.CheckedAdd(no, v.Weight-c); err != nil {
			return 0, 0, err
		}
	}
	return yes, no, nil
}
