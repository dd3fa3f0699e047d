package tally

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/vocdoni/zk-governance/crypto/ecc"
	"github.com/vocdoni/zk-governance/crypto/elgamal"
	"github.com/vocdoni/zk-governance/types"
)

// Aggregator keeps the running encrypted totals of a proposal. Ballots can
// be added in any order and partial aggregators merged, the result does not
// depend on either.
type Aggregator struct {
	mu         sync.Mutex
	proposalID types.ProposalID
	pubKey     ecc.Point
	sums       *elgamal.Ciphertexts
	count      uint64
	spoiled    uint64
}

// Result is a revealed tally.
type Result struct {
	Yes     uint64 `json:"yes"`
	No      uint64 `json:"no"`
	Ballots uint64 `json:"ballots"`
	Spoiled uint64 `json:"spoiled"`
	Proof   *Proof `json:"proof"`
}

// NewAggregator returns an empty aggregator for the proposal tally key.
func NewAggregator(id types.ProposalID, pubKey ecc.Point) *Aggregator {
	return &Aggregator{
		proposalID: id,
		pubKey:     pubKey,
		sums:       elgamal.NewCiphertexts(pubKey),
	}
}

// Add folds a serialized ballot ciphertext into the totals. A ciphertext
// that does not decode on the tally curve is counted as spoiled and an error
// wrapping types.ErrInvalidBallot is returned.
func (a *Aggregator) Add(ciphertext []byte) error {
	cs, err := DecodeCiphertexts(a.pubKey, ciphertext)
	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.spoiled++
		return err
	}
	a.sums.Add(a.sums, cs)
	a.count++
	return nil
}

// Merge adds the totals of other, a disjoint batch of the same proposal.
func (a *Aggregator) Merge(other *Aggregator) error {
	if a == other {
		return fmt.Errorf("cannot merge an aggregator into itself")
	}
	if other.proposalID != a.proposalID || !other.pubKey.Equal(a.pubKey) {
		return fmt.Errorf("cannot merge aggregators of different proposals")
	}
	other.mu.Lock()
	sums, count, spoiled := other.sumsCopy(), other.count, other.spoiled
	other.mu.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	total, err := types.CheckedAdd(a.count, count)
	if err != nil {
		return err
	}
	totalSpoiled, err := types.CheckedAdd(a.spoiled, spoiled)
	if err != nil {
		return err
	}
	a.sums.Add(a.sums, sums)
	a.count, a.spoiled = total, totalSpoiled
	return nil
}

// Count returns the number of aggregated ballots.
func (a *Aggregator) Count() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

// Spoiled returns the number of ballots that could not be aggregated.
func (a *Aggregator) Spoiled() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.spoiled
}

// Processed returns how many positions of the ballot sequence were consumed,
// aggregated or spoiled.
func (a *Aggregator) Processed() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count + a.spoiled
}

// Sums returns a copy of the encrypted totals.
func (a *Aggregator) Sums() *elgamal.Ciphertexts {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sumsCopy()
}

func (a *Aggregator) sumsCopy() *elgamal.Ciphertexts {
	cp := elgamal.NewCiphertexts(a.pubKey)
	for i := range cp {
		cp[i].C1.Set(a.sums[i].C1)
		cp[i].C2.Set(a.sums[i].C2)
	}
	return cp
}

// Reveal decrypts the two totals with the tally private key and proves the
// decryption. Totals above maxValue cannot be recovered.
func (a *Aggregator) Reveal(privKey *big.Int, maxValue uint64) (*Result, error) {
	a.mu.Lock()
	sums, count, spoiled := a.sumsCopy(), a.count, a.spoiled
	a.mu.Unlock()

	proof := &Proof{ProposalID: a.proposalID, Ballots: count + spoiled, Sums: sums}
	var totals [elgamal.NumCiphertexts]uint64
	for i, c := range sums {
		_, msg, err := elgamal.Decrypt(a.pubKey, privKey, c.C1, c.C2, maxValue)
		if err != nil {
			return nil, fmt.Errorf("reveal total %d: %w", i, err)
		}
		dp, err := elgamal.ProveDecryption(a.pubKey, privKey, c, msg)
		if err != nil {
			return nil, fmt.Errorf("prove total %d: %w", i, err)
		}
		totals[i] = msg.Uint64()
		proof.Decryption[i] = dp
	}
	return &Result{Yes: totals[0], No: totals[1], Ballots: count, Spoiled: spoiled, Proof: proof}, nil
}
