package governance

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/zk-governance/crypto"
	"github.com/vocdoni/zk-governance/crypto/ecc/curves"
	"github.com/vocdoni/zk-governance/crypto/elgamal"
	"github.com/vocdoni/zk-governance/tally"
	"github.com/vocdoni/zk-governance/types"
	"go.vocdoni.io/dvote/db"
)

// TestFinalizeWithTallyProof runs a private proposal end to end: ballots
// encrypted under the proposal tally key, an aggregated and proven reveal,
// and a finalize checked against the stored ballots.
func TestFinalizeWithTallyProof(t *testing.T) {
	c := qt.New(t)
	var env *testEnv
	keysHook := func(wTx db.WriteTx, p *types.Proposal) error {
		curve, err := curves.New(curves.CurveTypeBN254)
		if err != nil {
			return err
		}
		pub, priv, err := elgamal.GenerateKey(curve)
		if err != nil {
			return err
		}
		return env.stg.SetEncryptionKeys(wTx, p.ID, pub, priv)
	}
	env = newTestEnv(t, WithInitHook(keysHook))
	env.engine.proofs = tally.NewVerifier(env.stg)
	p := env.fund(t, env.privateRequest(1, 100), 100)

	pub, priv, err := env.stg.EncryptionKeys(1)
	c.Assert(err, qt.IsNil)

	votes := []tally.Vote{
		{Weight: 30, Choice: tally.ChoiceYes},
		{Weight: 20, Choice: tally.ChoiceNo},
		{Weight: 30, Choice: tally.ChoiceYes},
		{Weight: 20, Choice: tally.ChoiceNo},
	}
	for i, v := range votes {
		ballot, err := tally.EncryptBallot(pub, v.Weight, v.Choice)
		c.Assert(err, qt.IsNil)
		nullifier, err := crypto.Nullifier([]byte{byte(i + 1)}, p.ID)
		c.Assert(err, qt.IsNil)
		_, err = env.engine.SubmitVote(&VoteRequest{
			ProposalID: p.ID,
			Nullifier:  nullifier,
			Ciphertext: ballot.Ciphertext,
			PubKey:     ballot.PubKey,
			Nonce:      ballot.Nonce,
		})
		c.Assert(err, qt.IsNil)
	}

	agg, err := tally.Recompute(env.stg, p.ID, pub, uint64(len(votes)))
	c.Assert(err, qt.IsNil)
	result, err := agg.Reveal(priv, 1000)
	c.Assert(err, qt.IsNil)
	c.Assert(result.Yes, qt.Equals, uint64(60))
	c.Assert(result.No, qt.Equals, uint64(40))
	proof, err := result.Proof.Marshal()
	c.Assert(err, qt.IsNil)

	// a claim that does not match the encrypted totals is refused
	_, err = env.engine.Finalize(&FinalizeRequest{
		ProposalID: p.ID, Proof: proof, YesVotes: 90, NoVotes: 10, Threshold: 50, Quorum: 100,
	})
	c.Assert(err, qt.ErrorIs, ErrInvalidProof)
	c.Assert(env.balance(t, testTarget, env.treasuryMint), qt.Equals, uint64(0))

	done, err := env.engine.Finalize(&FinalizeRequest{
		ProposalID: p.ID, Proof: proof, YesVotes: result.Yes, NoVotes: result.No, Threshold: 50, Quorum: 100,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(done.IsExecuted, qt.IsTrue)
	c.Assert(env.balance(t, testTarget, env.treasuryMint), qt.Equals, uint64(100))
}

func TestFinalizeProofMajorityNotMet(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv(t)
	curve, err := curves.New(curves.CurveTypeBabyJubJubIden3)
	c.Assert(err, qt.IsNil)
	pub, priv, err := elgamal.GenerateKey(curve)
	c.Assert(err, qt.IsNil)
	env.engine.initHooks = append(env.engine.initHooks, func(wTx db.WriteTx, p *types.Proposal) error {
		return env.stg.SetEncryptionKeys(wTx, p.ID, pub, priv)
	})
	env.engine.proofs = tally.NewVerifier(env.stg)
	env.fund(t, env.privateRequest(1, 100), 100)

	for i, v := range []tally.Vote{{Weight: 40, Choice: tally.ChoiceYes}, {Weight: 60, Choice: tally.ChoiceNo}} {
		ballot, err := tally.EncryptBallot(pub, v.Weight, v.Choice)
		c.Assert(err, qt.IsNil)
		nullifier, err := crypto.Nullifier([]byte{byte(i + 1)}, 1)
		c.Assert(err, qt.IsNil)
		_, err = env.engine.SubmitVote(&VoteRequest{
			ProposalID: 1, Nullifier: nullifier, Ciphertext: ballot.Ciphertext, PubKey: ballot.PubKey, Nonce: ballot.Nonce,
		})
		c.Assert(err, qt.IsNil)
	}
	agg, err := tally.Recompute(env.stg, 1, pub, 2)
	c.Assert(err, qt.IsNil)
	result, err := agg.Reveal(priv, 1000)
	c.Assert(err, qt.IsNil)
	proof, err := result.Proof.Marshal()
	c.Assert(err, qt.IsNil)

	_, err = env.engine.Finalize(&FinalizeRequest{
		ProposalID: 1, Proof: proof, YesVotes: result.Yes, NoVotes: result.No, Threshold: 50, Quorum: 100,
	})
	c.Assert(err, qt.ErrorIs, ErrMajorityNotMet)
	stored, err := env.engine.Proposal(1)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.IsExecuted, qt.IsFalse)
}

func TestFinalizeRejectsPartialTally(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv(t)
	curve, err := curves.New(curves.DefaultCurve)
	c.Assert(err, qt.IsNil)
	pub, priv, err := elgamal.GenerateKey(curve)
	c.Assert(err, qt.IsNil)
	env.engine.initHooks = append(env.engine.initHooks, func(wTx db.WriteTx, p *types.Proposal) error {
		return env.stg.SetEncryptionKeys(wTx, p.ID, pub, priv)
	})
	env.engine.proofs = tally.NewVerifier(env.stg)
	env.fund(t, env.privateRequest(1, 100), 100)

	for i, v := range []tally.Vote{
		{Weight: 30, Choice: tally.ChoiceYes},
		{Weight: 100, Choice: tally.ChoiceNo},
		{Weight: 100, Choice: tally.ChoiceNo},
	} {
		ballot, err := tally.EncryptBallot(pub, v.Weight, v.Choice)
		c.Assert(err, qt.IsNil)
		nullifier, err := crypto.Nullifier([]byte{byte(i + 1)}, 1)
		c.Assert(err, qt.IsNil)
		_, err = env.engine.SubmitVote(&VoteRequest{
			ProposalID: 1, Nullifier: nullifier, Ciphertext: ballot.Ciphertext, PubKey: ballot.PubKey, Nonce: ballot.Nonce,
		})
		c.Assert(err, qt.IsNil)
	}

	// the tally of the first ballot alone would pass
	agg, err := tally.Recompute(env.stg, 1, pub, 1)
	c.Assert(err, qt.IsNil)
	result, err := agg.Reveal(priv, 1000)
	c.Assert(err, qt.IsNil)
	c.Assert(result.Yes, qt.Equals, uint64(30))
	c.Assert(result.No, qt.Equals, uint64(0))
	proof, err := result.Proof.Marshal()
	c.Assert(err, qt.IsNil)

	_, err = env.engine.Finalize(&FinalizeRequest{
		ProposalID: 1, Proof: proof, YesVotes: result.Yes, NoVotes: result.No, Threshold: 50, Quorum: 10,
	})
	c.Assert(err, qt.ErrorIs, ErrInvalidProof)
	stored, err := env.engine.Proposal(1)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.IsExecuted, qt.IsFalse)
	c.Assert(env.balance(t, testTarget, env.treasuryMint), qt.Equals, uint64(0))
}
