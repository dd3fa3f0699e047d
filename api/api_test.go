package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/zk-governance/crypto"
	"github.com/vocdoni/zk-governance/crypto/ecc"
	"github.com/vocdoni/zk-governance/crypto/ecc/curves"
	"github.com/vocdoni/zk-governance/crypto/elgamal"
	"github.com/vocdoni/zk-governance/governance"
	"github.com/vocdoni/zk-governance/storage"
	"github.com/vocdoni/zk-governance/storage/census"
	"github.com/vocdoni/zk-governance/tally"
	"github.com/vocdoni/zk-governance/treasury"
	"github.com/vocdoni/zk-governance/types"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
)

// storageTallier recomputes the tally from the stored ballots on every
// call.
type storageTallier struct {
	stg *storage.Storage
}

func (s storageTallier) keys(id types.ProposalID) (ecc.Point, *big.Int, error) {
	pub, priv, err := s.stg.EncryptionKeys(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, tally.ErrNoTallyKey
	}
	return pub, priv, err
}

func (s storageTallier) LiveTally(id types.ProposalID) (*tally.Progress, error) {
	pub, _, err := s.keys(id)
	if err != nil {
		return nil, err
	}
	agg, err := tally.Recompute(s.stg, id, pub, math.MaxUint64)
	if err != nil {
		return nil, err
	}
	return &tally.Progress{ProposalID: id, Ballots: agg.Count(), Spoiled: agg.Spoiled(), Sums: agg.Sums().Serialize()}, nil
}

func (s storageTallier) ProveTally(id types.ProposalID) (*tally.Result, error) {
	pub, priv, err := s.keys(id)
	if err != nil {
		return nil, err
	}
	p, err := s.stg.Proposal(id)
	if err != nil {
		return nil, err
	}
	if p.Open() {
		return nil, tally.ErrVotingOpen
	}
	agg, err := tally.Recompute(s.stg, id, pub, math.MaxUint64)
	if err != nil {
		return nil, err
	}
	return agg.Reveal(priv, 1<<16)
}

func (s storageTallier) TallyKey(id types.ProposalID) (types.HexBytes, string, error) {
	pub, _, err := s.keys(id)
	if err != nil {
		return nil, "", err
	}
	return pub.Marshal(), pub.Type(), nil
}

type testAPI struct {
	t      *testing.T
	router http.Handler
	stg    *storage.Storage
}

func newTestAPI(t *testing.T, faucet bool) *testAPI {
	c := qt.New(t)
	stg := storage.New(metadb.NewTest(t))
	ledger := treasury.New(stg.DB(), governance.DefaultProgram)
	engine := governance.New(stg, ledger,
		governance.WithEligibilityVerifier(census.Verifier{}),
		governance.WithProofVerifier(tally.NewVerifier(stg)),
		governance.WithInitHook(func(wTx db.WriteTx, p *types.Proposal) error {
			if p.Version != types.SchemaPrivateCommitment {
				return nil
			}
			curve, err := curves.New(curves.CurveTypeBN254)
			if err != nil {
				return err
			}
			pub, priv, err := elgamal.GenerateKey(curve)
			if err != nil {
				return err
			}
			return stg.SetEncryptionKeys(wTx, p.ID, pub, priv)
		}),
	)
	a, err := New(&APIConfig{
		Engine:   engine,
		Census:   census.NewCensusDB(stg.CensusDB()),
		Treasury: ledger,
		Tally:    storageTallier{stg: stg},
		Faucet:   faucet,
	})
	c.Assert(err, qt.IsNil)
	return &testAPI{t: t, router: a.Router(), stg: stg}
}

// request performs a request and decodes a 200 response into out.
func (ta *testAPI) request(method, path string, body, out any) (int, []byte) {
	ta.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		qt.Assert(ta.t, err, qt.IsNil)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ta.router.ServeHTTP(rec, req)
	if rec.Code == http.StatusOK && out != nil {
		qt.Assert(ta.t, json.Unmarshal(rec.Body.Bytes(), out), qt.IsNil, qt.Commentf("%s", rec.Body.String()))
	}
	return rec.Code, rec.Body.Bytes()
}

// requestError performs a request expected to fail with apiErr.
func (ta *testAPI) requestError(method, path string, body any, apiErr Error) {
	ta.t.Helper()
	code, data := ta.request(method, path, body, nil)
	qt.Assert(ta.t, code, qt.Equals, apiErr.HTTPstatus, qt.Commentf("%s", data))
	res := struct {
		Code int `json:"code"`
	}{}
	qt.Assert(ta.t, json.Unmarshal(data, &res), qt.IsNil)
	qt.Assert(ta.t, res.Code, qt.Equals, apiErr.Code, qt.Commentf("%s", data))
}

func voterKey(t *testing.T, secret string) types.HexBytes {
	key, err := crypto.VoterCommitment([]byte(secret))
	qt.Assert(t, err, qt.IsNil)
	return key
}

func TestPing(t *testing.T) {
	ta := newTestAPI(t, false)
	code, _ := ta.request(http.MethodGet, PingEndpoint, nil, nil)
	qt.Assert(t, code, qt.Equals, http.StatusOK)
}

func TestCensus(t *testing.T) {
	c := qt.New(t)
	ta := newTestAPI(t, false)

	alice, bob, carol := voterKey(t, "alice"), voterKey(t, "bob"), voterKey(t, "carol")
	res := &Census{}
	code, body := ta.request(http.MethodPost, CensusEndpoint, &CensusSnapshot{Holders: []types.CensusHolder{
		{Key: alice, Balance: 100},
		{Key: bob, Balance: 9},
		{Key: carol, Balance: 0},
	}}, res)
	c.Assert(code, qt.Equals, http.StatusOK, qt.Commentf("%s", body))
	c.Assert(res.Size, qt.Equals, 2)
	c.Assert(res.Root, qt.HasLen, types.MerkleRootSize)

	size := &CensusSize{}
	code, _ = ta.request(http.MethodGet, fmt.Sprintf("/census/%s/size", res.Root), nil, size)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(size.Size, qt.Equals, 2)

	proof := &types.CensusProof{}
	code, _ = ta.request(http.MethodGet, fmt.Sprintf("/census/%s/proof?key=%s", res.Root, alice), nil, proof)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(proof.Weight.MathBigInt().Uint64(), qt.Equals, uint64(10)) // quadratic by default
	ok, err := census.Verifier{}.VerifyInclusion(res.Root, proof)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	ta.requestError(http.MethodGet, fmt.Sprintf("/census/%s/proof?key=%s", res.Root, carol), nil, ErrResourceNotFound)
	ta.requestError(http.MethodGet, "/census/zz/size", nil, ErrMalformedCensusRoot)
	ta.requestError(http.MethodGet, fmt.Sprintf("/census/%x/size", bytes.Repeat([]byte{1}, 32)), nil, ErrCensusNotFound)
	ta.requestError(http.MethodPost, CensusEndpoint, &CensusSnapshot{}, ErrMalformedBody)

	linear := false
	code, _ = ta.request(http.MethodPost, CensusEndpoint, &CensusSnapshot{
		Holders:   []types.CensusHolder{{Key: alice, Balance: 100}},
		Quadratic: &linear,
	}, res)
	c.Assert(code, qt.Equals, http.StatusOK)
	code, _ = ta.request(http.MethodGet, fmt.Sprintf("/census/%s/proof?key=%s", res.Root, alice), nil, proof)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(proof.Weight.MathBigInt().Uint64(), qt.Equals, uint64(100))
}

func TestFaucetDisabled(t *testing.T) {
	ta := newTestAPI(t, false)
	ta.requestError(http.MethodPost, TreasuryMintsEndpoint, &NewMint{Decimals: 6, Standard: types.TokenStandardLegacy}, ErrFaucetDisabled)
	ta.requestError(http.MethodPost, TreasuryDepositsEndpoint, &Deposit{Owner: []byte("x"), Asset: []byte("y"), Amount: 1}, ErrFaucetDisabled)
}

func TestPrivateProposalLifecycle(t *testing.T) {
	c := qt.New(t)
	ta := newTestAPI(t, true)

	// assets
	votingMint, treasuryMint := &types.Mint{}, &types.Mint{}
	code, _ := ta.request(http.MethodPost, TreasuryMintsEndpoint, &NewMint{Standard: types.TokenStandardExtended}, votingMint)
	c.Assert(code, qt.Equals, http.StatusOK)
	code, _ = ta.request(http.MethodPost, TreasuryMintsEndpoint, &NewMint{Decimals: 6, Standard: types.TokenStandardLegacy}, treasuryMint)
	c.Assert(code, qt.Equals, http.StatusOK)
	ta.requestError(http.MethodPost, TreasuryMintsEndpoint, &NewMint{Standard: "other"}, ErrInvalidMint)

	// census of three voters
	secrets := []string{"alice", "bob", "carol"}
	holders := []types.CensusHolder{}
	for _, s := range secrets {
		holders = append(holders, types.CensusHolder{Key: voterKey(t, s), Balance: 100})
	}
	linear := false
	snapshot := &Census{}
	code, _ = ta.request(http.MethodPost, CensusEndpoint, &CensusSnapshot{Holders: holders, Quadratic: &linear}, snapshot)
	c.Assert(code, qt.Equals, http.StatusOK)

	next := &NextProposalID{}
	code, _ = ta.request(http.MethodGet, ProposalNextIDEndpoint, nil, next)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(next.ID, qt.Equals, types.ProposalID(1))

	target := types.HexBytes(bytes.Repeat([]byte{9}, types.AddressSize))
	p := &Proposal{}
	code, body := ta.request(http.MethodPost, ProposalsEndpoint, &governance.InitRequest{
		ID:                next.ID,
		CreatorCommitment: crypto.CreatorCommitment([]byte("creator"), []byte("salt")),
		VotingMint:        votingMint.Address,
		TreasuryMint:      treasuryMint.Address,
		MerkleRoot:        snapshot.Root,
		ExecutionAmount:   500,
		TargetWallet:      target,
		Metadata:          &types.ProposalMetadata{Title: types.MultilingualString{"default": "Audit"}},
	}, p)
	c.Assert(code, qt.Equals, http.StatusOK, qt.Commentf("%s", body))
	c.Assert(p.Version, qt.Equals, types.SchemaPrivateCommitment)
	c.Assert(p.TallyCurve, qt.Equals, curves.CurveTypeBN254)
	c.Assert(p.Metadata.Title["default"], qt.Equals, "Audit")
	ta.requestError(http.MethodPost, ProposalsEndpoint, &governance.InitRequest{ID: 2, ExecutionAmount: 1}, ErrInvalidProposal)

	// fund the custody
	holding := &Holding{}
	code, _ = ta.request(http.MethodPost, TreasuryDepositsEndpoint, &Deposit{Owner: p.Address, Asset: treasuryMint.Address, Amount: 500}, holding)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(holding.Address, qt.DeepEquals, p.Custody)

	eligible := &EligibleProposals{}
	code, _ = ta.request(http.MethodGet, "/proposals/eligible/"+voterKey(t, "alice").String(), nil, eligible)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(eligible.Proposals, qt.HasLen, 1)
	c.Assert(eligible.Proposals[0].Weight.MathBigInt().Uint64(), qt.Equals, uint64(100))
	code, _ = ta.request(http.MethodGet, "/proposals/eligible/"+voterKey(t, "mallory").String(), nil, eligible)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(eligible.Proposals, qt.HasLen, 0)

	curve, err := curves.New(p.TallyCurve)
	c.Assert(err, qt.IsNil)
	c.Assert(curve.Unmarshal(p.TallyKey), qt.IsNil)
	choices := []uint8{tally.ChoiceYes, tally.ChoiceYes, tally.ChoiceNo}
	votes := fmt.Sprintf("/proposals/%d/votes", p.ID)
	var firstVote *Vote
	for i, s := range secrets {
		proof := &types.CensusProof{}
		code, _ = ta.request(http.MethodGet, fmt.Sprintf("/census/%s/proof?key=%s", snapshot.Root, voterKey(t, s)), nil, proof)
		c.Assert(code, qt.Equals, http.StatusOK)
		ballot, err := tally.EncryptBallot(curve, proof.Weight.MathBigInt().Uint64(), choices[i])
		c.Assert(err, qt.IsNil)
		nullifier, err := crypto.Nullifier([]byte(s), p.ID)
		c.Assert(err, qt.IsNil)
		vote := &Vote{
			Nullifier:   nullifier,
			Ciphertext:  ballot.Ciphertext,
			PubKey:      ballot.PubKey,
			Nonce:       ballot.Nonce,
			CensusProof: proof,
		}
		rec := &types.NullifierRecord{}
		code, body = ta.request(http.MethodPost, votes, vote, rec)
		c.Assert(code, qt.Equals, http.StatusOK, qt.Commentf("%s", body))
		c.Assert(rec.Index, qt.Equals, uint64(i))
		if firstVote == nil {
			firstVote = vote
		}
	}
	ta.requestError(http.MethodPost, votes, firstVote, ErrDuplicateVote)

	forged := *firstVote
	forged.Nullifier = bytes.Repeat([]byte{5}, types.NullifierSize)
	forged.CensusProof = &types.CensusProof{Key: voterKey(t, "mallory"), Value: []byte{100}}
	ta.requestError(http.MethodPost, votes, &forged, ErrNotEligible)

	rec := &types.NullifierRecord{}
	code, _ = ta.request(http.MethodGet, fmt.Sprintf("/proposals/%d/nullifiers/%s", p.ID, firstVote.Nullifier), nil, rec)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(rec.Index, qt.Equals, uint64(0))
	ta.requestError(http.MethodGet, fmt.Sprintf("/proposals/%d/nullifiers/%s", p.ID, forged.Nullifier), nil, ErrNullifierNotFound)

	progress := &tally.Progress{}
	code, _ = ta.request(http.MethodGet, fmt.Sprintf("/proposals/%d/votes/count", p.ID), nil, progress)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(progress.Ballots, qt.Equals, uint64(3))

	tallyProof := fmt.Sprintf("/proposals/%d/tally/proof", p.ID)
	ta.requestError(http.MethodPost, tallyProof, nil, ErrVotingOpen)
	closed := &types.Proposal{}
	code, _ = ta.request(http.MethodPost, fmt.Sprintf("/proposals/%d/close", p.ID), &Caller{}, closed)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(closed.VotingClosed, qt.IsTrue)
	ta.requestError(http.MethodPost, fmt.Sprintf("/proposals/%d/close", p.ID), &Caller{}, ErrVotingClosed)
	late := *firstVote
	late.Nullifier = bytes.Repeat([]byte{6}, types.NullifierSize)
	ta.requestError(http.MethodPost, votes, &late, ErrVotingClosed)

	tp := &TallyProof{}
	code, _ = ta.request(http.MethodPost, tallyProof, nil, tp)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(tp.YesVotes, qt.Equals, uint64(200))
	c.Assert(tp.NoVotes, qt.Equals, uint64(100))

	finalize := fmt.Sprintf("/proposals/%d/finalize", p.ID)
	ta.requestError(http.MethodPost, finalize, &Finalize{Proof: tp.Proof, YesVotes: tp.YesVotes, NoVotes: tp.NoVotes, Threshold: 70, Quorum: 300}, ErrMajorityNotMet)
	ta.requestError(http.MethodPost, finalize, &Finalize{Proof: tp.Proof, YesVotes: tp.YesVotes, NoVotes: tp.NoVotes, Threshold: 60, Quorum: 301}, ErrQuorumNotMet)
	ta.requestError(http.MethodPost, finalize, &Finalize{Proof: tp.Proof, YesVotes: 300, NoVotes: 0, Threshold: 60, Quorum: 300}, ErrInvalidProof)

	done := &types.Proposal{}
	code, _ = ta.request(http.MethodPost, finalize, &Finalize{Proof: tp.Proof, YesVotes: tp.YesVotes, NoVotes: tp.NoVotes, Threshold: 60, Quorum: 300}, done)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(done.IsExecuted, qt.IsTrue)
	ta.requestError(http.MethodPost, finalize, &Finalize{Proof: tp.Proof, YesVotes: tp.YesVotes, NoVotes: tp.NoVotes, Threshold: 60, Quorum: 300}, ErrAlreadyExecuted)

	code, _ = ta.request(http.MethodGet, fmt.Sprintf("/treasury/holdings/%s?asset=%s", target, treasuryMint.Address), nil, holding)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(holding.Amount, qt.Equals, uint64(500))

	list := &ProposalList{}
	code, _ = ta.request(http.MethodGet, ProposalsEndpoint+"?status=active", nil, list)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(list.Proposals, qt.HasLen, 0)
	code, _ = ta.request(http.MethodGet, ProposalsEndpoint+"?votingMint="+votingMint.Address.String(), nil, list)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(list.Proposals, qt.HasLen, 1)
	ta.requestError(http.MethodGet, ProposalsEndpoint+"?status=closed", nil, ErrMalformedBody)
}

func TestAuthorityProposal(t *testing.T) {
	c := qt.New(t)
	ta := newTestAPI(t, true)

	mint := &types.Mint{}
	code, _ := ta.request(http.MethodPost, TreasuryMintsEndpoint, &NewMint{Standard: types.TokenStandardExtended}, mint)
	c.Assert(code, qt.Equals, http.StatusOK)

	authority := types.HexBytes("authority")
	target := types.HexBytes(bytes.Repeat([]byte{8}, types.AddressSize))
	p := &Proposal{}
	code, body := ta.request(http.MethodPost, ProposalsEndpoint, &governance.InitRequest{
		ID:              7,
		Version:         types.SchemaTokenInterface,
		Authority:       authority,
		VotingMint:      mint.Address,
		TreasuryMint:    mint.Address,
		MerkleRoot:      bytes.Repeat([]byte{1}, types.MerkleRootSize),
		ExecutionAmount: 10,
		TargetWallet:    target,
	}, p)
	c.Assert(code, qt.Equals, http.StatusOK, qt.Commentf("%s", body))
	c.Assert(p.TallyKey, qt.HasLen, 0)
	code, _ = ta.request(http.MethodPost, TreasuryDepositsEndpoint, &Deposit{Owner: p.Address, Asset: mint.Address, Amount: 10}, nil)
	c.Assert(code, qt.Equals, http.StatusOK)

	ta.requestError(http.MethodPost, "/proposals/7/tally/proof", nil, ErrNoTallyKey)
	ta.requestError(http.MethodPost, "/proposals/7/finalize", &Finalize{Proof: []byte{1}}, ErrUnsupportedOperation)
	ta.requestError(http.MethodPost, "/proposals/7/close", &Caller{Caller: authority}, ErrUnsupportedOperation)
	ta.requestError(http.MethodPost, "/proposals/7/execute", &Caller{Caller: authority}, ErrProposalNotPassed)
	ta.requestError(http.MethodPost, "/proposals/7/tally", &SetTally{Caller: []byte("other"), Result: "passed"}, ErrUnauthorized)
	ta.requestError(http.MethodPost, "/proposals/7/tally", &SetTally{Caller: authority, Result: "maybe"}, ErrInvalidTallyResult)

	code, _ = ta.request(http.MethodPost, "/proposals/7/tally", &SetTally{Caller: authority, Result: "passed"}, p)
	c.Assert(code, qt.Equals, http.StatusOK)
	code, _ = ta.request(http.MethodPost, "/proposals/7/execute", &Caller{Caller: authority}, p)
	c.Assert(code, qt.Equals, http.StatusOK)
	c.Assert(p.IsExecuted, qt.IsTrue)
	ta.requestError(http.MethodPost, "/proposals/7/execute", &Caller{Caller: authority}, ErrAlreadyExecuted)

	ta.requestError(http.MethodPost, "/proposals/7/migrate", &Migrate{Version: types.SchemaPlainTally}, ErrSchemaMigration)
	ta.requestError(http.MethodGet, "/proposals/8", nil, ErrProposalNotFound)
	ta.requestError(http.MethodGet, "/proposals/abc", nil, ErrMalformedProposalID)
}

func TestErrorFrom(t *testing.T) {
	c := qt.New(t)
	c.Assert(errorFrom(fmt.Errorf("wrapped: %w", governance.ErrDuplicateVote)).Code, qt.Equals, ErrDuplicateVote.Code)
	c.Assert(errorFrom(fmt.Errorf("settlement: %w", treasury.ErrInsufficientFunds)).Code, qt.Equals, ErrInsufficientFunds.Code)
	c.Assert(errorFrom(ErrFaucetDisabled).Code, qt.Equals, ErrFaucetDisabled.Code)
	c.Assert(errorFrom(fmt.Errorf("reveal: %w", tally.ErrVotingOpen)).Code, qt.Equals, ErrVotingOpen.Code)
	c.Assert(errorFrom(errors.New("boom")).Code, qt.Equals, ErrGenericInternalServerError.Code)
}

func TestProtectedEndpoints(t *testing.T) {
	c := qt.New(t)
	stg := storage.New(metadb.NewTest(t))
	ledger := treasury.New(stg.DB(), governance.DefaultProgram)
	a, err := New(&APIConfig{
		Engine:   governance.New(stg, ledger),
		Census:   census.NewCensusDB(stg.CensusDB()),
		Treasury: ledger,
		Faucet:   true,
		APIKeys:  []string{"secret"},
		KeyRate:  0.001,
		KeyBurst: 10,
	})
	c.Assert(err, qt.IsNil)
	ta := &testAPI{t: t, router: a.Router(), stg: stg}

	code, _ := ta.request(http.MethodGet, ProposalNextIDEndpoint, nil, nil)
	c.Assert(code, qt.Equals, http.StatusOK)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, CensusEndpoint},
		{http.MethodGet, "/census/00/proof?key=00"},
		{http.MethodPost, ProposalsEndpoint},
		{http.MethodPost, "/proposals/1/votes"},
		{http.MethodGet, "/proposals/1/votes/count"},
		{http.MethodPost, "/proposals/1/close"},
		{http.MethodPost, "/proposals/1/tally/proof"},
		{http.MethodPost, TreasuryMintsEndpoint},
		{http.MethodPost, TreasuryDepositsEndpoint},
	} {
		ta.requestError(tc.method, tc.path, nil, ErrMissingAPIKey)
	}

	for header, value := range map[string]string{
		APIKeyHeader:    "secret",
		"Authorization": "Bearer secret",
	} {
		body, err := json.Marshal(&NewMint{Standard: types.TokenStandardExtended})
		c.Assert(err, qt.IsNil)
		req := httptest.NewRequest(http.MethodPost, TreasuryMintsEndpoint, bytes.NewReader(body))
		req.Header.Set(header, value)
		rec := httptest.NewRecorder()
		ta.router.ServeHTTP(rec, req)
		c.Assert(rec.Code, qt.Equals, http.StatusOK, qt.Commentf("%s: %s", header, rec.Body.String()))

		req = httptest.NewRequest(http.MethodPost, TreasuryMintsEndpoint, bytes.NewReader(body))
		req.Header.Set(header, value+"x")
		rec = httptest.NewRecorder()
		ta.router.ServeHTTP(rec, req)
		c.Assert(rec.Code, qt.Equals, ErrInvalidAPIKey.HTTPstatus)
	}
}
