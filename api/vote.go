package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vocdoni/zk-governance/governance"
	"github.com/vocdoni/zk-governance/storage"
	"github.com/vocdoni/zk-governance/types"
)

// submitVote relays an anonymous ballot to a proposal
// POST /proposals/{proposalId}/votes
func (a *API) submitVote(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalIDParam(w, r)
	if !ok {
		return
	}
	vote := &Vote{}
	if !decodeBody(w, r, vote) {
		return
	}
	rec, err := a.engine.SubmitVote(&governance.VoteRequest{
		ProposalID:  id,
		Nullifier:   vote.Nullifier,
		Ciphertext:  vote.Ciphertext,
		PubKey:      vote.PubKey,
		Nonce:       vote.Nonce,
		CensusProof: vote.CensusProof,
	})
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, rec)
}

// nullifier returns a spent nullifier record
// GET /proposals/{proposalId}/nullifiers/{nullifier}
func (a *API) nullifier(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalIDParam(w, r)
	if !ok {
		return
	}
	n, ok := hexParam(w, chi.URLParam(r, NullifierURLParam), ErrMalformedNullifier)
	if !ok {
		return
	}
	if len(n) != types.NullifierSize {
		ErrMalformedNullifier.Withf("must be %d bytes", types.NullifierSize).Write(w)
		return
	}
	rec, err := a.engine.Nullifier(id, n)
	if errors.Is(err, storage.ErrNotFound) {
		ErrNullifierNotFound.Write(w)
		return
	}
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, rec)
}
