package api

import (
	"net/http"

	"github.com/vocdoni/zk-governance/tally"
)

// voteCount returns the live encrypted tally of a proposal. Without a tally
// service only the vote counter is reported.
// GET /proposals/{proposalId}/votes/count
func (a *API) voteCount(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalIDParam(w, r)
	if !ok {
		return
	}
	p, err := a.engine.Proposal(id)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	if a.tally == nil {
		httpWriteJSON(w, &tally.Progress{ProposalID: id, VoteCount: p.VoteCount})
		return
	}
	progress, err := a.tally.LiveTally(id)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, progress)
}

// proveTally reveals the tally of a private proposal with the proof to
// finalize it
// POST /proposals/{proposalId}/tally/proof
func (a *API) proveTally(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalIDParam(w, r)
	if !ok {
		return
	}
	if a.tally == nil {
		ErrTallyUnavailable.Write(w)
		return
	}
	if _, err := a.engine.Proposal(id); err != nil {
		errorFrom(err).Write(w)
		return
	}
	result, err := a.tally.ProveTally(id)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	proof, err := result.Proof.Marshal()
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &TallyProof{
		YesVotes: result.Yes,
		NoVotes:  result.No,
		Ballots:  result.Ballots,
		Spoiled:  result.Spoiled,
		Proof:    proof,
	})
}
