package api

import (
	"errors"
	"net/http"

	"github.com/vocdoni/zk-governance/governance"
	"github.com/vocdoni/zk-governance/log"
	"github.com/vocdoni/zk-governance/tally"
	"github.com/vocdoni/zk-governance/types"
)

const (
	statusAll    = "all"
	statusActive = "active"
)

// initializeProposal creates a new proposal
// POST /proposals
func (a *API) initializeProposal(w http.ResponseWriter, r *http.Request) {
	req := &governance.InitRequest{}
	if !decodeBody(w, r, req) {
		return
	}
	p, err := a.engine.Initialize(req)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, a.proposalResponse(p))
}

// listProposals lists the proposals
// GET /proposals?status=&votingMint=
func (a *API) listProposals(w http.ResponseWriter, r *http.Request) {
	filter := governance.ProposalFilter{}
	switch status := r.URL.Query().Get("status"); status {
	case "", statusAll:
	case statusActive:
		filter.ActiveOnly = true
	default:
		ErrMalformedBody.Withf("unknown status %q", status).Write(w)
		return
	}
	if mint := r.URL.Query().Get("votingMint"); mint != "" {
		var ok bool
		if filter.VotingMint, ok = hexParam(w, mint, ErrMalformedAddress); !ok {
			return
		}
	}
	proposals, err := a.engine.ListProposals(filter)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, &ProposalList{Proposals: proposals})
}

// nextProposalID returns the next free proposal id
// GET /proposals/next-id
func (a *API) nextProposalID(w http.ResponseWriter, r *http.Request) {
	id, err := a.engine.NextProposalID()
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, &NextProposalID{ID: id})
}

// proposal returns a proposal
// GET /proposals/{proposalId}
func (a *API) proposal(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalIDParam(w, r)
	if !ok {
		return
	}
	p, err := a.engine.Proposal(id)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, a.proposalResponse(p))
}

// proposalResponse adds the metadata and the tally key, when they exist,
// to a proposal.
func (a *API) proposalResponse(p *types.Proposal) *Proposal {
	res := &Proposal{Proposal: p}
	meta, err := a.engine.Metadata(p.ID)
	switch {
	case err == nil:
		res.Metadata = meta
	case !errors.Is(err, governance.ErrProposalNotFound):
		log.Warnw("could not load proposal metadata", "id", p.ID.String(), "error", err.Error())
	}
	if a.tally != nil {
		key, curve, err := a.tally.TallyKey(p.ID)
		switch {
		case err == nil:
			res.TallyKey, res.TallyCurve = key, curve
		case !errors.Is(err, tally.ErrNoTallyKey):
			log.Warnw("could not load tally key", "id", p.ID.String(), "error", err.Error())
		}
	}
	return res
}

// setTally records the outcome of an authority gated proposal
// POST /proposals/{proposalId}/tally
func (a *API) setTally(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalIDParam(w, r)
	if !ok {
		return
	}
	req := &SetTally{}
	if !decodeBody(w, r, req) {
		return
	}
	var result types.TallyResult
	switch req.Result {
	case types.TallyPassed.String():
		result = types.TallyPassed
	case types.TallyRejected.String():
		result = types.TallyRejected
	default:
		ErrInvalidTallyResult.Withf("%q", req.Result).Write(w)
		return
	}
	p, err := a.engine.SetTally(id, req.Caller, result)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, p)
}

// closeVoting ends the voting of a private proposal so its tally can be
// revealed
// POST /proposals/{proposalId}/close
func (a *API) closeVoting(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalIDParam(w, r)
	if !ok {
		return
	}
	req := &Caller{}
	if !decodeBody(w, r, req) {
		return
	}
	p, err := a.engine.CloseVoting(id, req.Caller)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, p)
}

// finalize verifies the tally of a private proposal and settles it
// POST /proposals/{proposalId}/finalize
func (a *API) finalize(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalIDParam(w, r)
	if !ok {
		return
	}
	req := &Finalize{}
	if !decodeBody(w, r, req) {
		return
	}
	p, err := a.engine.Finalize(&governance.FinalizeRequest{
		ProposalID: id,
		Caller:     req.Caller,
		Proof:      req.Proof,
		YesVotes:   req.YesVotes,
		NoVotes:    req.NoVotes,
		Threshold:  req.Threshold,
		Quorum:     req.Quorum,
	})
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, p)
}

// execute settles a passed authority gated proposal
// POST /proposals/{proposalId}/execute
func (a *API) execute(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalIDParam(w, r)
	if !ok {
		return
	}
	req := &Caller{}
	if !decodeBody(w, r, req) {
		return
	}
	p, err := a.engine.Execute(id, req.Caller)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, p)
}

// migrate moves a proposal to a newer schema
// POST /proposals/{proposalId}/migrate
func (a *API) migrate(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalIDParam(w, r)
	if !ok {
		return
	}
	req := &Migrate{}
	if !decodeBody(w, r, req) {
		return
	}
	p, err := a.engine.Migrate(id, req.Version)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, p)
}
