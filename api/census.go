package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vocdoni/zk-governance/governance"
	"github.com/vocdoni/zk-governance/storage/census"
)

// newCensusSnapshot builds a census from a list of holders
// POST /census
func (a *API) newCensusSnapshot(w http.ResponseWriter, r *http.Request) {
	req := &CensusSnapshot{}
	if !decodeBody(w, r, req) {
		return
	}
	if len(req.Holders) == 0 {
		ErrMalformedBody.With("no holders provided").Write(w)
		return
	}
	quadratic := !a.linear
	if req.Quadratic != nil {
		quadratic = *req.Quadratic
	}
	ref, err := a.census.Snapshot(req.Holders, quadratic)
	if err != nil {
		if errors.Is(err, census.ErrTooManyVoters) {
			errorFrom(err).Write(w)
			return
		}
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &Census{ID: ref.ID, Root: ref.Root(), Size: ref.Size()})
}

// censusProof returns the merkle proof of a key
// GET /census/{root}/proof?key=
func (a *API) censusProof(w http.ResponseWriter, r *http.Request) {
	root, ok := hexParam(w, chi.URLParam(r, CensusRootURLParam), ErrMalformedCensusRoot)
	if !ok {
		return
	}
	key, ok := hexParam(w, r.URL.Query().Get("key"), ErrMalformedCensusKey)
	if !ok {
		return
	}
	proof, err := a.census.ProofByRoot(root, key)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, proof)
}

// censusSize returns the number of leaves of a census
// GET /census/{root}/size
func (a *API) censusSize(w http.ResponseWriter, r *http.Request) {
	root, ok := hexParam(w, chi.URLParam(r, CensusRootURLParam), ErrMalformedCensusRoot)
	if !ok {
		return
	}
	size, err := a.census.SizeByRoot(root)
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, &CensusSize{Size: size})
}

// eligibleProposals lists the active proposals whose census includes a key
// GET /proposals/eligible/{key}
func (a *API) eligibleProposals(w http.ResponseWriter, r *http.Request) {
	key, ok := hexParam(w, chi.URLParam(r, CensusKeyURLParam), ErrMalformedCensusKey)
	if !ok {
		return
	}
	proposals, err := a.engine.ListProposals(governance.ProposalFilter{ActiveOnly: true})
	if err != nil {
		errorFrom(err).Write(w)
		return
	}
	res := &EligibleProposals{Proposals: []*EligibleProposal{}}
	for _, p := range proposals {
		if !p.Open() {
			continue
		}
		proof, err := a.census.ProofByRoot(p.MerkleRoot, key)
		switch {
		case err == nil:
			res.Proposals = append(res.Proposals, &EligibleProposal{ID: p.ID, Weight: proof.Weight})
		case errors.Is(err, census.ErrKeyNotFound), errors.Is(err, census.ErrRootNotFound):
		default:
			errorFrom(err).Write(w)
			return
		}
	}
	httpWriteJSON(w, res)
}

