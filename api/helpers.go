package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vocdoni/zk-governance/log"
	"github.com/vocdoni/zk-governance/types"
)

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data any) {
	jdata, err := json.Marshal(data)
	if err != nil {
		ErrMarshalingServerJSONFailed.WithErr(err).Write(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	n, err := w.Write(jdata)
	if err != nil {
		log.Warnw("failed to write http response", "error", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
	log.Debugw("api response", "bytes", n, "data", strings.ReplaceAll(string(jdata), "\"", ""))
}

// httpWriteOK helper function allows to write an OK response.
func httpWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// decodeBody decodes the JSON request body into v, writing
// ErrMalformedBody and returning false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return false
	}
	return true
}

// proposalIDParam parses the proposal id of the URL, writing
// ErrMalformedProposalID and returning false on failure.
func proposalIDParam(w http.ResponseWriter, r *http.Request) (types.ProposalID, bool) {
	id, err := types.ParseProposalID(chi.URLParam(r, ProposalURLParam))
	if err != nil {
		ErrMalformedProposalID.WithErr(err).Write(w)
		return 0, false
	}
	return id, true
}

// hexParam decodes a hex URL parameter, writing apiErr and returning false
// when it is empty or malformed.
func hexParam(w http.ResponseWriter, value string, apiErr Error) (types.HexBytes, bool) {
	if value == "" {
		apiErr.With("empty value").Write(w)
		return nil, false
	}
	b, err := types.HexStringToHexBytes(value)
	if err != nil {
		apiErr.WithErr(err).Write(w)
		return nil, false
	}
	return b, true
}
