package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vocdoni/zk-governance/governance"
	"github.com/vocdoni/zk-governance/log"
	"github.com/vocdoni/zk-governance/storage"
	"github.com/vocdoni/zk-governance/storage/census"
	"github.com/vocdoni/zk-governance/tally"
	"github.com/vocdoni/zk-governance/treasury"
	"github.com/vocdoni/zk-governance/types"
)

// Error is used by handler functions to wrap errors, assigning a unique error code
// and also specifying which HTTP Status should be used.
type Error struct {
	Err        error
	Code       int
	HTTPstatus int
}

// MarshalJSON returns a JSON containing Err.Error() and Code. Field HTTPstatus is ignored.
//
// Example output: {"error":"account not found","code":4003}
func (e Error) MarshalJSON() ([]byte, error) {
	// This anon struct is needed to actually include the error string,
	// since it wouldn't be marshaled otherwise. (json.Marshal doesn't call Err.Error())
	return json.Marshal(
		struct {
			Err  string `json:"error"`
			Code int    `json:"code"`
		}{
			Err:  e.Err.Error(),
			Code: e.Code,
		})
}

// Error returns the Message contained inside the APIerror
func (e Error) Error() string {
	return e.Err.Error()
}

// Write serializes a JSON msg using APIerror.Message and APIerror.Code
// and passes that to ctx.Send()
func (e Error) Write(w http.ResponseWriter) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Warn(err)
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	if log.Level() == log.LogLevelDebug {
		log.Debugw("API error response", "error", e.Error(), "code", e.Code, "httpStatus", e.HTTPstatus)
	}
	// set the content type to JSON
	w.Header().Set("Content-Type", "application/json")
	http.Error(w, string(msg), e.HTTPstatus)
}

// Withf returns a copy of APIerror with the Sprintf formatted string appended at the end of e.Err
func (e Error) Withf(format string, args ...any) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, fmt.Sprintf(format, args...)),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// With returns a copy of APIerror with the string appended at the end of e.Err
func (e Error) With(s string) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, s),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// WithErr returns a copy of APIerror with err.Error() appended at the end of e.Err
func (e Error) WithErr(err error) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, err.Error()),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// errorTable maps the domain errors to their API error. The first match
// wins, so more specific errors go first.
var errorTable = []struct {
	target error
	apiErr Error
}{
	{governance.ErrProposalNotFound, ErrProposalNotFound},
	{governance.ErrStorageAlreadyExists, ErrProposalAlreadyExists},
	{governance.ErrDuplicateVote, ErrDuplicateVote},
	{governance.ErrNotEligible, ErrNotEligible},
	{governance.ErrVotingClosed, ErrVotingClosed},
	{governance.ErrAlreadyExecuted, ErrAlreadyExecuted},
	{governance.ErrProposalNotPassed, ErrProposalNotPassed},
	{governance.ErrInvalidProof, ErrInvalidProof},
	{governance.ErrQuorumNotMet, ErrQuorumNotMet},
	{governance.ErrMajorityNotMet, ErrMajorityNotMet},
	{governance.ErrInvalidAmount, ErrInvalidAmount},
	{governance.ErrUnauthorized, ErrUnauthorized},
	{governance.ErrUnsupportedOperation, ErrUnsupportedOperation},
	{governance.ErrInvalidTallyResult, ErrInvalidTallyResult},
	{governance.ErrInvalidMint, ErrInvalidMint},
	{types.ErrArithmeticOverflow, ErrArithmeticOverflow},
	{types.ErrInvalidBallot, ErrInvalidBallot},
	{types.ErrInvalidProposal, ErrInvalidProposal},
	{types.ErrUnknownSchema, ErrSchemaMigration},
	{types.ErrSchemaDowngrade, ErrSchemaMigration},
	{types.ErrIncompatibleSchema, ErrSchemaMigration},
	{treasury.ErrInsufficientFunds, ErrInsufficientFunds},
	{treasury.ErrMintNotFound, ErrMintNotFound},
	{treasury.ErrInvalidAmount, ErrInvalidAmount},
	{treasury.ErrInvalidTokenStd, ErrInvalidMint},
	{tally.ErrNoTallyKey, ErrNoTallyKey},
	{tally.ErrVotingOpen, ErrVotingOpen},
	{census.ErrRootNotFound, ErrCensusNotFound},
	{census.ErrCensusNotFound, ErrCensusNotFound},
	{census.ErrKeyNotFound, ErrResourceNotFound},
	{census.ErrTooManyVoters, ErrTooManyVoters},
	{storage.ErrNotFound, ErrResourceNotFound},
}

// errorFrom returns the API error for err, wrapping its message.
// Unknown errors are internal server errors.
func errorFrom(err error) Error {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			return e.apiErr.WithErr(err)
		}
	}
	return ErrGenericInternalServerError.WithErr(err)
}
