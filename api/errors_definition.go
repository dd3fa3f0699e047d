//nolint:lll
package api

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400, 403, 404 or 409, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXX or 5XXX
// If you notice there's a gap, DON'T fill in the gap, that code was used in the past for some error
// (not anymore) and shouldn't be reused.
// There's no correlation between Code and HTTP Status.
var (
	ErrResourceNotFound      = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody         = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrMalformedProposalID   = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed proposal ID")}
	ErrProposalNotFound      = Error{Code: 40007, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("proposal not found")}
	ErrCensusNotFound        = Error{Code: 40008, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("census not found")}
	ErrMalformedCensusRoot   = Error{Code: 40009, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed census root")}
	ErrMalformedCensusKey    = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed census key")}
	ErrInvalidBallot         = Error{Code: 40011, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid ballot")}
	ErrDuplicateVote         = Error{Code: 40012, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("duplicate vote")}
	ErrNotEligible           = Error{Code: 40013, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("voter not eligible")}
	ErrVotingClosed          = Error{Code: 40014, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("voting closed")}
	ErrAlreadyExecuted       = Error{Code: 40015, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("proposal already executed")}
	ErrProposalNotPassed     = Error{Code: 40016, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("proposal not passed")}
	ErrInvalidProof          = Error{Code: 40017, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid tally proof")}
	ErrQuorumNotMet          = Error{Code: 40018, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("quorum not met")}
	ErrMajorityNotMet        = Error{Code: 40019, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("majority not met")}
	ErrArithmeticOverflow    = Error{Code: 40020, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("arithmetic overflow")}
	ErrProposalAlreadyExists = Error{Code: 40021, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("proposal already exists")}
	ErrInvalidAmount         = Error{Code: 40022, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid amount")}
	ErrUnauthorized          = Error{Code: 40023, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("unauthorized")}
	ErrUnsupportedOperation  = Error{Code: 40024, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("operation not supported by the proposal schema")}
	ErrInvalidProposal       = Error{Code: 40025, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid proposal")}
	ErrInvalidMint           = Error{Code: 40026, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid mint")}
	ErrSchemaMigration       = Error{Code: 40027, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("schema migration not allowed")}
	ErrInsufficientFunds     = Error{Code: 40028, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("insufficient funds")}
	ErrFaucetDisabled        = Error{Code: 40029, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("faucet disabled")}
	ErrNoTallyKey            = Error{Code: 40030, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("proposal has no tally key")}
	ErrMalformedAddress      = Error{Code: 40031, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed address")}
	ErrTooManyVoters         = Error{Code: 40032, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("too many voters")}
	ErrInvalidTallyResult    = Error{Code: 40033, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid tally result")}
	ErrMalformedNullifier    = Error{Code: 40034, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed nullifier")}
	ErrNullifierNotFound     = Error{Code: 40035, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("nullifier not found")}
	ErrMintNotFound          = Error{Code: 40036, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("mint not found")}
	ErrVotingOpen            = Error{Code: 40037, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("voting still open")}
	ErrMissingAPIKey         = Error{Code: 40038, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("missing API key")}
	ErrInvalidAPIKey         = Error{Code: 40039, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("invalid API key")}
	ErrRateLimited           = Error{Code: 40040, HTTPstatus: http.StatusTooManyRequests, Err: fmt.Errorf("rate limit exceeded")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
	ErrTallyUnavailable           = Error{Code: 50003, HTTPstatus: http.StatusServiceUnavailable, Err: fmt.Errorf("tally service unavailable")}
)
