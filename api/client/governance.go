package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/vocdoni/zk-governance/api"
	"github.com/vocdoni/zk-governance/governance"
	"github.com/vocdoni/zk-governance/tally"
	"github.com/vocdoni/zk-governance/types"
)

// APIError is a non 200 response of the API.
type APIError struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %d (code %d: %s)", errCodeNot200, e.Status, e.Code, e.Message)
}

// call performs a request and decodes a 200 response into out. Other
// status codes are returned as *APIError.
func (c *HTTPclient) call(method string, body, out any, params []string, urlPath ...string) error {
	data, status, err := c.Request(method, body, params, urlPath...)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		apiErr := &APIError{Status: status}
		if err := json.Unmarshal(data, apiErr); err != nil {
			apiErr.Message = string(data)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}

func proposalPath(id types.ProposalID, parts ...string) []string {
	return append([]string{"proposals", strconv.FormatUint(id.Uint64(), 10)}, parts...)
}

// CensusSnapshot builds a census from the given holders.
func (c *HTTPclient) CensusSnapshot(req *api.CensusSnapshot) (*api.Census, error) {
	res := &api.Census{}
	return res, c.call(HTTPPOST, req, res, nil, api.CensusEndpoint)
}

// CensusProof returns the merkle proof of key in the census with root.
func (c *HTTPclient) CensusProof(root, key types.HexBytes) (*types.CensusProof, error) {
	res := &types.CensusProof{}
	return res, c.call(HTTPGET, nil, res, []string{"key", key.String()}, "census", root.String(), "proof")
}

// Initialize creates a proposal.
func (c *HTTPclient) Initialize(req *governance.InitRequest) (*api.Proposal, error) {
	res := &api.Proposal{}
	return res, c.call(HTTPPOST, req, res, nil, api.ProposalsEndpoint)
}

// Proposal returns a proposal with its metadata and tally key.
func (c *HTTPclient) Proposal(id types.ProposalID) (*api.Proposal, error) {
	res := &api.Proposal{}
	return res, c.call(HTTPGET, nil, res, nil, proposalPath(id)...)
}

// NextProposalID returns the next free proposal id.
func (c *HTTPclient) NextProposalID() (types.ProposalID, error) {
	res := &api.NextProposalID{}
	if err := c.call(HTTPGET, nil, res, nil, api.ProposalNextIDEndpoint); err != nil {
		return 0, err
	}
	return res.ID, nil
}

// Vote relays a ballot to a proposal.
func (c *HTTPclient) Vote(id types.ProposalID, vote *api.Vote) (*types.NullifierRecord, error) {
	res := &types.NullifierRecord{}
	return res, c.call(HTTPPOST, vote, res, nil, proposalPath(id, "votes")...)
}

// VoteCount returns the live tally of a proposal.
func (c *HTTPclient) VoteCount(id types.ProposalID) (*tally.Progress, error) {
	res := &tally.Progress{}
	return res, c.call(HTTPGET, nil, res, nil, proposalPath(id, "votes", "count")...)
}

// CloseVoting stops a private proposal from accepting votes.
func (c *HTTPclient) CloseVoting(id types.ProposalID, caller types.HexBytes) (*types.Proposal, error) {
	res := &types.Proposal{}
	return res, c.call(HTTPPOST, &api.Caller{Caller: caller}, res, nil, proposalPath(id, "close")...)
}

// ProveTally reveals the tally of a private proposal with its proof.
func (c *HTTPclient) ProveTally(id types.ProposalID) (*api.TallyProof, error) {
	res := &api.TallyProof{}
	return res, c.call(HTTPPOST, nil, res, nil, proposalPath(id, "tally", "proof")...)
}

// Finalize settles a private proposal.
func (c *HTTPclient) Finalize(id types.ProposalID, req *api.Finalize) (*types.Proposal, error) {
	res := &types.Proposal{}
	return res, c.call(HTTPPOST, req, res, nil, proposalPath(id, "finalize")...)
}

// CreateMint creates a mint through the faucet.
func (c *HTTPclient) CreateMint(decimals uint8, standard types.TokenStandard) (*types.Mint, error) {
	res := &types.Mint{}
	return res, c.call(HTTPPOST, &api.NewMint{Decimals: decimals, Standard: standard}, res, nil, api.TreasuryMintsEndpoint)
}

// Deposit issues tokens through the faucet.
func (c *HTTPclient) Deposit(owner, asset types.HexBytes, amount uint64) (*api.Holding, error) {
	res := &api.Holding{}
	req := &api.Deposit{Owner: owner, Asset: asset, Amount: amount}
	return res, c.call(HTTPPOST, req, res, nil, api.TreasuryDepositsEndpoint)
}

// Holding returns the balance of asset owned by owner.
func (c *HTTPclient) Holding(owner, asset types.HexBytes) (*api.Holding, error) {
	res := &api.Holding{}
	return res, c.call(HTTPGET, nil, res, []string{"asset", asset.String()}, "treasury", "holdings", owner.String())
}

// SetTally records the outcome of an authority gated proposal.
func (c *HTTPclient) SetTally(id types.ProposalID, caller types.HexBytes, result string) (*types.Proposal, error) {
	res := &types.Proposal{}
	return res, c.call(HTTPPOST, &api.SetTally{Caller: caller, Result: result}, res, nil, proposalPath(id, "tally")...)
}

// Execute pays out a passed authority gated proposal.
func (c *HTTPclient) Execute(id types.ProposalID, caller types.HexBytes) (*types.Proposal, error) {
	res := &types.Proposal{}
	return res, c.call(HTTPPOST, &api.Caller{Caller: caller}, res, nil, proposalPath(id, "execute")...)
}
