// Package api exposes the governance node over HTTP. Handlers decode JSON
// requests, call the governance engine and its collaborators, and map the
// domain errors to the Error table.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vocdoni/zk-governance/governance"
	"github.com/vocdoni/zk-governance/log"
	"github.com/vocdoni/zk-governance/storage/census"
	"github.com/vocdoni/zk-governance/tally"
	"github.com/vocdoni/zk-governance/types"
)

// Tallier reveals and tracks the encrypted tallies.
type Tallier interface {
	LiveTally(id types.ProposalID) (*tally.Progress, error)
	ProveTally(id types.ProposalID) (*tally.Result, error)
	TallyKey(id types.ProposalID) (types.HexBytes, string, error)
}

// Treasury is the asset ledger queried and, with the faucet enabled,
// written by the API.
type Treasury interface {
	CreateMint(decimals uint8, standard types.TokenStandard) (*types.Mint, error)
	Mint(address []byte) (*types.Mint, error)
	Deposit(owner, asset []byte, amount uint64) (*types.Holding, error)
	HoldingAddress(owner, asset []byte) types.HexBytes
	Balance(owner, asset []byte) (uint64, error)
}

// APIConfig type represents the configuration for the API HTTP server.
type APIConfig struct {
	Engine   *governance.Engine
	Census   *census.CensusDB
	Treasury Treasury
	// Tally is optional. Without it the tally endpoints answer with
	// ErrTallyUnavailable.
	Tally Tallier
	// Faucet enables mint creation and deposits.
	Faucet bool
	// Linear makes census snapshots weight holders by their balance
	// instead of its square root, unless the request says otherwise.
	Linear bool
	// APIKeys protect the census, proposal creation, vote relay, tally and
	// faucet endpoints. Each key is limited to KeyRate requests per second
	// with bursts of KeyBurst. Without keys those endpoints are open.
	APIKeys  []string
	KeyRate  float64
	KeyBurst int
}

// API type represents the API HTTP router and its handlers.
type API struct {
	router   *chi.Mux
	engine   *governance.Engine
	census   *census.CensusDB
	treasury Treasury
	tally    Tallier
	faucet   bool
	linear   bool
	auth     *keyAuth
}

// New creates a new API instance with the given configuration.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Engine == nil {
		return nil, fmt.Errorf("missing governance engine")
	}
	if conf.Census == nil {
		return nil, fmt.Errorf("missing census database")
	}
	if conf.Treasury == nil {
		return nil, fmt.Errorf("missing treasury")
	}
	a := &API{
		engine:   conf.Engine,
		census:   conf.Census,
		treasury: conf.Treasury,
		tally:    conf.Tally,
		faucet:   conf.Faucet,
		linear:   conf.Linear,
	}
	if len(conf.APIKeys) > 0 {
		a.auth = newKeyAuth(conf.APIKeys, conf.KeyRate, conf.KeyBurst)
	} else {
		log.Warnw("no API keys configured, protected endpoints are open")
	}
	a.initRouter()
	return a, nil
}

// Router returns the chi router, used to serve the API and for testing
// purposes.
func (a *API) Router() *chi.Mux {
	return a.router
}

func (a *API) register(r chi.Router, method, endpoint string, h http.HandlerFunc) {
	log.Debugw("register handler", "endpoint", endpoint, "method", method)
	r.Method(method, endpoint, h)
}

// registerHandlers registers all the API handlers. The write and tally
// endpoints go through the API key middleware when keys are configured.
func (a *API) registerHandlers() {
	a.register(a.router, http.MethodGet, PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})

	a.register(a.router, http.MethodGet, CensusSizeEndpoint, a.censusSize)
	a.register(a.router, http.MethodGet, ProposalsEndpoint, a.listProposals)
	a.register(a.router, http.MethodGet, ProposalNextIDEndpoint, a.nextProposalID)
	a.register(a.router, http.MethodGet, ProposalsEligibleEndpoint, a.eligibleProposals)
	a.register(a.router, http.MethodGet, ProposalEndpoint, a.proposal)
	a.register(a.router, http.MethodGet, ProposalNullifierEndpoint, a.nullifier)
	a.register(a.router, http.MethodPost, ProposalTallyEndpoint, a.setTally)
	a.register(a.router, http.MethodPost, ProposalFinalizeEndpoint, a.finalize)
	a.register(a.router, http.MethodPost, ProposalExecuteEndpoint, a.execute)
	a.register(a.router, http.MethodPost, ProposalMigrateEndpoint, a.migrate)
	a.register(a.router, http.MethodGet, TreasuryMintEndpoint, a.mint)
	a.register(a.router, http.MethodGet, TreasuryHoldingEndpoint, a.holding)

	a.router.Group(func(r chi.Router) {
		if a.auth != nil {
			r.Use(a.auth.Handler)
		}
		a.register(r, http.MethodPost, CensusEndpoint, a.newCensusSnapshot)
		a.register(r, http.MethodGet, CensusProofEndpoint, a.censusProof)
		a.register(r, http.MethodPost, ProposalsEndpoint, a.initializeProposal)
		a.register(r, http.MethodPost, ProposalVotesEndpoint, a.submitVote)
		a.register(r, http.MethodGet, ProposalVoteCountEndpoint, a.voteCount)
		a.register(r, http.MethodPost, ProposalCloseEndpoint, a.closeVoting)
		a.register(r, http.MethodPost, ProposalTallyProofEndpoint, a.proveTally)
		a.register(r, http.MethodPost, TreasuryMintsEndpoint, a.createMint)
		a.register(r, http.MethodPost, TreasuryDepositsEndpoint, a.deposit)
	})
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", APIKeyHeader},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))

	a.registerHandlers()
}
