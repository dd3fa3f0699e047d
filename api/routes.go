package api

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"

	// CensusEndpoint builds a census snapshot from a list of holders
	CensusEndpoint     = "/census"
	CensusRootURLParam = "root"
	// CensusProofEndpoint returns the merkle proof of a key, given as the
	// "key" query parameter
	CensusProofEndpoint = "/census/{" + CensusRootURLParam + "}/proof"
	// CensusSizeEndpoint returns the number of leaves of a census
	CensusSizeEndpoint = "/census/{" + CensusRootURLParam + "}/size"

	// ProposalsEndpoint initializes (POST) and lists (GET) proposals. The
	// list accepts the "status" (all, active) and "votingMint" query
	// parameters.
	ProposalsEndpoint = "/proposals"
	// ProposalNextIDEndpoint returns the next free proposal id
	ProposalNextIDEndpoint = "/proposals/next-id"
	// ProposalsEligibleEndpoint lists the proposals a census key can vote on
	CensusKeyURLParam         = "key"
	ProposalsEligibleEndpoint = "/proposals/eligible/{" + CensusKeyURLParam + "}"

	ProposalURLParam = "proposalId"
	// ProposalEndpoint returns a proposal with its metadata
	ProposalEndpoint = "/proposals/{" + ProposalURLParam + "}"
	// ProposalVotesEndpoint relays a vote to a proposal
	ProposalVotesEndpoint = ProposalEndpoint + "/votes"
	// ProposalVoteCountEndpoint returns the live tally of a proposal
	ProposalVoteCountEndpoint = ProposalEndpoint + "/votes/count"
	// ProposalNullifierEndpoint returns a spent nullifier record
	NullifierURLParam         = "nullifier"
	ProposalNullifierEndpoint = ProposalEndpoint + "/nullifiers/{" + NullifierURLParam + "}"
	// ProposalCloseEndpoint stops a private proposal from accepting votes
	ProposalCloseEndpoint = ProposalEndpoint + "/close"
	// ProposalTallyEndpoint records the tally of an authority gated proposal
	ProposalTallyEndpoint = ProposalEndpoint + "/tally"
	// ProposalTallyProofEndpoint reveals the tally of a private proposal
	// with its proof
	ProposalTallyProofEndpoint = ProposalEndpoint + "/tally/proof"
	// ProposalFinalizeEndpoint finalizes a private proposal
	ProposalFinalizeEndpoint = ProposalEndpoint + "/finalize"
	// ProposalExecuteEndpoint executes an authority gated proposal
	ProposalExecuteEndpoint = ProposalEndpoint + "/execute"
	// ProposalMigrateEndpoint moves a proposal to a newer schema
	ProposalMigrateEndpoint = ProposalEndpoint + "/migrate"

	// TreasuryMintsEndpoint creates a mint. Only with the faucet enabled.
	TreasuryMintsEndpoint = "/treasury/mints"
	AddressURLParam       = "address"
	// TreasuryMintEndpoint returns a mint
	TreasuryMintEndpoint = TreasuryMintsEndpoint + "/{" + AddressURLParam + "}"
	// TreasuryDepositsEndpoint issues tokens to an owner. Only with the
	// faucet enabled.
	TreasuryDepositsEndpoint = "/treasury/deposits"
	// TreasuryHoldingEndpoint returns the holding of an asset, given as the
	// "asset" query parameter, owned by an address
	TreasuryHoldingEndpoint = "/treasury/holdings/{" + AddressURLParam + "}"
)
