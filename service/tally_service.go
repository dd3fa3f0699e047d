package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/vocdoni/zk-governance/crypto/ecc"
	"github.com/vocdoni/zk-governance/crypto/ecc/curves"
	"github.com/vocdoni/zk-governance/crypto/elgamal"
	"github.com/vocdoni/zk-governance/log"
	"github.com/vocdoni/zk-governance/storage"
	"github.com/vocdoni/zk-governance/tally"
	"github.com/vocdoni/zk-governance/types"
	"go.vocdoni.io/dvote/db"
	"golang.org/x/sync/errgroup"
)

// TallyConfig configures the TallyService.
type TallyConfig struct {
	// Interval between background refreshes. Zero disables them.
	Interval time.Duration
	// MaxValue bounds the totals that can be revealed.
	MaxValue uint64
	// Curve of the generated tally keys.
	Curve string
	// Workers is the number of proposals refreshed concurrently.
	Workers int
}

// aggregatorEntry serializes the syncs of one aggregator.
type aggregatorEntry struct {
	mu  sync.Mutex
	agg *tally.Aggregator
}

// TallyService keeps a running homomorphic tally of every proposal with a
// tally key. It generates the keys when proposals are created, folds new
// ballots in the background and reveals the totals with a proof on demand.
type TallyService struct {
	storage *storage.Storage
	conf    TallyConfig

	mu          sync.Mutex
	aggregators map[types.ProposalID]*aggregatorEntry
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewTally creates a new TallyService. Missing config values get defaults.
func NewTally(stg *storage.Storage, conf TallyConfig) *TallyService {
	if conf.Curve == "" {
		conf.Curve = curves.DefaultCurve
	}
	if conf.MaxValue == 0 {
		conf.MaxValue = 1 << 24
	}
	if conf.Workers <= 0 {
		conf.Workers = 4
	}
	return &TallyService{
		storage:     stg,
		conf:        conf,
		aggregators: make(map[types.ProposalID]*aggregatorEntry),
	}
}

// InitializeKeys generates the tally key pair of a new private proposal and
// stores it in the proposal creation transaction. It is meant to be
// registered as a governance init hook.
func (ts *TallyService) InitializeKeys(wTx db.WriteTx, p *types.Proposal) error {
	if p.Version != types.SchemaPrivateCommitment {
		return nil
	}
	curve, err := curves.New(ts.conf.Curve)
	if err != nil {
		return err
	}
	pub, priv, err := elgamal.GenerateKey(curve)
	if err != nil {
		return fmt.Errorf("tally key: %w", err)
	}
	return ts.storage.SetEncryptionKeys(wTx, p.ID, pub, priv)
}

// TallyKey returns the public tally key of a proposal.
func (ts *TallyService) TallyKey(id types.ProposalID) (types.HexBytes, string, error) {
	pub, _, err := ts.keys(id)
	if err != nil {
		return nil, "", err
	}
	return pub.Marshal(), pub.Type(), nil
}

// Start begins the background refresh. It returns an error if the service
// is already running.
func (ts *TallyService) Start(ctx context.Context) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.cancel != nil {
		return fmt.Errorf("service already running")
	}
	ctx, ts.cancel = context.WithCancel(ctx)
	ts.done = make(chan struct{})
	go ts.run(ctx, ts.done)
	return nil
}

// Stop halts the background refresh and waits for it to return.
func (ts *TallyService) Stop() {
	ts.mu.Lock()
	cancel, done := ts.cancel, ts.done
	ts.cancel, ts.done = nil, nil
	ts.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (ts *TallyService) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	if ts.conf.Interval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(ts.conf.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ts.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Warnw("tally refresh failed", "error", err.Error())
			}
		}
	}
}

// Refresh folds the new ballots of every active proposal with a tally key.
func (ts *TallyService) Refresh(ctx context.Context) error {
	proposals, err := ts.storage.ListProposals(func(p *types.Proposal) bool {
		return !p.IsExecuted && p.Version == types.SchemaPrivateCommitment
	})
	if err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ts.conf.Workers)
	for _, p := range proposals {
		id := p.ID
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := ts.sync(id)
			if errors.Is(err, tally.ErrNoTallyKey) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// LiveTally returns the current encrypted totals of a proposal after
// folding any ballot not seen yet.
func (ts *TallyService) LiveTally(id types.ProposalID) (*tally.Progress, error) {
	p, err := ts.storage.Proposal(id)
	if err != nil {
		return nil, err
	}
	agg, err := ts.sync(id)
	if err != nil {
		return nil, err
	}
	return &tally.Progress{
		ProposalID: id,
		VoteCount:  p.VoteCount,
		Ballots:    agg.Count(),
		Spoiled:    agg.Spoiled(),
		Sums:       agg.Sums().Serialize(),
	}, nil
}

// ProveTally reveals the yes and no totals of a proposal together with the
// proof to pass to Finalize. Voting must be closed and the reveal covers the
// whole ballot sequence.
func (ts *TallyService) ProveTally(id types.ProposalID) (*tally.Result, error) {
	_, priv, err := ts.keys(id)
	if err != nil {
		return nil, err
	}
	p, err := ts.storage.Proposal(id)
	if err != nil {
		return nil, err
	}
	if p.Open() {
		return nil, fmt.Errorf("%w: proposal %s has %d votes", tally.ErrVotingOpen, id, p.VoteCount)
	}
	agg, err := ts.sync(id)
	if err != nil {
		return nil, err
	}
	if agg.Processed() != p.VoteCount {
		return nil, fmt.Errorf("tally of %s covers %d of %d ballots", id, agg.Processed(), p.VoteCount)
	}
	result, err := agg.Reveal(priv, ts.conf.MaxValue)
	if err != nil {
		return nil, err
	}
	log.Infow("tally revealed",
		"proposal", id.String(),
		"yes", result.Yes,
		"no", result.No,
		"ballots", result.Ballots,
		"spoiled", result.Spoiled)
	return result, nil
}

// sync folds the ballots stored after the last processed position into the
// aggregator of the proposal, creating it on first use.
func (ts *TallyService) sync(id types.ProposalID) (*tally.Aggregator, error) {
	ts.mu.Lock()
	entry, ok := ts.aggregators[id]
	if !ok {
		entry = &aggregatorEntry{}
		ts.aggregators[id] = entry
	}
	ts.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.agg == nil {
		pub, _, err := ts.keys(id)
		if err != nil {
			return nil, err
		}
		entry.agg = tally.NewAggregator(id, pub)
	}
	from := entry.agg.Processed()
	if err := ts.storage.Ballots(id, from, func(rec *types.NullifierRecord) bool {
		tally.AddRecord(entry.agg, rec)
		return true
	}); err != nil {
		return nil, err
	}
	if n := entry.agg.Processed() - from; n > 0 {
		log.Debugw("tally synced", "proposal", id.String(), "new", n, "total", entry.agg.Processed())
	}
	return entry.agg, nil
}

func (ts *TallyService) keys(id types.ProposalID) (pub ecc.Point, priv *big.Int, err error) {
	pub, priv, err = ts.storage.EncryptionKeys(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: %s", tally.ErrNoTallyKey, id)
	}
	return pub, priv, err
}
