package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/vocdoni/zk-governance/api"
	"github.com/vocdoni/zk-governance/config"
	"github.com/vocdoni/zk-governance/governance"
	"github.com/vocdoni/zk-governance/log"
	"github.com/vocdoni/zk-governance/service"
	"github.com/vocdoni/zk-governance/storage"
	"github.com/vocdoni/zk-governance/storage/census"
	"github.com/vocdoni/zk-governance/tally"
	"github.com/vocdoni/zk-governance/treasury"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
)

func main() {
	conf, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log.Init(conf.Log.Level, conf.Log.Output, nil)

	database, err := metadb.New(db.TypePebble, filepath.Join(conf.DataDir, "db"))
	if err != nil {
		log.Fatal(err)
	}
	stg := storage.New(database)
	defer stg.Close()

	program := []byte(conf.Gov.Program)
	ledger := treasury.New(stg.DB(), program)
	tallier := service.NewTally(stg, service.TallyConfig{
		Interval: conf.Tally.Interval,
		MaxValue: conf.Tally.MaxValue,
		Curve:    conf.Tally.Curve,
		Workers:  conf.Tally.Workers,
	})

	opts := []governance.Option{
		governance.WithProgram(program),
		governance.WithInitHook(tallier.InitializeKeys),
		governance.WithRelayers(conf.Gov.Relayers...),
	}
	if conf.Gov.Eligibility == config.EligibilityCensus {
		opts = append(opts, governance.WithEligibilityVerifier(census.Verifier{}))
	}
	if conf.Gov.Proofs == config.ProofsDecryption {
		opts = append(opts, governance.WithProofVerifier(tally.NewVerifier(stg)))
	}
	engine := governance.New(stg, ledger, opts...)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := tallier.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer tallier.Stop()

	apiService := service.NewAPI(&api.APIConfig{
		Engine:   engine,
		Census:   census.NewCensusDB(stg.CensusDB()),
		Treasury: ledger,
		Tally:    tallier,
		Faucet:   conf.API.Faucet,
		Linear:   conf.API.LinearCensus,
		APIKeys:  conf.API.Keys,
		KeyRate:  conf.API.KeyRate,
		KeyBurst: conf.API.KeyBurst,
	}, conf.API.Host, conf.API.Port)
	if err := apiService.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer apiService.Stop()

	host, port := apiService.HostPort()
	log.Infow("governance node started",
		"datadir", conf.DataDir,
		"api", fmt.Sprintf("%s:%d", host, port),
		"eligibility", conf.Gov.Eligibility,
		"proofs", conf.Gov.Proofs,
		"relayers", len(conf.Gov.Relayers),
		"faucet", conf.API.Faucet,
		"apiKeys", len(conf.API.Keys))

	<-ctx.Done()
	log.Info("shutting down")
}
