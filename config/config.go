// Package config loads the governance node configuration from command line
// flags, GOVERNANCE_ prefixed environment variables and an optional .env
// file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vocdoni/zk-governance/crypto/ecc/curves"
	"github.com/vocdoni/zk-governance/log"
	"github.com/vocdoni/zk-governance/types"
)

// EnvPrefix prefixes every environment variable read by the node, e.g.
// GOVERNANCE_API_PORT for api.port.
const EnvPrefix = "GOVERNANCE"

const (
	EligibilityNone   = "none"
	EligibilityCensus = "census"

	ProofsPresence   = "presence"
	ProofsDecryption = "decryption"
)

// Config is the governance node configuration.
type Config struct {
	DataDir string
	Log     LogConfig
	API     APIConfig
	Tally   TallyConfig
	Gov     GovernanceConfig
}

// LogConfig configures the logger, see log.Init.
type LogConfig struct {
	Level  string
	Output string
}

// APIConfig configures the HTTP API.
type APIConfig struct {
	Host   string
	Port   int
	Faucet bool
	// LinearCensus weights census snapshots by balance instead of its
	// square root.
	LinearCensus bool
	// Keys authenticate the write and tally endpoints. Empty leaves them
	// open.
	Keys     []string
	KeyRate  float64
	KeyBurst int
}

// TallyConfig configures the background tally.
type TallyConfig struct {
	Interval time.Duration
	MaxValue uint64
	Curve    string
	Workers  int
}

// GovernanceConfig configures the proposal engine.
type GovernanceConfig struct {
	Program     string
	Eligibility string
	Proofs      string
	Relayers    []types.HexBytes
}

// Flags returns the flag set of the node with its defaults.
func Flags() *flag.FlagSet {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	fs := flag.NewFlagSet("governanced", flag.ContinueOnError)
	fs.String("env-file", ".env", "environment file to load, ignored if missing")
	fs.String("datadir", filepath.Join(home, ".zk-governance"), "data directory")
	fs.String("log.level", log.LogLevelInfo, "log level (debug, info, warn, error)")
	fs.String("log.output", "stdout", "log output (stdout, stderr or a file path)")
	fs.String("api.host", "0.0.0.0", "API host")
	fs.Int("api.port", 9090, "API port")
	fs.Bool("api.faucet", false, "enable the mint and deposit endpoints")
	fs.Bool("api.linearCensus", false, "weight census snapshots by balance instead of its square root")
	fs.StringSlice("api.keys", nil, "API keys accepted on the protected endpoints, empty disables authentication")
	fs.Float64("api.keyRate", 5, "requests per second allowed for each API key")
	fs.Int("api.keyBurst", 20, "request burst allowed for each API key")
	fs.Duration("tally.interval", 10*time.Second, "interval between background tally refreshes, 0 disables them")
	fs.Uint64("tally.maxValue", 1<<24, "largest total a tally reveal searches for")
	fs.String("tally.curve", curves.DefaultCurve, "curve of the tally keys")
	fs.Int("tally.workers", 4, "proposals refreshed concurrently")
	fs.String("governance.program", "zk-governance", "program id used to derive proposal addresses")
	fs.String("governance.eligibility", EligibilityCensus, "voter eligibility check (none, census)")
	fs.String("governance.proofs", ProofsDecryption, "tally proof check (presence, decryption)")
	fs.StringSlice("governance.relayers", nil, "hex addresses allowed to finalize, empty allows anyone")
	return fs
}

// Load parses args with the node flags, reads the environment and returns
// the validated configuration.
func Load(args []string) (*Config, error) {
	fs := Flags()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	envFile, err := fs.GetString("env-file")
	if err != nil {
		return nil, err
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	conf := &Config{
		DataDir: v.GetString("datadir"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Output: v.GetString("log.output"),
		},
		API: APIConfig{
			Host:         v.GetString("api.host"),
			Port:         v.GetInt("api.port"),
			Faucet:       v.GetBool("api.faucet"),
			LinearCensus: v.GetBool("api.linearCensus"),
			Keys:         v.GetStringSlice("api.keys"),
			KeyRate:      v.GetFloat64("api.keyRate"),
			KeyBurst:     v.GetInt("api.keyBurst"),
		},
		Tally: TallyConfig{
			Interval: v.GetDuration("tally.interval"),
			MaxValue: v.GetUint64("tally.maxValue"),
			Curve:    v.GetString("tally.curve"),
			Workers:  v.GetInt("tally.workers"),
		},
		Gov: GovernanceConfig{
			Program:     v.GetString("governance.program"),
			Eligibility: v.GetString("governance.eligibility"),
			Proofs:      v.GetString("governance.proofs"),
		},
	}
	for _, r := range v.GetStringSlice("governance.relayers") {
		addr, err := types.HexStringToHexBytes(r)
		if err != nil {
			return nil, fmt.Errorf("invalid relayer %q: %w", r, err)
		}
		conf.Gov.Relayers = append(conf.Gov.Relayers, addr)
	}
	return conf, conf.Validate()
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	switch {
	case c.DataDir == "":
		return fmt.Errorf("datadir is required")
	case c.API.Port < 0 || c.API.Port > 65535:
		return fmt.Errorf("invalid api.port %d", c.API.Port)
	case len(c.API.Keys) > 0 && (c.API.KeyRate <= 0 || c.API.KeyBurst <= 0):
		return fmt.Errorf("api.keyRate and api.keyBurst must be positive")
	case c.Tally.Interval < 0:
		return fmt.Errorf("invalid tally.interval %s", c.Tally.Interval)
	case c.Tally.MaxValue == 0:
		return fmt.Errorf("tally.maxValue must be positive")
	case c.Tally.Workers <= 0:
		return fmt.Errorf("tally.workers must be positive")
	case !curves.IsValid(c.Tally.Curve):
		return fmt.Errorf("unsupported tally.curve %q", c.Tally.Curve)
	case c.Gov.Program == "":
		return fmt.Errorf("governance.program is required")
	}
	switch c.Log.Level {
	case log.LogLevelDebug, log.LogLevelInfo, log.LogLevelWarn, log.LogLevelError:
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	switch c.Gov.Eligibility {
	case EligibilityNone, EligibilityCensus:
	default:
		return fmt.Errorf("invalid governance.eligibility %q", c.Gov.Eligibility)
	}
	switch c.Gov.Proofs {
	case ProofsPresence, ProofsDecryption:
	default:
		return fmt.Errorf("invalid governance.proofs %q", c.Gov.Proofs)
	}
	return nil
}
