// Package config loads process settings from the environment, an optional
// .env file and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the resolver reads.
const EnvPrefix = "VIMY_RESOLVE_"

// Output formats for run and batch results.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Socket   string `env:"SOCKET" envDefault:"/tmp/vimy-resolve.sock"`
	Scenario string `env:"SCENARIO"`
	Format   string `env:"FORMAT" envDefault:"text"`
	Runs     int    `env:"RUNS" envDefault:"100"`
	Workers  int    `env:"WORKERS"`
	Seed     int64  `env:"SEED"`
	// RoundLimit overrides the scenario's game timer when positive.
	RoundLimit int `env:"ROUND_LIMIT"`
	// Quiet drops per-action reports from single runs.
	Quiet bool `env:"QUIET"`
}

// LoadDotEnv loads the given .env files (".env" when none are named) into
// the process environment. Missing files are not an error; variables
// already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ParseConfig reads the process environment and then parses flags from
// args into a Config.
func ParseConfig(fset *flag.FlagSet, args []string) (Config, error) {
	return parseConfig(fset, args, nil)
}

// parseConfig reads environ instead of the process environment when it
// is non-nil.
func parseConfig(fset *flag.FlagSet, args []string, environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fset.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	fset.StringVar(&cfg.Socket, "socket", cfg.Socket, "unix socket path for serve")
	fset.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "scenario file (.yaml, .yml or .lua)")
	fset.StringVar(&cfg.Format, "format", cfg.Format, "output format: text or json")
	fset.IntVar(&cfg.Runs, "runs", cfg.Runs, "number of battles in a batch")
	fset.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent battles in a batch (0 = GOMAXPROCS)")
	fset.Int64Var(&cfg.Seed, "seed", cfg.Seed, "dice seed; 0 keeps the scenario's or draws one")
	fset.IntVar(&cfg.RoundLimit, "round-limit", cfg.RoundLimit, "override the scenario's game timer")
	fset.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "keep only summary reports")
	if args == nil {
		args = []string{}
	}
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges the flag and env parsers can't.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if c.Runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", c.Runs)
	}
	if c.Workers < 0 || c.RoundLimit < 0 {
		return fmt.Errorf("workers and round limit must not be negative")
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}
