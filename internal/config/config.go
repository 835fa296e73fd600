package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Addr          string
	AllowOrigins  string
	LogLevel      string
	SearchSeed    uint64
	MinDepth      int
	MaxDepth      int
	ClockTime     time.Duration
	SearchTimeout time.Duration
}

// Load parses args (without the program name). Every flag falls back to a
// CHESSAI_* environment variable, then to its default.
func Load(args []string) (Config, error) {
	var cfg Config
	var clockSeconds, searchSeconds int

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", getenv("CHESSAI_ADDR", ":3000"), "listen address")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", getenv("CHESSAI_ALLOW_ORIGINS", "http://localhost:5173"), "comma-separated CORS origins")
	fs.StringVar(&cfg.LogLevel, "log-level", getenv("CHESSAI_LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	fs.Uint64Var(&cfg.SearchSeed, "search-seed", getenu("CHESSAI_SEARCH_SEED", 0), "seed for the engine's tie-break (0 = random)")
	fs.IntVar(&cfg.MinDepth, "min-depth", geteni("CHESSAI_MIN_DEPTH", 3), "minimum search depth in plies")
	fs.IntVar(&cfg.MaxDepth, "max-depth", geteni("CHESSAI_MAX_DEPTH", 6), "maximum search depth in plies")
	fs.IntVar(&clockSeconds, "clock-seconds", geteni("CHESSAI_CLOCK_SECONDS", 600), "time per side")
	fs.IntVar(&searchSeconds, "search-timeout", geteni("CHESSAI_SEARCH_TIMEOUT", 60), "seconds an engine request may wait for a search")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.ClockTime = time.Duration(clockSeconds) * time.Second
	cfg.SearchTimeout = time.Duration(searchSeconds) * time.Second

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: empty addr", ErrInvalidConfig)
	case c.AllowOrigins == "" || strings.TrimSpace(c.AllowOrigins) == "*":
		// cors refuses a wildcard origin when credentials are allowed
		return fmt.Errorf("%w: allow-origins must list explicit origins", ErrInvalidConfig)
	case c.MinDepth < 1:
		return fmt.Errorf("%w: min depth %d < 1", ErrInvalidConfig, c.MinDepth)
	case c.MaxDepth < c.MinDepth:
		return fmt.Errorf("%w: max depth %d < min depth %d", ErrInvalidConfig, c.MaxDepth, c.MinDepth)
	case c.ClockTime <= 0:
		return fmt.Errorf("%w: clock time %s", ErrInvalidConfig, c.ClockTime)
	case c.SearchTimeout <= 0:
		return fmt.Errorf("%w: search timeout %s", ErrInvalidConfig, c.SearchTimeout)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func geteni(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getenu(key string, def uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
	}
	return def
}
