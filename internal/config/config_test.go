package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		Addr:          ":3000",
		AllowOrigins:  "http://localhost:5173",
		LogLevel:      "info",
		MinDepth:      3,
		MaxDepth:      6,
		ClockTime:     600 * time.Second,
		SearchTimeout: 60 * time.Second,
	}
	if cfg != want {
		t.Fatalf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoadEnvironmentAndFlags(t *testing.T) {
	t.Setenv("CHESSAI_ADDR", ":9000")
	t.Setenv("CHESSAI_MAX_DEPTH", "4")
	t.Setenv("CHESSAI_SEARCH_SEED", "42")
	t.Setenv("CHESSAI_MIN_DEPTH", "not a number")

	cfg, err := Load([]string{"-addr", ":9100", "-clock-seconds", "30"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9100" {
		t.Fatalf("flag should beat env: addr = %q", cfg.Addr)
	}
	if cfg.MaxDepth != 4 || cfg.SearchSeed != 42 {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.MinDepth != 3 {
		t.Fatalf("unparsable env should fall back: min depth = %d", cfg.MinDepth)
	}
	if cfg.ClockTime != 30*time.Second {
		t.Fatalf("clock = %s", cfg.ClockTime)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero min depth", []string{"-min-depth", "0"}},
		{"max below min", []string{"-min-depth", "4", "-max-depth", "3"}},
		{"no clock", []string{"-clock-seconds", "0"}},
		{"no search timeout", []string{"-search-timeout", "-1"}},
		{"empty addr", []string{"-addr", ""}},
		{"wildcard origin", []string{"-allow-origins", "*"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.args); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("error = %v, want ErrInvalidConfig", err)
			}
		})
	}
	if _, err := Load([]string{"-no-such-flag"}); err == nil {
		t.Fatalf("unknown flag accepted")
	}
}
