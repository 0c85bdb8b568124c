package config

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected default address %q", cfg.Addr())
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Fatal("default env should be development")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too low", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"min players below two", func(c *Config) { c.Game.MinPlayers = 1 }},
		{"max below min", func(c *Config) { c.Game.MinPlayers = 5; c.Game.MaxPlayers = 4 }},
		{"hand size too small", func(c *Config) { c.Game.HandSize = 1 }},
		{"zero heartbeat timeout", func(c *Config) { c.Game.HeartbeatTimeout = 0 }},
		{"zero disconnect grace", func(c *Config) { c.Game.DisconnectGrace = 0 }},
		{"zero sweep interval", func(c *Config) { c.Game.SweepInterval = 0 }},
		{"negative round rest", func(c *Config) { c.Game.RoundRestDelay = -1 }},
		{"room code too short", func(c *Config) { c.Game.RoomCodeLength = 3 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := New()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestFlagsOverrideDefaults(t *testing.T) {
	cfg := New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(fs)

	err := fs.Parse([]string{
		"--port", "9000",
		"--min-players", "3",
		"--hand-size", "10",
		"--round-rest", "5s",
		"--log-format", "json",
	})
	if err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Fatalf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Game.MinPlayers != 3 {
		t.Fatalf("min players = %d, want 3", cfg.Game.MinPlayers)
	}
	if cfg.Game.HandSize != 10 {
		t.Fatalf("hand size = %d, want 10", cfg.Game.HandSize)
	}
	if got := cfg.Game.RoundRestDelay.String(); got != "5s" {
		t.Fatalf("round rest = %s, want 5s", got)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("log format = %q, want json", cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("parsed config invalid: %v", err)
	}
}

func TestRoundRestMayBeZero(t *testing.T) {
	cfg := New()
	cfg.Game.RoundRestDelay = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero round-rest should be allowed: %v", err)
	}
}
