package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
	Env  string // "development" or "production"
}

// GameConfig holds game-related configuration.
type GameConfig struct {
	MinPlayers       int
	MaxPlayers       int
	HandSize         int
	Reshuffle        bool
	HeartbeatTimeout time.Duration
	DisconnectGrace  time.Duration
	SweepInterval    time.Duration
	RoundRestDelay   time.Duration
	RoomCodeLength   int
	CardsFile        string
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Env:  "development",
		},
		Game: GameConfig{
			MinPlayers:       2,
			MaxPlayers:       10,
			HandSize:         7,
			Reshuffle:        true,
			HeartbeatTimeout: 15 * time.Second,
			DisconnectGrace:  2 * time.Minute,
			SweepInterval:    5 * time.Second,
			RoundRestDelay:   10 * time.Second,
			RoomCodeLength:   6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// RegisterFlags binds every setting to a flag. The caller wires the flags to
// BLANKS_* environment variables through viper.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Server.Host, "bind", "b", c.Server.Host, "address to bind to (env: BLANKS_BIND)")
	fs.IntVarP(&c.Server.Port, "port", "p", c.Server.Port, "port to listen on (env: BLANKS_PORT)")
	fs.StringVar(&c.Server.Env, "env", c.Server.Env, "environment: development or production (env: BLANKS_ENV)")

	fs.IntVar(&c.Game.MinPlayers, "min-players", c.Game.MinPlayers, "players required before a round starts (env: BLANKS_MIN_PLAYERS)")
	fs.IntVar(&c.Game.MaxPlayers, "max-players", c.Game.MaxPlayers, "maximum players per room (env: BLANKS_MAX_PLAYERS)")
	fs.IntVar(&c.Game.HandSize, "hand-size", c.Game.HandSize, "response cards held per player (env: BLANKS_HAND_SIZE)")
	fs.BoolVar(&c.Game.Reshuffle, "reshuffle", c.Game.Reshuffle, "rebuild exhausted card pools instead of failing (env: BLANKS_RESHUFFLE)")
	fs.DurationVar(&c.Game.HeartbeatTimeout, "heartbeat-timeout", c.Game.HeartbeatTimeout, "silence before a player is marked disconnected (env: BLANKS_HEARTBEAT_TIMEOUT)")
	fs.DurationVar(&c.Game.DisconnectGrace, "disconnect-grace", c.Game.DisconnectGrace, "time a disconnected player keeps their seat (env: BLANKS_DISCONNECT_GRACE)")
	fs.DurationVar(&c.Game.SweepInterval, "sweep-interval", c.Game.SweepInterval, "liveness sweep period (env: BLANKS_SWEEP_INTERVAL)")
	fs.DurationVar(&c.Game.RoundRestDelay, "round-rest", c.Game.RoundRestDelay, "pause between rounds (env: BLANKS_ROUND_REST)")
	fs.IntVar(&c.Game.RoomCodeLength, "room-code-length", c.Game.RoomCodeLength, "length of generated room codes (env: BLANKS_ROOM_CODE_LENGTH)")
	fs.StringVar(&c.Game.CardsFile, "cards", c.Game.CardsFile, "path to a JSON card set, built-in cards if empty (env: BLANKS_CARDS)")

	fs.StringVar(&c.Logging.Level, "log-level", c.Logging.Level, "log level: debug, info, warn, error (env: BLANKS_LOG_LEVEL)")
	fs.StringVar(&c.Logging.Format, "log-format", c.Logging.Format, "log format: text or json (env: BLANKS_LOG_FORMAT)")
}

// Validate checks the configuration for impossible values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Server.Port)
	}
	if c.Game.MinPlayers < 2 {
		return errors.New("min-players must be at least 2 (a judge plus one submitter)")
	}
	if c.Game.MaxPlayers < c.Game.MinPlayers {
		return fmt.Errorf("max-players (%d) must be at least min-players (%d)", c.Game.MaxPlayers, c.Game.MinPlayers)
	}
	if c.Game.HandSize < 2 {
		return errors.New("hand-size must be at least 2 to cover pick-2 prompts")
	}
	if c.Game.HeartbeatTimeout <= 0 || c.Game.DisconnectGrace <= 0 || c.Game.SweepInterval <= 0 {
		return errors.New("heartbeat-timeout, disconnect-grace and sweep-interval must be positive")
	}
	if c.Game.RoundRestDelay < 0 {
		return errors.New("round-rest cannot be negative")
	}
	if c.Game.RoomCodeLength < 4 {
		return errors.New("room-code-length must be at least 4")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Addr returns the server address in host:port format.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
