package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"blanks/internal/app"
	"blanks/internal/config"
	"blanks/internal/domain"
	httpTransport "blanks/internal/transport/http"
)

func main() {
	cfg := config.New()
	cmd := newCmd(cfg)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newCmd(cfg *config.Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("BLANKS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "blanks",
		Short:         "A fill-in-the-blank party card game server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	cfg.RegisterFlags(fs)

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}

func run(cfg *config.Config) error {
	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	set := app.DefaultCardSet()
	if cfg.Game.CardsFile != "" {
		loaded, err := app.LoadCardSet(cfg.Game.CardsFile)
		if err != nil {
			return err
		}
		set = loaded
	}

	logger.Info("starting blanks game server",
		"env", cfg.Server.Env,
		"addr", cfg.Addr(),
		"prompts", len(set.Prompts),
		"responses", len(set.Responses),
	)

	sessionCfg := app.SessionConfig{
		Game: domain.Settings{
			MinPlayers: cfg.Game.MinPlayers,
			MaxPlayers: cfg.Game.MaxPlayers,
			HandSize:   cfg.Game.HandSize,
			Reshuffle:  cfg.Game.Reshuffle,
		},
		HeartbeatTimeout: cfg.Game.HeartbeatTimeout,
		DisconnectGrace:  cfg.Game.DisconnectGrace,
		SweepInterval:    cfg.Game.SweepInterval,
		RoundRestDelay:   cfg.Game.RoundRestDelay,
	}

	hub := app.NewGameHub(set, sessionCfg, cfg.Game.RoomCodeLength, logger, clockwork.NewRealClock())
	defer hub.Close()

	server := httpTransport.NewServer(cfg, hub, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")

	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
