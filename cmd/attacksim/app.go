package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/config"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/history"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/logging"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/publish"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/simulate"
	"github.com/spf13/cobra"
)

// app is the wiring shared by commands that run or inspect simulations.
type app struct {
	cfg     *config.AttackSimConfig
	dataDir string
	logger  *slog.Logger
	svc     *simulate.Service
}

// configPath returns the --config flag or the default config location.
func configPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p, nil
	}
	return config.DefaultPath()
}

// loadConfig reads and validates the configuration for cmd, applying the
// --log-level override.
func loadConfig(cmd *cobra.Command) (*config.AttackSimConfig, error) {
	path, err := configPath(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = strings.ToLower(lvl)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openApp loads the config and opens the history store, result sink and
// event log. Logs go to stderr so stdout stays clean for results and MCP.
// A broker that cannot be reached is logged and skipped.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dataDir, err := config.Dir()
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

	store, err := history.Open(cmd.Context(), cfg.History, dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	var sink publish.Sink = publish.Discard{}
	if cfg.Publish.AMQPURL != "" {
		p, err := publish.DialAMQP(cfg.Publish.AMQPURL, cfg.Publish.Queue)
		if err != nil {
			logger.Warn("result publishing disabled", "broker", config.RedactURL(cfg.Publish.AMQPURL), "error", err)
		} else {
			sink = p
		}
	}

	return &app{
		cfg:     cfg,
		dataDir: dataDir,
		logger:  logger,
		svc: &simulate.Service{
			Runner: cfg.Simulation.Runner(false),
			Store:  store,
			Sink:   sink,
			Events: logging.NewEventLogger(dataDir, cfg.Logging.Level),
			Logger: logger,
		},
	}, nil
}

// Close releases the store, sink and event log.
func (a *app) Close() error {
	a.svc.Events.Close()
	return errors.Join(a.svc.Sink.Close(), a.svc.Store.Close())
}
