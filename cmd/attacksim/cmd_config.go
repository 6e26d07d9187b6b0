package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage attacksim configuration",
		Long: `View and modify attacksim configuration settings.

Configuration is stored in ~/.attacksim/config.yaml. Environment variables
(ATTACKSIM_MODE, ATTACKSIM_CEILING, ATTACKSIM_LOG_LEVEL, ...) override the
file at load time.

Examples:
  attacksim config list                                  # Show all settings
  attacksim config get simulation.ceiling                # Get a specific setting
  attacksim config set simulation.mode bruteforce        # Set a setting
  attacksim config set publish.amqp_url '${AMQP_URL}'    # Keep the secret in the environment`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			path, err := configPath(cmd)
			if err != nil {
				return err
			}
			cfg, err := config.LoadPath(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if jsonOut {
				// Credentials in connection strings never reach the output
				return json.NewEncoder(cmd.OutOrStdout()).Encode(cfg.Redacted())
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Configuration (%s):\n", path)
			for _, section := range configKeys {
				fmt.Fprintln(w)
				fmt.Fprintf(w, "%s:\n", section.title)
				for _, key := range section.keys {
					value, _ := getConfigValue(cfg, key)
					fmt.Fprintf(w, "  %-28s %v\n", key+":", displayValue(value))
				}
			}
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]

			path, err := configPath(cmd)
			if err != nil {
				return err
			}
			cfg, err := config.LoadPath(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			value, found := getConfigValue(cfg, key)
			if !found {
				if jsonOut {
					json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
						"error": "key not found",
						"key":   key,
					})
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Unknown configuration key: %s\n", key)
				}
				return nil
			}

			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"key":   key,
					"value": value,
				})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, displayValue(value))
			}

			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]
			value := args[1]

			path, err := configPath(cmd)
			if err != nil {
				return err
			}
			// Edit the file as stored so environment overrides and expanded
			// secrets are not written back.
			cfg, err := config.LoadStored(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := setConfigValue(cfg, key, value); err != nil {
				if jsonOut {
					json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
						"error": err.Error(),
						"key":   key,
					})
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Error: %v\n", err)
				}
				return nil
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid value for %s: %w", key, err)
			}

			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"status": "updated",
					"key":    key,
					"value":  value,
				})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			}

			return nil
		},
	}
}

var configKeys = []struct {
	title string
	keys  []string
}{
	{"Simulation", []string{
		"simulation.mode", "simulation.encoding", "simulation.ceiling",
		"simulation.dictionary_delay", "simulation.bruteforce_delay", "simulation.yield_every",
	}},
	{"Logging", []string{"logging.level"}},
	{"History", []string{"history.backend", "history.path", "history.mongo_uri", "history.mongo_database"}},
	{"Publish", []string{"publish.amqp_url", "publish.queue"}},
	{"Server", []string{"server.addr", "server.rate_per_minute", "server.burst", "server.wordlist_dirs"}},
}

// getConfigValue retrieves a configuration value by dot-notation key.
// Connection strings are returned redacted.
func getConfigValue(cfg *config.AttackSimConfig, key string) (interface{}, bool) {
	switch key {
	case "simulation.mode":
		return cfg.Simulation.Mode, true
	case "simulation.encoding":
		return cfg.Simulation.Encoding, true
	case "simulation.ceiling":
		return cfg.Simulation.Ceiling, true
	case "simulation.dictionary_delay":
		return cfg.Simulation.DictionaryDelay.String(), true
	case "simulation.bruteforce_delay":
		return cfg.Simulation.BruteForceDelay.String(), true
	case "simulation.yield_every":
		return cfg.Simulation.YieldEvery, true
	case "logging.level":
		return cfg.Logging.Level, true
	case "history.backend":
		return cfg.History.Backend, true
	case "history.path":
		return cfg.History.Path, true
	case "history.mongo_uri":
		return config.RedactURL(cfg.History.MongoURI), true
	case "history.mongo_database":
		return cfg.History.MongoDatabase, true
	case "publish.amqp_url":
		return config.RedactURL(cfg.Publish.AMQPURL), true
	case "publish.queue":
		return cfg.Publish.Queue, true
	case "server.addr":
		return cfg.Server.Addr, true
	case "server.rate_per_minute":
		return cfg.Server.RatePerMinute, true
	case "server.burst":
		return cfg.Server.Burst, true
	case "server.wordlist_dirs":
		return strings.Join(cfg.Server.WordlistDirs, ","), true
	default:
		return nil, false
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.AttackSimConfig, key, value string) error {
	switch key {
	case "simulation.mode":
		cfg.Simulation.Mode = value
	case "simulation.encoding":
		cfg.Simulation.Encoding = value
	case "simulation.ceiling":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ceiling: %s (must be a positive integer)", value)
		}
		cfg.Simulation.Ceiling = n
	case "simulation.dictionary_delay":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %s", value)
		}
		cfg.Simulation.DictionaryDelay = d
	case "simulation.bruteforce_delay":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %s", value)
		}
		cfg.Simulation.BruteForceDelay = d
	case "simulation.yield_every":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid yield interval: %s", value)
		}
		cfg.Simulation.YieldEvery = n
	case "logging.level":
		cfg.Logging.Level = strings.ToLower(value)
	case "history.backend":
		cfg.History.Backend = value
	case "history.path":
		cfg.History.Path = value
	case "history.mongo_uri":
		cfg.History.MongoURI = value
	case "history.mongo_database":
		cfg.History.MongoDatabase = value
	case "publish.amqp_url":
		cfg.Publish.AMQPURL = value
	case "publish.queue":
		cfg.Publish.Queue = value
	case "server.addr":
		cfg.Server.Addr = value
	case "server.rate_per_minute":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid rate: %s (must be a number)", value)
		}
		cfg.Server.RatePerMinute = f
	case "server.burst":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid burst: %s (must be an integer)", value)
		}
		cfg.Server.Burst = n
	case "server.wordlist_dirs":
		cfg.Server.WordlistDirs = nil
		for _, dir := range strings.Split(value, ",") {
			if dir = strings.TrimSpace(dir); dir != "" {
				cfg.Server.WordlistDirs = append(cfg.Server.WordlistDirs, dir)
			}
		}
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// displayValue renders empty strings as "(not set)".
func displayValue(v interface{}) interface{} {
	if s, ok := v.(string); ok && s == "" {
		return "(not set)"
	}
	return v
}
