package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "attacksim",
		Short: "Educational password attack simulator",
		Long: `attacksim demonstrates why weak passwords fall quickly.

It runs dictionary and brute-force attacks against a password or toy-hash
digest that you supply, reports how many attempts were needed and records
each run. Nothing outside this process is ever attacked; the toy hash is
deliberately weak and must never protect a real secret.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.attacksim/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Override logging.level (warn, info, debug, trace)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newHashCmd(),
		newSimulateCmd(),
		newHistoryCmd(),
		newServeCmd(),
		newMCPServerCmd(),
		newConfigCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "attacksim version %s\n", version)
			}
		},
	}
}
