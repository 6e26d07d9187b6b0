package main

import (
	"encoding/json"
	"fmt"

	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/toyhash"
	"github.com/spf13/cobra"
)

func newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <text>",
		Short: "Print the toy hash of text",
		Long: `Print the toy-hash digest of text, for use as a hashed simulation target.

The toy hash is a 32-bit "times 31" string hash with trivial collisions.
It is NOT a password hash.

Examples:
  attacksim hash secret
  attacksim simulate --mode bruteforce --encoding hashed --target $(attacksim hash ab)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			digest := toyhash.Sum(args[0])

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"hash":  digest,
					"value": toyhash.Sum32(args[0]),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), digest)
			return nil
		},
	}
}
