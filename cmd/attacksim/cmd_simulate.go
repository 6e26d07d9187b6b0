package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/attack"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/config"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/history"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/sanitize"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/simulate"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/wordlist"
	"github.com/spf13/cobra"
)

// simulateOutput is the --json result of a simulate run.
type simulateOutput struct {
	RunID     string `json:"run_id"`
	Mode      string `json:"mode"`
	Encoding  string `json:"encoding"`
	Ceiling   int    `json:"ceiling"`
	Cracked   bool   `json:"cracked"`
	Match     string `json:"match,omitempty"`
	Attempts  int    `json:"attempts"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Cancelled bool   `json:"cancelled,omitempty"`
	Verdict   string `json:"verdict"`
	Analysis  string `json:"analysis"`
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a dictionary or brute-force attack simulation",
		Long: `Run an attack simulation against a target you supply.

Dictionary mode tries each word of a wordlist in order. Brute-force mode
enumerates every string over a 72-character set, shortest first, up to 8
characters. Both stop at the attempt ceiling. Mode, encoding and ceiling
default to the simulation section of the config file.

Press Ctrl-C to stop a run early; the partial run is still recorded.

Examples:
  attacksim simulate --target letmein                          # common wordlist
  attacksim simulate --target hunter2 --wordlist ./words.txt
  attacksim simulate --mode bruteforce --target ab --ceiling 5000
  attacksim simulate --mode bruteforce --encoding hashed --target c21
  echo -n 's3cret' | attacksim simulate --target - --pace`,
		RunE: runSimulate,
	}

	cmd.Flags().String("mode", "", "Attack mode: dictionary or bruteforce (default from config)")
	cmd.Flags().String("encoding", "", "Target encoding: plain or hashed (default from config)")
	cmd.Flags().String("target", "", "Password or toy-hash digest to find; - reads it from stdin")
	cmd.Flags().String("wordlist", wordlist.CommonName, "Wordlist file for dictionary mode, or \"common\" for the built-in list")
	cmd.Flags().String("ceiling", "", "Maximum attempts (default from config)")
	cmd.Flags().Bool("pace", false, "Pause between attempts like the interactive demo")
	cmd.Flags().Bool("quiet", false, "Do not draw the progress bar")
	cmd.MarkFlagRequired("target")

	return cmd
}

func runSimulate(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	pace, _ := cmd.Flags().GetBool("pace")
	quiet, _ := cmd.Flags().GetBool("quiet")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	runCfg, err := simulateConfig(cmd, a.cfg.Simulation)
	if err != nil {
		return err
	}

	svc := a.svc
	if pace {
		svc = svc.WithRunner(a.cfg.Simulation.Runner(true))
	}

	var onProgress func(attack.Progress)
	if !jsonOut && !quiet {
		out := cmd.ErrOrStderr()
		onProgress = simulate.PercentSteps(runCfg.Ceiling, func(p attack.Progress) {
			renderProgress(out, p.Attempt, runCfg.Ceiling)
		})
	}

	if !jsonOut {
		fmt.Fprintf(cmd.OutOrStdout(), "%s attack on %s (%s), up to %d attempts\n",
			runCfg.Mode.Label(), sanitize.Mask(runCfg.Target), runCfg.Encoding, runCfg.Ceiling)
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	report, err := svc.Run(ctx, history.SourceCLI, runCfg, onProgress)
	if onProgress != nil {
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if err != nil && !errors.Is(err, attack.ErrCancelled) {
		return err
	}

	res := report.Result
	if jsonOut {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(simulateOutput{
			RunID:     report.Record.ID,
			Mode:      runCfg.Mode.String(),
			Encoding:  runCfg.Encoding.String(),
			Ceiling:   runCfg.Ceiling,
			Cracked:   res.Cracked,
			Match:     res.Match,
			Attempts:  res.Attempts,
			ElapsedMS: res.ElapsedMillis(),
			Cancelled: report.Record.Cancelled,
			Verdict:   res.Verdict(),
			Analysis:  res.Analysis(runCfg.Mode),
		})
	}

	w := cmd.OutOrStdout()
	if report.Record.Cancelled {
		fmt.Fprintf(w, "Simulation stopped after %d attempts.\n", res.Attempts)
		return nil
	}
	fmt.Fprintln(w, res.Verdict())
	if res.Cracked {
		fmt.Fprintf(w, "  match:    %s\n", sanitize.Display(res.Match))
	}
	fmt.Fprintf(w, "  attempts: %d\n", res.Attempts)
	fmt.Fprintf(w, "  elapsed:  %.3fs\n", res.Elapsed.Seconds())
	fmt.Fprintln(w)
	fmt.Fprintln(w, res.Analysis(runCfg.Mode))
	return nil
}

// simulateConfig merges flags over the configured defaults into a
// validated attack.Config.
func simulateConfig(cmd *cobra.Command, defaults config.SimulationConfig) (attack.Config, error) {
	modeName, _ := cmd.Flags().GetString("mode")
	if modeName == "" {
		modeName = defaults.Mode
	}
	mode, err := attack.ParseMode(modeName)
	if err != nil {
		return attack.Config{}, err
	}

	encName, _ := cmd.Flags().GetString("encoding")
	if encName == "" {
		encName = defaults.Encoding
	}
	encoding, err := attack.ParseEncoding(encName)
	if err != nil {
		return attack.Config{}, err
	}

	ceiling := defaults.Ceiling
	if raw, _ := cmd.Flags().GetString("ceiling"); raw != "" {
		if ceiling, err = attack.ParseCeiling(raw); err != nil {
			return attack.Config{}, err
		}
	}

	target, _ := cmd.Flags().GetString("target")
	if target == "-" {
		if target, err = readTarget(cmd.InOrStdin()); err != nil {
			return attack.Config{}, err
		}
	}

	cfg := attack.Config{
		Mode:     mode,
		Encoding: encoding,
		Target:   target,
		Ceiling:  ceiling,
	}
	if mode == attack.Dictionary {
		ref, _ := cmd.Flags().GetString("wordlist")
		if cfg.Wordlist, err = wordlist.Resolve(ref); err != nil {
			return attack.Config{}, &attack.ConfigError{Field: "wordlist", Err: err}
		}
	}
	return cfg, cfg.Validate()
}

// readTarget reads the first line of r without its line ending.
func readTarget(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading target from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// renderProgress redraws a one-line progress bar in place.
func renderProgress(w io.Writer, attempt, ceiling int) {
	const width = 30
	pct := attack.Percent(attempt, ceiling)
	filled := int(pct / 100 * width)
	fmt.Fprintf(w, "\rAttempt %d/%d [%s%s] %3.0f%%",
		attempt, ceiling, strings.Repeat("#", filled), strings.Repeat(".", width-filled), pct)
}
