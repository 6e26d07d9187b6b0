package mcp

import (
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/history"
)

// AttackSimulateInput defines the input for the attack_simulate tool.
type AttackSimulateInput struct {
	Mode        string   `json:"mode" jsonschema:"Attack mode: dictionary or bruteforce"`
	Encoding    string   `json:"encoding,omitempty" jsonschema:"Target encoding: plain (default) or hashed (toy-hash digest)"`
	Target      string   `json:"target" jsonschema:"The password or toy-hash digest to search for"`
	Ceiling     int      `json:"ceiling" jsonschema:"Maximum number of candidates to evaluate"`
	Wordlist    []string `json:"wordlist,omitempty" jsonschema:"Candidate words for dictionary mode"`
	WordlistRef string   `json:"wordlist_ref,omitempty" jsonschema:"Dictionary source when wordlist is empty: common for the built-in list or a file inside the allowed wordlist directories"`
}

// AttackSimulateOutput defines the output for the attack_simulate tool.
type AttackSimulateOutput struct {
	RunID     string `json:"run_id" jsonschema:"Identifier of the recorded run"`
	Cracked   bool   `json:"cracked" jsonschema:"Whether a candidate matched the target"`
	Match     string `json:"match,omitempty" jsonschema:"The matching candidate when cracked"`
	Attempts  int    `json:"attempts" jsonschema:"Number of candidates evaluated"`
	ElapsedMS int64  `json:"elapsed_ms" jsonschema:"Run duration in milliseconds"`
	Cancelled bool   `json:"cancelled,omitempty" jsonschema:"Whether the run was stopped before finishing"`
	Verdict   string `json:"verdict" jsonschema:"Short outcome line"`
	Analysis  string `json:"analysis" jsonschema:"What the outcome says about the password"`
}

// ToyHashInput defines the input for the toy_hash tool.
type ToyHashInput struct {
	Input string `json:"input" jsonschema:"Text to hash"`
}

// ToyHashOutput defines the output for the toy_hash tool.
type ToyHashOutput struct {
	Hash  string `json:"hash" jsonschema:"Lowercase hexadecimal digest, usable as a hashed target"`
	Value int32  `json:"value" jsonschema:"The signed 32-bit accumulator the digest encodes"`
}

// AttackHistoryInput defines the input for the attack_history tool.
type AttackHistoryInput struct {
	Limit int  `json:"limit,omitempty" jsonschema:"Maximum number of runs to return, newest first (default: 20)"`
	Clear bool `json:"clear,omitempty" jsonschema:"Delete all recorded runs instead of listing them"`
}

// AttackHistoryOutput defines the output for the attack_history tool.
type AttackHistoryOutput struct {
	Runs    []history.Record `json:"runs" jsonschema:"Recorded runs, newest first"`
	Summary history.Summary  `json:"summary" jsonschema:"Aggregate over all recorded runs"`
	Cleared int              `json:"cleared,omitempty" jsonschema:"Number of runs deleted when clear was set"`
}
