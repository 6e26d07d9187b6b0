package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/backup"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/config"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/history"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded simulation runs",
		Long: `List, summarize or clear recorded simulation runs.

Runs are recorded in the store selected by history.backend (SQLite at
~/.attacksim/history.db by default). Targets are stored masked.

Backups are checksummed, compressed archives kept in ~/.attacksim/backups/
and can be restored into any backend.`,
	}

	cmd.AddCommand(
		newHistoryListCmd(),
		newHistorySummaryCmd(),
		newHistoryClearCmd(),
		newHistoryBackupCmd(),
		newHistoryRestoreCmd(),
		newHistoryBackupsCmd(),
	)

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")
			if limit < 0 {
				return fmt.Errorf("--limit must be non-negative")
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			runs, err := a.svc.Store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list history: %w", err)
			}

			if jsonOut {
				if runs == nil {
					runs = []history.Record{}
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"runs":  runs,
					"count": len(runs),
				})
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "STARTED\tSOURCE\tMODE\tENCODING\tTARGET\tOUTCOME\tATTEMPTS\tELAPSED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d/%d\t%s\n",
					r.StartedAt.Local().Format(time.DateTime), r.Source, r.Mode, r.Encoding,
					r.TargetMask, r.Outcome(), r.Attempts, r.Ceiling,
					time.Duration(r.ElapsedMillis)*time.Millisecond)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 for all)")

	return cmd
}

func newHistorySummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show aggregate statistics over all runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			sum, err := a.svc.Store.Summary(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to summarize history: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(sum)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Runs:           %d\n", sum.Runs)
			fmt.Fprintf(w, "  cracked:      %d\n", sum.Cracked)
			fmt.Fprintf(w, "  exhausted:    %d\n", sum.Exhausted)
			fmt.Fprintf(w, "  cancelled:    %d\n", sum.Cancelled)
			fmt.Fprintf(w, "Total attempts: %d\n", sum.TotalAttempts)
			fmt.Fprintf(w, "Crack rate:     %.1f%%\n", sum.CrackRate*100)
			return nil
		},
	}
}

func newHistoryClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("refusing to clear history without --yes")
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.svc.Store.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"status":  "cleared",
					"cleared": n,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d runs.\n", n)
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "Confirm deletion")

	return cmd
}

func newHistoryBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup [path]",
		Short: "Archive all recorded runs",
		Long: `Write every recorded run to a compressed archive.

Without a path the archive is written to ~/.attacksim/backups/ and older
archives there are pruned by --keep and --max-age.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			keep, _ := cmd.Flags().GetInt("keep")
			maxAgeStr, _ := cmd.Flags().GetString("max-age")

			var policy backup.AllPolicy
			if keep > 0 {
				policy = append(policy, backup.CountPolicy{MaxCount: keep})
			}
			if maxAgeStr != "" {
				maxAge, err := backup.ParseDuration(maxAgeStr)
				if err != nil {
					return fmt.Errorf("invalid --max-age: %w", err)
				}
				policy = append(policy, backup.AgePolicy{MaxAge: maxAge})
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			now := time.Now()
			dir := backup.DefaultDir(a.dataDir)
			path := backup.GeneratePath(dir, now)
			if len(args) == 1 {
				path = args[0]
			}

			header, err := backup.Backup(cmd.Context(), a.svc.Store, path, now)
			if err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}

			var pruned []string
			if len(args) == 0 && len(policy) > 0 {
				if pruned, err = backup.ApplyRetention(dir, policy, now); err != nil {
					a.logger.Warn("backup retention failed", "dir", dir, "error", err)
				}
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"path":    path,
					"records": header.RecordCount,
					"pruned":  len(pruned),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d runs to %s\n", header.RecordCount, path)
			if len(pruned) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d old backups.\n", len(pruned))
			}
			return nil
		},
	}

	cmd.Flags().Int("keep", 10, "Number of archives to keep in the backup directory (0 keeps all)")
	cmd.Flags().String("max-age", "", "Delete archives older than this (e.g. 30d, 2w, 720h)")

	return cmd
}

func newHistoryRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <path>",
		Short: "Restore runs from an archive",
		Long: `Add the runs in an archive to the history store.

Runs already present are skipped. --replace clears the store first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			replace, _ := cmd.Flags().GetBool("replace")

			mode := backup.RestoreMerge
			if replace {
				mode = backup.RestoreReplace
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := backup.Restore(cmd.Context(), a.svc.Store, args[0], mode)
			if err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d runs, skipped %d.\n", result.Restored, result.Skipped)
			return nil
		},
	}

	cmd.Flags().Bool("replace", false, "Clear recorded runs before restoring")

	return cmd
}

func newHistoryBackupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List archives in the backup directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			verify, _ := cmd.Flags().GetBool("verify")

			dataDir, err := config.Dir()
			if err != nil {
				return err
			}
			archives, err := backup.List(backup.DefaultDir(dataDir))
			if err != nil {
				return err
			}
			if verify {
				for i := range archives {
					if archives[i].Err != "" {
						continue
					}
					if err := backup.Verify(archives[i].Path); err != nil {
						archives[i].Err = err.Error()
					}
				}
			}

			if jsonOut {
				if archives == nil {
					archives = []backup.Info{}
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"backups": archives,
					"count":   len(archives),
				})
			}

			if len(archives) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No backups found.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tRUNS\tSIZE\tFILE\tSTATUS")
			for _, b := range archives {
				status := "ok"
				if b.Err != "" {
					status = b.Err
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n",
					b.CreatedAt.Local().Format(time.DateTime), b.RecordCount, b.Size, filepath.Base(b.Path), status)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Bool("verify", false, "Verify archive checksums")

	return cmd
}
