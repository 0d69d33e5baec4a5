// questlog-ops is the operator CLI: backups, restores, restore drills
// and telemetry summaries.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"questlog/internal/ops"
	"questlog/internal/telemetry"
)

func main() {
	root := &cobra.Command{
		Use:           "questlog-ops",
		Short:         "Operator tooling for the questlog server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newBackupCmd(),
		newRestoreCmd(),
		newDrillCmd(),
		newStatsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newBackupCmd() *cobra.Command {
	var dataDir, out string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the data directory to a tar.gz",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				ts := time.Now().UTC().Format("20060102T150405Z")
				out = filepath.Join("backups", "questlog-"+ts+".tar.gz")
			}
			if err := ops.BackupDataDir(dataDir, out); err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "path to the data directory")
	cmd.Flags().StringVar(&out, "out", "", "output archive path (.tar.gz)")
	return cmd
}

func newRestoreCmd() *cobra.Command {
	var archive, target string

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Unpack a backup archive into a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if archive == "" {
				return fmt.Errorf("--archive is required")
			}
			return ops.RestoreDataDir(archive, target)
		},
	}

	cmd.Flags().StringVar(&archive, "archive", "", "input backup archive (.tar.gz)")
	cmd.Flags().StringVar(&target, "target-dir", "data-restored", "restore target directory")
	return cmd
}

func newDrillCmd() *cobra.Command {
	var archive string

	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Verify a backup restores cleanly, without touching live data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if archive == "" {
				return fmt.Errorf("--archive is required")
			}
			report, err := ops.RestoreDrill(archive)
			if err != nil {
				return err
			}
			fmt.Println(report)
			if len(report.Warnings) > 0 {
				return fmt.Errorf("%d warning(s)", len(report.Warnings))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&archive, "archive", "", "backup archive to drill (.tar.gz)")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var dbPath, user string
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize recent telemetry events for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := telemetry.NewSQLiteRepo(dbPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			since := time.Now().AddDate(0, 0, -days)
			events, err := repo.Events(user, since, nil)
			if err != nil {
				return err
			}

			b, err := json.MarshalIndent(telemetry.CalculateStats(events, since), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "data/telemetry.db", "path to the telemetry database")
	cmd.Flags().StringVar(&user, "user", "guest", "user id to summarize")
	cmd.Flags().IntVar(&days, "days", 7, "how many days back to include")
	return cmd
}
