package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"questlog/internal/snapshot"
	"questlog/internal/store"
)

// DrillReport summarizes a restore drill: the archive was unpacked
// into a scratch directory and every user snapshot re-hydrated.
type DrillReport struct {
	Users    []string `json:"users"`
	Quests   int      `json:"quests"`
	Warnings []string `json:"warnings,omitempty"`
}

// RestoreDrill proves a backup is usable without touching live data.
// It restores into a temp dir, opens the snapshot store and runs the
// defensive restore over every user.
func RestoreDrill(archivePath string) (*DrillReport, error) {
	scratch, err := os.MkdirTemp("", "questlog-drill-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(scratch)

	if err := RestoreDataDir(archivePath, scratch); err != nil {
		return nil, fmt.Errorf("unpack archive: %w", err)
	}

	repo, err := store.NewFileRepo(scratch)
	if err != nil {
		return nil, fmt.Errorf("open restored store: %w", err)
	}

	report := &DrillReport{}
	now := time.Now()
	for _, uid := range repo.Users() {
		raw, err := repo.Load(uid)
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %v", uid, err))
			continue
		}
		snap := snapshot.Restore(raw, now)
		if snap.Version != snapshot.Version {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: unexpected version %q", uid, snap.Version))
		}
		report.Users = append(report.Users, uid)
		report.Quests += len(snap.Quests)
	}

	if _, err := os.Stat(filepath.Join(scratch, "telemetry.db")); err != nil && !os.IsNotExist(err) {
		report.Warnings = append(report.Warnings, fmt.Sprintf("telemetry.db: %v", err))
	}
	return report, nil
}

func (r *DrillReport) String() string {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", *r)
	}
	return string(b)
}
