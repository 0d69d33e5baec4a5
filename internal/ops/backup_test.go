package ops

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questlog/internal/snapshot"
	"questlog/internal/store"
)

func seedDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := store.NewFileRepo(dir)
	require.NoError(t, err)

	now := time.Date(2024, 3, 6, 9, 0, 0, 0, time.Local)
	snap := snapshot.Default(now)
	snap.Stats.Level = 4
	require.NoError(t, repo.Save("alice", snap))
	require.NoError(t, repo.Save("bob", snapshot.Default(now)))
	return dir
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	src := seedDataDir(t)

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	require.NoError(t, BackupDataDir(src, archive))

	restoreDir := filepath.Join(t.TempDir(), "restore")
	require.NoError(t, RestoreDataDir(archive, restoreDir))

	repo, err := store.NewFileRepo(restoreDir)
	require.NoError(t, err)

	raw, err := repo.Load("alice")
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.Equal(t, 4, snapshot.Restore(raw, time.Now()).Stats.Level)
}

func TestRestoreRejectsPathTraversal(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "bad.tar.gz")
	f, err := os.Create(archive)
	require.NoError(t, err)

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "../escape.txt",
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len("bad")),
	}))
	_, err = tw.Write([]byte("bad"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	assert.Error(t, RestoreDataDir(archive, filepath.Join(t.TempDir(), "out")))
}

func TestRestoreDrillReportsUsers(t *testing.T) {
	src := seedDataDir(t)

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	require.NoError(t, BackupDataDir(src, archive))

	report, err := RestoreDrill(archive)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, report.Users)
	assert.Empty(t, report.Warnings)
}
