package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questlog/internal/snapshot"
)

func TestFileRepoRoundTrip(t *testing.T) {
	dir := t.TempDir()

	repo, err := NewFileRepo(dir)
	require.NoError(t, err)

	raw, err := repo.Load("alice")
	require.NoError(t, err)
	assert.Nil(t, raw)

	snap := snapshot.Default(time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local))
	snap.Stats.XP = 40
	require.NoError(t, repo.Save("alice", snap))

	reopened, err := NewFileRepo(dir)
	require.NoError(t, err)

	raw, err = reopened.Load("alice")
	require.NoError(t, err)
	require.NotNil(t, raw)

	restored := snapshot.Restore(raw, time.Now())
	assert.Equal(t, 40, restored.Stats.XP)
}

func TestFileRepoIsolatesUsers(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	now := time.Now()
	a := snapshot.Default(now)
	a.Stats.Coins = 7
	b := snapshot.Default(now)
	b.Stats.Coins = 99

	require.NoError(t, repo.Save("alice", a))
	require.NoError(t, repo.Save("bob", b))

	rawA, err := repo.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, 7, snapshot.Restore(rawA, now).Stats.Coins)

	rawB, err := repo.Load("bob")
	require.NoError(t, err)
	assert.Equal(t, 99, snapshot.Restore(rawB, now).Stats.Coins)

	assert.ElementsMatch(t, []string{"alice", "bob"}, repo.Users())
}

func TestFileRepoBlankUserFallsBackToGuest(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, repo.Save("  ", snapshot.Default(time.Now())))

	raw, err := repo.Load("guest")
	require.NoError(t, err)
	assert.NotNil(t, raw)
}

func TestFileRepoSurvivesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "snapshots.json"), []byte("{not json"), 0o644))

	_, err := NewFileRepo(dir)
	assert.Error(t, err)
}

func TestFileRepoDelete(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, repo.Save("alice", snapshot.Default(time.Now())))
	require.NoError(t, repo.Delete("alice"))

	raw, err := repo.Load("alice")
	require.NoError(t, err)
	assert.Nil(t, raw)
}
