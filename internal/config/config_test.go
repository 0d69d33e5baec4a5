package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8787", c.Server.Addr)
	assert.Equal(t, 50, c.Balance.DifficultyXP["medium"])
	assert.Len(t, c.Challenges, 4)
	assert.NotEmpty(t, c.Shop.Items)
}

func TestLoadPartialFileFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
balance:
  focus_bonus_xp: 45
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.Server.Addr)
	assert.Equal(t, 45, c.Balance.FocusBonusXP)
	assert.Equal(t, "data", c.Server.DataDir)
	assert.Equal(t, 200, c.Balance.DifficultyXP["legendary"])
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("QUESTLOG_ADDR", ":7777")
	t.Setenv("QUESTLOG_USER", "alice")

	c := Default()
	FromEnv(c)

	assert.Equal(t, ":7777", c.Server.Addr)
	assert.Equal(t, "alice", c.Server.DefaultUser)
	assert.Equal(t, "data", c.Server.DataDir)
}
