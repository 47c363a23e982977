package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Words)
	assert.Nil(t, cfg.Learn.Finger)
}

func TestLoadConfigTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[practice]
lang = "de"
words = 40
max-duration = 120

[learn]
finger = "ring"
keys = "wsx"

[history]
max-sessions = 50
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Lang)
	assert.Equal(t, "de", *cfg.Practice.Lang)
	assert.Equal(t, 40, *cfg.Practice.Words)
	assert.Equal(t, 120, *cfg.Practice.MaxDuration)
	assert.Nil(t, cfg.Practice.WordList)
	assert.Equal(t, "ring", *cfg.Learn.Finger)
	assert.Equal(t, "wsx", *cfg.Learn.Keys)
	assert.Nil(t, cfg.Learn.Words)
	assert.Equal(t, 50, *cfg.History.MaxSessions)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[practice\nwords = 1"), 0o644))
	_, err = LoadConfig(bad)
	assert.ErrorContains(t, err, "failed to decode config")

	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("[practice]\ncaps = 0.5\n"), 0o644))
	_, err = LoadConfig(unknown)
	assert.ErrorContains(t, err, "practice.caps")
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")

	assert.Equal(t, filepath.Join("/cfg", "keyrate", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/cfg", "keyrate", "wordlists", "fr.txt"), DefaultWordListPath("fr"))
	assert.Equal(t, filepath.Join("/data", "keyrate", "keyrate.db"), DefaultDBPath())
}

func TestLoadConfigTimeModeAndLearnDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[practice]
mode = "time"
countdown = "30s"

[learn]
max-duration = 90
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Mode)
	assert.Equal(t, "time", *cfg.Practice.Mode)
	assert.Equal(t, "30s", *cfg.Practice.Countdown)
	assert.Equal(t, 90, *cfg.Learn.MaxDuration)
	assert.Nil(t, cfg.Practice.MaxDuration)
}
