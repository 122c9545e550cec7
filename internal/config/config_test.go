package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lenslink.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lenslink.yaml")

	cfg := DefaultConfig()
	cfg.Timezone = "Europe/Athens"
	cfg.WeekStart = WeekStartSunday
	cfg.Remote = RemoteConfig{URL: "redis://localhost:6379/0", Key: "k"}
	cfg.Discord.GuildID = "123"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lenslink.yaml")
	require.NoError(t, os.WriteFile(path, []byte("week_start: tuesday\nlisten: :9000\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, WeekStartMonday, cfg.WeekStart)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, defaultDataDir, cfg.DataDir)
	assert.Equal(t, defaultModel, cfg.Gemini.Model)
	assert.Equal(t, defaultPerMin, cfg.ConceptLimit.PerMinute)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lenslink.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [oops"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvRemoteURL, "postgres://db/lenslink")
	t.Setenv(EnvRemoteKey, "secret")
	t.Setenv(EnvGeminiKey, "gem")
	t.Setenv(EnvListen, "")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "postgres://db/lenslink", cfg.Remote.URL)
	assert.Equal(t, "secret", cfg.Remote.Key)
	assert.Equal(t, "gem", cfg.Gemini.APIKey)
	assert.Equal(t, defaultListen, cfg.Listen, "empty variables do not override")
}

func TestCredentials(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, cfg.Credentials())

	cfg.Remote.URL = "redis://x"
	assert.Nil(t, cfg.Credentials(), "a URL without a key is not a pair")

	cfg.Remote.Key = "k"
	creds := cfg.Credentials()
	require.NotNil(t, creds)
	assert.Equal(t, "redis://x", creds.URL)
	assert.Equal(t, "k", creds.Key)
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Local, cfg.Location())

	cfg.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())

	cfg.Timezone = "Mars/Olympus_Mons"
	assert.Equal(t, time.Local, cfg.Location())
}
