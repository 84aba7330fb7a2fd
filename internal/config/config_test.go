package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "FixFirst", cfg.Name)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, 10, cfg.UI.PageSize)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
ui:
  theme: light
  page_size: 25
storage:
  database_path: /tmp/test.db
ai:
  model: gemini-2.5-pro
  timeout: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, 25, cfg.UI.PageSize)
	assert.Equal(t, "/tmp/test.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "gemini-2.5-pro", cfg.AI.Model)
	assert.Equal(t, float64(30), cfg.AITimeout().Seconds())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("FIXFIRST_AI_MODEL", "gemini-env-model")
	t.Setenv("FIXFIRST_DB", "/env/path.db")
	t.Setenv("FIXFIRST_THEME", "light")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gemini-key", cfg.AI.APIKey, "GEMINI_API_KEY wins over GOOGLE_API_KEY")
	assert.Equal(t, "gemini-env-model", cfg.AI.Model)
	assert.Equal(t, "/env/path.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestGoogleKeyUsedWhenGeminiKeyAbsent(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "google-key", cfg.AI.APIKey)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.UI.PageSize = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.UI.Theme = "solarized"
	assert.Error(t, cfg.Validate())
}

func TestAITimeoutFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AI.Timeout = "not-a-duration"
	assert.Equal(t, float64(60), cfg.AITimeout().Seconds())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.UI.PageSize = 7
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.UI.PageSize)
}
