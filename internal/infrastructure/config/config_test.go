package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirWithEnv runs the test in a temp directory containing a .env file and
// resets viper's global state afterwards.
func chdirWithEnv(t *testing.T, envContents string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(envContents), 0o644))

	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(orig)
		viper.Reset()
	})
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdirWithEnv(t, "OPENROUTER_API_KEY=test-key\n")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "anthropic/claude-3-haiku", cfg.OpenRouter.Model)
	assert.Equal(t, 3, cfg.History.Limit)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 1000, cfg.Cache.MaxSize)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	chdirWithEnv(t, "")
	t.Setenv("OPENROUTER_API_KEY", "env-key")
	t.Setenv("HISTORY_LIMIT", "5")
	t.Setenv("TMDB_API_KEY", "tmdb-key")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.OpenRouter.APIKey)
	assert.Equal(t, 5, cfg.History.Limit)
	assert.Equal(t, "tmdb-key", cfg.MovieCat.APIKey)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}

func TestLoadConfig_InvalidHistoryLimit(t *testing.T) {
	chdirWithEnv(t, "")
	t.Setenv("HISTORY_LIMIT", "0")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history limit")
}

func TestLoadConfig_MissingEnvFile(t *testing.T) {
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(orig)
		viper.Reset()
	})

	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey(""))
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefghijklmnopqrstuvwxyz"))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, splitOrigins("http://a,http://b"))
	assert.Equal(t, []string{"http://a"}, splitOrigins(" http://a , "))
	assert.Empty(t, splitOrigins(","))
}
