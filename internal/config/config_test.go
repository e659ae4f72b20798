package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "french", cfg.Language)
	assert.Equal(t, 10, cfg.MaxCards)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.NLPEnabled)
	assert.Empty(t, cfg.PunktModelDir)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FLASHGEN_PORT", "9090")
	t.Setenv("FLASHGEN_LANGUAGE", "English")
	t.Setenv("FLASHGEN_MAX_CARDS", "25")
	t.Setenv("FLASHGEN_NLP_ENABLED", "false")
	t.Setenv("FLASHGEN_DATABASE_PATH", "/tmp/cards.db")
	t.Setenv("FLASHGEN_PUNKT_MODEL_DIR", "/opt/punkt")

	cfg, err := load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "english", cfg.Language)
	assert.Equal(t, 25, cfg.MaxCards)
	assert.False(t, cfg.NLPEnabled)
	assert.Equal(t, "/tmp/cards.db", cfg.DatabasePath)
	assert.Equal(t, "/opt/punkt", cfg.PunktModelDir)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"FLASHGEN_LANGUAGE":  "german",
		"FLASHGEN_MAX_CARDS": "0",
		"FLASHGEN_LOG_LEVEL": "loud",
		"FLASHGEN_WORKERS":   "1000",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := load()
			assert.Error(t, err)
		})
	}
}

func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()
	cfg := Config{
		UploadDir:    filepath.Join(root, "uploads"),
		DatabasePath: filepath.Join(root, "data", "cards.db"),
	}

	require.NoError(t, cfg.EnsureDirs())
	assert.DirExists(t, cfg.UploadDir)
	assert.DirExists(t, filepath.Join(root, "data"))
}
