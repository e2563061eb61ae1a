package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanzas/internal/config"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FINANZAS_TEST_VALUE=hola\n"), 0o644))
	t.Setenv("FINANZAS_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("FINANZAS_TEST_VALUE"))

	LoadEnvFile(path)
	assert.Equal(t, "hola", os.Getenv("FINANZAS_TEST_VALUE"))

	// missing files are ignored
	LoadEnvFile(filepath.Join(t.TempDir(), "nope.env"))
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	_, err := LoadAndValidateConfig()
	assert.ErrorContains(t, err, "invalid port")

	t.Setenv("PORT", "8600")
	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, "8600", cfg.Port)
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := SetupLogger(&config.Config{LogLevel: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")

	_, err = SetupLogger(&config.Config{LogLevel: "chatty"}, &buf)
	assert.Error(t, err)
}
