package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanzas/internal/config"
	"finanzas/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "memory"})
	assert.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{DataBackend: "file", DataDir: "d", MovementsFile: "m.csv", BudgetsFile: "b.csv"})
	require.NoError(t, err)
	assert.Equal(t, Config{Type: FileBackend, DataDir: "d", MovementsFile: "m.csv", BudgetsFile: "b.csv"}, cfg)
}

func TestFactoryCreate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f := NewFactory(nil)

	t.Run("file", func(t *testing.T) {
		res, err := f.Create(ctx, Config{Type: FileBackend, DataDir: dir, MovementsFile: "m.csv", BudgetsFile: "b.csv"})
		require.NoError(t, err)
		assert.Nil(t, res.Cleanup)
		assert.IsType(t, &storage.FileStore{}, res.Store)
	})

	t.Run("sqlite", func(t *testing.T) {
		res, err := f.Create(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "f.db")})
		require.NoError(t, err)
		require.NotNil(t, res.Cleanup)
		assert.IsType(t, &storage.SQLiteStore{}, res.Store)
		assert.NoError(t, res.Cleanup())
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := f.Create(ctx, Config{Type: "sheets"})
		assert.Error(t, err)
	})
}
