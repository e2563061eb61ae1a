// Package backend builds the configured table store.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"finanzas/internal/config"
	"finanzas/internal/storage"
)

// BackendType represents the type of backend
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases the resources of a backend.
type CleanupFunc func() error

// BackendResult contains the store and an optional cleanup function.
type BackendResult struct {
	Store   storage.Store
	Cleanup CleanupFunc
	// Describe is logged at startup.
	Describe string
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// File backend
	DataDir       string
	MovementsFile string
	BudgetsFile   string

	// SQLite backend
	SQLiteDBPath string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(app *config.Config) (Config, error) {
	if app == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	bt := BackendType(app.DataBackend)
	if !bt.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", app.DataBackend)
	}
	return Config{
		Type:          bt,
		DataDir:       app.DataDir,
		MovementsFile: app.MovementsFile,
		BudgetsFile:   app.BudgetsFile,
		SQLiteDBPath:  app.SQLiteDBPath,
	}, nil
}

// Factory creates stores based on configuration
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

func (f *Factory) Create(ctx context.Context, cfg Config) (*BackendResult, error) {
	switch cfg.Type {
	case FileBackend:
		return f.createFileBackend(ctx, cfg)
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *Factory) createFileBackend(ctx context.Context, cfg Config) (*BackendResult, error) {
	store, err := storage.NewFileStore(cfg.DataDir, map[string]string{
		storage.Movements: cfg.MovementsFile,
		storage.Budgets:   cfg.BudgetsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized file backend",
		"movements", filepath.Join(cfg.DataDir, cfg.MovementsFile),
		"budgets", filepath.Join(cfg.DataDir, cfg.BudgetsFile))

	return &BackendResult{
		Store:    store,
		Describe: "file:" + cfg.DataDir,
	}, nil
}

func (f *Factory) createSQLiteBackend(ctx context.Context, cfg Config) (*BackendResult, error) {
	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)

	return &BackendResult{
		Store:    store,
		Cleanup:  store.Close,
		Describe: "sqlite:" + cfg.SQLiteDBPath,
	}, nil
}
