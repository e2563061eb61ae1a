package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"finanzas/internal/table"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps each table as one row holding its CSV serialization.
type SQLiteStore struct {
	db      *sql.DB
	version uint
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer at a time keeps SQLITE_BUSY away
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("SQLite schema ready", "path", dbPath, "version", version)

	return &SQLiteStore{db: db, version: version}, nil
}

// SchemaVersion is the migration version applied when the store was opened.
func (s *SQLiteStore) SchemaVersion() uint {
	return s.version
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Load(ctx context.Context, name string, columns []string) (table.Table, error) {
	var content string
	err := s.db.QueryRowContext(ctx, `SELECT content FROM tables WHERE name = ?`, name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return table.New(columns...), nil
	}
	if err != nil {
		return table.Table{}, fmt.Errorf("load %s: %w", name, err)
	}

	t, err := table.Read(strings.NewReader(content))
	if errors.Is(err, table.ErrNoHeader) {
		return table.New(columns...), nil
	}
	if err != nil {
		return table.Table{}, fmt.Errorf("decode %s: %w", name, err)
	}
	return t, nil
}

func (s *SQLiteStore) Save(ctx context.Context, name string, t table.Table) error {
	content, err := t.Encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tables (name, content, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		name, string(content))
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}

	slog.DebugContext(ctx, "Table saved to SQLite", "table", name, "rows", t.Len())
	return nil
}
