package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finanzas/internal/table"
)

// FileStore keeps each table in its own CSV file. Writes go to a temporary
// file in the same directory and are renamed over the target, so a crash
// leaves either the old or the new content.
type FileStore struct {
	dir   string
	files map[string]string
}

// NewFileStore maps table names to file names inside dir.
func NewFileStore(dir string, files map[string]string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	cp := make(map[string]string, len(files))
	for k, v := range files {
		cp[k] = v
	}
	return &FileStore{dir: dir, files: cp}, nil
}

// Path returns the file backing name.
func (s *FileStore) Path(name string) (string, error) {
	f, ok := s.files[name]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownTable, name)
	}
	return filepath.Join(s.dir, f), nil
}

func (s *FileStore) Load(ctx context.Context, name string, columns []string) (table.Table, error) {
	path, err := s.Path(name)
	if err != nil {
		return table.Table{}, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return table.New(columns...), nil
	}
	if err != nil {
		return table.Table{}, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	t, err := table.Read(f)
	if errors.Is(err, table.ErrNoHeader) {
		// an empty file reads as an empty table
		return table.New(columns...), nil
	}
	if err != nil {
		return table.Table{}, fmt.Errorf("read %s: %w", name, err)
	}
	return t, nil
}

func (s *FileStore) Save(ctx context.Context, name string, t table.Table) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", name, err)
	}

	if err := table.Write(tmp, t); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}

	slog.DebugContext(ctx, "Table saved", "table", name, "path", path, "rows", t.Len())
	return nil
}
