package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"finanzas/internal/core"
	applog "finanzas/internal/log"
	"finanzas/internal/storage"
	"finanzas/internal/table"
)

var (
	// ErrUnreadableUpload wraps the parse error of an uploaded file.
	ErrUnreadableUpload = errors.New("unreadable upload")
	// ErrIncorrectFormat means a movements upload lacks required columns.
	ErrIncorrectFormat = errors.New("incorrect format")
	// ErrNothingToExport is returned when the table to export has no rows.
	ErrNothingToExport = errors.New("nothing to export")
)

// BudgetsBackupName is the download name of a budgets export.
const BudgetsBackupName = "presupuesto_respaldo.csv"

// Export is CSV content ready to be served as a download.
type Export struct {
	Filename string
	Content  []byte
}

// BackupService restores and exports whole tables. It shares the ledger's
// lock so a restore never interleaves with an entry.
type BackupService struct {
	ledger *LedgerService
	logger *applog.Logger
}

func NewBackupService(ledger *LedgerService) *BackupService {
	return &BackupService{ledger: ledger, logger: ledger.logger.WithComponent(applog.ComponentBackup)}
}

// RestoreMovements replaces the movements table with the uploaded CSV. The
// upload must carry every movement column; extra columns are kept.
func (s *BackupService) RestoreMovements(ctx context.Context, r io.Reader) (int, error) {
	t, err := table.Read(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadableUpload, err)
	}
	if missing := t.Missing(core.MovementColumns...); len(missing) > 0 {
		return 0, fmt.Errorf("%w: missing columns %s", ErrIncorrectFormat, strings.Join(missing, ", "))
	}
	if err := s.replace(ctx, storage.Movements, t); err != nil {
		return 0, err
	}
	return t.Len(), nil
}

// RestoreBudgets replaces the budgets table with the uploaded CSV as is.
func (s *BackupService) RestoreBudgets(ctx context.Context, r io.Reader) (int, error) {
	t, err := table.Read(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadableUpload, err)
	}
	if err := s.replace(ctx, storage.Budgets, t); err != nil {
		return 0, err
	}
	return t.Len(), nil
}

func (s *BackupService) replace(ctx context.Context, name string, t table.Table) error {
	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()

	if err := s.ledger.store.Save(ctx, name, t); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	s.logger.InfoContext(ctx, "Table restored from backup",
		applog.NewFields().Operation(applog.OpRestore).Table(name, t.Len()).Add("columns", len(t.Columns))...)
	return nil
}

// ExportMovements serializes the current movements table. The file name
// carries today's date.
func (s *BackupService) ExportMovements(ctx context.Context) (Export, error) {
	t, err := s.ledger.Movements(ctx)
	if err != nil {
		return Export{}, fmt.Errorf("load movements: %w", err)
	}
	name := fmt.Sprintf("finanzas_respaldo_%s.csv", s.ledger.Today().Format("2006-01-02"))
	return export(t, name)
}

// ExportBudgets serializes the current budgets table.
func (s *BackupService) ExportBudgets(ctx context.Context) (Export, error) {
	t, err := s.ledger.Budgets(ctx)
	if err != nil {
		return Export{}, fmt.Errorf("load budgets: %w", err)
	}
	return export(t, BudgetsBackupName)
}

func export(t table.Table, filename string) (Export, error) {
	if t.IsEmpty() {
		return Export{}, ErrNothingToExport
	}
	b, err := t.Encode()
	if err != nil {
		return Export{}, fmt.Errorf("encode %s: %w", filename, err)
	}
	return Export{Filename: filename, Content: b}, nil
}
