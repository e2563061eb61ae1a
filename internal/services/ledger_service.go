package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"finanzas/internal/core"
	applog "finanzas/internal/log"
	"finanzas/internal/storage"
	"finanzas/internal/table"
)

// LedgerService owns the read-modify-write cycle of the movements and
// budgets tables. Every call re-reads the store; nothing is cached.
type LedgerService struct {
	// mu serializes mutations so overlapping requests cannot interleave a
	// load and a save.
	mu     sync.Mutex
	store  storage.Store
	now    func() time.Time
	logger *applog.Logger
}

type Option func(*LedgerService)

// WithClock replaces time.Now, which decides "today" for defaults and exports.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

func WithLogger(logger *applog.Logger) Option {
	return func(s *LedgerService) { s.logger = logger }
}

func NewLedgerService(store storage.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:  store,
		now:    time.Now,
		logger: applog.FromContext(context.Background()).WithComponent(applog.ComponentLedger),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Today is the current local date.
func (s *LedgerService) Today() time.Time {
	return s.now()
}

// Movements loads the raw movements table.
func (s *LedgerService) Movements(ctx context.Context) (table.Table, error) {
	return s.store.Load(ctx, storage.Movements, core.MovementColumns)
}

// Budgets loads the raw budgets table.
func (s *LedgerService) Budgets(ctx context.Context) (table.Table, error) {
	return s.store.Load(ctx, storage.Budgets, core.BudgetColumns)
}

// EntryCategories is the category vocabulary offered by the entry form.
func (s *LedgerService) EntryCategories(ctx context.Context) ([]string, error) {
	b, err := s.Budgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	return core.EntryCategories(core.BuiltinCategories, core.BudgetCategories(b)), nil
}

// AddMovement validates m and appends it to the movements table.
func (s *LedgerService) AddMovement(ctx context.Context, m core.Movement) error {
	if err := m.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.Movements(ctx)
	if err != nil {
		return fmt.Errorf("load movements: %w", err)
	}
	t.Append(core.MovementRecord(m), core.MovementColumns...)
	if err := s.store.Save(ctx, storage.Movements, t); err != nil {
		return fmt.Errorf("save movements: %w", err)
	}

	s.logger.InfoContext(ctx, "Movement recorded",
		applog.NewFields().
			Operation(applog.OpAppend).
			Add(applog.FieldType, string(m.Type), applog.FieldCategory, m.Category, applog.FieldAmount, m.Amount.String()).
			Table(storage.Movements, t.Len())...)
	return nil
}

// UpsertBudget sets the limit for b.Category. It reports whether a new row
// was created.
func (s *LedgerService) UpsertBudget(ctx context.Context, b core.Budget) (bool, error) {
	if err := b.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.Budgets(ctx)
	if err != nil {
		return false, fmt.Errorf("load budgets: %w", err)
	}
	created := core.UpsertBudget(&t, b)
	if err := s.store.Save(ctx, storage.Budgets, t); err != nil {
		return false, fmt.Errorf("save budgets: %w", err)
	}

	s.logger.InfoContext(ctx, "Budget saved",
		applog.FieldOperation, applog.OpUpsert,
		applog.FieldCategory, b.Category,
		applog.FieldLimit, b.Limit.String(),
		"created", created)
	return created, nil
}

// DeleteLast removes the last movement in file order. It reports false, and
// writes nothing, when the table is already empty.
func (s *LedgerService) DeleteLast(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.Movements(ctx)
	if err != nil {
		return false, fmt.Errorf("load movements: %w", err)
	}
	if !t.DropLast() {
		return false, nil
	}
	if err := s.store.Save(ctx, storage.Movements, t); err != nil {
		return false, fmt.Errorf("save movements: %w", err)
	}

	s.logger.InfoContext(ctx, "Last movement deleted",
		applog.NewFields().Operation(applog.OpDeleteLast).Table(storage.Movements, t.Len())...)
	return true, nil
}

// Summary computes the dashboard for the month containing ref.
func (s *LedgerService) Summary(ctx context.Context, ref time.Time) (core.MonthSummary, error) {
	mt, err := s.Movements(ctx)
	if err != nil {
		return core.MonthSummary{}, fmt.Errorf("load movements: %w", err)
	}
	bt, err := s.Budgets(ctx)
	if err != nil {
		return core.MonthSummary{}, fmt.Errorf("load budgets: %w", err)
	}

	movements, skipped := core.MovementsFromTable(mt)
	sum := core.Summarize(movements, core.BudgetsFromTable(bt), ref)
	sum.Rows = mt.Len()
	sum.Skipped = skipped
	if skipped > 0 {
		s.logger.WarnContext(ctx, "Skipped unreadable movement rows",
			applog.FieldOperation, applog.OpSummary,
			applog.FieldYear, sum.Year,
			applog.FieldMonth, int(sum.Month),
			"skipped", skipped)
	}
	return sum, nil
}

// Ready checks that both tables can be read.
func (s *LedgerService) Ready(ctx context.Context) error {
	if _, err := s.Movements(ctx); err != nil {
		return err
	}
	_, err := s.Budgets(ctx)
	return err
}
