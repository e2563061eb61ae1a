package core

import (
	"strings"

	"finanzas/internal/table"
)

// MovementsFromTable converts table rows to movements. Rows whose date, type
// or amount cannot be read are left out and counted in skipped.
func MovementsFromTable(t table.Table) (movements []Movement, skipped int) {
	movements = make([]Movement, 0, t.Len())
	for i := range t.Rows {
		m, ok := movementAt(t, i)
		if !ok {
			skipped++
			continue
		}
		movements = append(movements, m)
	}
	return movements, skipped
}

func movementAt(t table.Table, row int) (Movement, bool) {
	d, err := ParseDate(t.Get(row, ColDate))
	if err != nil {
		return Movement{}, false
	}
	typ, err := ParseMovementType(t.Get(row, ColType))
	if err != nil {
		return Movement{}, false
	}
	amt, err := ParseAmount(t.Get(row, ColAmount))
	if err != nil {
		return Movement{}, false
	}
	return Movement{
		Date:     d,
		Type:     typ,
		Category: strings.TrimSpace(t.Get(row, ColCategory)),
		Note:     t.Get(row, ColNote),
		Amount:   amt,
	}, true
}

// MovementRecord is the row written for m.
func MovementRecord(m Movement) map[string]string {
	return map[string]string{
		ColDate:     m.Date.String(),
		ColType:     string(m.Type),
		ColCategory: m.Category,
		ColNote:     m.Note,
		ColAmount:   m.Amount.String(),
	}
}

// BudgetsFromTable reads every budget row. A missing or unreadable limit is
// treated as zero, which the semáforo skips.
func BudgetsFromTable(t table.Table) []Budget {
	budgets := make([]Budget, 0, t.Len())
	for i := range t.Rows {
		b := Budget{Category: strings.TrimSpace(t.Get(i, ColCategory))}
		if lim, err := ParseAmount(t.Get(i, ColLimit)); err == nil {
			b.Limit = lim
		}
		budgets = append(budgets, b)
	}
	return budgets
}

// BudgetCategories lists the categories present in a budgets table, in file order.
func BudgetCategories(t table.Table) []string {
	var out []string
	for i := range t.Rows {
		if c := strings.TrimSpace(t.Get(i, ColCategory)); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// UpsertBudget sets the limit of b.Category in place, or appends a new row.
// It reports whether a row was created.
func UpsertBudget(t *table.Table, b Budget) bool {
	limit := b.Limit.String()
	updated := false
	for i := range t.Rows {
		if strings.TrimSpace(t.Get(i, ColCategory)) == b.Category {
			t.Set(i, ColLimit, limit)
			updated = true
		}
	}
	if updated {
		return false
	}
	t.Append(map[string]string{ColCategory: b.Category, ColLimit: limit}, BudgetColumns...)
	return true
}
