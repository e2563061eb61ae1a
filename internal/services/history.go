package services

import (
	"context"
	"fmt"

	"finanzas/internal/core"
	"finanzas/internal/table"
)

// HistoryEntry is one movements row formatted for display. Cells that do not
// parse are shown as stored.
type HistoryEntry struct {
	Date     string
	Type     string
	Category string
	Note     string
	Amount   string
	Income   bool
}

// History lists every movement, newest first.
func (s *LedgerService) History(ctx context.Context) ([]HistoryEntry, error) {
	t, err := s.Movements(ctx)
	if err != nil {
		return nil, fmt.Errorf("load movements: %w", err)
	}
	return historyEntries(t), nil
}

func historyEntries(t table.Table) []HistoryEntry {
	order := core.HistoryOrder(t)
	out := make([]HistoryEntry, 0, len(order))
	for _, row := range order {
		e := HistoryEntry{
			Date:     t.Get(row, core.ColDate),
			Type:     t.Get(row, core.ColType),
			Category: t.Get(row, core.ColCategory),
			Note:     t.Get(row, core.ColNote),
			Amount:   t.Get(row, core.ColAmount),
		}
		if d, err := core.ParseDate(e.Date); err == nil {
			e.Date = d.Format("02/01/2006")
		}
		if a, err := core.ParseAmount(e.Amount); err == nil {
			e.Amount = core.FormatMoney(a, 2)
		}
		e.Income = e.Type == string(core.Income)
		out = append(out, e)
	}
	return out
}
