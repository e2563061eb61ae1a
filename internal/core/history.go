package core

import (
	"sort"

	"finanzas/internal/table"
)

// HistoryOrder returns the row indexes of t sorted by date, newest first.
// Equal dates keep the later file row first; unreadable dates go last.
func HistoryOrder(t table.Table) []int {
	type keyed struct {
		row int
		d   Date
		ok  bool
	}
	keys := make([]keyed, t.Len())
	for i := range t.Rows {
		// Walk the file backwards so the stable sort puts later rows first.
		row := t.Len() - 1 - i
		d, err := ParseDate(t.Get(row, ColDate))
		keys[i] = keyed{row: row, d: d, ok: err == nil}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.ok != b.ok {
			return a.ok
		}
		return a.ok && a.d.After(b.d.Time)
	})
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = k.row
	}
	return out
}
