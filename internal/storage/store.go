// Package storage persists the movements and budgets tables.
package storage

import (
	"context"
	"errors"

	"finanzas/internal/table"
)

// Table names known to every store.
const (
	Movements = "movements"
	Budgets   = "budgets"
)

var ErrUnknownTable = errors.New("unknown table")

// Store loads and replaces whole tables. A table that was never saved loads
// as an empty table with the given columns.
type Store interface {
	Load(ctx context.Context, name string, columns []string) (table.Table, error)
	Save(ctx context.Context, name string, t table.Table) error
}
