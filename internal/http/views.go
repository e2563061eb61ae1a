package http

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
	"finanzas/internal/services"
	"finanzas/internal/table"
)

// chartPalette colours the distribution chart, one colour per category.
var chartPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

type pageView struct {
	Today string
	Month string
}

type entryFormView struct {
	Today      string
	Categories []string
	Types      []core.MovementType
}

type budgetFormView struct {
	Categories []string
}

type segmentView struct {
	Title  string
	Color  string
	Dash   string
	Offset string
}

type categoryView struct {
	Name    string
	Amount  string
	Percent string
	Color   string
}

type budgetRowView struct {
	Category string
	Spent    string
	Limit    string
	Percent  string
	Progress string
	Level    string
	Exceeded bool
	Overage  string
}

type dashboardView struct {
	Label     string
	Month     string
	PrevMonth string
	NextMonth string

	Empty   bool
	Skipped int

	Income          string
	Expense         string
	Balance         string
	BalanceNegative bool

	HasExpenses bool
	Segments    []segmentView
	Categories  []categoryView

	ShowBudgets bool
	Budgets     []budgetRowView
}

type historyView struct {
	Entries []services.HistoryEntry
}

type budgetsView struct {
	Columns []string
	Rows    [][]string
}

type backupView struct {
	HasMovements bool
	HasBudgets   bool
	MaxUploadMB  int64
}

var hundred = decimal.NewFromInt(100)

func newDashboardView(sum core.MonthSummary) dashboardView {
	ref := time.Date(sum.Year, sum.Month, 1, 0, 0, 0, 0, time.UTC)
	v := dashboardView{
		Label:           monthLabel(ref),
		Month:           ref.Format("2006-01"),
		PrevMonth:       ref.AddDate(0, -1, 0).Format("2006-01"),
		NextMonth:       ref.AddDate(0, 1, 0).Format("2006-01"),
		Empty:           sum.Rows == 0,
		Skipped:         sum.Skipped,
		Income:          core.FormatMoney(sum.Income, 2),
		Expense:         core.FormatMoney(sum.Expense, 2),
		Balance:         core.FormatMoney(sum.Balance, 2),
		BalanceNegative: sum.Balance.IsNegative(),
		HasExpenses:     sum.Expense.IsPositive() && len(sum.Distribution) > 0,
		ShowBudgets:     len(sum.Budgets) > 0,
	}

	if v.HasExpenses {
		colors := make(map[string]string, len(sum.ByCategory))
		for i, c := range sum.ByCategory {
			color := chartPalette[i%len(chartPalette)]
			colors[c.Name] = color
			v.Categories = append(v.Categories, categoryView{
				Name:    c.Name,
				Amount:  core.FormatMoney(c.Amount, 2),
				Percent: share(c.Amount, sum.Expense).StringFixed(1) + "%",
				Color:   color,
			})
		}
		v.Segments = segments(sum.Distribution, sum.Expense, colors)
	}

	for _, b := range sum.Budgets {
		row := budgetRowView{
			Category: b.Category,
			Spent:    core.FormatMoney(b.Spent, 0),
			Limit:    core.FormatMoney(b.Limit, 0),
			Percent:  b.Ratio.Mul(hundred).StringFixed(0) + "%",
			Progress: fmt.Sprintf("%.3f", b.Progress()),
			Level:    b.Level(),
			Exceeded: b.Exceeded(),
		}
		if row.Exceeded {
			row.Overage = core.FormatMoney(b.Overage(), 0)
		}
		v.Budgets = append(v.Budgets, row)
	}
	return v
}

// share is part/total as a percentage.
func share(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(total)
}

// segments lays out donut arcs on a circle of circumference 100, starting at
// twelve o'clock.
func segments(slices []core.Slice, total decimal.Decimal, colors map[string]string) []segmentView {
	out := make([]segmentView, 0, len(slices))
	offset := 0.0
	for _, s := range slices {
		pct := share(s.Amount, total).InexactFloat64()
		title := s.Category
		if s.Note != "" {
			title += " · " + s.Note
		}
		out = append(out, segmentView{
			Title:  title + ": " + core.FormatMoney(s.Amount, 2),
			Color:  colors[s.Category],
			Dash:   fmt.Sprintf("%.3f %.3f", pct, 100-pct),
			Offset: fmt.Sprintf("%.3f", 25-offset),
		})
		offset += pct
	}
	return out
}

func newBudgetsView(t table.Table) budgetsView {
	return budgetsView{Columns: t.Columns, Rows: t.Rows}
}
