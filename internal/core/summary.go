package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// warningRatio is the semáforo warning threshold. It only picks a colour.
var warningRatio = decimal.RequireFromString("0.8")

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Slice is one expense of the month as drawn in the distribution chart.
type Slice struct {
	Category string
	Note     string
	Amount   decimal.Decimal
}

// BudgetStatus is one semáforo row: a budget joined with the month's spend.
type BudgetStatus struct {
	Category string
	Limit    decimal.Decimal
	Spent    decimal.Decimal
	Ratio    decimal.Decimal
}

// MonthSummary is the dashboard for a specific year+month.
type MonthSummary struct {
	Year  int
	Month time.Month

	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal

	// Distribution and ByCategory are empty when Expense is zero.
	Distribution []Slice
	ByCategory   []CategoryAmount

	// Budgets is evaluated only when there are budgets and the month has movements.
	Budgets []BudgetStatus

	MonthMovements int
	// Rows is the size of the movements store; Skipped counts the rows that
	// could not be read as movements.
	Rows    int
	Skipped int
}

// Summarize computes the dashboard for the month containing ref.
func Summarize(movements []Movement, budgets []Budget, ref time.Time) MonthSummary {
	s := MonthSummary{
		Year:    ref.Year(),
		Month:   ref.Month(),
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}

	spent := map[string]decimal.Decimal{}
	var order []string
	for _, m := range movements {
		if !m.Date.InMonth(ref) {
			continue
		}
		s.MonthMovements++
		switch m.Type {
		case Income:
			s.Income = s.Income.Add(m.Amount)
		case Expense:
			s.Expense = s.Expense.Add(m.Amount)
			if _, ok := spent[m.Category]; !ok {
				order = append(order, m.Category)
				spent[m.Category] = decimal.Zero
			}
			spent[m.Category] = spent[m.Category].Add(m.Amount)
			s.Distribution = append(s.Distribution, Slice{Category: m.Category, Note: m.Note, Amount: m.Amount})
		}
	}
	s.Balance = s.Income.Sub(s.Expense)

	if s.Expense.IsZero() {
		s.Distribution = nil
	} else {
		for _, c := range order {
			s.ByCategory = append(s.ByCategory, CategoryAmount{Name: c, Amount: spent[c]})
		}
		sort.SliceStable(s.ByCategory, func(i, j int) bool {
			return s.ByCategory[i].Amount.GreaterThan(s.ByCategory[j].Amount)
		})
		sort.SliceStable(s.Distribution, func(i, j int) bool {
			return s.Distribution[i].Amount.GreaterThan(s.Distribution[j].Amount)
		})
	}

	if len(budgets) > 0 && s.MonthMovements > 0 {
		s.Budgets = budgetStatuses(budgets, spent)
	}
	return s
}

func budgetStatuses(budgets []Budget, spent map[string]decimal.Decimal) []BudgetStatus {
	var out []BudgetStatus
	for _, b := range budgets {
		if !b.Limit.IsPositive() {
			continue
		}
		sp, ok := spent[b.Category]
		if !ok {
			sp = decimal.Zero
		}
		out = append(out, BudgetStatus{
			Category: b.Category,
			Limit:    b.Limit,
			Spent:    sp,
			Ratio:    sp.Div(b.Limit),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Ratio.GreaterThan(out[j].Ratio)
	})
	return out
}

// Exceeded reports whether the spend is over the limit.
func (b BudgetStatus) Exceeded() bool {
	return b.Spent.GreaterThan(b.Limit)
}

// Overage is Spent - Limit; only meaningful when Exceeded.
func (b BudgetStatus) Overage() decimal.Decimal {
	return b.Spent.Sub(b.Limit)
}

// Progress is the ratio capped at 1.
func (b BudgetStatus) Progress() float64 {
	if !b.Spent.LessThan(b.Limit) {
		return 1
	}
	return b.Ratio.InexactFloat64()
}

// Level is "exceeded", "warning" or "ok".
func (b BudgetStatus) Level() string {
	switch {
	case b.Exceeded():
		return "exceeded"
	case b.Ratio.GreaterThan(warningRatio):
		return "warning"
	default:
		return "ok"
	}
}
