package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Expense MovementType = "Gasto"
	Income  MovementType = "Ingreso"
)

// Column names of the movements and budgets files.
const (
	ColDate     = "Fecha"
	ColType     = "Tipo"
	ColCategory = "Categoria"
	ColNote     = "Concepto"
	ColAmount   = "Monto"
	ColLimit    = "Limite_Mensual"
)

var (
	MovementColumns = []string{ColDate, ColType, ColCategory, ColNote, ColAmount}
	BudgetColumns   = []string{ColCategory, ColLimit}
)

type (
	MovementType string

	Date struct {
		time.Time
	}

	// Movement is one income or expense ledger entry.
	Movement struct {
		Date     Date
		Type     MovementType
		Category string
		Note     string
		Amount   decimal.Decimal
	}

	// Budget is a per-category monthly spending ceiling. A zero limit means no cap.
	Budget struct {
		Category string
		Limit    decimal.Decimal
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidType   = errors.New("invalid movement type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidLimit  = errors.New("invalid limit")
	ErrEmptyCategory = errors.New("empty category")
)

// dateLayouts are tried in order when reading dates back from a table.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts ISO dates with or without a time part.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), int(t.Month()), t.Day()), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// String formats the date the way it is stored.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// InMonth reports whether d falls in the year and month of ref. The day is ignored.
func (d Date) InMonth(ref time.Time) bool {
	return d.Year() == ref.Year() && d.Month() == ref.Month()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ParseMovementType matches the stored type labels exactly.
func ParseMovementType(s string) (MovementType, error) {
	switch MovementType(strings.TrimSpace(s)) {
	case Expense:
		return Expense, nil
	case Income:
		return Income, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

func (m Movement) Validate() error {
	if err := m.Date.Validate(); err != nil {
		return err
	}
	if m.Type != Expense && m.Type != Income {
		return ErrInvalidType
	}
	if strings.TrimSpace(m.Category) == "" {
		return ErrEmptyCategory
	}
	if !m.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Limit.IsNegative() {
		return ErrInvalidLimit
	}
	return nil
}
