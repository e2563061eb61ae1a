// Package http serves the finanzas page and its HTMX partials.
//
// This file parses form and query input into domain values.

package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
)

var (
	ErrMissingFile    = errors.New("missing upload file")
	ErrUploadTooLarge = errors.New("upload too large")
)

// ParseReferenceMonth picks the dashboard month from the query: month=YYYY-MM,
// date=YYYY-MM-DD or year=&month=N. Anything unreadable falls back to today.
func ParseReferenceMonth(query url.Values, today time.Time) time.Time {
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if t, err := time.Parse("2006-01", v); err == nil {
			return t
		}
	}
	if v := strings.TrimSpace(query.Get("date")); v != "" {
		if d, err := core.ParseDate(v); err == nil {
			return d.Time
		}
	}
	year := today.Year()
	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y > 0 {
			year = y
		}
	}
	month := int(today.Month())
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// ParseMovementForm reads the entry form. An empty date means today and an
// empty type means an expense.
func ParseMovementForm(form url.Values, today time.Time) (core.Movement, error) {
	m := core.Movement{
		Category: sanitizeInput(form.Get("category")),
		Note:     form.Get("note"),
	}

	if v := strings.TrimSpace(form.Get("date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Movement{}, err
		}
		m.Date = d
	} else {
		m.Date = core.NewDate(today.Year(), int(today.Month()), today.Day())
	}

	m.Type = core.Expense
	if v := strings.TrimSpace(form.Get("type")); v != "" {
		typ, err := core.ParseMovementType(v)
		if err != nil {
			return core.Movement{}, err
		}
		m.Type = typ
	}

	amount, err := core.ParseAmount(form.Get("amount"))
	if err != nil {
		return core.Movement{}, err
	}
	m.Amount = amount
	return m, m.Validate()
}

// ParseBudgetForm reads the budget editor. An empty limit means zero.
func ParseBudgetForm(form url.Values) (core.Budget, error) {
	b := core.Budget{Category: sanitizeInput(form.Get("category")), Limit: decimal.Zero}
	if v := strings.TrimSpace(form.Get("limit")); v != "" {
		lim, err := core.ParseAmount(v)
		if err != nil {
			return core.Budget{}, fmt.Errorf("%w: %q", core.ErrInvalidLimit, v)
		}
		b.Limit = lim
	}
	return b, b.Validate()
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Formato de solicitud inválido")
	}
	return nil
}

// ReadUpload returns the content of the multipart file field, at most max bytes.
func ReadUpload(w http.ResponseWriter, r *http.Request, field string, max int64) ([]byte, error) {
	// room for the multipart envelope around the file
	r.Body = http.MaxBytesReader(w, r.Body, max+64<<10)
	if err := r.ParseMultipartForm(max); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, ErrUploadTooLarge
		}
		return nil, fmt.Errorf("%w: %v", ErrMissingFile, err)
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	f, hdr, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingFile, err)
	}
	defer f.Close()
	if hdr.Size > max {
		return nil, ErrUploadTooLarge
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(f, max+1)); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(buf.Len()) > max {
		return nil, ErrUploadTooLarge
	}
	return buf.Bytes(), nil
}
