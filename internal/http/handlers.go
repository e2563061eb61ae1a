package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"finanzas/internal/core"
	applog "finanzas/internal/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady reports whether both tables can be read.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{"templates": "ok", "store": "ok"}
	if err := s.ledger.Ready(ctx); err != nil {
		checks["store"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes the request counters in Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := s.trace.GetMetrics()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n", m.TotalRequests)
	fmt.Fprintf(w, "http_requests_errors_total{class=\"4xx\"} %d\n", m.ClientErrors)
	fmt.Fprintf(w, "http_requests_errors_total{class=\"5xx\"} %d\n", m.ServerErrors)
	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.started).Seconds())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	today := s.ledger.Today()
	s.render(w, r, "index.html", pageView{
		Today: today.Format("2006-01-02"),
		Month: today.Format("2006-01"),
	})
}

func (s *Server) handleEntryForm(w http.ResponseWriter, r *http.Request) {
	cats, err := s.ledger.EntryCategories(r.Context())
	if err != nil {
		// the built-in list still lets the user record movements
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Budget categories unavailable",
			applog.NewFields().Err(err, applog.ErrorTypeStorage)...)
		cats = core.BuiltinCategories
	}
	s.render(w, r, "entry-form", entryFormView{
		Today:      s.ledger.Today().Format("2006-01-02"),
		Categories: cats,
		Types:      []core.MovementType{core.Expense, core.Income},
	})
}

func (s *Server) handleBudgetForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "budget-form", budgetFormView{Categories: core.BuiltinCategories})
}
