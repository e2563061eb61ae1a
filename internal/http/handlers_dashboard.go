package http

import (
	"net/http"

	applog "finanzas/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ref := ParseReferenceMonth(r.URL.Query(), s.ledger.Today())
	sum, err := s.ledger.Summary(r.Context(), ref)
	if err != nil {
		s.storeFailure(w, r, applog.OpSummary, err)
		return
	}
	s.render(w, r, "dashboard", newDashboardView(sum))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.History(r.Context())
	if err != nil {
		s.storeFailure(w, r, "history", err)
		return
	}
	s.render(w, r, "history", historyView{Entries: entries})
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	t, err := s.ledger.Budgets(r.Context())
	if err != nil {
		s.storeFailure(w, r, "budgets", err)
		return
	}
	s.render(w, r, "budgets", newBudgetsView(t))
}
