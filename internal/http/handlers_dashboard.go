package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/engine"
)

type dashboardResponse struct {
	View          string             `json:"view"`
	AsOf          core.Date          `json:"as_of"`
	ActiveCredits int                `json:"active_credits"`
	Summary       engine.DebtSummary `json:"summary"`
	Formatted     formattedSummary   `json:"formatted"`
	Allocation    engine.Allocation  `json:"allocation"`
}

type formattedSummary struct {
	TotalMonthly string `json:"total_monthly"`
	TotalDebt    string `json:"total_debt"`
	AmountPaid   string `json:"amount_paid"`
}

// handleDebtDashboard aggregates the active credits into the monthly or
// yearly debt view. Results are cached per view and reference date.
func (s *Server) handleDebtDashboard(w http.ResponseWriter, r *http.Request) {
	view := engine.View(strings.TrimSpace(r.URL.Query().Get("view")))
	if view == "" {
		view = engine.ViewMonthly
	}
	if view != engine.ViewMonthly && view != engine.ViewYearly {
		respondError(w, http.StatusUnprocessableEntity, "view must be monthly or yearly")
		return
	}

	asOf, err := parseAsOf(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid as_of date")
		return
	}

	key := string(view) + ":" + asOf.Format("2006-01-02")
	if cached, ok := s.dashCache.Get(key); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	credits, err := s.store.ListCredits(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List credits failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	active := make([]core.Credit, 0, len(credits))
	for _, c := range credits {
		if c.Status != core.CreditSettled {
			active = append(active, c)
		}
	}

	summary, err := engine.Aggregate(active, asOf, view)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	contributors, err := s.store.ListContributors(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List contributors failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	alloc := engine.Allocate(summary.TotalMonthly, contributors)
	if alloc.OverAllocated {
		slog.WarnContext(r.Context(), "Contributor shares exceed 100 percent",
			"contributors", len(contributors))
	}

	resp := dashboardResponse{
		View:          string(view),
		AsOf:          asOf,
		ActiveCredits: len(active),
		Summary:       summary,
		Formatted: formattedSummary{
			TotalMonthly: core.FormatEuros(summary.TotalMonthly.Cents),
			TotalDebt:    core.FormatEuros(summary.TotalDebt.Cents),
			AmountPaid:   core.FormatEuros(summary.AmountPaid.Cents),
		},
		Allocation: alloc,
	}
	s.dashCache.Set(key, resp)
	respondJSON(w, http.StatusOK, resp)
}
