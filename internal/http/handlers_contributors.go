package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/engine"
)

type contributorRequest struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	IsOwner    bool    `json:"is_owner"`
}

func (s *Server) handleCreateContributor(w http.ResponseWriter, r *http.Request) {
	var req contributorRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := core.Contributor{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Percentage: req.Percentage,
		IsOwner:    req.IsOwner,
	}
	if err := c.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.CreateContributor(r.Context(), c); err != nil {
		slog.ErrorContext(r.Context(), "Create contributor failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.dashCache.Clear()
	respondJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListContributors(w http.ResponseWriter, r *http.Request) {
	contributors, err := s.store.ListContributors(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List contributors failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if contributors == nil {
		contributors = []core.Contributor{}
	}
	respondJSON(w, http.StatusOK, contributors)
}

func (s *Server) handleUpdateContributor(w http.ResponseWriter, r *http.Request) {
	var req contributorRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := core.Contributor{
		ID:         r.PathValue("id"),
		Name:       req.Name,
		Percentage: req.Percentage,
		IsOwner:    req.IsOwner,
	}
	if err := c.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.UpdateContributor(r.Context(), c); err != nil {
		respondStoreError(w, err)
		return
	}
	s.dashCache.Clear()
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteContributor(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteContributor(r.Context(), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	s.dashCache.Clear()
	respondJSON(w, http.StatusNoContent, nil)
}

type allocationResponse struct {
	Total      core.Money        `json:"total"`
	Formatted  string            `json:"formatted_total"`
	Allocation engine.Allocation `json:"allocation"`
}

// handleAllocation splits an amount across the household contributors. The
// amount query holds a decimal; without it the current monthly obligation of
// the active credits is used.
func (s *Server) handleAllocation(w http.ResponseWriter, r *http.Request) {
	contributors, err := s.store.ListContributors(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List contributors failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var total core.Money
	if v := strings.TrimSpace(r.URL.Query().Get("amount")); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "invalid amount")
			return
		}
		total = core.Money{Cents: cents}
	} else {
		credits, err := s.store.ListCredits(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "List credits failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		for _, c := range credits {
			if c.Status != core.CreditSettled {
				total = total.Add(c.MonthlyAmount)
			}
		}
	}

	alloc := engine.Allocate(total, contributors)
	if alloc.OverAllocated {
		slog.WarnContext(r.Context(), "Contributor shares exceed 100 percent",
			"contributors", len(contributors))
	}

	respondJSON(w, http.StatusOK, allocationResponse{
		Total:      total,
		Formatted:  core.FormatEuros(total.Cents),
		Allocation: alloc,
	})
}
