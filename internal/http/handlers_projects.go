package http

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
)

type projectRequest struct {
	Name           string `json:"name"`
	TargetAmount   string `json:"target_amount"`
	MonthlyDeposit string `json:"monthly_deposit"`
}

func (req projectRequest) toDomain(id string) (core.SavingsProject, error) {
	target, err := core.ParseDecimalToCents(req.TargetAmount)
	if err != nil {
		return core.SavingsProject{}, err
	}

	var deposit int64
	if req.MonthlyDeposit != "" {
		deposit, err = core.ParseDecimalToCents(req.MonthlyDeposit)
		if err != nil {
			return core.SavingsProject{}, err
		}
	}

	p := core.SavingsProject{
		ID:             id,
		Name:           req.Name,
		TargetAmount:   core.Money{Cents: target},
		MonthlyDeposit: core.Money{Cents: deposit},
	}
	return p, p.Validate()
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := req.toDomain(uuid.NewString())
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.CreateProject(r.Context(), p); err != nil {
		slog.ErrorContext(r.Context(), "Create savings project failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List savings projects failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if projects == nil {
		projects = []core.SavingsProject{}
	}
	respondJSON(w, http.StatusOK, projects)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := req.toDomain(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.UpdateProject(r.Context(), p); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
