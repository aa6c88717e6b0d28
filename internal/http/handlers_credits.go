package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/engine"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/services"
)

// createCreditRequest carries amounts as decimal strings ("250,00" or
// "250.00"); the locale writes the comma.
type createCreditRequest struct {
	Name             string `json:"name"`
	MonthlyAmount    string `json:"monthly_amount"`
	FirstPaymentDate string `json:"first_payment_date"`
	Months           int    `json:"months"`
}

func (s *Server) handleCreateCredit(w http.ResponseWriter, r *http.Request) {
	var req createCreditRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.MonthlyAmount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid monthly amount")
		return
	}
	first, err := parseDate(req.FirstPaymentDate)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid first payment date")
		return
	}

	c, err := s.credits.CreateCredit(r.Context(), services.CreateCreditInput{
		Name:             req.Name,
		MonthlyAmount:    core.Money{Cents: cents},
		FirstPaymentDate: first,
		Months:           req.Months,
	})
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredit) || errors.Is(err, core.ErrEmptyName) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create credit failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.dashCache.Clear()
	respondJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListCredits(w http.ResponseWriter, r *http.Request) {
	credits, err := s.store.ListCredits(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List credits failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if credits == nil {
		credits = []core.Credit{}
	}
	respondJSON(w, http.StatusOK, credits)
}

func (s *Server) handleGetCredit(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetCredit(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateCredit(w http.ResponseWriter, r *http.Request) {
	var c core.Credit
	if err := decodeJSON(r, &c); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c.ID = r.PathValue("id")

	if err := s.credits.UpdateCredit(r.Context(), c); err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidCredit), errors.Is(err, core.ErrEmptyName):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			respondStoreError(w, err)
		}
		return
	}

	s.dashCache.Clear()
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCredit(w http.ResponseWriter, r *http.Request) {
	if err := s.credits.DeleteCredit(r.Context(), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	s.dashCache.Clear()
	respondJSON(w, http.StatusNoContent, nil)
}

type settleCreditRequest struct {
	SettlementDate string `json:"settlement_date"`
	ManualEarly    bool   `json:"manual_early"`
}

func (s *Server) handleSettleCredit(w http.ResponseWriter, r *http.Request) {
	var req settleCreditRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	requested, err := parseDate(req.SettlementDate)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid settlement date")
		return
	}

	c, err := s.credits.SettleCredit(r.Context(), r.PathValue("id"), requested, req.ManualEarly)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	s.dashCache.Clear()
	respondJSON(w, http.StatusOK, c)
}

type scheduleResponse struct {
	CreditID string                `json:"credit_id"`
	AsOf     core.Date             `json:"as_of"`
	Schedule engine.ScheduleResult `json:"schedule"`
}

func (s *Server) handleCreditSchedule(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetCredit(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	asOf, err := parseAsOf(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid as_of date")
		return
	}

	// A settled credit always shows full progress, whatever the date math
	// says about its installments.
	var opts []engine.ScheduleOption
	if c.Status == core.CreditSettled {
		opts = append(opts, engine.WithProgressOverride(100))
	}

	sched, err := engine.Schedule(c, asOf, opts...)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, scheduleResponse{
		CreditID: c.ID,
		AsOf:     asOf,
		Schedule: sched,
	})
}
