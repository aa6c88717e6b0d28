package http

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/engine"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/storage"
)

type chargeRequest struct {
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	Periodicity string `json:"periodicity"`
	DebitDay    int    `json:"debit_day"`
	DebitMonth  int    `json:"debit_month"`
}

func (req chargeRequest) toDomain(id string) (core.RecurringCharge, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.RecurringCharge{}, err
	}
	rc := core.RecurringCharge{
		ID:          id,
		Name:        req.Name,
		Amount:      core.Money{Cents: cents},
		Periodicity: core.Periodicity(req.Periodicity),
		DebitDay:    req.DebitDay,
		DebitMonth:  req.DebitMonth,
	}
	return rc, rc.Validate()
}

func (s *Server) handleCreateCharge(w http.ResponseWriter, r *http.Request) {
	var req chargeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rc, err := req.toDomain(uuid.NewString())
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.CreateCharge(r.Context(), rc); err != nil {
		slog.ErrorContext(r.Context(), "Create charge failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, rc)
}

func (s *Server) handleListCharges(w http.ResponseWriter, r *http.Request) {
	charges, err := s.store.ListCharges(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List charges failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if charges == nil {
		charges = []core.RecurringCharge{}
	}
	respondJSON(w, http.StatusOK, charges)
}

func (s *Server) handleGetCharge(w http.ResponseWriter, r *http.Request) {
	rc, err := s.store.GetCharge(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rc)
}

func (s *Server) handleUpdateCharge(w http.ResponseWriter, r *http.Request) {
	var req chargeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rc, err := req.toDomain(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.UpdateCharge(r.Context(), rc); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rc)
}

func (s *Server) handleDeleteCharge(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCharge(r.Context(), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type chargeDebit struct {
	Charge core.RecurringCharge `json:"charge"`
	Debit  engine.DebitInfo     `json:"debit"`
}

// handleListDebits returns every charge with its resolved debit description,
// grouped by cadence and ordered by debit position within each group.
func (s *Server) handleListDebits(w http.ResponseWriter, r *http.Request) {
	charges, err := s.store.ListCharges(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List charges failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	debits := make([]chargeDebit, 0, len(charges))
	for _, rc := range charges {
		info, err := engine.ResolveDebit(rc)
		if err != nil {
			if errors.Is(err, core.ErrMissingDebitMonth) {
				respondError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			slog.ErrorContext(r.Context(), "Resolve debit failed", "id", rc.ID, "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		debits = append(debits, chargeDebit{Charge: rc, Debit: info})
	}

	sort.SliceStable(debits, func(i, j int) bool {
		pi, pj := cadenceRank(debits[i].Charge.Periodicity), cadenceRank(debits[j].Charge.Periodicity)
		if pi != pj {
			return pi < pj
		}
		return debits[i].Debit.SortKey < debits[j].Debit.SortKey
	})

	respondJSON(w, http.StatusOK, debits)
}

func cadenceRank(p core.Periodicity) int {
	switch p {
	case core.Monthly:
		return 0
	case core.Quarterly:
		return 1
	default:
		return 2
	}
}

// handleListLedger returns the materialized debits between the from and to
// query dates, defaulting to the current month.
func (s *Server) handleListLedger(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from := core.NewDate(now.Year(), int(now.Month()), 1)
	to := core.DateOf(from.AddDate(0, 1, -1))

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		d, err := parseDate(v)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "invalid from date")
			return
		}
		from = d
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		d, err := parseDate(v)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "invalid to date")
			return
		}
		to = d
	}
	if to.Before(from) {
		respondError(w, http.StatusUnprocessableEntity, "to precedes from")
		return
	}

	entries, err := s.store.ListLedgerEntries(r.Context(), from, to)
	if err != nil {
		slog.ErrorContext(r.Context(), "List ledger entries failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entries == nil {
		entries = []storage.LedgerEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}
