package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondStoreError maps storage errors onto HTTP statuses.
func respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondError(w, http.StatusInternalServerError, "internal error")
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// parseDate parses a YYYY-MM-DD query or body value.
func parseDate(s string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(t), nil
}

// parseAsOf returns the as_of query date, defaulting to today.
func parseAsOf(r *http.Request) (core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get("as_of"))
	if v == "" {
		return core.DateOf(time.Now()), nil
	}
	return parseDate(v)
}
