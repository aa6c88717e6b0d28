// Package http exposes the budget API: credit lifecycle and schedules,
// recurring charge debits, contributor allocation, savings projects, and the
// debt dashboard.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/cache"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/services"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/storage"
)

// CreditManager is the slice of the credit service the handlers need.
type CreditManager interface {
	CreateCredit(ctx context.Context, in services.CreateCreditInput) (core.Credit, error)
	UpdateCredit(ctx context.Context, c core.Credit) error
	SettleCredit(ctx context.Context, id string, requested core.Date, manualEarly bool) (core.Credit, error)
	DeleteCredit(ctx context.Context, id string) error
}

type Server struct {
	http.Server
	store       storage.Store
	credits     CreditManager
	rateLimiter *rateLimiter

	// dashCache memoizes debt summaries per view and reference date. Any
	// credit mutation clears it wholesale.
	dashCache *cache.LRU[dashboardResponse]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer wires routes and returns a ready-to-run server.
func NewServer(addr string, store storage.Store, credits CreditManager) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:            store,
		credits:          credits,
		rateLimiter:      newRateLimiter(),
		dashCache:        cache.New[dashboardResponse](100, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /credits", s.withMiddleware(s.handleListCredits))
	mux.HandleFunc("POST /credits", s.withMiddleware(s.handleCreateCredit))
	mux.HandleFunc("GET /credits/{id}", s.withMiddleware(s.handleGetCredit))
	mux.HandleFunc("PUT /credits/{id}", s.withMiddleware(s.handleUpdateCredit))
	mux.HandleFunc("DELETE /credits/{id}", s.withMiddleware(s.handleDeleteCredit))
	mux.HandleFunc("POST /credits/{id}/settle", s.withMiddleware(s.handleSettleCredit))
	mux.HandleFunc("GET /credits/{id}/schedule", s.withMiddleware(s.handleCreditSchedule))

	mux.HandleFunc("GET /recurring-charges", s.withMiddleware(s.handleListCharges))
	mux.HandleFunc("POST /recurring-charges", s.withMiddleware(s.handleCreateCharge))
	mux.HandleFunc("GET /recurring-charges/{id}", s.withMiddleware(s.handleGetCharge))
	mux.HandleFunc("PUT /recurring-charges/{id}", s.withMiddleware(s.handleUpdateCharge))
	mux.HandleFunc("DELETE /recurring-charges/{id}", s.withMiddleware(s.handleDeleteCharge))
	mux.HandleFunc("GET /recurring-charges/debits", s.withMiddleware(s.handleListDebits))
	mux.HandleFunc("GET /recurring-charges/ledger", s.withMiddleware(s.handleListLedger))

	mux.HandleFunc("GET /contributors", s.withMiddleware(s.handleListContributors))
	mux.HandleFunc("POST /contributors", s.withMiddleware(s.handleCreateContributor))
	mux.HandleFunc("PUT /contributors/{id}", s.withMiddleware(s.handleUpdateContributor))
	mux.HandleFunc("DELETE /contributors/{id}", s.withMiddleware(s.handleDeleteContributor))
	mux.HandleFunc("GET /contributors/allocation", s.withMiddleware(s.handleAllocation))

	mux.HandleFunc("GET /savings-projects", s.withMiddleware(s.handleListProjects))
	mux.HandleFunc("POST /savings-projects", s.withMiddleware(s.handleCreateProject))
	mux.HandleFunc("PUT /savings-projects/{id}", s.withMiddleware(s.handleUpdateProject))
	mux.HandleFunc("DELETE /savings-projects/{id}", s.withMiddleware(s.handleDeleteProject))

	mux.HandleFunc("GET /dashboard/debts", s.withMiddleware(s.handleDebtDashboard))

	return s
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.dashCache.CleanExpired()
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines before draining connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
