// Package memory holds an in-memory store used by handler tests and local
// development without SQLite.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/BarthGve/budget-wizard-fr-sub000/internal/core"
	"github.com/BarthGve/budget-wizard-fr-sub000/internal/storage"
)

type Store struct {
	mu           sync.Mutex
	credits      map[string]core.Credit
	charges      map[string]core.RecurringCharge
	contributors map[string]core.Contributor
	projects     map[string]core.SavingsProject
	ledger       []storage.LedgerEntry
	snapshots    []storage.DebtSnapshot
}

func New() *Store {
	return &Store{
		credits:      map[string]core.Credit{},
		charges:      map[string]core.RecurringCharge{},
		contributors: map[string]core.Contributor{},
		projects:     map[string]core.SavingsProject{},
	}
}

func (s *Store) CreateCredit(_ context.Context, c core.Credit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credits[c.ID] = c
	return nil
}

func (s *Store) GetCredit(_ context.Context, id string) (core.Credit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.credits[id]
	if !ok {
		return core.Credit{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListCredits(_ context.Context) ([]core.Credit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Credit, 0, len(s.credits))
	for _, c := range s.credits {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FirstPaymentDate.Equal(out[j].FirstPaymentDate) {
			return out[i].FirstPaymentDate.Before(out[j].FirstPaymentDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateCredit(_ context.Context, c core.Credit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.credits[c.ID]; !ok {
		return storage.ErrNotFound
	}
	s.credits[c.ID] = c
	return nil
}

func (s *Store) DeleteCredit(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.credits[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.credits, id)
	return nil
}

func (s *Store) CreateCharge(_ context.Context, rc core.RecurringCharge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.charges[rc.ID] = rc
	return nil
}

func (s *Store) GetCharge(_ context.Context, id string) (core.RecurringCharge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rc, ok := s.charges[id]
	if !ok {
		return core.RecurringCharge{}, storage.ErrNotFound
	}
	return rc, nil
}

func (s *Store) ListCharges(_ context.Context) ([]core.RecurringCharge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RecurringCharge, 0, len(s.charges))
	for _, rc := range s.charges {
		out = append(out, rc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateCharge(_ context.Context, rc core.RecurringCharge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.charges[rc.ID]; !ok {
		return storage.ErrNotFound
	}
	s.charges[rc.ID] = rc
	return nil
}

func (s *Store) DeleteCharge(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.charges[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.charges, id)
	return nil
}

func (s *Store) CreateContributor(_ context.Context, c core.Contributor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contributors[c.ID] = c
	return nil
}

func (s *Store) GetContributor(_ context.Context, id string) (core.Contributor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contributors[id]
	if !ok {
		return core.Contributor{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListContributors(_ context.Context) ([]core.Contributor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Contributor, 0, len(s.contributors))
	for _, c := range s.contributors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsOwner != out[j].IsOwner {
			return out[i].IsOwner
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateContributor(_ context.Context, c core.Contributor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contributors[c.ID]; !ok {
		return storage.ErrNotFound
	}
	s.contributors[c.ID] = c
	return nil
}

func (s *Store) DeleteContributor(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contributors[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.contributors, id)
	return nil
}

func (s *Store) CreateProject(_ context.Context, p core.SavingsProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p
	return nil
}

func (s *Store) GetProject(_ context.Context, id string) (core.SavingsProject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return core.SavingsProject{}, storage.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListProjects(_ context.Context) ([]core.SavingsProject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.SavingsProject, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateProject(_ context.Context, p core.SavingsProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; !ok {
		return storage.ErrNotFound
	}
	s.projects[p.ID] = p
	return nil
}

func (s *Store) DeleteProject(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *Store) InsertLedgerEntry(_ context.Context, e storage.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.ledger {
		if existing.ChargeID == e.ChargeID && existing.DebitedOn.Equal(e.DebitedOn) {
			return storage.ErrConflict
		}
	}
	s.ledger = append(s.ledger, e)
	return nil
}

func (s *Store) ListLedgerEntries(_ context.Context, from, to core.Date) ([]storage.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storage.LedgerEntry
	for _, e := range s.ledger {
		if e.DebitedOn.Before(from) || e.DebitedOn.After(to) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DebitedOn.Equal(out[j].DebitedOn) {
			return out[i].DebitedOn.Before(out[j].DebitedOn)
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) InsertSnapshot(_ context.Context, snap storage.DebtSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap.ID = int64(len(s.snapshots) + 1)
	s.snapshots = append(s.snapshots, snap)
	return nil
}

func (s *Store) LatestSnapshot(_ context.Context, view string) (storage.DebtSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		if s.snapshots[i].View == view {
			return s.snapshots[i], nil
		}
	}
	return storage.DebtSnapshot{}, storage.ErrNotFound
}
