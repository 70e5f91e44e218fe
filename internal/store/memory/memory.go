// Package memory provides an in-memory Store used by tests and by local
// development when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"plenio/internal/core"
	"plenio/internal/store"
)

type Store struct {
	mu       sync.Mutex
	profiles map[string]core.UserProfile
	methods  map[string]core.PaymentMethod
	cats     map[string]core.Category
	txns     map[string]core.Transaction
	budgets  map[string]core.Budget
	lastRun  map[string]string

	// txnOrder keeps insertion order so listings are deterministic before
	// the date sort is applied.
	txnOrder []string
}

func New() *Store {
	return &Store{
		profiles: map[string]core.UserProfile{},
		methods:  map[string]core.PaymentMethod{},
		cats:     map[string]core.Category{},
		txns:     map[string]core.Transaction{},
		budgets:  map[string]core.Budget{},
		lastRun:  map[string]string{},
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) UpsertProfile(_ context.Context, p core.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UID] = p
	return nil
}

func (s *Store) GetProfile(_ context.Context, uid string) (core.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[uid]
	if !ok {
		return core.UserProfile{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) CreatePaymentMethod(_ context.Context, m core.PaymentMethod) error {
	if err := m.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.methods[m.ID] = m
	return nil
}

func (s *Store) ListPaymentMethods(_ context.Context, userID string) ([]core.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.PaymentMethod
	for _, m := range s.methods {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetPaymentMethod(_ context.Context, userID, id string) (core.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.methods[id]
	if !ok || m.UserID != userID {
		return core.PaymentMethod{}, store.ErrNotFound
	}
	return m, nil
}

func (s *Store) UpdatePaymentMethod(_ context.Context, m core.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.methods[m.ID]
	if !ok || cur.UserID != m.UserID {
		return store.ErrNotFound
	}
	s.methods[m.ID] = m
	return nil
}

func (s *Store) DeletePaymentMethod(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.methods[id]
	if !ok || m.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.methods, id)
	return nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cats[c.ID] = c
	return nil
}

func (s *Store) ListCategories(_ context.Context, userID string) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Category
	for _, c := range s.cats {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, userID, id string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cats[id]
	if !ok || c.UserID != userID {
		return core.Category{}, store.ErrNotFound
	}
	return c, nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.cats[c.ID]
	if !ok || cur.UserID != c.UserID {
		return store.ErrNotFound
	}
	s.cats[c.ID] = c
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cats[id]
	if !ok || c.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.cats, id)
	return nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txns[t.ID]; !ok {
		s.txnOrder = append(s.txnOrder, t.ID)
	}
	s.txns[t.ID] = t
	return nil
}

func (s *Store) ListTransactions(_ context.Context, userID string, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	var out []core.Transaction
	for _, id := range s.txnOrder {
		t, ok := s.txns[id]
		if ok && t.UserID == userID {
			out = append(out, t)
		}
	}
	s.mu.Unlock()
	n := limit
	if n <= 0 {
		n = len(out)
	}
	return core.MostRecent(out, n), nil
}

func (s *Store) GetTransaction(_ context.Context, userID, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txns[id]
	if !ok || t.UserID != userID {
		return core.Transaction{}, store.ErrNotFound
	}
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txns[id]
	if !ok || t.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.txns, id)
	for i, tid := range s.txnOrder {
		if tid == id {
			s.txnOrder = append(s.txnOrder[:i], s.txnOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) ListRecurringTemplates(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, id := range s.txnOrder {
		if t, ok := s.txns[id]; ok && t.IsRecurring {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) GetRecurringLastRun(_ context.Context, templateID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun[templateID], nil
}

func (s *Store) SetRecurringLastRun(_ context.Context, templateID, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun[templateID] = day
	return nil
}

func (s *Store) CreateBudget(_ context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[b.ID] = b
	return nil
}

func (s *Store) ListBudgets(_ context.Context, userID string) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Budget
	for _, b := range s.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetBudget(_ context.Context, userID, id string) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return core.Budget{}, store.ErrNotFound
	}
	return b, nil
}

func (s *Store) UpdateBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.budgets[b.ID]
	if !ok || cur.UserID != b.UserID {
		return store.ErrNotFound
	}
	s.budgets[b.ID] = b
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.budgets, id)
	return nil
}
