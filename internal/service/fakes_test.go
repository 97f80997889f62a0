package service

import (
	"context"
	"sync"
	"time"

	"github.com/SakshamGunj/pos-sub001/internal/model"
	"github.com/SakshamGunj/pos-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory SessionRepository ──────────────────────────────────────────────
// Mirrors the store contract, including the atomic-increment semantics of
// IncrementTotalsTx: all mutation happens under one lock, so concurrent
// payments exercise the same "no lost update" guarantee the SQL expressions
// give the real store.

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*model.Session

	// txns, when set, mirrors the real store's transactional coupling: a
	// failed increment rolls back the transaction row inserted alongside it.
	txns *fakeTransactionRepo
	// beforeIncrement runs at the top of IncrementTotalsTx, outside the lock,
	// so tests can interleave a session close between the active-session read
	// and the guarded update.
	beforeIncrement func()
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*model.Session)}
}

func (r *fakeSessionRepo) DB() *gorm.DB { return nil } // runTx executes fn(nil)

func (r *fakeSessionRepo) Create(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.IsActive {
		for _, existing := range r.sessions {
			if existing.IsActive {
				return gorm.ErrDuplicatedKey // partial unique index stand-in
			}
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) FindActive(_ context.Context) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var earliest *model.Session
	for _, s := range r.sessions {
		if s.IsActive && (earliest == nil || s.StartTime.Before(earliest.StartTime)) {
			earliest = s
		}
	}
	if earliest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *earliest
	return &cp, nil
}

func (r *fakeSessionRepo) CountActive(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.sessions {
		if s.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) Close(_ context.Context, id uuid.UUID, endTime time.Time, notes *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || !s.IsActive {
		return gorm.ErrRecordNotFound
	}
	s.IsActive = false
	s.EndTime = &endTime
	s.Notes = notes
	return nil
}

func (r *fakeSessionRepo) List(_ context.Context, page, limit int) ([]model.Session, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]model.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, *s)
	}
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[j].StartTime.After(all[i].StartTime) {
				all[i], all[j] = all[j], all[i]
			}
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeSessionRepo) IncrementTotalsTx(_ *gorm.DB, id uuid.UUID, method model.PaymentMethod, amount decimal.Decimal) error {
	if r.beforeIncrement != nil {
		r.beforeIncrement()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || !s.IsActive {
		if r.txns != nil {
			r.txns.dropLast()
		}
		return repository.ErrNoActiveRow
	}
	switch method {
	case model.PaymentMethodCash:
		s.CashTotal = s.CashTotal.Add(amount)
	case model.PaymentMethodUPI:
		s.UpiTotal = s.UpiTotal.Add(amount)
	case model.PaymentMethodBank:
		s.BankTotal = s.BankTotal.Add(amount)
	}
	s.TotalRevenue = s.TotalRevenue.Add(amount)
	return nil
}

var _ repository.SessionRepository = (*fakeSessionRepo)(nil)

// ── In-memory TransactionRepository ──────────────────────────────────────────

type fakeTransactionRepo struct {
	mu           sync.Mutex
	transactions []model.Transaction
}

func (r *fakeTransactionRepo) CreateTx(_ *gorm.DB, t *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.transactions = append(r.transactions, *t)
	return nil
}

func (r *fakeTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.transactions {
		if r.transactions[i].ID == id {
			cp := r.transactions[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTransactionRepo) FindBySession(_ context.Context, sessionID uuid.UUID) ([]model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Transaction
	for _, t := range r.transactions {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

// dropLast undoes the most recent insert, standing in for the rollback the
// real store performs when the enclosing transaction fails.
func (r *fakeTransactionRepo) dropLast() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.transactions); n > 0 {
		r.transactions = r.transactions[:n-1]
	}
}

func (r *fakeTransactionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.transactions)
}

var _ repository.TransactionRepository = (*fakeTransactionRepo)(nil)

// ── Order / inventory collaborators ──────────────────────────────────────────

type fakeOrderRepo struct {
	orders map[string]*model.Order
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id string) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

var _ repository.OrderRepository = (*fakeOrderRepo)(nil)

// fakeInventory records deduction calls and can be primed to fail.
type fakeInventory struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeInventory) DeductForOrderItems(_ context.Context, _ []model.OrderItem, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, orderID)
	return f.err
}

var _ InventoryService = (*fakeInventory)(nil)
