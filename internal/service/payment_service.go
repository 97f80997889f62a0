package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/SakshamGunj/pos-sub001/internal/dto"
	"github.com/SakshamGunj/pos-sub001/internal/model"
	"github.com/SakshamGunj/pos-sub001/internal/repository"
	"github.com/SakshamGunj/pos-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type PaymentService interface {
	// RecordPayment appends a completed transaction to the active session and
	// atomically folds its amount into the session accumulators. Inventory
	// deduction for the paid order is best-effort and never fails the payment.
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest) (*dto.TransactionResponse, error)
	// ListForSession returns the session's transactions newest first.
	ListForSession(ctx context.Context, sessionID uuid.UUID) (*dto.TransactionListResponse, error)
}

type paymentService struct {
	sessions   repository.SessionRepository
	txs        repository.TransactionRepository
	orders     repository.OrderRepository
	inventory  InventoryService
	dispatcher *worker.Dispatcher
	now        func() time.Time
}

func NewPaymentService(
	sessions repository.SessionRepository,
	txs repository.TransactionRepository,
	orders repository.OrderRepository,
	inventory InventoryService,
	dispatcher *worker.Dispatcher,
) PaymentService {
	return &paymentService{
		sessions:   sessions,
		txs:        txs,
		orders:     orders,
		inventory:  inventory,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RecordPayment ─────────────────────────────────────────────────────────────
//
//  1. Validate amount and payment method
//  2. Resolve the active session
//  3. TX: insert the transaction row, then increment the session accumulators
//     with SQL expressions guarded by is_active — the increment is atomic at
//     the store, so concurrent payments never clobber each other's totals
//  4. (best effort) deduct inventory for the paid order's line items

func (s *paymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest) (*dto.TransactionResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	method, err := model.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	active, err := s.sessions.FindActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("querying active session: %w", err)
	}

	txn := &model.Transaction{
		SessionID:     active.ID,
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		PaymentMethod: method,
		Status:        model.TransactionCompleted,
		Timestamp:     s.now().UTC(),
	}

	txErr := runTx(ctx, s.sessions.DB(), func(tx *gorm.DB) error {
		if err := s.txs.CreateTx(tx, txn); err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
		if err := s.sessions.IncrementTotalsTx(tx, active.ID, method, req.Amount); err != nil {
			if errors.Is(err, repository.ErrNoActiveRow) {
				// Session was closed between the read and the update —
				// roll everything back, nothing is persisted.
				return ErrNoActiveSession
			}
			return fmt.Errorf("updating session totals: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Best-effort side effect: the financial record above is committed and
	// must never be rolled back because inventory bookkeeping failed.
	s.requestInventoryDeduction(ctx, req.OrderID)

	return toTransactionResponse(txn), nil
}

// requestInventoryDeduction hands the paid order to the async worker queue,
// falling back to a synchronous deduction when no dispatcher is wired.
// Every failure path here is logged and swallowed.
func (s *paymentService) requestInventoryDeduction(ctx context.Context, orderID string) {
	if s.dispatcher != nil {
		err := s.dispatcher.EnqueueInventoryDeduction(ctx, worker.InventoryJobPayload{OrderID: orderID})
		if err == nil {
			return
		}
		log.Warn().Err(err).Str("order_id", orderID).Msg("enqueue failed, deducting inventory inline")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("order lookup failed, skipping inventory deduction")
		return
	}
	if err := s.inventory.DeductForOrderItems(ctx, order.Items, orderID); err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("inventory deduction failed, payment kept")
	}
}

// ── ListForSession ────────────────────────────────────────────────────────────

func (s *paymentService) ListForSession(ctx context.Context, sessionID uuid.UUID) (*dto.TransactionListResponse, error) {
	if _, err := s.sessions.FindByID(ctx, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}

	txns, err := s.txs.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	// Ordering happens here, not in the query, so the store needs no
	// composite (session_id, timestamp) index.
	sort.Slice(txns, func(i, j int) bool {
		return txns[i].Timestamp.After(txns[j].Timestamp)
	})

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, *toTransactionResponse(&txns[i]))
	}
	return &dto.TransactionListResponse{Data: items, Total: len(items)}, nil
}

func toTransactionResponse(t *model.Transaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:            t.ID.String(),
		SessionID:     t.SessionID.String(),
		OrderID:       t.OrderID,
		Amount:        t.Amount,
		PaymentMethod: string(t.PaymentMethod),
		Status:        string(t.Status),
		Timestamp:     t.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
