package worker

// inventory_worker.go
// Processes inventory deduction jobs from QueueInventory: resolves the paid
// order and deducts stock for its line items. Deduction is bookkeeping only —
// the payment that triggered the job is already committed, so every failure
// here is logged (or dead-lettered) and never propagated back.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SakshamGunj/pos-sub001/internal/model"
	"github.com/SakshamGunj/pos-sub001/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StockDeductor is the slice of the inventory service the worker needs.
// Declared here so the worker does not depend on the service package, which
// itself depends on this one for the dispatcher.
type StockDeductor interface {
	DeductForOrderItems(ctx context.Context, items []model.OrderItem, orderID string) error
}

type InventoryWorker struct {
	orders    repository.OrderRepository
	inventory StockDeductor
}

func NewInventoryWorker(orders repository.OrderRepository, inventory StockDeductor) *InventoryWorker {
	return &InventoryWorker{orders: orders, inventory: inventory}
}

// Process handles a single inventory deduction job. A missing order is not an
// error — the order may belong to a subsystem this instance cannot see.
// A store failure is returned so the pool can dead-letter the job.
func (w *InventoryWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload InventoryJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid inventory job payload: %w", err)
	}
	if payload.OrderID == "" {
		return errors.New("inventory job missing order_id")
	}

	order, err := w.orders.FindByID(ctx, payload.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Str("order_id", payload.OrderID).Msg("order not found, skipping deduction")
			return nil
		}
		return fmt.Errorf("looking up order %s: %w", payload.OrderID, err)
	}

	if err := w.inventory.DeductForOrderItems(ctx, order.Items, order.ID); err != nil {
		return err
	}

	log.Info().
		Str("order_id", order.ID).
		Int("items", len(order.Items)).
		Msg("inventory deducted for paid order")
	return nil
}
