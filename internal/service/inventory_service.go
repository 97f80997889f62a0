package service

import (
	"context"
	"fmt"

	"github.com/SakshamGunj/pos-sub001/internal/model"
	"github.com/SakshamGunj/pos-sub001/internal/repository"
)

// InventoryService deducts menu-item stock for paid orders. It is a
// collaborator of the payment path: callers decide whether its errors are
// fatal (they are not — payment recording swallows them).
type InventoryService interface {
	DeductForOrderItems(ctx context.Context, items []model.OrderItem, orderID string) error
}

type inventoryService struct {
	menuItems repository.MenuItemRepository
}

func NewInventoryService(menuItems repository.MenuItemRepository) InventoryService {
	return &inventoryService{menuItems: menuItems}
}

// DeductForOrderItems decrements stock per line item and records an immutable
// stock movement for each. Stops at the first store failure so the caller can
// log exactly what went wrong; already-applied deductions stand (movements
// make the partial state auditable).
func (s *inventoryService) DeductForOrderItems(ctx context.Context, items []model.OrderItem, orderID string) error {
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if err := s.menuItems.DeductStock(ctx, item.MenuItemID, item.Quantity); err != nil {
			return fmt.Errorf("deducting stock for menu item %s: %w", item.MenuItemID, err)
		}

		ref := orderID
		mov := &model.StockMovement{
			MenuItemID: item.MenuItemID,
			Kind:       "order_deduction",
			Quantity:   -item.Quantity,
			Reason:     fmt.Sprintf("Order %s paid", orderID),
			OrderID:    &ref,
		}
		if err := s.menuItems.CreateMovement(ctx, mov); err != nil {
			return fmt.Errorf("recording stock movement for menu item %s: %w", item.MenuItemID, err)
		}
	}
	return nil
}
