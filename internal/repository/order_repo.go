package repository

import (
	"context"

	"github.com/SakshamGunj/pos-sub001/internal/model"

	"gorm.io/gorm"
)

// OrderRepository is read-only: orders belong to the ordering subsystem,
// the ledger only resolves them for inventory deduction.
type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*model.Order, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}
