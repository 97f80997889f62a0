package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is the inventory-bearing menu entry. The ledger only touches
// StockQuantity, and only through atomic decrements after a paid order.
type MenuItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string          `gorm:"index;not null"`
	Category      string          `gorm:"type:varchar(40)"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StockQuantity int             `gorm:"not null;default:0"`
	Available     bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StockMovement records every stock change on a menu item. Movements are
// append-only — corrections create inverse entries, never edits.
type StockMovement struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MenuItemID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind          string    `gorm:"type:varchar(20);not null"` // "order_deduction" | "manual_adjustment"
	Quantity      int       `gorm:"not null"`                  // positive = in, negative = out
	Reason        string
	// OrderID links the movement to the paid order that caused it.
	OrderID   *string `gorm:"type:varchar(64)"`
	CreatedAt time.Time

	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID"`
}
