package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is owned by the ordering subsystem; the ledger only reads it to
// resolve line items for inventory deduction after a payment.
type Order struct {
	ID        string          `gorm:"type:varchar(64);primaryKey"`
	TableName string          `gorm:"type:varchar(40)"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status    string          `gorm:"type:varchar(20);not null;default:'open'"`
	CreatedAt time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    string    `gorm:"type:varchar(64);index;not null"`
	MenuItemID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity   int       `gorm:"not null"`
}
