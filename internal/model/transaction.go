package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is a closed enumeration — adding a method is a compile-time
// checked change (every switch over it must handle the new constant).
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "CASH"
	PaymentMethodUPI  PaymentMethod = "UPI"
	PaymentMethodBank PaymentMethod = "BANK"
)

// ParsePaymentMethod validates a wire value against the closed enumeration.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch PaymentMethod(raw) {
	case PaymentMethodCash:
		return PaymentMethodCash, nil
	case PaymentMethodUPI:
		return PaymentMethodUPI, nil
	case PaymentMethodBank:
		return PaymentMethodBank, nil
	default:
		return "", fmt.Errorf("unknown payment method %q", raw)
	}
}

// TransactionStatus values. Only "completed" is produced today —
// "refunded" and "failed" are reserved for future reconciliation flows.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionRefunded  TransactionStatus = "refunded"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is a single recorded payment against an order, attributed to
// the session that was active when it was created. Transactions are
// append-only — never updated or deleted by the ledger.
type Transaction struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID     uuid.UUID         `gorm:"type:uuid;index;not null"`
	OrderID       string            `gorm:"type:varchar(64);index;not null"`
	Amount        decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	PaymentMethod PaymentMethod     `gorm:"type:varchar(10);not null"`
	Status        TransactionStatus `gorm:"type:varchar(20);not null;default:'completed'"`
	Timestamp     time.Time         `gorm:"not null"`
}
