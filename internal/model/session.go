package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session represents one operational shift of the restaurant.
// Lifecycle: nonexistent → active → closed. A closed session is never
// reopened, and at most one session is active at any time (enforced by a
// partial unique index on is_active — see infra.applySchemaPatches).
type Session struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    string     `gorm:"type:varchar(64);not null"`
	StartTime time.Time  `gorm:"not null;index"`
	EndTime   *time.Time
	IsActive  bool       `gorm:"not null;default:true"`

	// Revenue accumulators. Invariant: TotalRevenue == CashTotal + UpiTotal + BankTotal.
	// Updated exclusively through atomic SQL increments (never read-modify-write).
	CashTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	UpiTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	BankTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalRevenue decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// Notes are settable only when the session is closed.
	Notes *string

	Transactions []Transaction `gorm:"foreignKey:SessionID"`
}

// Duration returns the elapsed time of the session as observed at the given
// instant: closed sessions report their fixed EndTime − StartTime, active
// sessions a live running duration.
func (s *Session) Duration(at time.Time) time.Duration {
	end := at
	if s.EndTime != nil {
		end = *s.EndTime
	}
	return end.Sub(s.StartTime)
}
