package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type EndSessionRequest struct {
	Notes *string `json:"notes" validate:"omitempty,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// MethodTotals breaks the session revenue down by payment method.
// Invariant mirrored from the model: Total == Cash + Upi + Bank.
type MethodTotals struct {
	Cash  decimal.Decimal `json:"cash"`
	Upi   decimal.Decimal `json:"upi"`
	Bank  decimal.Decimal `json:"bank"`
	Total decimal.Decimal `json:"total"`
}

type SessionResponse struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	IsActive  bool         `json:"is_active"`
	Totals    MethodTotals `json:"totals"`
	Notes     *string      `json:"notes"`
	StartTime string       `json:"start_time"`
	EndTime   *string      `json:"end_time"`
	// Duration is recomputed on every read for active sessions ("1h 30m").
	Duration string `json:"duration"`
}

type SessionListResponse struct {
	Data  []SessionResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// SessionHintResponse carries the advisory cached active-session id. It is a
// reload hint only — clients must re-validate via GET /sessions/active.
type SessionHintResponse struct {
	SessionID *string `json:"session_id"`
}
