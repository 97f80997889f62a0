package service

import "errors"

// Sentinel errors for the session and transaction ledger. Handlers map these
// to HTTP statuses with errors.Is; everything else is treated as a store
// failure and surfaced as a 500.
var (
	// ErrSessionConflict — attempted to start a session while one is active.
	ErrSessionConflict = errors.New("a session is already active")

	// ErrSessionNotFound — the referenced session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoActiveSession — an operation that requires an open shift found none.
	ErrNoActiveSession = errors.New("cannot process payment without an active session")

	// ErrInvalidAmount — payment amounts must be strictly positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInvalidPaymentMethod — value outside the closed CASH/UPI/BANK set.
	ErrInvalidPaymentMethod = errors.New("unrecognized payment method")
)
