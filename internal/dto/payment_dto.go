package dto

import "github.com/shopspring/decimal"

type RecordPaymentRequest struct {
	OrderID       string          `json:"order_id"       validate:"required"`
	Amount        decimal.Decimal `json:"amount"         validate:"required,gt=0"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=CASH UPI BANK"`
}

type TransactionResponse struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"session_id"`
	OrderID       string          `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	Timestamp     string          `json:"timestamp"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int                   `json:"total"`
}
