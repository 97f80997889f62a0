package handler

import (
	"net/http"

	"github.com/SakshamGunj/pos-sub001/internal/apierror"
	"github.com/SakshamGunj/pos-sub001/internal/dto"
	"github.com/SakshamGunj/pos-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentsHandler struct{ svc service.PaymentService }

func NewPaymentsHandler(svc service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{svc: svc}
}

// Record godoc
// @Summary Record a payment against an order
// @Tags payments
// @Accept json
// @Produce json
// @Param body body dto.RecordPaymentRequest true "Payment"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/payments [post]
func (h *PaymentsHandler) Record(c *gin.Context) {
	var req dto.RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordPayment(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListForSession godoc
// @Summary List a session's transactions, newest first
// @Tags payments
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.TransactionListResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/sessions/{id}/transactions [get]
func (h *PaymentsHandler) ListForSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	resp, err := h.svc.ListForSession(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
