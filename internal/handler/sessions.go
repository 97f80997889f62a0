package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SakshamGunj/pos-sub001/internal/apierror"
	"github.com/SakshamGunj/pos-sub001/internal/dto"
	"github.com/SakshamGunj/pos-sub001/internal/middleware"
	"github.com/SakshamGunj/pos-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionsHandler struct{ svc service.SessionService }

func NewSessionsHandler(svc service.SessionService) *SessionsHandler {
	return &SessionsHandler{svc: svc}
}

// Start godoc
// @Summary Start a new shift session
// @Tags sessions
// @Produce json
// @Param X-Operator-ID header string false "Operator identifier"
// @Success 201 {object} dto.SessionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/sessions [post]
func (h *SessionsHandler) Start(c *gin.Context) {
	resp, err := h.svc.Start(c.Request.Context(), middleware.GetOperatorID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// End godoc
// @Summary End the active session
// @Tags sessions
// @Accept json
// @Produce json
// @Param body body dto.EndSessionRequest false "Closing notes"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/sessions/end [post]
func (h *SessionsHandler) End(c *gin.Context) {
	var req dto.EndSessionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	resp, err := h.svc.End(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetActive godoc
// @Summary Get the currently active session
// @Tags sessions
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/sessions/active [get]
func (h *SessionsHandler) GetActive(c *gin.Context) {
	resp, err := h.svc.GetActive(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("no active session"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActiveHint returns the advisory cached active-session id for UI reloads.
// Clients must still re-validate against GET /v1/sessions/active.
func (h *SessionsHandler) ActiveHint(c *gin.Context) {
	id, err := h.svc.ActiveHint(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SessionHintResponse{SessionID: id})
}

// GetByID godoc
// @Summary Get a session report by id
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/sessions/{id} [get]
func (h *SessionsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary List sessions, newest shift first
// @Tags sessions
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.SessionListResponse
// @Router /v1/sessions [get]
func (h *SessionsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// writeServiceError maps ledger sentinel errors to HTTP statuses; anything
// unrecognized is a store failure and surfaces as a 500.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionConflict), errors.Is(err, service.ErrNoActiveSession):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrInvalidPaymentMethod):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}
