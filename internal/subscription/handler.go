package subscription

import (
	"errors"
	"net/http"

	"pgms/internal/api"
	"pgms/internal/auth"
	"pgms/internal/gateway"
	"pgms/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) ListPlans(c *gin.Context) {
	adminID, ok := auth.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	plans, err := h.service.ListPlans(c.Request.Context(), adminID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *Handler) Status(c *gin.Context) {
	adminID, ok := auth.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	view, err := h.service.Status(c.Request.Context(), adminID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) Confirm(c *gin.Context) {
	adminID, ok := auth.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.service.Confirm(c.Request.Context(), adminID, req.PlanName)
	if err != nil {
		h.fail(c, err)
		return
	}

	status := http.StatusCreated
	if result.Subscription != nil {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

func (h *Handler) Verify(c *gin.Context) {
	adminID, ok := auth.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.service.Verify(c.Request.Context(), adminID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Orders(c *gin.Context) {
	adminID, ok := auth.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	orders, err := h.service.Orders(c.Request.Context(), adminID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var verr *api.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr)
	case errors.Is(err, ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid payment signature"})
	case errors.Is(err, ErrPlanLocked):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Plan is locked until your assigned plan is activated"})
	case errors.Is(err, ErrPlanNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Plan not found"})
	case errors.Is(err, ErrOrderNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Payment order not found"})
	case errors.Is(err, ErrAccountNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Account not found"})
	case errors.Is(err, gateway.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "Payment gateway unavailable, try again shortly"})
	default:
		logger.WithError(err).Error("subscription request failed")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Subscription request failed"})
	}
}
