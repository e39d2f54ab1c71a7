package property

import (
	"errors"
	"net/http"
	"strconv"

	"pgms/internal/api"
	"pgms/internal/logger"
	"pgms/internal/period"

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

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("failed to list rooms")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load rooms"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *Handler) GetRoom(c *gin.Context) {
	room, err := h.service.GetRoom(c.Request.Context(), c.Param("roomNumber"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h *Handler) UpdateRoom(c *gin.Context) {
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.service.UpdateRoom(c.Request.Context(), c.Param("roomNumber"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *Handler) ListTenants(c *gin.Context) {
	tenants, err := h.service.ListTenants(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("failed to list tenants")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load tenants"})
		return
	}
	c.JSON(http.StatusOK, tenants)
}

func (h *Handler) GetTenant(c *gin.Context) {
	id, ok := idParam(c, "tenantID", "Invalid tenant ID")
	if !ok {
		return
	}

	tenant, err := h.service.GetTenant(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (h *Handler) CreateTenant(c *gin.Context) {
	var req TenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	tenant, err := h.service.CreateTenant(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tenant)
}

func (h *Handler) UpdateTenant(c *gin.Context) {
	id, ok := idParam(c, "tenantID", "Invalid tenant ID")
	if !ok {
		return
	}

	var req TenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	tenant, err := h.service.UpdateTenant(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

// ListPayments accepts ?tenant=&tenant_id=&from=&to=. from and to come
// together and bound the payment date inclusively.
func (h *Handler) ListPayments(c *gin.Context) {
	filter, err := paymentFilter(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	payments, err := h.service.ListPayments(c.Request.Context(), filter)
	if err != nil {
		logger.WithError(err).Error("failed to list payments")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := idParam(c, "paymentID", "Invalid payment ID")
	if !ok {
		return
	}

	p, err := h.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) RecordPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.service.RecordPayment(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) ReplacePayment(c *gin.Context) {
	id, ok := idParam(c, "paymentID", "Invalid payment ID")
	if !ok {
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.service.ReplacePayment(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func idParam(c *gin.Context, name, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: message})
		return 0, false
	}
	return id, true
}

func paymentFilter(c *gin.Context) (PaymentFilter, error) {
	f := PaymentFilter{TenantName: c.Query("tenant")}

	if raw := c.Query("tenant_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return PaymentFilter{}, api.NewValidationError("tenant_id", "invalid tenant id")
		}
		f.TenantID = &id
	}

	from, to := c.Query("from"), c.Query("to")
	if from == "" && to == "" {
		return f, nil
	}
	if from == "" || to == "" {
		return PaymentFilter{}, api.NewValidationError("period", "from and to are required together")
	}

	start, ok := period.ParseDate(from)
	if !ok {
		return PaymentFilter{}, api.NewValidationError("from", "unrecognised date")
	}
	end, ok := period.ParseDate(to)
	if !ok {
		return PaymentFilter{}, api.NewValidationError("to", "unrecognised date")
	}

	f.Period = period.Period{Start: start, End: end}
	if err := f.Period.Validate(); err != nil {
		return PaymentFilter{}, err
	}
	return f, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	var verr *api.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr)
	case errors.Is(err, ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Payment not found"})
	case errors.Is(err, ErrRoomNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Room not found"})
	case errors.Is(err, ErrTenantNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Tenant not found"})
	case errors.Is(err, ErrRoomExists):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Room number already exists"})
	case errors.Is(err, ErrRoomFull):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Room is full"})
	default:
		logger.WithError(err).Error("property request failed", "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to process request"})
	}
}
