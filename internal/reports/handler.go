package reports

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pgms/internal/api"
	"pgms/internal/dues"
	"pgms/internal/logger"
	"pgms/internal/period"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

func (h *Handler) Dues(c *gin.Context) {
	q, err := h.duesQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	rep, err := h.service.Dues(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) DuesExport(c *gin.Context) {
	q, err := h.duesQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	rep, err := h.service.Dues(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}

	buf, err := DuesWorkbook(rep)
	if err != nil {
		logger.WithError(err).Error("failed to build dues workbook")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to write Excel file"})
		return
	}

	fileName := fmt.Sprintf("dues_%s.xlsx", rep.Period.Start.Time().Format("2006_01"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *Handler) Revenue(c *gin.Context) {
	p, err := h.period(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	rev, err := h.service.Revenue(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}

func (h *Handler) RoomRevenue(c *gin.Context) {
	rev, err := h.service.RoomRevenue(c.Request.Context(), c.Param("roomNumber"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}

func (h *Handler) Occupancy(c *gin.Context) {
	rep, err := h.service.Occupancy(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) duesQuery(c *gin.Context) (DuesQuery, error) {
	p, err := h.period(c)
	if err != nil {
		return DuesQuery{}, err
	}
	return DuesQuery{Period: p, Filter: dues.ParseDueFilter(c.Query("filter"))}, nil
}

// period reads ?year=&month=. No year means the current month; a year
// without a month means the whole year.
func (h *Handler) period(c *gin.Context) (period.Period, error) {
	yearParam, monthParam := c.Query("year"), c.Query("month")
	if yearParam == "" {
		if monthParam != "" {
			return period.Period{}, api.NewValidationError("year", "year is required with month")
		}
		return period.CurrentMonth(h.now()), nil
	}

	year, err := strconv.Atoi(yearParam)
	if err != nil || year < 1 || year > 9999 {
		return period.Period{}, api.NewValidationError("year", "invalid year")
	}
	if monthParam == "" {
		return period.Year(year), nil
	}

	month, err := strconv.Atoi(monthParam)
	if err != nil || month < 1 || month > 12 {
		return period.Period{}, api.NewValidationError("month", "invalid month")
	}
	return period.Month(year, time.Month(month)), nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	var verr *api.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr)
	case errors.Is(err, ErrRoomNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Room not found"})
	default:
		logger.WithError(err).Error("report failed")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to build report"})
	}
}
