package server

import (
	"context"
	"net/http"

	"pgms/internal/api"
	"pgms/internal/email"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

type emailSender interface {
	Send(ctx context.Context, kind, to, name, subject, body string) error
}

// TestEmail queues a test message so an admin can check SMTP settings.
func TestEmail(sender emailSender) gin.HandlerFunc {
	return func(c *gin.Context) {
		testEmail := c.Query("email")
		if testEmail == "" {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "email parameter required"})
			return
		}

		if err := sender.Send(c.Request.Context(), email.KindTest, testEmail, "PGMS Admin", "Test Email from PGMS", "Email is working!"); err != nil {
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
			return
		}

		c.JSON(http.StatusOK, api.MessageResponse{Message: "Email queued successfully"})
	}
}

func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
