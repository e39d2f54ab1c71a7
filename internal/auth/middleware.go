package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pgms/internal/logger"
	"pgms/internal/plangate"

	"github.com/gin-gonic/gin"
)

const (
	ctxAdminID    = "admin_id"
	ctxAdminEmail = "admin_email"
)

func AuthMiddleware(accessTokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is empty"})
			c.Abort()
			return
		}

		claims, err := ValidateToken(tokenString, accessTokenSecret)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			default:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or malformed token"})
			}
			c.Abort()
			return
		}

		if claims.TokenType != tokenAccess {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			c.Abort()
			return
		}

		SetAdmin(c, claims.AdminID, claims.Email)
		c.Next()
	}
}

// StateLoader reads an admin's subscription state.
type StateLoader interface {
	SubscriptionState(ctx context.Context, adminID int64) (plangate.AccountSubscriptionState, error)
}

// RequireActiveSubscription answers 402 while the admin still owes the first
// payment or the subscription has expired. Mount it after AuthMiddleware.
func RequireActiveSubscription(loader StateLoader, now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		adminID, ok := GetAdminID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		state, err := loader.SubscriptionState(c.Request.Context(), adminID)
		if err != nil {
			logger.WithError(err).Error("failed to load subscription state", "admin_id", adminID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check subscription"})
			c.Abort()
			return
		}

		at := now()
		if state.Blocked(at) {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":  "Active subscription required",
				"status": state.Status(at),
				"plan":   state.CurrentPlan,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func SetAdmin(c *gin.Context, adminID int64, email string) {
	c.Set(ctxAdminID, adminID)
	c.Set(ctxAdminEmail, email)
}

func GetAdminID(c *gin.Context) (int64, bool) {
	adminID, exists := c.Get(ctxAdminID)
	if !exists {
		return 0, false
	}

	id, ok := adminID.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}
