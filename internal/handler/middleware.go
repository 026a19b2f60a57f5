package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lottery_backend/internal/models"
	"lottery_backend/internal/service"
)

const (
	ctxUserID    = "UserID"
	ctxUserEmail = "Email"
	ctxRequestID = "RequestID"

	requestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware tags every request with an id for log correlation,
// honoring one supplied by the caller.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(ctxRequestID, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	return parts[1], true
}

func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			newErrorResponse(c, http.StatusUnauthorized, "missing or malformed authorization header")

			return
		}

		claims, err := authService.VerifyAccess(tokenStr)
		if err != nil {
			newErrorResponse(c, http.StatusUnauthorized, "invalid token")

			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)

		c.Next()
	}
}

// AdminMiddleware runs after AuthMiddleware and gates admin-only routes on
// the stored role, not on token contents.
func AdminMiddleware(users *service.UsersService, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			newErrorResponse(c, http.StatusUnauthorized, "invalid token")

			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			log.Error("failed to resolve user for admin check", slog.Int64("user_id", userID), slog.Any("error", err))

			newErrorResponse(c, http.StatusUnauthorized, "invalid token")

			return
		}

		if user.Role != models.RoleAdmin {
			newErrorResponse(c, http.StatusForbidden, "admin access required")

			return
		}

		c.Next()
	}
}

func currentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}

	id, ok := v.(int64)
	return id, ok
}
