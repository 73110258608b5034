package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/utils/requestctx"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header key for authorization.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens.
	BearerPrefix = "Bearer "
	// SessionCookie is the cookie carrying the session token.
	SessionCookie = "token"
	// UserIDKey is the context key for user ID.
	UserIDKey = "user_id"
)

// Authenticator verifies a session token.
type Authenticator interface {
	Authenticate(token string) (uuid.UUID, error)
}

// AdminChecker reports whether an account has admin rights.
type AdminChecker interface {
	IsAdmin(ctx context.Context, accountID uuid.UUID) (bool, error)
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"status": "error", "message": message})
}

// RequireAuth rejects requests without a valid session token in the
// cookie or the Authorization header.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		userID, err := auth.Authenticate(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		c.Set(UserIDKey, userID)
		c.Request = c.Request.WithContext(requestctx.WithAccountID(c.Request.Context(), userID.String()))
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin(checker AdminChecker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == uuid.Nil {
			abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ok, err := checker.IsAdmin(c.Request.Context(), userID)
		if err != nil {
			logger.Error("admin check failed", zap.String("user_id", userID.String()), zap.Error(err))
			abort(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !ok {
			abort(c, http.StatusForbidden, "Forbidden")
			return
		}
		c.Next()
	}
}

// extractToken prefers the session cookie over a bearer header.
func extractToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader(AuthorizationHeader)
	if strings.HasPrefix(authHeader, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
	}
	return ""
}

// GetUserID returns the user ID from context.
// Returns uuid.Nil if not found.
func GetUserID(c *gin.Context) uuid.UUID {
	if val, exists := c.Get(UserIDKey); exists {
		if userID, ok := val.(uuid.UUID); ok {
			return userID
		}
	}
	return uuid.Nil
}
