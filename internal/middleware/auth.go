package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/collabase/internal/response"
)

const (
	userIDKey    = "user_id"
	sessionIDKey = "session_id"

	// accessTokenQuery lets EventSource clients, which cannot set headers, authenticate streams.
	accessTokenQuery = "access_token"
)

// TokenVerifier resolves a bearer token to the user and session it was issued for.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (userID, sessionID string, err error)
}

// Auth returns a middleware that requires a valid bearer token.
func Auth(verifier TokenVerifier, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, "missing bearer token")
			return
		}

		userID, sessionID, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			logger.Debugw("Rejected bearer token", "error", err, "path", c.Request.URL.Path)
			unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(userIDKey, userID)
		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" outside Auth.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// SessionID returns the authenticated session id, or "" outside Auth.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	return c.Query(accessTokenQuery)
}

func unauthorized(c *gin.Context, message string) {
	response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, message)
}
