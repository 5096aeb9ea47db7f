package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"budget-server/auth"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// bearerToken extracts the access token from the Authorization header, the
// access token cookie, or, for websocket upgrades only, the token query
// parameter.
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return c.Query("token")
	}
	return ""
}

func attachSession(c *gin.Context, claims *auth.Claims) {
	c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), claims.Session()))
	c.Set("user_id", claims.UserID)
}

// RequireAuth rejects requests without a valid access token.
func RequireAuth(jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := jwt.Validate(bearerToken(c))
		if err != nil {
			slog.Debug("rejected unauthenticated request", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		attachSession(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the session when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := jwt.Validate(token); err == nil {
				attachSession(c, claims)
			}
		}
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if userID := c.GetString("user_id"); userID != "" {
			attrs = append(attrs, "user_id", userID)
		}
		switch {
		case status >= http.StatusInternalServerError:
			slog.Error("request", attrs...)
		case status >= http.StatusBadRequest:
			slog.Warn("request", attrs...)
		default:
			slog.Info("request", attrs...)
		}
	}
}
