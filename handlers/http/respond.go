package httpHandler

import (
	"errors"
	"log/slog"
	"net/http"

	"budget-server/common"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "Something went wrong. Please try again later."

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes {"error": message}. Internal failures
// never expose their cause.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(status, gin.H{"error": internalErrorMessage})
		return
	}
	slog.Warn("request rejected", "path", c.Request.URL.Path, "status", status, "error", err)
	c.JSON(status, gin.H{"error": common.Message(err, http.StatusText(status))})
}

// bindJSON decodes the body into dst, answering 400 on malformed input.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		slog.Warn("invalid request body", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}
