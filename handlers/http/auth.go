package httpHandler

import (
	"net/http"
	"time"

	"budget-server/handlers"
	"budget-server/usecases"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth          *usecases.AuthUseCase
	account       *usecases.AccountUseCase
	secureCookies bool
}

func NewAuthHandler(auth *usecases.AuthUseCase, account *usecases.AccountUseCase, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, account: account, secureCookies: secureCookies}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, tokens *usecases.Tokens) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(handlers.AccessTokenCookie, tokens.AccessToken, maxAge(tokens.AccessExpiresAt), "/", "", h.secureCookies, true)
	c.SetCookie(handlers.RefreshTokenCookie, tokens.RefreshToken, maxAge(tokens.RefreshExpiresAt), "/", "", h.secureCookies, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(handlers.AccessTokenCookie, "", -1, "/", "", h.secureCookies, true)
	c.SetCookie(handlers.RefreshTokenCookie, "", -1, "/", "", h.secureCookies, true)
}

func maxAge(expires time.Time) int {
	return int(time.Until(expires).Seconds())
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req usecases.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	tokens, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSessionCookies(c, tokens)
	c.JSON(http.StatusCreated, tokens)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req usecases.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	tokens, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSessionCookies(c, tokens)
	c.JSON(http.StatusOK, tokens)
}

// refreshTokenFrom prefers the cookie and falls back to the JSON body.
func refreshTokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(handlers.RefreshTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	var req refreshRequest
	if c.Request.ContentLength != 0 {
		_ = c.ShouldBindJSON(&req)
	}
	return req.RefreshToken
}

// RefreshToken handles POST /api/auth/refresh-token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	tokens, err := h.auth.Refresh(c.Request.Context(), refreshTokenFrom(c))
	if err != nil {
		h.clearSessionCookies(c)
		respondError(c, err)
		return
	}
	h.setSessionCookies(c, tokens)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Token refreshed successfully",
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), refreshTokenFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// UpdatePhone handles POST /api/auth/update-phone
func (h *AuthHandler) UpdatePhone(c *gin.Context) {
	var req usecases.UpdatePhoneInput
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.account.UpdatePhone(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Phone number updated successfully"})
}
