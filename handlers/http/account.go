package httpHandler

import (
	"net/http"

	"budget-server/usecases"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	useCase *usecases.AccountUseCase
	auth    *AuthHandler
}

func NewAccountHandler(useCase *usecases.AccountUseCase, auth *AuthHandler) *AccountHandler {
	return &AccountHandler{useCase: useCase, auth: auth}
}

// DeleteAccount handles POST /api/user/delete
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	var req usecases.DeleteAccountInput
	if !bindJSON(c, &req) {
		return
	}
	if err := h.useCase.DeleteAccount(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	h.auth.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account deleted successfully"})
}

// ConfirmEmail handles POST /api/user/verify-email/confirm
func (h *AccountHandler) ConfirmEmail(c *gin.Context) {
	var req usecases.ConfirmEmailInput
	if !bindJSON(c, &req) {
		return
	}
	if err := h.useCase.ConfirmEmail(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified successfully"})
}
