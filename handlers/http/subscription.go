package httpHandler

import (
	"net/http"

	"budget-server/usecases"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	useCase *usecases.SubscriptionUseCase
}

func NewSubscriptionHandler(useCase *usecases.SubscriptionUseCase) *SubscriptionHandler {
	return &SubscriptionHandler{useCase: useCase}
}

// GetStatus handles GET /api/subscription/status
func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	sub, err := h.useCase.Status(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
