package httpHandler

import (
	"net/http"

	"budget-server/usecases"

	"github.com/gin-gonic/gin"
)

type HouseholdHandler struct {
	useCase *usecases.HouseholdUseCase
}

func NewHouseholdHandler(useCase *usecases.HouseholdUseCase) *HouseholdHandler {
	return &HouseholdHandler{useCase: useCase}
}

// CreateHousehold handles POST /api/households
func (h *HouseholdHandler) CreateHousehold(c *gin.Context) {
	var input usecases.HouseholdInput
	if !bindJSON(c, &input) {
		return
	}
	household, err := h.useCase.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": household})
}

// GetCurrentHousehold handles GET /api/households/current
func (h *HouseholdHandler) GetCurrentHousehold(c *gin.Context) {
	household, err := h.useCase.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": household})
}

// AddMember handles POST /api/households/members
func (h *HouseholdHandler) AddMember(c *gin.Context) {
	var input usecases.MemberInput
	if !bindJSON(c, &input) {
		return
	}
	household, err := h.useCase.AddMember(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": household})
}
