package httpHandler

import (
	"net/http"

	"budget-server/entities"
	"budget-server/usecases"

	"github.com/gin-gonic/gin"
)

type EnvelopeHandler struct {
	useCase *usecases.EnvelopeUseCase
}

func NewEnvelopeHandler(useCase *usecases.EnvelopeUseCase) *EnvelopeHandler {
	return &EnvelopeHandler{
		useCase: useCase,
	}
}

type reorderRequest struct {
	Positions []entities.EnvelopePosition `json:"positions"`
}

// GetEnvelopes handles GET /api/envelopes
func (h *EnvelopeHandler) GetEnvelopes(c *gin.Context) {
	envelopes, err := h.useCase.GetEnvelopes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  envelopes,
		"count": len(envelopes),
	})
}

// CreateEnvelope handles POST /api/envelopes
func (h *EnvelopeHandler) CreateEnvelope(c *gin.Context) {
	var input usecases.EnvelopeInput
	if !bindJSON(c, &input) {
		return
	}

	envelope, err := h.useCase.CreateEnvelope(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Envelope created successfully",
		"data":    envelope,
	})
}

// DeleteEnvelope handles DELETE /api/envelopes/:id
func (h *EnvelopeHandler) DeleteEnvelope(c *gin.Context) {
	if err := h.useCase.DeleteEnvelope(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Envelope deleted successfully",
	})
}

// ReorderEnvelopes handles PUT /api/envelopes/order
func (h *EnvelopeHandler) ReorderEnvelopes(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req) {
		return
	}

	envelopes, err := h.useCase.ReorderEnvelopes(c.Request.Context(), req.Positions)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  envelopes,
		"count": len(envelopes),
	})
}
