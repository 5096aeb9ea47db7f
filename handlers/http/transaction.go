package httpHandler

import (
	"net/http"

	"budget-server/usecases"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	useCase *usecases.TransactionUseCase
}

func NewTransactionHandler(useCase *usecases.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{useCase: useCase}
}

// GetTransactions handles GET /api/transactions?month=YYYY-MM
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	transactions, err := h.useCase.List(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  transactions,
		"count": len(transactions),
	})
}

// GetSummary handles GET /api/transactions/summary?month=YYYY-MM
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	summary, err := h.useCase.Summary(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var input usecases.TransactionInput
	if !bindJSON(c, &input) {
		return
	}
	transaction, err := h.useCase.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Transaction created successfully",
		"data":    transaction,
	})
}

// DeleteTransaction handles DELETE /api/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	if err := h.useCase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
