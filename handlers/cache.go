package handlers

import (
	"net/http"

	"budget-server/cache"

	"github.com/gin-gonic/gin"
)

type CacheHandler struct {
	views *cache.ViewCache
}

func NewCacheHandler(views *cache.ViewCache) *CacheHandler {
	return &CacheHandler{
		views: views,
	}
}

// GetCacheStats GET /api/cache/stats
func (h *CacheHandler) GetCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"stats":  h.views.Stats(),
	})
}
