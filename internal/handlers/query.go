package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lytikz/lytikz/internal/analytics"
)

// QueryRequest is the POST /api/query payload. A nil filter matches
// every event; a zero limit falls back to the service default.
type QueryRequest struct {
	Filter map[string]any `json:"filter"`
	Limit  int            `json:"limit"`
}

// RegisterQueryRoutes registers the filtered retrieval endpoint.
func RegisterQueryRoutes(r gin.IRoutes, querier *analytics.Querier) {
	r.POST("/api/query", func(c *gin.Context) {
		var req QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		items, err := querier.Query(c.Request.Context(), req.Filter, req.Limit)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	})
}
