package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lytikz/lytikz/internal/analytics"
	"github.com/lytikz/lytikz/internal/models"
)

// defaultListLimit applies when GET /api/events carries no limit param.
const defaultListLimit = 50

// RegisterEventRoutes registers the ingestion and listing endpoints.
//
// POST /api/events — ingest one event, respond {status:"ok", id}
// GET  /api/events?limit=N — list recent events, limit ∈ [1,500]
func RegisterEventRoutes(r gin.IRoutes, ingestor *analytics.Ingestor, querier *analytics.Querier) {
	r.POST("/api/events", func(c *gin.Context) {
		var req models.IngestEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		id, err := ingestor.Ingest(c.Request.Context(), req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "id": id})
	})

	r.GET("/api/events", func(c *gin.Context) {
		limit := defaultListLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
				return
			}
			limit = n
		}

		items, err := querier.List(c.Request.Context(), limit)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	})
}
