package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lytikz/lytikz/internal/analytics"
)

// AskRequest is the POST /api/ask payload. Event optionally narrows
// count questions to one event name.
type AskRequest struct {
	Question string `json:"question"`
	Event    string `json:"event"`
}

// RegisterAskRoutes registers the rule-based question endpoint.
func RegisterAskRoutes(r gin.IRoutes, engine *analytics.AskEngine) {
	r.POST("/api/ask", func(c *gin.Context) {
		var req AskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		answer, err := engine.Ask(c.Request.Context(), req.Question, req.Event)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, answer)
	})
}
