package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxErrorLen bounds the error message surfaced to callers.
const maxErrorLen = 200

// fail collapses any service failure (validation or storage alike) into
// the single generic failure response.
func fail(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": truncate(err.Error(), maxErrorLen)})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
