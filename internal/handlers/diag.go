package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// welcomeMessage is the root banner.
const welcomeMessage = "Welcome to Lytikz - event tracking and analytics"

// maxDiagCollections caps the collection listing in /test output.
const maxDiagCollections = 10

// Diagnostics is the probe surface the /test endpoint needs from the
// store.
type Diagnostics interface {
	Ping(ctx context.Context) error
	Collections(ctx context.Context) ([]string, error)
}

// RegisterDiagRoutes registers the liveness banner and the store
// reachability probe.
func RegisterDiagRoutes(r gin.IRoutes, diag Diagnostics, databaseURLSet bool) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": welcomeMessage})
	})

	r.GET("/test", func(c *gin.Context) {
		resp := gin.H{
			"backend":           "running",
			"database":          "not available",
			"database_url":      "not set",
			"connection_status": "not connected",
			"collections":       []string{},
		}
		if databaseURLSet {
			resp["database_url"] = "set"
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := diag.Ping(ctx); err != nil {
			resp["database"] = "error: " + truncate(err.Error(), 50)
			c.JSON(http.StatusOK, resp)
			return
		}
		resp["database"] = "connected"
		resp["connection_status"] = "connected"

		if names, err := diag.Collections(ctx); err == nil && names != nil {
			if len(names) > maxDiagCollections {
				names = names[:maxDiagCollections]
			}
			resp["collections"] = names
		}

		c.JSON(http.StatusOK, resp)
	})
}
