package httpserver

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lytikz/lytikz/internal/analytics"
	"github.com/lytikz/lytikz/internal/config"
	"github.com/lytikz/lytikz/internal/handlers"
	"github.com/lytikz/lytikz/internal/store"
)

// NewRouter wires middleware, services, and routes.
//
// Public surface:
//
//	GET  /            liveness banner
//	GET  /test        store reachability probe
//	POST /api/events  ingest
//	GET  /api/events  list
//	POST /api/query   filtered retrieval
//	POST /api/ask     rule-based questions
func NewRouter(cfg config.Config, st store.Backend, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(logger))
	r.Use(cors.New(corsConfig(cfg)))

	ingestor := analytics.NewIngestor(st)
	querier := analytics.NewQuerier(st)
	engine := analytics.NewAskEngine(st)

	handlers.RegisterDiagRoutes(r, st, cfg.DatabaseURL != "")
	handlers.RegisterEventRoutes(r, ingestor, querier)
	handlers.RegisterQueryRoutes(r, querier)
	handlers.RegisterAskRoutes(r, engine)

	return r
}

func corsConfig(cfg config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		// Credentials with a wildcard origin need AllowOriginFunc.
		c.AllowOriginFunc = func(string) bool { return true }
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
	}
	return c
}
