package http

import (
	"time"

	"crebito/internal/config"
	"crebito/internal/http/handlers"
	"crebito/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the account endpoints, health checks and the
// optional rate limit group onto the engine.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	h := handlers.NewHandler(db)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	accounts := r.Group("/accounts")
	if cfg != nil && cfg.APIRateLimit > 0 {
		window := time.Duration(cfg.APIRateWindow) * time.Second
		accounts.Use(middleware.RedisRateLimit(cfg.APIRateLimit, window))
	}

	accounts.POST("/:id/transactions", h.ApplyTransaction)
	accounts.GET("/:id/statement", h.Statement)
}
