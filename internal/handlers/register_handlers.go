package handlers

import (
	"fmt"

	portssvc "github.com/SscSPs/mma_fx/internal/core/ports/services"
	"github.com/SscSPs/mma_fx/internal/middleware"
	"github.com/SscSPs/mma_fx/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	return setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	v1 := r.Group("/api/v1")
	if cfg.RateLimit != "" {
		lim, err := middleware.NewIPRateLimiter(cfg.RateLimit)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
		}
		v1.Use(middleware.RateLimit(lim))
	}

	registerRatesRoutes(v1, services)

	users := v1.Group("/users/:userID")
	registerTransactionRoutes(users, services.Transactions)
	registerAnalyticsRoutes(users, services.Analytics)
	return nil
}
