package handlers

import (
	"github.com/SscSPs/multicurrency_ledger/cmd/docs"
	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/middleware"
	"github.com/SscSPs/multicurrency_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// apiMiddleware runs after authentication on every /api/v1 route.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiMiddleware ...gin.HandlerFunc,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	chain := append([]gin.HandlerFunc{middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)}, apiMiddleware...)
	v1 := r.Group("/api/v1", chain...)
	RegisterAPIRoutes(v1, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// RegisterAPIRoutes delegates route registration to the entity handlers.
func RegisterAPIRoutes(v1 *gin.RouterGroup, services *portssvc.ServiceContainer) {
	registerValidators()

	registerCurrencyRoutes(v1, services.Currency)
	registerExchangeRateRoutes(v1, services.ExchangeRate, services.RateRefresh, services.Currency)
	registerCompanyRoutes(v1, services)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
