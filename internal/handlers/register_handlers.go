package handlers

import (
	"log"

	"github.com/hrforge/candidate_rates_service/cmd/docs"
	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	portssvc "github.com/hrforge/candidate_rates_service/internal/core/ports/services"
	"github.com/hrforge/candidate_rates_service/internal/middleware"
	"github.com/hrforge/candidate_rates_service/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-Request-ID"},
	}))

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	// The manual refresh endpoint hits the external rate source, so it gets
	// its own per-IP limit.
	rate, err := limiter.NewRateFromFormatted(cfg.RefreshRateLimit)
	if err != nil {
		log.Printf("Invalid REFRESH_RATE_LIMIT %q, falling back to 10-H: %v", cfg.RefreshRateLimit, err)
		rate, _ = limiter.NewRateFromFormatted("10-H")
	}
	refreshLimiter := middleware.RateLimit(limiter.New(memory.NewStore(), rate))

	// Delegate route registration to specific handlers, passing required services
	registerRatesRoutes(v1, services.Snapshots, services.Converter, cfg.RateStalenessMaxAge, refreshLimiter)
	registerRateProfileRoutes(v1, services.RateCache)
}

// registerCustomValidators wires domain-aware validations into gin's binding
// engine so unsupported currencies are rejected before reaching the services.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("supportedcurrency", func(fl validator.FieldLevel) bool {
		return domain.IsSupported(domain.CurrencyCode(fl.Field().String()))
	})
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
