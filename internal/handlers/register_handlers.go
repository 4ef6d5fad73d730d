package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/procurement_agent/cmd/docs"
	portssvc "github.com/SscSPs/procurement_agent/internal/core/ports/services"
	"github.com/SscSPs/procurement_agent/internal/middleware"
	"github.com/SscSPs/procurement_agent/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	tmpl, err := loadTemplates()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	limiter, err := middleware.NewLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	registerHomeRoutes(r, cfg.APIStatus(), services.Policy)
	registerPolicyRoutes(r, services.Policy, cfg.UploadDir, cfg.MaxUploadBytes)

	// Routes that reach paid upstream APIs are rate limited per client IP
	limited := r.Group("/", middleware.RateLimit(limiter))
	registerRealtimeRoutes(limited, services)
	registerDecisionRoutes(limited, services.Decision, services.Notification)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
