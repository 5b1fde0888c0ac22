package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/EveryMundo/azure-app-exporter/internal/core/port"
	"github.com/EveryMundo/azure-app-exporter/internal/infra/config"
	"github.com/EveryMundo/azure-app-exporter/internal/transport/http/handlers"
	"github.com/EveryMundo/azure-app-exporter/internal/transport/http/middleware"
)

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config         *config.AppConfig
	Logger         *zap.Logger
	Applications   port.ApplicationReader
	MetricsHandler http.Handler
	HTTPMetrics    *middleware.HTTPMetrics
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(deps.HTTPMetrics.Handler())

	healthHandler := handlers.NewHealthHandler()
	r.GET("/healthz", healthHandler.Status)

	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	api := r.Group("/api")
	{
		handlers.NewSettingsHandler(deps.Config).RegisterRoutes(api)

		if deps.Applications != nil {
			handlers.NewApplicationsHandler(deps.Applications).RegisterRoutes(api)
		}
	}

	if deps.Config.OpenAPI.Enabled {
		handlers.RegisterSwagger(r)
		r.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, "/docs/index.html")
		})
	}

	return r
}
