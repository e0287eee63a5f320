package api

import (
	"github.com/gin-gonic/gin"

	"github.com/wms-platform/tarima-dispatch/internal/api/handlers"
	"github.com/wms-platform/tarima-dispatch/pkg/contracts/openapi"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/metrics"
	"github.com/wms-platform/tarima-dispatch/pkg/middleware"
)

// Services are the application services behind /api/v1
type Services struct {
	Session    handlers.SessionService
	Fetcher    handlers.InventoryRefresher
	Submission handlers.SubmissionService
	Orders     handlers.OrderService
	Releases   handlers.ReleaseService
	Exports    handlers.ExportService
}

// RouterConfig configures the HTTP router
type RouterConfig struct {
	ServiceName string
	Logger      *logging.Logger
	Metrics     *metrics.Metrics
	// Contract validates JSON requests against the OpenAPI document. Nil disables it.
	Contract *openapi.Validator
	// Ready backs /ready. Nil always reports ready.
	Ready func() error
}

// NewRouter builds the gin engine with the standard middleware chain,
// operational endpoints and the /api/v1 routes
func NewRouter(config RouterConfig, services Services) *gin.Engine {
	router := gin.New()

	middleware.Setup(router, middleware.DefaultConfig(config.ServiceName, config.Logger.Logger))
	router.Use(middleware.MetricsMiddleware(config.Metrics))
	router.Use(middleware.SimpleTracingMiddleware(config.ServiceName))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())
	router.HandleMethodNotAllowed = true

	ready := config.Ready
	if ready == nil {
		ready = func() error { return nil }
	}
	router.GET("/health", middleware.HealthCheck(config.ServiceName))
	router.GET("/ready", middleware.ReadinessCheck(config.ServiceName, ready))
	router.GET("/metrics", middleware.MetricsEndpoint(config.Metrics))

	apiV1 := router.Group("/api/v1")
	if config.Contract != nil {
		apiV1.Use(openapi.RequestValidation(config.Contract))
	}

	handlers.NewInventoryHandlers(services.Session, services.Fetcher, config.Logger).RegisterRoutes(apiV1)
	handlers.NewSelectionHandlers(services.Session, services.Exports, config.Logger).RegisterRoutes(apiV1)
	handlers.NewSubmissionHandlers(services.Submission, config.Logger).RegisterRoutes(apiV1)
	handlers.NewOrderHandlers(services.Orders, config.Logger).RegisterRoutes(apiV1)
	handlers.NewReleaseHandlers(services.Releases, services.Exports, config.Logger).RegisterRoutes(apiV1)

	return router
}
