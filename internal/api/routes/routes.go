package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gestionloc/gestionloc_service/internal/api/handlers"
	"github.com/gestionloc/gestionloc_service/internal/api/middleware"
	"github.com/gestionloc/gestionloc_service/internal/infrastructure/di"
)

// SetupRoutes configures all application routes
func SetupRoutes(container *di.Container) *gin.Engine {
	router := gin.New()

	// Global middleware - order matters
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(middleware.Logger(container.Logger))
	router.Use(middleware.Recovery(container.Logger))
	router.Use(middleware.CORS(container.Config.Server.AllowedOrigins))
	router.Use(middleware.RateLimit(container.Config.Server.RateLimitPerMin))
	router.Use(middleware.SecurityHeaders())

	healthHandler := handlers.NewHealthHandler(container.DB, container.Cache, container.Logger)
	propertyHandler := handlers.NewPropertyHandler(container.PropertyService, container.Logger)
	tenantHandler := handlers.NewTenantHandler(container.TenantService, container.Logger)
	paymentHandler := handlers.NewPaymentHandler(container.PaymentService, container.Logger)
	expenseHandler := handlers.NewExpenseHandler(container.ExpenseService, container.Logger)
	analyticsHandler := handlers.NewAnalyticsHandler(container.AnalyticsService, container.Logger)

	// Health checks and metrics (no auth required)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/live", healthHandler.Live)
	router.GET("/version", handlers.Version)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Authentication(container.Config, container.Logger))
	{
		properties := v1.Group("/properties")
		{
			properties.POST("", propertyHandler.CreateProperty)
			properties.GET("", propertyHandler.ListProperties)
			properties.GET("/:id", propertyHandler.GetProperty)
			properties.PUT("/:id", propertyHandler.UpdateProperty)
			properties.DELETE("/:id", propertyHandler.DeleteProperty)

			properties.POST("/:id/units", propertyHandler.CreateUnit)
			properties.GET("/:id/units", propertyHandler.ListUnits)
		}

		units := v1.Group("/units")
		{
			units.PUT("/:id", propertyHandler.UpdateUnit)
			units.DELETE("/:id", propertyHandler.DeleteUnit)
		}

		tenants := v1.Group("/tenants")
		{
			tenants.POST("", tenantHandler.CreateTenant)
			tenants.GET("", tenantHandler.ListTenants)
			tenants.GET("/:id", tenantHandler.GetTenant)
			tenants.PUT("/:id", tenantHandler.UpdateTenant)
			tenants.DELETE("/:id", tenantHandler.DeleteTenant)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("", paymentHandler.CreatePayment)
			payments.GET("", paymentHandler.ListPayments)
			payments.GET("/:id", paymentHandler.GetPayment)
			payments.PATCH("/:id/status", paymentHandler.UpdatePaymentStatus)
			payments.POST("/generate", paymentHandler.GeneratePayments)
		}

		expenses := v1.Group("/expenses")
		{
			expenses.POST("", expenseHandler.CreateExpense)
			expenses.GET("", expenseHandler.ListExpenses)
			expenses.DELETE("/:id", expenseHandler.DeleteExpense)
		}

		analytics := v1.Group("/analytics")
		{
			analytics.GET("/portfolio", analyticsHandler.PortfolioSummary)
			analytics.GET("/properties/:id", analyticsHandler.PropertyAnalysis)
			analytics.GET("/properties/:id/recommendations", analyticsHandler.PropertyRecommendations)
			analytics.GET("/properties/:id/projections", analyticsHandler.PropertyProjections)
			analytics.GET("/properties/:id/trend", analyticsHandler.PropertyTrend)
		}
	}

	return router
}
