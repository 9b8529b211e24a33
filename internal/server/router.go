package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/yungbote/crm-backend/internal/handlers"
)

type RouterConfig struct {
  ServiceName        string
  DashboardHandler   *handlers.DashboardHandler
  CustomerHandler    *handlers.CustomerHandler
  OpportunityHandler *handlers.OpportunityHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  serviceName := cfg.ServiceName
  if serviceName == "" {
    serviceName = "crm-backend"
  }
  router.Use(otelgin.Middleware(serviceName))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  router.GET("/healthcheck", handlers.HealthCheck)

  api := router.Group("/api")
  {
    // Dashboard
    api.GET("/dashboard", cfg.DashboardHandler.Overview)
    // Customers
    api.GET("/customers", cfg.CustomerHandler.List)
    api.GET("/customers/active", cfg.CustomerHandler.ListActive)
    api.POST("/customers", cfg.CustomerHandler.Create)
    api.GET("/customers/:id", cfg.CustomerHandler.Get)
    api.PUT("/customers/:id", cfg.CustomerHandler.Update)
    api.DELETE("/customers/:id", cfg.CustomerHandler.Delete)
    // Opportunities
    api.GET("/opportunities", cfg.OpportunityHandler.List)
    api.POST("/opportunities", cfg.OpportunityHandler.Create)
    api.GET("/opportunities/:id", cfg.OpportunityHandler.Get)
    api.PUT("/opportunities/:id", cfg.OpportunityHandler.Update)
    api.DELETE("/opportunities/:id", cfg.OpportunityHandler.Delete)
  }

  return router
}
