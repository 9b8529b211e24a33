package main

import (
  "context"
  "fmt"
  "os"

  "github.com/yungbote/crm-backend/internal/db"
  "github.com/yungbote/crm-backend/internal/handlers"
  "github.com/yungbote/crm-backend/internal/logger"
  "github.com/yungbote/crm-backend/internal/observability"
  "github.com/yungbote/crm-backend/internal/repos"
  "github.com/yungbote/crm-backend/internal/server"
  "github.com/yungbote/crm-backend/internal/services"
  "github.com/yungbote/crm-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Tracing (no-op unless OTEL_ENABLED is set)
  shutdownTracing := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "crm-backend",
    Environment: logMode,
  })
  if shutdownTracing != nil {
    defer func() {
      _ = shutdownTracing(context.Background())
    }()
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  customerRepo := repos.NewCustomerRepo(thePG, log)
  opportunityRepo := repos.NewSalesOpportunityRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  customerService := services.NewCustomerService(thePG, log, customerRepo, opportunityRepo)
  opportunityService := services.NewOpportunityService(thePG, log, opportunityRepo, customerRepo)
  dashboardService := services.NewDashboardService(thePG, log, customerRepo, opportunityRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  customerHandler := handlers.NewCustomerHandler(log, customerService)
  opportunityHandler := handlers.NewOpportunityHandler(log, opportunityService)
  dashboardHandler := handlers.NewDashboardHandler(log, dashboardService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    ServiceName:        "crm-backend",
    DashboardHandler:   dashboardHandler,
    CustomerHandler:    customerHandler,
    OpportunityHandler: opportunityHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  log.Info("Server listening", "port", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
