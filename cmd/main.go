package main

import (
  "fmt"
  "os"

  "github.com/yungbote/ruleforge-backend/internal/config"
  "github.com/yungbote/ruleforge-backend/internal/db"
  "github.com/yungbote/ruleforge-backend/internal/handlers"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/middleware"
  "github.com/yungbote/ruleforge-backend/internal/repos"
  "github.com/yungbote/ruleforge-backend/internal/server"
  "github.com/yungbote/ruleforge-backend/internal/services"
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

  // Config
  cfg, err := config.Load(log)
  if err != nil {
    log.Error("Failed to load config", "error", err)
    os.Exit(1)
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
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  ruleRepo := repos.NewRuleRepo(thePG, log)
  ruleVersionRepo := repos.NewRuleVersionRepo(thePG, log)
  ruleApprovalRepo := repos.NewRuleApprovalRepo(thePG, log)
  ruleStageHistoryRepo := repos.NewRuleStageHistoryRepo(thePG, log)
  categoryRepo := repos.NewCategoryRepo(thePG, log)
  subfunctionRepo := repos.NewSubfunctionRepo(thePG, log)
  ruleFunctionRepo := repos.NewRuleFunctionRepo(thePG, log)
  ruleFunctionStepRepo := repos.NewRuleFunctionStepRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
  ruleService := services.NewRuleService(thePG, log, ruleRepo, ruleVersionRepo, ruleStageHistoryRepo, ruleFunctionRepo, ruleFunctionStepRepo)
  approvalService := services.NewApprovalService(thePG, log, ruleRepo, ruleVersionRepo, ruleApprovalRepo, ruleStageHistoryRepo)
  categoryService := services.NewCategoryService(thePG, log, categoryRepo)
  subfunctionService := services.NewSubfunctionService(thePG, log, subfunctionRepo, categoryRepo)
  ruleFunctionService := services.NewRuleFunctionService(thePG, log, ruleFunctionRepo, ruleFunctionStepRepo, ruleRepo)
  ruleFunctionStepService := services.NewRuleFunctionStepService(thePG, log, ruleFunctionStepRepo, ruleFunctionRepo, subfunctionRepo)

  // Handlers
  log.Info("Setting up Handlers from main...")
  authHandler := handlers.NewAuthHandler(log, authService)
  ruleHandler := handlers.NewRuleHandler(log, ruleService)
  approvalHandler := handlers.NewApprovalHandler(log, approvalService)
  categoryHandler := handlers.NewCategoryHandler(log, categoryService)
  subfunctionHandler := handlers.NewSubfunctionHandler(log, subfunctionService)
  ruleFunctionHandler := handlers.NewRuleFunctionHandler(log, ruleFunctionService)
  ruleFunctionStepHandler := handlers.NewRuleFunctionStepHandler(log, ruleFunctionStepService)

  // Middleware
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  router := server.NewRouter(server.RouterConfig{
    AllowedOrigins:          cfg.AllowedOrigins,
    AuthMiddleware:          authMiddleware,
    AuthHandler:             authHandler,
    RuleHandler:             ruleHandler,
    ApprovalHandler:         approvalHandler,
    CategoryHandler:         categoryHandler,
    SubfunctionHandler:      subfunctionHandler,
    RuleFunctionHandler:     ruleFunctionHandler,
    RuleFunctionStepHandler: ruleFunctionStepHandler,
  })

  log.Info("Starting server...", "port", cfg.Port)
  if err := router.Run(":" + cfg.Port); err != nil {
    log.Error("Server exited", "error", err)
    os.Exit(1)
  }
}
