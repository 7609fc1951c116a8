package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/yungbote/ruleforge-backend/internal/handlers"
  "github.com/yungbote/ruleforge-backend/internal/middleware"
  "github.com/yungbote/ruleforge-backend/internal/permissions"
)

type RouterConfig struct {
  AllowedOrigins          []string
  AuthMiddleware          *middleware.AuthMiddleware
  AuthHandler             *handlers.AuthHandler
  RuleHandler             *handlers.RuleHandler
  ApprovalHandler         *handlers.ApprovalHandler
  CategoryHandler         *handlers.CategoryHandler
  SubfunctionHandler      *handlers.SubfunctionHandler
  RuleFunctionHandler     *handlers.RuleFunctionHandler
  RuleFunctionStepHandler *handlers.RuleFunctionStepHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  router.Use(cors.New(cors.Config{
    AllowOrigins:     cfg.AllowedOrigins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  api := router.Group("/api")
  {
    api.POST("/auth/register", cfg.AuthHandler.Register)
    api.POST("/auth/login", cfg.AuthHandler.Login)
  }

// ===============
// || Protected ||
// ===============
  protected := api.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Auth
  protected.POST("/auth/logout", cfg.AuthHandler.Logout)

  // Rules
  rules := protected.Group("/rules")
  {
    rules.GET("", cfg.AuthMiddleware.RequirePermissions(permissions.ViewOwnRules, permissions.ViewAllRules, permissions.ViewRule), cfg.RuleHandler.List)
    rules.GET("/:id", cfg.AuthMiddleware.RequirePermissions(permissions.ViewOwnRules, permissions.ViewAllRules, permissions.ViewRule), cfg.RuleHandler.GetByID)
    rules.POST("", cfg.AuthMiddleware.RequirePermissions(permissions.CreateRule), cfg.RuleHandler.Create)
    rules.PUT("/:id", cfg.AuthMiddleware.RequirePermissions(permissions.EditRule), cfg.RuleHandler.Update)
    rules.DELETE("/:id", cfg.AuthMiddleware.RequirePermissions(permissions.EditRule), cfg.RuleHandler.Delete)
    rules.POST("/:id/versions", cfg.AuthMiddleware.RequirePermissions(permissions.SaveVersion), cfg.RuleHandler.SaveVersion)
    rules.GET("/:id/versions", cfg.AuthMiddleware.RequirePermissions(permissions.ViewOwnRules, permissions.ViewAllRules, permissions.ViewRule), cfg.RuleHandler.ListVersions)
  }
  protected.GET("/versions/:id/history", cfg.AuthMiddleware.RequirePermissions(permissions.ViewOwnRules, permissions.ViewAllRules, permissions.ViewRule), cfg.RuleHandler.VersionHistory)

  // Approvals. Route gates are coarse; the service applies the per-edge
  // permission checks and visibility scoping.
  approvals := protected.Group("/approvals")
  {
    approvals.GET("", cfg.ApprovalHandler.List)
    approvals.GET("/:id", cfg.ApprovalHandler.GetByID)
    approvals.POST("", cfg.ApprovalHandler.Create)
    approvals.PUT("/:id/action", cfg.ApprovalHandler.Decide)
    approvals.PUT("/:id/withdraw", cfg.ApprovalHandler.Withdraw)
  }

  // Categories
  categories := protected.Group("/categories")
  {
    categories.GET("", cfg.CategoryHandler.List)
    categories.GET("/:id", cfg.CategoryHandler.GetByID)
    categories.POST("", cfg.AuthMiddleware.RequirePermissions(permissions.CreateRule, permissions.EditRule), cfg.CategoryHandler.Create)
    categories.PUT("/:id", cfg.AuthMiddleware.RequirePermissions(permissions.CreateRule, permissions.EditRule), cfg.CategoryHandler.Update)
    categories.DELETE("/:id", cfg.AuthMiddleware.RequirePermissions(permissions.EditRule), cfg.CategoryHandler.Delete)
  }

  // Subfunctions
  subfunctions := protected.Group("/subfunctions")
  {
    subfunctions.GET("", cfg.SubfunctionHandler.List)
    subfunctions.GET("/:id", cfg.SubfunctionHandler.GetByID)
    subfunctions.POST("", cfg.AuthMiddleware.RequirePermissions(permissions.CreateRule, permissions.EditRule), cfg.SubfunctionHandler.Create)
    subfunctions.PUT("/:id", cfg.AuthMiddleware.RequirePermissions(permissions.CreateRule, permissions.EditRule), cfg.SubfunctionHandler.Update)
    subfunctions.DELETE("/:id", cfg.AuthMiddleware.RequirePermissions(permissions.EditRule), cfg.SubfunctionHandler.Delete)
  }

  // Rule working copies
  ruleFunctions := protected.Group("/rule-functions")
  {
    ruleFunctions.GET("", cfg.AuthMiddleware.RequirePermissions(permissions.ViewOwnRules, permissions.ViewAllRules, permissions.ViewRule), cfg.RuleFunctionHandler.List)
    ruleFunctions.GET("/:id", cfg.AuthMiddleware.RequirePermissions(permissions.ViewOwnRules, permissions.ViewAllRules, permissions.ViewRule), cfg.RuleFunctionHandler.GetByID)
    ruleFunctions.GET("/rule/:ruleId", cfg.AuthMiddleware.RequirePermissions(permissions.ViewOwnRules, permissions.ViewAllRules, permissions.ViewRule), cfg.RuleFunctionHandler.GetByRuleID)
    ruleFunctions.POST("", cfg.AuthMiddleware.RequirePermissions(permissions.CreateRule, permissions.EditRule), cfg.RuleFunctionHandler.Create)
    ruleFunctions.PUT("/:id", cfg.AuthMiddleware.RequirePermissions(permissions.EditRule), cfg.RuleFunctionHandler.Update)
    ruleFunctions.DELETE("/:id", cfg.AuthMiddleware.RequirePermissions(permissions.EditRule), cfg.RuleFunctionHandler.Delete)
  }

  // Working copy steps
  steps := protected.Group("/rule-function-steps")
  {
    steps.GET("", cfg.AuthMiddleware.RequirePermissions(permissions.ViewOwnRules, permissions.ViewAllRules, permissions.ViewRule), cfg.RuleFunctionStepHandler.List)
    steps.GET("/rule-function/:ruleFunctionId", cfg.AuthMiddleware.RequirePermissions(permissions.ViewOwnRules, permissions.ViewAllRules, permissions.ViewRule), cfg.RuleFunctionStepHandler.ListByRuleFunction)
    steps.GET("/rule-function/:ruleFunctionId/step/:id", cfg.AuthMiddleware.RequirePermissions(permissions.ViewOwnRules, permissions.ViewAllRules, permissions.ViewRule), cfg.RuleFunctionStepHandler.GetByID)
    steps.POST("", cfg.AuthMiddleware.RequirePermissions(permissions.CreateRule, permissions.EditRule), cfg.RuleFunctionStepHandler.Create)
    steps.PUT("/rule-function/:ruleFunctionId/step/:id", cfg.AuthMiddleware.RequirePermissions(permissions.EditRule), cfg.RuleFunctionStepHandler.Update)
    steps.DELETE("/rule-function/:ruleFunctionId/step/:id", cfg.AuthMiddleware.RequirePermissions(permissions.EditRule), cfg.RuleFunctionStepHandler.Delete)
  }

  return router
}
