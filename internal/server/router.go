package server

import (
	"net/http"

	"fixed-asset-api/internal/config"
	"fixed-asset-api/internal/handlers"
	"fixed-asset-api/internal/middleware"
	"fixed-asset-api/internal/models"

	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestID())

	handlers.Init(cfg.JWTSecret)

	api := r.Group("/api/v1")

	// AUTH
	api.POST("/auth/login", handlers.Login)
	api.POST("/auth/refresh", handlers.Refresh)

	auth := api.Group("/")
	auth.Use(middleware.RequireAuth(cfg.JWTSecret))

	auth.GET("/auth/me", handlers.Me)
	auth.POST("/auth/change-password", handlers.ChangePassword)

	// пользователи — только админ
	auth.GET("/auth/users",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ListUsers,
	)
	auth.POST("/auth/users",
		middleware.RequireRole(models.RoleAdmin),
		handlers.CreateUser,
	)
	auth.PATCH("/auth/users/:id",
		middleware.RequireRole(models.RoleAdmin),
		handlers.UpdateUser,
	)

	// ЦИКЛЫ СВЕРКИ
	auth.GET("/cycles", handlers.ListCycles)
	auth.GET("/cycles/active", handlers.GetActiveCycle)
	auth.GET("/cycles/:id", handlers.GetCycle)

	// смена статусов — только админ
	auth.POST("/cycles",
		middleware.RequireRole(models.RoleAdmin),
		handlers.CreateCycle,
	)
	auth.POST("/cycles/:id/activate",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ActivateCycle,
	)
	auth.POST("/cycles/:id/lock",
		middleware.RequireRole(models.RoleAdmin),
		handlers.LockCycle,
	)
	auth.POST("/cycles/:id/unlock",
		middleware.RequireRole(models.RoleAdmin),
		handlers.UnlockCycle,
	)

	// СВЕРКА АКТИВОВ
	auth.GET("/verification/assets/lookup", handlers.LookupAsset)
	auth.GET("/verification/assets/search", handlers.SearchAssets)
	auth.GET("/verification/assets/:id/cycles/:cycle_id", handlers.AssetCycleDetail)
	auth.GET("/verification/cycles/:id/pending", handlers.PendingAssets)

	auth.POST("/verification/assets/new",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.CreateAsset,
	)
	auth.POST("/verification/assets/:id/verify",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor, models.RoleOwner),
		handlers.VerifyAsset,
	)
	auth.PATCH("/verification/assets/:id",
		middleware.RequireRole(models.RoleAdmin),
		handlers.UpdateAsset,
	)

	// корректировки — только админ и аудитор
	auth.POST("/verification/overrides/:id",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.CreateOverride,
	)

	// ДАШБОРД
	auth.GET("/dashboard/overview", handlers.DashboardOverview)
	auth.GET("/dashboard/cycles/:id/summary", handlers.DashboardCycleSummary)

	// АУДИТ
	auth.GET("/audit",
		middleware.RequireRole(models.RoleAdmin, models.RoleAuditor),
		handlers.ListAuditLogs,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
