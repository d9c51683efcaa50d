package handler

import (
	"cross-chain-pool/internal/adapter/http/middleware"
	redisStore "cross-chain-pool/internal/adapter/storage/redis"
	"cross-chain-pool/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Chains         map[string]ChainServices
	AuthSvc        ports.AuthService
	TokenSvc       ports.TokenService
	ReportingSvc   ports.ReportingService  // nil = reporting disabled
	AuditSvc       ports.AuditService      // nil = audit logging disabled
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	poolHandler := NewPoolHandler(deps.Chains)
	swapHandler := NewSwapHandler(deps.Chains)
	lockHandler := NewLockHandler(deps.Chains)
	adminHandler := NewAdminHandler(deps.Chains)

	chains := v1.Group("/chains/:chain")
	{
		chains.GET("", rl("pool"), poolHandler.Info)
		chains.GET("/balances/:account", rl("pool"), poolHandler.Balance)

		pool := chains.Group("/pool")
		{
			pool.POST("/deposit", rl("pool"), poolHandler.Deposit)
			pool.POST("/withdraw", rl("pool"), poolHandler.Withdraw)
		}

		swaps := chains.Group("/swaps")
		{
			swaps.POST("", rl("swaps"), swapHandler.Initiate)
			swaps.GET("", rl("swaps"), swapHandler.Active)
			swaps.GET("/:id", rl("swaps"), swapHandler.Get)
			swaps.POST("/:id/complete", rl("swaps"), swapHandler.Complete)
			swaps.POST("/:id/refund", rl("swaps"), swapHandler.Refund)
			swaps.POST("/:id/link", jwtAuth, rl("swaps"), swapHandler.Link)
		}

		locks := chains.Group("/locks")
		{
			locks.POST("", jwtAuth, rl("locks"), lockHandler.Respond)
			locks.GET("/:hashLock", rl("locks"), lockHandler.Get)
			locks.POST("/:hashLock/complete", rl("locks"), lockHandler.Complete)
			locks.POST("/:hashLock/refund", jwtAuth, rl("locks"), lockHandler.Refund)
		}

		admin := chains.Group("/admin", jwtAuth)
		{
			admin.PUT("/rate", rl("admin"), adminHandler.SetRate)
			admin.POST("/pause", rl("admin"), adminHandler.Pause)
			admin.POST("/unpause", rl("admin"), adminHandler.Unpause)
			admin.POST("/transfer-ownership", rl("admin"), adminHandler.TransferOwnership)
			admin.POST("/set-responder", rl("admin"), adminHandler.SetResponder)
			admin.POST("/emergency-withdraw", rl("admin"), adminHandler.EmergencyWithdraw)
		}

		if deps.ReportingSvc != nil {
			dashboardHandler := NewDashboardHandler(deps.ReportingSvc)
			chains.GET("/stats", jwtAuth, rl("dashboard"), dashboardHandler.GetStats)
			chains.GET("/history", jwtAuth, rl("dashboard"), dashboardHandler.ListHistory)
		}
	}

	return r
}
