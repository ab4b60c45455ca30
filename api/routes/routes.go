package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spinquest/spinwheel-backend/internal/config"
	"github.com/spinquest/spinwheel-backend/internal/handlers"
	"github.com/spinquest/spinwheel-backend/internal/middleware"
)

// HandlerDependencies bundles the handlers wired in main
type HandlerDependencies struct {
	AuthHandler  *handlers.AuthHandler
	AdminHandler *handlers.AdminHandler
	PrizeHandler *handlers.PrizeHandler
	TokenHandler *handlers.TokenHandler
	SpinHandler  *handlers.SpinHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if len(cfg.Server.TrustedProxies) > 0 {
		_ = router.SetTrustedProxies(cfg.Server.TrustedProxies)
	}

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Brute-force guards on the public endpoints
	spinLimiter := middleware.NewIPRateLimiter(5, time.Minute)
	loginLimiter := middleware.NewIPRateLimiter(5, 15*time.Minute)

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
		})

		public.POST("/auth/login",
			loginLimiter.Middleware("Too many authentication attempts. Please try again later."),
			deps.AuthHandler.Login)

		public.GET("/prizes", deps.PrizeHandler.List)
		public.POST("/tokens/validate", deps.TokenHandler.Validate)
		public.POST("/spin",
			spinLimiter.Middleware("Too many spin attempts. Please wait before trying again."),
			deps.SpinHandler.Spin)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		auth := protected.Group("/auth")
		{
			auth.GET("/me", deps.AuthHandler.Me)
			auth.POST("/refresh", deps.AuthHandler.Refresh)
		}

		protected.PUT("/prizes", deps.PrizeHandler.Replace)

		tokens := protected.Group("/tokens")
		{
			tokens.POST("", deps.TokenHandler.Issue)
			tokens.GET("", deps.TokenHandler.List)
			tokens.GET("/stats", deps.TokenHandler.GetStats)
			tokens.DELETE("/expired", deps.TokenHandler.PurgeExpired)
		}

		spin := protected.Group("/spin")
		{
			spin.GET("/results", deps.SpinHandler.GetResults)
			spin.GET("/stats", deps.SpinHandler.GetStats)
		}

		admins := protected.Group("/admins")
		admins.Use(middleware.RequireSuperAdmin())
		{
			admins.GET("", deps.AdminHandler.List)
			admins.POST("", deps.AdminHandler.Create)
			admins.DELETE("/:id", deps.AdminHandler.Delete)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found", "path": c.Request.URL.Path})
	})

	return router
}
