package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hireproof/assess-gateway/internal/config"
	"github.com/hireproof/assess-gateway/internal/handler"
	"github.com/hireproof/assess-gateway/internal/middleware"
	"github.com/hireproof/assess-gateway/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Attempt *handler.AttemptHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Intake is the only unauthenticated write that creates upstream
	// resources; rate-limit it per IP.
	intakeLimiter := middleware.NewRateLimiter(cfg.IntakeRatePerMin, time.Minute)

	// ─── Attempt API (share-token access, no auth) ─────────────────────
	api := router.Group("/api/v1")
	{
		api.POST("/attempts", intakeLimiter.Middleware(), handlers.Attempt.StartAttempt)

		attempts := api.Group("/attempts/:session_id")
		{
			attempts.GET("", handlers.Attempt.GetAttempt)
			attempts.GET("/questions/current", handlers.Attempt.GetCurrentQuestion)
			attempts.POST("/navigate", handlers.Attempt.Navigate)
			attempts.PUT("/answers/:question_id", handlers.Attempt.PutAnswer)
			attempts.POST("/answers/:question_id/save", handlers.Attempt.SaveAnswer)
			attempts.POST("/submit", handlers.Attempt.Submit)
			attempts.GET("/result", handlers.Attempt.GetResult)
		}
	}

	// ─── WebSocket stream ──────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/attempts/:session_id/stream", handlers.WS.AttemptStream)
	}

	return router
}
