package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-constellation/internal/adapters/handler/http/docs"
	"github.com/comitanigiacomo/kanso-constellation/internal/adapters/handler/http/middleware"
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterDependencies struct {
	AuthHandler      *AuthHandler
	HabitHandler     *HabitHandler
	ChecklistHandler *ChecklistHandler
	ScoreHandler     *ScoreHandler
	CalendarHandler  *CalendarHandler
	Tokens           middleware.TokenValidator
	DB               Pinger
	Redis            *redis.Client
	Logger           *zap.Logger
	RateLimit        int
	RateWindow       time.Duration
	StartTime        time.Time
}

// @title                      Kanso Constellation API
// @version                    1.0
// @description                Habit scheduling and per-day completion tracking.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func NewRouter(deps RouterDependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	if deps.Redis != nil && deps.RateLimit > 0 {
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, deps.RateWindow, logger))
	}

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		statusCode := http.StatusOK
		body := gin.H{
			"status": "ok",
			"uptime": time.Since(deps.StartTime).String(),
		}

		if deps.DB != nil {
			body["database"] = "connected"
			if err := deps.DB.PingContext(ctx); err != nil {
				body["database"] = "unreachable"
				statusCode = http.StatusServiceUnavailable
			}
		}
		if deps.Redis != nil {
			body["redis"] = "connected"
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				body["redis"] = "unreachable"
				statusCode = http.StatusServiceUnavailable
			}
		}
		if statusCode != http.StatusOK {
			body["status"] = "degraded"
		}

		c.JSON(statusCode, body)
	})

	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")

	deps.AuthHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		deps.HabitHandler.RegisterRoutes(protected)
		deps.ChecklistHandler.RegisterRoutes(protected)
		deps.ScoreHandler.RegisterRoutes(protected)
		deps.CalendarHandler.RegisterRoutes(protected)
	}

	return router
}
