package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/learnify-engine/internal/adapters/handler/http/middleware"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterDependencies struct {
	AuthHandler      *AuthHandler
	HabitHandler     *HabitHandler
	EntryHandler     *EntryHandler
	StatsHandler     *StatsHandler
	TaskHandler      *TaskHandler
	NoteHandler      *NoteHandler
	PlannerHandler   *PlannerHandler
	FocusHandler     *FocusHandler
	ProfileHandler   *ProfileHandler
	GroupHandler     *GroupHandler
	DashboardHandler *DashboardHandler

	Tokens         middleware.TokenValidator
	Logger         *zap.Logger
	DB             Pinger
	Redis          *redis.Client
	AllowedOrigins []string
	RateLimit      int
	RateWindow     time.Duration
	StartTime      time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	if len(deps.AllowedOrigins) == 0 || deps.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = deps.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	if deps.Redis != nil && deps.RateLimit > 0 {
		router.Use(middleware.NewRateLimiter(deps.Redis, deps.RateLimit, deps.RateWindow, deps.Logger).Handler())
	}

	router.GET("/health", health(deps))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")

	deps.AuthHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		deps.HabitHandler.RegisterRoutes(protected)
		deps.EntryHandler.RegisterRoutes(protected)
		deps.StatsHandler.RegisterRoutes(protected)
		deps.TaskHandler.RegisterRoutes(protected)
		deps.NoteHandler.RegisterRoutes(protected)
		deps.PlannerHandler.RegisterRoutes(protected)
		deps.FocusHandler.RegisterRoutes(protected)
		deps.ProfileHandler.RegisterRoutes(protected)
		deps.GroupHandler.RegisterRoutes(protected)
		deps.DashboardHandler.RegisterRoutes(protected)
	}

	return router
}

// health reports each configured backend. Backends that are not configured
// are reported as "disabled" and do not fail the check.
func health(deps RouterDependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		statusCode := http.StatusOK

		dbStatus := "disabled"
		if deps.DB != nil {
			dbStatus = "connected"
			if err := deps.DB.PingContext(ctx); err != nil {
				dbStatus = "unreachable"
				statusCode = http.StatusServiceUnavailable
			}
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				redisStatus = "unreachable"
				statusCode = http.StatusServiceUnavailable
			}
		}

		c.JSON(statusCode, gin.H{
			"status":   "ok",
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	}
}
