package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	apierrors "github.com/yukikurage/user-task-api/internal/errors"
	"github.com/yukikurage/user-task-api/internal/metrics"
	"github.com/yukikurage/user-task-api/internal/middleware"
	"github.com/yukikurage/user-task-api/internal/services"
)

const rootBanner = "Sistema de gestión de Tareas por Usuario"

// RouterDeps carries everything NewRouter wires together. Metrics, Gatherer,
// RateLimiter and HealthCheck are optional. With no TrustedProxies the client
// IP is always the peer address and forwarding headers are ignored.
type RouterDeps struct {
	UserService    *services.UserService
	TaskService    *services.TaskService
	TokenService   *services.TokenService
	Logger         *slog.Logger
	Metrics        metrics.Recorder
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	TrustedProxies []string
	RateLimiter    *middleware.RateLimiter
	HealthCheck    func(ctx context.Context) error
}

// NewRouter builds the gin engine with the full middleware chain and every route
func NewRouter(deps RouterDeps) *gin.Engine {
	recorder := deps.Metrics
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	r := gin.New()
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		slog.Error("invalid trusted proxies, trusting none", slog.Any("error", err))
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(
		middleware.Recovery(),
		middleware.RequestLogger(deps.Logger),
		middleware.Metrics(recorder),
		// promhttp negotiates its own encoding
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
		middleware.NoCache(),
		middleware.CORS(deps.AllowedOrigins),
	)
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, rootBanner)
	})

	r.GET("/health", func(c *gin.Context) {
		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(c.Request.Context()); err != nil {
				slog.Error("health check failed", slog.Any("error", err))
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unavailable",
					"message": "Store is not reachable",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "User Task API is running",
		})
	})

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(deps.Gatherer)))
	}

	userHandler := NewUserHandler(deps.UserService, deps.TokenService, recorder)
	taskHandler := NewTaskHandler(deps.TaskService, recorder)

	api := r.Group("/api")
	{
		// User routes (public)
		users := api.Group("/users")
		{
			users.POST("/find-or-create", userHandler.FindOrCreate)
			users.GET("/check/:email", userHandler.Check)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireBearer(deps.TokenService))
		{
			tasks.GET("/task/:taskId", taskHandler.GetTask)
			tasks.GET("/user/:userId/:skip/:top", taskHandler.ListUserTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.PUT("/:taskId", taskHandler.UpdateTask)
			tasks.DELETE("/:taskId", taskHandler.DeleteTask)
		}
	}

	r.NoRoute(apierrors.RouteNotFound)

	return r
}
