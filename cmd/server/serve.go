package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hmuro/productivity-tracker/internal/config"
	"github.com/hmuro/productivity-tracker/internal/database"
	"github.com/hmuro/productivity-tracker/internal/handlers"
	"github.com/hmuro/productivity-tracker/internal/logging"
	"github.com/hmuro/productivity-tracker/internal/metrics"
	"github.com/hmuro/productivity-tracker/internal/middleware"
	"github.com/hmuro/productivity-tracker/internal/repository"
	"github.com/hmuro/productivity-tracker/internal/services"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logging.Init(cfg.Env)

		gin.SetMode(cfg.GinMode)

		if err := database.Connect(cfg); err != nil {
			return err
		}
		if err := database.Migrate(); err != nil {
			return err
		}

		r, err := buildRouter(cfg)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: r,
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("server stopped")
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}

		log.Info().Msg("HTTP server shut down gracefully")
		return nil
	},
}

func buildRouter(cfg *config.Config) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimiter(cfg.RateLimit, time.Minute))

	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		return nil, err
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("tracker_session", store))

	db := database.GetDB()
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)

	authHandler := handlers.NewAuthHandler(services.NewAuthService(userRepo))
	taskHandler := handlers.NewTaskHandler(services.NewTaskService(taskRepo, userRepo))
	userHandler := handlers.NewUserHandler(services.NewUserService(userRepo))
	analyticsHandler := handlers.NewAnalyticsHandler(services.NewAnalyticsService(taskRepo, userRepo))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/comments", taskHandler.AddComment)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("", middleware.RequireAdmin(), userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id", middleware.RequireAdmin(), userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequireAdmin(), userHandler.DeleteUser)
		}

		analytics := api.Group("/analytics")
		analytics.Use(middleware.RequireAuth())
		{
			analytics.GET("/dashboard", analyticsHandler.GetDashboard)
			analytics.GET("/performance/:id", analyticsHandler.GetEmployeePerformance)
			analytics.GET("/team", analyticsHandler.GetTeamAnalytics)
		}
	}

	return r, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
