package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gutcheck-app/gutcheck/backend/internal/apierror"
	"github.com/gutcheck-app/gutcheck/backend/internal/config"
	"github.com/gutcheck-app/gutcheck/backend/internal/handlers"
	"github.com/gutcheck-app/gutcheck/backend/internal/logger"
	"github.com/gutcheck-app/gutcheck/backend/internal/middleware"
	"github.com/gutcheck-app/gutcheck/backend/internal/repository"
	"github.com/gutcheck-app/gutcheck/backend/internal/service"
	"github.com/gutcheck-app/gutcheck/backend/pkg/supabase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	if port != "" {
		cfg.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting GutCheck API server",
		logger.String("env", cfg.Server.Env),
		logger.String("storage", cfg.Storage.Driver),
		logger.Bool("auth", cfg.Auth.Enabled),
	)

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	repo, closeRepo, err := repository.Open(openCtx, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Warn("failed to close storage", logger.Err(err))
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, stopRouter := newRouter(cfg, log, repo)
	defer stopRouter()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", logger.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", logger.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newRouter wires services, handlers and middleware onto a gin engine. The
// returned stop function releases the rate limiter's background sweep.
func newRouter(cfg *config.Config, log logger.Logger, repo repository.ObservationRepository) (*gin.Engine, func()) {
	opts := service.Options{
		DefaultDays:  cfg.Trends.DefaultDays,
		MaxDays:      cfg.Trends.MaxDays,
		QueryTimeout: cfg.Storage.QueryTimeout,
	}
	trendsService := service.NewTrendsService(repo, opts)
	observationService := service.NewObservationService(repo, opts)

	trendsHandler := handlers.NewTrendsHandler(trendsService)
	observationHandler := handlers.NewObservationHandler(observationService)
	healthHandler := handlers.NewHealthHandler(cfg.Server.Env, cfg.Storage.Driver)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(log))
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))

	router.GET("/health", healthHandler.Health)
	router.NoRoute(func(c *gin.Context) {
		apierror.WriteProblem(c, apierror.NewNotFoundError(apierror.GetRequestID(c), c.Request.Method, c.Request.URL.Path))
	})

	v1 := router.Group("/api/v1")
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, "api")
	v1.Use(middleware.RateLimit(limiter))
	if cfg.Auth.Enabled {
		v1.Use(middleware.Auth(tokenVerifier(cfg)))
	}
	{
		v1.GET("/trends", trendsHandler.GetTrends)
		v1.GET("/observations", observationHandler.GetObservations)
		v1.POST("/observations", observationHandler.CreateObservation)
		v1.GET("/devices", observationHandler.GetDevices)
	}

	return router, limiter.Stop
}

// tokenVerifier prefers local JWT verification and falls back to asking Supabase
func tokenVerifier(cfg *config.Config) middleware.TokenVerifier {
	if cfg.Supabase.JWTSecret != "" {
		return middleware.NewJWTVerifier(cfg.Supabase.JWTSecret)
	}
	return middleware.NewSupabaseVerifier(supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey))
}
