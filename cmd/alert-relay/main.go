package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mr1hm/alert-relay/internal/api"
	"github.com/mr1hm/alert-relay/internal/config"
	"github.com/mr1hm/alert-relay/internal/dispatch"
	"github.com/mr1hm/alert-relay/internal/ingestion"
	"github.com/mr1hm/alert-relay/internal/logging"
	"github.com/mr1hm/alert-relay/internal/repository"
	"github.com/mr1hm/alert-relay/internal/transport"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Channel transports; missing credentials surface as per-attempt
	// pre-flight failures, not startup errors.
	sms := transport.NewTwilio(cfg.Twilio)
	email := transport.NewSMTP(cfg.SMTP)
	if err := sms.Configured(); err != nil {
		slog.Warn("SMS channel not configured", "error", err)
	}
	if err := email.Configured(); err != nil {
		slog.Warn("Email channel not configured", "error", err)
	}

	coord := dispatch.NewCoordinator(cfg.Dispatch.Workers, cfg.Dispatch.AttemptTimeout, sms, email)
	engine := dispatch.NewEngine(coord, db, db)

	// Feed ingestion hands located alerts to the engine through the broadcaster
	broadcaster := ingestion.NewBroadcaster()
	mgr := ingestion.NewManager(cfg, db, engine, broadcaster)
	mgr.Start(ctx)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(5)) // 5 req/s global limit

	handler := api.NewHandler(engine, db, broadcaster)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	mgr.Stop()
	broadcaster.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
