package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/confcfp/cfp-server/internal/config"
	"github.com/confcfp/cfp-server/internal/database"
	"github.com/confcfp/cfp-server/internal/logger"
	"github.com/confcfp/cfp-server/internal/repository"
	"github.com/confcfp/cfp-server/internal/router"
	"github.com/confcfp/cfp-server/internal/services"
	"github.com/confcfp/cfp-server/internal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	if insecure := cfg.InsecureSecrets(); len(insecure) > 0 {
		if cfg.IsProduction() {
			zlog.Fatal("Refusing to start in release mode with built-in secrets", zap.Strings("variables", insecure))
		}
		zlog.Warn("Using built-in secrets; set them before deploying", zap.Strings("variables", insecure))
	}

	if err := validation.RegisterWithGin(); err != nil {
		zlog.Fatal("Failed to register validators", zap.Error(err))
	}

	// Connect to database
	db, err := database.Connect(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	// Run migrations
	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}

	store, err := router.NewSessionStore(cfg)
	if err != nil {
		zlog.Fatal("Failed to create session store", zap.Error(err))
	}
	if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
		zlog.Warn("GitHub OAuth credentials are not configured; login will fail")
	}

	// Initialize repositories and services
	memberRepo := repository.NewMemberRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	github := services.NewGitHubClient(services.GitHubConfig{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		RedirectURL:  cfg.GitHubRedirectURI,
	})
	authService := services.NewAuthService(memberRepo, github, cfg.JWTSecret, zlog)
	activityService := services.NewActivityService(activityRepo)

	r := router.New(router.Dependencies{
		Config:          cfg,
		Log:             zlog,
		SessionStore:    store,
		AuthService:     authService,
		ActivityService: activityService,
		Permissions:     memberRepo,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server
	go func() {
		zlog.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
}
