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

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentist-platform/internal/config"
	"github.com/harentsoaR/dentist-platform/internal/handlers"
	"github.com/harentsoaR/dentist-platform/internal/logger"
	"github.com/harentsoaR/dentist-platform/internal/metrics"
	"github.com/harentsoaR/dentist-platform/internal/services"
	"github.com/harentsoaR/dentist-platform/internal/store"
	"github.com/harentsoaR/dentist-platform/internal/uploads"
	"github.com/harentsoaR/dentist-platform/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg.LogLevel)
	appLog.WithField("port", cfg.Port).
		WithField("database_driver", cfg.DatabaseDriver).
		WithField("upload_backend", cfg.UploadBackend).
		Info("Starting dentist platform API")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// --- Database Connection ---
	repo, err := openRepository(ctx, cfg, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to open database")
	}
	defer repo.Close()

	// --- Upload Storage ---
	storage, err := openStorage(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialise upload storage")
	}

	// --- Initialize Services ---
	jwt := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	collector := metrics.NewCollector()
	svc := services.New(services.Deps{
		Repo:    repo,
		Storage: storage,
		JWT:     jwt,
		Hasher:  utils.NewPasswordHasher(cfg.BcryptCost),
		Metrics: collector,
		Logger:  appLog,
	})

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		created, err := svc.Auth.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to seed admin account")
		}
		if created {
			appLog.WithField("email", cfg.AdminEmail).Info("Admin account created")
		}
	}

	// --- Gin Router ---
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handlers.NewHandler(svc, storage, repo, appLog)
	r := handlers.NewRouter(h, handlers.RouterConfig{
		JWT:         jwt,
		Metrics:     collector,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down server")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Server forced to shutdown")
	}
}

func openRepository(ctx context.Context, cfg *config.Config, appLog *logger.Logger) (*store.GormStore, error) {
	db, err := store.Open(store.Options{
		Driver:          cfg.DatabaseDriver,
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, appLog)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if cfg.DatabaseDriver == store.DriverSQLite {
		appLog.WithField("path", cfg.DatabaseURL).Warn("Using SQLite; connections are limited to one writer")
	} else {
		appLog.Info("Successfully connected to PostgreSQL")
	}
	return db, nil
}

func openStorage(ctx context.Context, cfg *config.Config) (uploads.Storage, error) {
	if cfg.UploadBackend == "s3" {
		return uploads.NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Prefix)
	}
	return uploads.NewLocalStorage(cfg.UploadDir)
}
