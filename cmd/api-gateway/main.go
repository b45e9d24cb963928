package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/vidrios-leads-api/internal/handler"
	"github.com/noah-isme/vidrios-leads-api/internal/repository"
	"github.com/noah-isme/vidrios-leads-api/internal/service"
	"github.com/noah-isme/vidrios-leads-api/pkg/cache"
	"github.com/noah-isme/vidrios-leads-api/pkg/config"
	"github.com/noah-isme/vidrios-leads-api/pkg/database"
	"github.com/noah-isme/vidrios-leads-api/pkg/logger"
)

// @title Vidrios Villarroel Leads API
// @version 1.0.0
// @description Contact form intake and lead triage for the landing page
// @BasePath /
// @schemes http https

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, closeStore, err := openSubmissionStore(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer closeStore()

	validate := validator.New()
	metrics := service.NewMetricsService()
	submissions := service.NewSubmissionService(store, validate, logr, metrics)

	deps := handler.RouterDeps{
		Config:      cfg,
		Logger:      logr,
		Submissions: submissions,
		Metrics:     metrics,
	}

	switch cfg.Auth.Mode {
	case config.AuthModeToken:
		logr.Warn("admin routes protected by a static bearer token")
		deps.StaticToken = service.NewStaticTokenAuthority(cfg.Auth.AdminToken, cfg.Auth.AdminEmail)
	default:
		redisClient, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		revocations := repository.NewSessionRevocationRepository(redisClient)
		defer revocations.Close() //nolint:errcheck
		if redisClient == nil {
			logr.Info("session revocation disabled, REDIS_URL not set")
		}

		sessions, err := service.NewSessionAuthority(service.SessionConfig{
			Secret:            cfg.JWT.Secret,
			Issuer:            cfg.JWT.Issuer,
			TTL:               cfg.JWT.Expiration,
			AdminEmail:        cfg.Auth.AdminEmail,
			AdminPassword:     cfg.Auth.AdminPassword,
			AdminPasswordHash: cfg.Auth.AdminPasswordHash,
		}, revocations, validate, logr, metrics)
		if err != nil {
			return fmt.Errorf("init session authority: %w", err)
		}
		deps.Sessions = sessions
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("driver", cfg.Database.Driver),
			zap.String("auth_mode", cfg.Auth.Mode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func openSubmissionStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (service.SubmissionRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, db, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewSubmissionMongoRepository(db.Collection(repository.SubmissionsCollection))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		logr.Info("submission store ready", zap.String("driver", config.DriverMongo), zap.String("database", cfg.Mongo.Database))
		return repo, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logr.Warn("mongo disconnect failed", zap.Error(err))
			}
		}, nil
	default:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logr.Info("submission store ready", zap.String("driver", config.DriverPostgres))
		return repository.NewSubmissionRepository(db), func() {
			if err := db.Close(); err != nil {
				logr.Warn("postgres close failed", zap.Error(err))
			}
		}, nil
	}
}
