package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matrimony-backend/config"
	_ "matrimony-backend/docs" // Important for Swagger
	v1 "matrimony-backend/internal/delivery/http/v1"
	"matrimony-backend/internal/domain"
	"matrimony-backend/internal/repository/memory"
	mongorepo "matrimony-backend/internal/repository/mongo"
	"matrimony-backend/internal/repository/postgres"
	"matrimony-backend/internal/usecase"
	"matrimony-backend/pkg/auth"
	"matrimony-backend/pkg/database"
	"matrimony-backend/pkg/email"
	"matrimony-backend/pkg/logger"
	"matrimony-backend/pkg/redis"
	"matrimony-backend/pkg/security"
	"matrimony-backend/pkg/storage"
	"matrimony-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Matrimony Profile Directory API
// @version         1.0
// @description     Admin-curated matrimonial profiles with filtered search, public submissions and exports.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting matrimony backend", "port", cfg.Port, "store", cfg.StoreDriver, "storage", cfg.StorageDriver)
	auditLog := security.InitSecurityLogger("matrimony-backend", cfg.Environment)
	defer func() { _ = auditLog.Sync() }()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// 3. Setup Stores
	stores, err := openStores(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer stores.close()

	// 4. Redis (optional; limits fall back to memory)
	if cfg.UpstashRedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory limits", "error", err)
		} else {
			stores.checkers["redis"] = redis.Checker{}
			defer func() { _ = redis.Close() }()
		}
	}

	// 5. Photo storage
	photos, uploadDir, err := openPhotoStore(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to set up photo storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	// 6. Setup Email Service
	emailService := email.NewEmailService(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFromEmail,
		To:       cfg.AdminEmailTo,
	})
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not configured - submission notifications disabled")
	}

	// 7. Setup UseCases
	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	tracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginWindowMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		UseIPTracking: true,
	})

	authUC := usecase.NewAuthUsecase(stores.users, tracker, tokens)
	personUC := usecase.NewPersonUsecase(stores.people, photos, emailService, validation.New(), usecase.PersonUsecaseOptions{
		MaxPhotos: cfg.MaxPhotos,
		AdminURL:  cfg.FrontendURL,
	})
	healthUC := usecase.NewHealthUsecase(stores.checkers)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authUC.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Log.Error("Failed to bootstrap admin user", "error", err)
			os.Exit(1)
		}
	}

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:    authUC,
		PersonUC:  personUC,
		HealthUC:  healthUC,
		Tokens:    tokens,
		Config:    cfg,
		UploadDir: uploadDir,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

type storeSet struct {
	people   domain.PersonRepository
	users    domain.UserRepository
	checkers map[string]domain.HealthChecker
	close    func()
}

func openStores(ctx context.Context, cfg *config.Config) (*storeSet, error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &storeSet{
			people:   postgres.NewPersonRepository(pool),
			users:    postgres.NewUserRepository(pool),
			checkers: map[string]domain.HealthChecker{"database": pool},
			close:    pool.Close,
		}, nil

	case "mongo":
		client, db, err := database.NewMongoConnection(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return &storeSet{
			people:   mongorepo.NewPersonRepository(db),
			users:    mongorepo.NewUserRepository(db),
			checkers: map[string]domain.HealthChecker{"database": database.MongoChecker{Client: client}},
			close:    func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case "memory":
		logger.Log.Warn("Using in-memory store; data is lost on restart")
		return &storeSet{
			people:   memory.NewPersonRepository(),
			users:    memory.NewUserRepository(),
			checkers: map[string]domain.HealthChecker{},
			close:    func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// openPhotoStore returns the store and, for local storage, the directory to
// serve under /uploads.
func openPhotoStore(ctx context.Context, cfg *config.Config) (domain.PhotoStore, string, error) {
	switch cfg.StorageDriver {
	case "s3":
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Provider:        storage.S3Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			PublicBaseURL:   cfg.S3PublicURL,
		})
		return store, "", err
	case "local":
		store, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL+"/uploads")
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil
	default:
		return nil, "", fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}
