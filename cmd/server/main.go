package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/cardify/adapters/event"
	httpAdapter "github.com/khoahotran/cardify/adapters/http"
	"github.com/khoahotran/cardify/adapters/media_storage"
	"github.com/khoahotran/cardify/adapters/persistence"
	authUC "github.com/khoahotran/cardify/internal/application/usecase/auth"
	mediaUC "github.com/khoahotran/cardify/internal/application/usecase/media"
	profileUC "github.com/khoahotran/cardify/internal/application/usecase/profile"
	"github.com/khoahotran/cardify/internal/config"
	"github.com/khoahotran/cardify/pkg/auth"
	"github.com/khoahotran/cardify/pkg/logger"
	"github.com/khoahotran/cardify/pkg/tracing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Start Cardify API Server...", zap.String("env", cfg.App.Env))

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "cardify-api")
	if err != nil {
		appLogger.Fatal("cannot init tracer provider", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", err)
		}
	}()

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	// Repositories
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)
	cardCache := persistence.NewRedisCardCache(redisClient, cfg.Redis.CardTTL, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Use Cases
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, cardCache, kafkaClient, appLogger)
	sessionUseCase := authUC.NewSessionUseCase(profileRepo, jwtSvc, appLogger)

	// HTTP Handlers
	deps := httpAdapter.RouterDeps{
		UserHandler:   httpAdapter.NewUserHandler(profileUseCase, appLogger),
		AuthHandler:   httpAdapter.NewAuthHandler(sessionUseCase, appLogger),
		JWTService:    jwtSvc,
		EnforceWrites: cfg.Auth.EnforceWrites,
		Logger:        appLogger,
	}

	// Uploads are optional; without Cloudinary credentials the route is not mounted.
	if cfg.Cloudinary.CloudName != "" {
		uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize uploader", err)
		}
		uploadUseCase := mediaUC.NewUploadImageUseCase(uploader, media_storage.PrepareImage, cfg.Cloudinary.Folder, appLogger)
		deps.MediaHandler = httpAdapter.NewMediaHandler(uploadUseCase, appLogger)
	} else {
		appLogger.Warn("Cloudinary not configured, image uploads disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           httpAdapter.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
