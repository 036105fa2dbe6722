package main

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/cardify/adapters/event"
	"github.com/khoahotran/cardify/adapters/persistence"
	profileUC "github.com/khoahotran/cardify/internal/application/usecase/profile"
	"github.com/khoahotran/cardify/internal/config"
	"github.com/khoahotran/cardify/pkg/logger"
	"github.com/khoahotran/cardify/pkg/tracing"
)

// The worker keeps the card cache warm: every saved profile is reloaded from
// Postgres into Redis so the next read is a cache hit.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting Cardify Worker...")

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "cardify-worker")
	if err != nil {
		appLogger.Fatal("cannot init tracer provider", err)
	}
	defer tp.Shutdown(context.Background())

	// Database
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	// Cache
	redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)
	cardCache := persistence.NewRedisCardCache(redisClient, cfg.Redis.CardTTL, appLogger)

	// Worker Use Case
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, cardCache, nil, appLogger)

	// Kafka Consumer
	profileConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicProfileEvents,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer profileConsumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicProfileEvents), zap.String("group_id", cfg.Kafka.GroupID))

	for {
		msg, err := profileConsumer.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		log := appLogger.With(zap.String("topic", msg.Topic), zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset))

		var payload event.ProfileEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Error("Failed to unmarshal event, skipping", err)
			commitMessage(profileConsumer, msg, log)
			continue
		}

		if payload.EventType != event.ProfileEventSaved {
			log.Debug("Ignoring event", zap.String("event_type", string(payload.EventType)))
			commitMessage(profileConsumer, msg, log)
			continue
		}

		if err := profileUseCase.ExecuteWarmCache(ctx, payload.UserID); err != nil {
			log.Error("Failed to warm card cache", err, zap.String("user_id", payload.UserID))
			continue
		}
		log.Info("Card cache warmed", zap.String("user_id", payload.UserID))

		commitMessage(profileConsumer, msg, log)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
