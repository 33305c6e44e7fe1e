package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apicontract "github.com/tuanvumaihuynh/perfume-inventory/api-contract"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/config"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/event"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/http"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/log"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/metric"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/relay"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/repository"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/service"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/cache"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/db"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/mq"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/telemetry"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/cmdutil"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/token"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		HTTP     config.HTTP
		Auth     config.Auth
		Redis    config.Redis
		Relay    config.Relay
		Kafka    config.Kafka
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	var idempotencyStore cache.IdempotencyStore
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("error creating redis client: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		idempotencyStore = cache.NewRedisIdempotencyStore(redisClient, cfg.Redis.IdempotencyTTL)
	} else {
		logger.WarnContext(ctx, "redis is not configured, submissions are not deduplicated")
	}

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("error creating kafka producer: %w", err)
	}
	defer kafkaProducer.Close()

	kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("error creating kafka consumer: %w", err)
	}

	apiSpec, err := apicontract.LoadSpec(ctx)
	if err != nil {
		return fmt.Errorf("error loading api contract: %w", err)
	}

	tokenIssuer, err := token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL)
	if err != nil {
		return fmt.Errorf("error creating token issuer: %w", err)
	}

	metrics := metric.New(prometheus.DefaultRegisterer)
	v := validator.MustNewDefaultValidator()

	userRepository := repository.NewUserRepository(dbClient)
	storeRepository := repository.NewStoreRepository(dbClient)
	productRepository := repository.NewProductRepository(dbClient)
	inventoryRepository := repository.NewInventoryRepository(dbClient)
	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)

	services := http.Services{
		Auth:    service.NewAuthService(logger, v, tokenIssuer, userRepository),
		Store:   service.NewStoreService(logger, v, storeRepository),
		Product: service.NewProductService(logger, v, productRepository, storeRepository),
		Inventory: service.NewInventoryService(logger, dbClient, v, metrics,
			productRepository, storeRepository, inventoryRepository, outboxMsgRepository),
	}

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	wg.Go(func() {
		svc := event.New(logger, kafkaConsumer)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running event service: %w", err))
		}
		logger.InfoContext(ctx, "event service started")

		<-interruptChan

		logger.InfoContext(ctx, "event service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "event service is stopped")
	})

	wg.Go(func() {
		svc := http.New(cfg.HTTP, logger, metrics, prometheus.DefaultGatherer, apiSpec, dbClient, idempotencyStore, services)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.Any("port", cfg.HTTP.Port))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Go(func() {
		svc := relay.NewService(cfg.Relay, logger, dbClient, outboxMsgRepository, kafkaProducer)
		cleanup := svc.Run(ctx)
		logger.InfoContext(ctx, "relay service started")

		<-interruptChan

		logger.InfoContext(ctx, "relay service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "relay service is stopped")
	})

	wg.Wait()

	return nil
}
