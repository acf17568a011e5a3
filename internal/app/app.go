package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	mongoadapter "github.com/subkultur/teilwas-bot/internal/adapter/mongo"
	natsadapter "github.com/subkultur/teilwas-bot/internal/adapter/nats"
	redisadapter "github.com/subkultur/teilwas-bot/internal/adapter/redis"
	"github.com/subkultur/teilwas-bot/internal/adapter/staticmap"
	s3adapter "github.com/subkultur/teilwas-bot/internal/adapter/storage/s3"
	"github.com/subkultur/teilwas-bot/internal/adapter/telegram"
	"github.com/subkultur/teilwas-bot/internal/app/config"
	"github.com/subkultur/teilwas-bot/internal/conversation"
	"github.com/subkultur/teilwas-bot/internal/i18n"
	"github.com/subkultur/teilwas-bot/internal/platform/logger"
	"github.com/subkultur/teilwas-bot/internal/platform/tracer"
	"github.com/subkultur/teilwas-bot/internal/render"
	"github.com/subkultur/teilwas-bot/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	cfg            *config.Config
	log            logger.Logger
	machine        *conversation.Machine
	notifier       *service.Notifier
	bot            *telegram.Client
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	natsConn       *natsgo.Conn
	natsSubscriber natsadapter.MessageSubscriber
	tracerProvider *sdktrace.TracerProvider
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	appLogger, err := logger.NewZapLogger(logger.Config{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Infof("Configuration loaded: Env=%s", cfg.Env)

	var tracerProvider *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tracerProvider, err = tracer.Init(ctx, cfg.Tracing.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		appLogger.Info("Tracer initialized")
	}

	appLogger.Info("Initializing MongoDB client...")
	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	db := mongoClient.Database(cfg.MongoDB.Database)
	if err := mongoadapter.EnsureIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	appLogger.Info("MongoDB client initialized, schema ensured")

	appLogger.Info("Initializing Redis client...")
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	appLogger.Info("Redis client initialized")

	appLogger.Info("Initializing NATS connection...")
	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NATS connection: %w", err)
	}
	publisher, err := natsadapter.NewPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NATS publisher: %w", err)
	}
	subscriber, err := natsadapter.NewSubscriber(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NATS subscriber: %w", err)
	}
	appLogger.Info("NATS connection initialized")

	bot, err := telegram.NewClient(cfg.Telegram, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram client: %w", err)
	}

	var renderer render.MapRenderer = staticmap.NewRenderer(cfg.StaticMap)
	mapCache, err := s3adapter.NewMapCache(cfg.MinIO, renderer, appLogger)
	if err != nil {
		appLogger.Warnf("Map cache unavailable, rendering without cache: %v", err)
	} else {
		renderer = mapCache
	}

	listingRepo := mongoadapter.NewListingRepository(db)
	subscriptionRepo := mongoadapter.NewSubscriptionRepository(db)
	sessionRepo := redisadapter.NewSessionRepository(redisClient, cfg.Session.TTL)

	translator := i18n.NewCatalog()

	listingService := service.NewListingService(listingRepo, publisher, appLogger)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, appLogger)
	notifier := service.NewNotifier(subscriptionRepo, bot, renderer, translator, appLogger)

	machine := conversation.NewMachine(
		sessionRepo,
		listingService,
		subscriptionService,
		bot,
		renderer,
		translator,
		appLogger,
	)

	return &App{
		cfg:            cfg,
		log:            appLogger,
		machine:        machine,
		notifier:       notifier,
		bot:            bot,
		mongoClient:    mongoClient,
		redisClient:    redisClient,
		natsConn:       natsConn,
		natsSubscriber: subscriber,
		tracerProvider: tracerProvider,
	}, nil
}

func (a *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	unsub, err := a.notifier.Start(a.natsSubscriber)
	if err != nil {
		a.log.Fatalf("Failed to start notification fan-out: %v", err)
	}
	a.log.Info("Notification fan-out started")

	updates := a.bot.Updates(ctx)
	a.log.Info("Listening for updates")

	var handlers sync.WaitGroup
	done := make(chan struct{})
	go func() {
		defer close(done)
		// One task per inbound message; the machine serializes per user.
		for u := range updates {
			u := u
			handlers.Add(1)
			go func() {
				defer handlers.Done()
				a.machine.HandleUpdate(ctx, u)
			}()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		a.log.Infof("Received shutdown signal: %v. Shutting down...", sig)
		cancel()
		<-done
	case <-done:
		a.log.Warn("Update stream ended, shutting down...")
	}
	handlers.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := unsub.Unsubscribe(); err != nil {
		a.log.Errorf("Error unsubscribing fan-out consumer: %v", err)
	}
	a.natsConn.Close()
	a.log.Info("NATS connection closed")

	if err := a.redisClient.Close(); err != nil {
		a.log.Errorf("Error closing Redis client: %v", err)
	} else {
		a.log.Info("Redis client closed")
	}

	if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
		a.log.Errorf("Error disconnecting from MongoDB: %v", err)
	} else {
		a.log.Info("MongoDB connection closed")
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("Error shutting down tracer provider: %v", err)
		}
	}

	a.log.Info("Application shut down")
}
