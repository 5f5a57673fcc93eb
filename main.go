package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/logger"
	"catalog/internal/server"
	"catalog/internal/services"
	"catalog/pkg/cache"
	"catalog/pkg/rabbitmq"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{
		Production: cfg.IsProduction(),
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	shutdown := map[string]gfshutdown.Operation{}

	// --- Store ---
	repos := server.MemoryRepositories()
	var ping func(context.Context) error
	if cfg.DBDriver != config.DriverMemory {
		db, err := database.Open(cfg)
		if err != nil {
			log.Fatal("failed to open database", zap.Error(err))
		}
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal("failed to migrate database", zap.Error(err))
		}
		repos = server.GORMRepositories(db)
		ping = func(ctx context.Context) error { return database.Ping(ctx, db) }
		shutdown["database"] = func(context.Context) error { return database.Close(db) }
	} else {
		log.Warn("using in-memory store; data is lost on exit")
	}

	// --- Events ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
		if err != nil {
			log.Fatal("failed to initialize RabbitMQ client", zap.Error(err))
		}
		publisher = mqClient
		shutdown["rabbitmq"] = func(context.Context) error { return mqClient.Close() }

		if cfg.ConsumeEvents {
			if err := mqClient.ConsumeEvents("catalog.audit", "#", auditHandler(log)); err != nil {
				log.Error("failed to start event consumer", zap.Error(err))
			}
		}
	}

	// --- Cache ---
	var responseCache services.ResponseCache
	if cfg.RedisAddr != "" {
		c, err := cache.Connect(ctx, cache.Config{RedisAddr: cfg.RedisAddr, Prefix: "catalog:", TTL: cfg.CacheTTL})
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		responseCache = c
		shutdown["redis"] = func(context.Context) error { return c.Close() }
	}

	notifier := services.NewNotifier(publisher, cfg.RabbitMQExchange, responseCache, log)
	app := server.New(server.NewServices(repos, notifier, cfg), server.Options{
		AuthRequired: cfg.AuthRequired,
		Logger:       log,
		Ping:         ping,
	})
	shutdown["http"] = func(ctx context.Context) error {
		log.Info("shutting down server")
		return app.ShutdownWithContext(ctx)
	}

	go func() {
		log.Info("starting server", zap.String("addr", cfg.AppPort), zap.String("store", cfg.DBDriver))
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, shutdown)
	exitCode := <-wait
	log.Info("server stopped", zap.Int("exitCode", exitCode))
	_ = log.Sync()
	os.Exit(exitCode)
}

// auditHandler logs every catalog event it receives.
func auditHandler(log *zap.Logger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var evt services.Event
		if err := json.Unmarshal(msg.Body, &evt); err != nil {
			return fmt.Errorf("malformed event: %w", err)
		}
		log.Info("catalog event",
			zap.String("eventId", evt.ID),
			zap.String("type", evt.Type),
			zap.Uint("entityId", evt.EntityID),
			zap.String("occurredAt", evt.OccurredAt),
		)
		return nil
	}
}
