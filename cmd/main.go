package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/berkay1532/Wisper-Server/internal/infrastructure/configs"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/events"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/logging"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/messaging"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/presence"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/ratelimiter"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/sign"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/tracing"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/ws"
	"github.com/berkay1532/Wisper-Server/internal/persistence/db"
	"github.com/berkay1532/Wisper-Server/internal/persistence/repository"
	"github.com/berkay1532/Wisper-Server/internal/presentation/api"
	"github.com/berkay1532/Wisper-Server/internal/presentation/handler/chat"
	"github.com/berkay1532/Wisper-Server/internal/presentation/handler/health"
)

const (
	serviceName = "wisper-api"
)

func main() {
	tracerCfg := tracing.NewDefaultConfig(serviceName)

	sh, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	logger := logging.NewLogger(logging.NewDefaultConfig())

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	// The relay cannot honor its durability promise without the broker,
	// so a failed connection aborts startup and lets the supervisor retry.
	rabbitmq, err := messaging.NewRabbitMQ(cfg.Rabbit.URI)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitmq.Close()

	logger.Info(logging.RabbitMQ, logging.Startup, "connected to RabbitMQ", nil)

	userQueue := messaging.NewUserQueue(rabbitmq, cfg.Rabbit.Queue, cfg.Rabbit.DrainWindow, logger)
	registry := presence.NewRegistry()

	auditPublisher, err := events.NewAuditPublisher(rabbitmq, cfg.Rabbit.AuditQueue)
	if err != nil {
		log.Fatalf("Failed to declare audit queue: %v", err)
	}

	core := ws.NewCore(registry, userQueue, auditPublisher, logger)
	go core.Run(ctx)

	if cfg.Mongo.Enabled {
		mongoClient, err := db.NewMongoClient(ctx, cfg.Mongo.URI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer db.DisconnectMongo(ctx, mongoClient)

		database := mongoClient.Database(cfg.Mongo.Database)
		auditRepository := repository.NewChatAuditLogRepository(database)

		if err := auditRepository.EnsureIndexes(ctx); err != nil {
			logger.Warn(logging.Mongo, logging.Startup, "failed to ensure audit indexes", map[logging.ExtraKey]any{
				"error": err.Error(),
			})
		}

		auditConsumer := events.NewAuditConsumer(rabbitmq, cfg.Rabbit.AuditQueue, auditRepository, logger)
		go func() {
			if err := auditConsumer.Listen(ctx); err != nil {
				logger.Error(logging.RabbitMQ, logging.Audit, "audit consumer stopped", map[logging.ExtraKey]any{
					"error": err.Error(),
				})
			}
		}()
	}

	var signer *sign.Signer
	if cfg.Sign.Secret != "" {
		signer, err = sign.NewSigner(cfg.Sign.Secret)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		logger.Warn(logging.General, logging.Startup, "no signing secret configured, chat id minting disabled", nil)
	}

	chatHandler := chat.NewHandler(core, signer, logger, cfg.HTTP.AllowedOrigins)
	healthHandler := health.NewHandler(rabbitmq)

	rl := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
		MaxBurst:         cfg.RateLimiter.MaxBurst,
		CacheTTL:         cfg.RateLimiter.CacheTTL,
		SourceHeaderKey:  cfg.RateLimiter.SourceHeaderKey,
	})

	app := api.NewApplication(*cfg, chatHandler, healthHandler, logger, rl)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		log.Fatal(err)
	}
}
