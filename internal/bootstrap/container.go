package bootstrap

import (
	"context"

	"ai-companion-be/internal/config"
	"ai-companion-be/internal/controller"
	"ai-companion-be/internal/pkg/logger"
	"ai-companion-be/internal/pkg/metrics"
	"ai-companion-be/internal/pkg/serverutils"
	"ai-companion-be/internal/repository/unitofwork"
	"ai-companion-be/internal/service"
	"ai-companion-be/internal/websocket"
	pktNats "ai-companion-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ConversationController controller.IConversationController

	// Background Services (Exposed for main.go to run)
	LifecycleConsumer service.ILifecycleConsumer
	WebSocketHub      *websocket.Hub

	Logger          logger.ILogger
	MetricsRegistry *prometheus.Registry

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	c := &Container{
		Logger:          sysLogger,
		MetricsRegistry: registry,
	}
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS (optional)
	var external service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		} else {
			external = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// Redis (optional, fans websocket pushes out across instances)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.HubLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 4. Services
	lifecycleService := metrics.WrapLifecycle(
		service.NewLifecycleService(uowFactory, pubSub, sysLogger),
		metrics.NewLifecycleMetrics(registry),
	)
	conversationService := service.NewConversationService(
		uowFactory,
		lifecycleService,
		cfg.Lifecycle.DefaultListLimit,
		cfg.Lifecycle.MaxListLimit,
	)

	c.LifecycleConsumer = service.NewLifecycleConsumer(pubSub, wsHub, external, sysLogger)
	c.WebSocketHub = wsHub

	// 5. Controllers
	c.ConversationController = controller.NewConversationController(
		conversationService,
		wsHub,
		serverutils.NewJwtMiddleware(cfg.App.JwtSecret),
	)

	return c
}

// Close releases bus and broker connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
