package bootstrap

import (
	"context"

	"physio-notes-be/internal/config"
	"physio-notes-be/internal/controller"
	"physio-notes-be/internal/handler"
	"physio-notes-be/internal/pkg/logger"
	"physio-notes-be/internal/pkg/serverutils"
	"physio-notes-be/internal/repository/memory"
	"physio-notes-be/internal/repository/unitofwork"
	"physio-notes-be/internal/service"
	"physio-notes-be/internal/websocket"
	"physio-notes-be/pkg/aiservice"
	"physio-notes-be/pkg/events"
	"physio-notes-be/pkg/llm"
	"physio-notes-be/pkg/llm/factory"
	pktNats "physio-notes-be/pkg/nats"
	"physio-notes-be/pkg/transcription"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger   logger.ILogger
	Verifier *serverutils.TokenVerifier

	// Controllers
	EncounterController      controller.IEncounterController
	CustomTemplateController controller.ICustomTemplateController
	TemplateController       controller.ITemplateController
	SessionController        controller.ISessionController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	SessionStreamHandler *handler.SessionStreamHandler
	WebSocketHub         *websocket.Hub

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	sessionLogger := logger.NewIsolatedLogger(cfg.App.SessionLogFilePath)
	verifier := serverutils.NewTokenVerifier(cfg.Supabase.JWTSecret)

	c := &Container{Logger: sysLogger, Verifier: verifier}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NopLogger{},
	)

	// NATS carries domain events to the rest of the platform. A missing
	// broker only disables them.
	var eventPublisher events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		sysLogger.Warn("Bootstrap", "Failed to connect to NATS publisher, domain events disabled", map[string]interface{}{"error": err.Error()})
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	// Redis fans session state out across instances.
	var rdb *redis.Client
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		sysLogger.Warn("Bootstrap", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb = redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		sysLogger.Warn("Bootstrap", "Failed to connect to Redis, websocket fan-out is local only", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		rdb = nil
	} else {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	wsHub := websocket.NewHub(rdb, sessionLogger)
	go wsHub.Run()

	// 3. AI backends
	var llmProvider llm.LLMProvider
	llmProvider, err = factory.NewLLMProvider(factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.LLMBaseURL(),
		APIKey:   cfg.LLMAPIKey(),
	})
	if err != nil {
		sysLogger.Error("Bootstrap", "Failed to initialize LLM provider", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "error": err.Error()})
	} else {
		sysLogger.Info("Bootstrap", "Using LLM provider", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel})
	}
	completer := aiservice.New(llmProvider, cfg.Ai.LLMModel)

	transcriptionProvider, err := transcription.NewProvider(transcription.Config{
		Provider: cfg.Transcription.Provider,
		Model:    cfg.Transcription.Model,
		APIKey:   cfg.TranscriptionAPIKey(),
		BaseURL:  cfg.Keys.OpenAIBaseURL,
	})
	if err != nil {
		sysLogger.Error("Bootstrap", "Failed to initialize transcription provider", map[string]interface{}{"provider": cfg.Transcription.Provider, "error": err.Error()})
	}
	transcriber := transcription.NewClient(transcriptionProvider)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.App.SessionEventsTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.SessionEventsTopic, wsHub, sessionLogger)

	encounterService := service.NewEncounterService(uowFactory, eventPublisher, sysLogger)
	customTemplateService := service.NewCustomTemplateService(uowFactory)
	templateService := service.NewTemplateService()
	sessionService := service.NewSessionService(
		memory.NewSessionRepository(),
		encounterService,
		customTemplateService,
		transcriber,
		completer,
		publisherService,
		sessionLogger,
	)

	// 5. Controllers
	c.EncounterController = controller.NewEncounterController(encounterService)
	c.CustomTemplateController = controller.NewCustomTemplateController(customTemplateService)
	c.TemplateController = controller.NewTemplateController(templateService)
	c.SessionController = controller.NewSessionController(sessionService)
	c.SessionStreamHandler = handler.NewSessionStreamHandler(sessionService, verifier, wsHub, sessionLogger)
	c.WebSocketHub = wsHub

	return c
}

// Close releases broker connections.
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		closeFn()
	}
}
