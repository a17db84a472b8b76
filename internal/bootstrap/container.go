package bootstrap

import (
	"log"

	"github.com/bytebender77/honeypot/internal/config"
	"github.com/bytebender77/honeypot/internal/constant"
	"github.com/bytebender77/honeypot/internal/controller"
	"github.com/bytebender77/honeypot/internal/handler"
	"github.com/bytebender77/honeypot/internal/pkg/logger"
	"github.com/bytebender77/honeypot/internal/pkg/mailer"
	"github.com/bytebender77/honeypot/internal/repository/memory"
	"github.com/bytebender77/honeypot/internal/service"
	"github.com/bytebender77/honeypot/internal/websocket"
	"github.com/bytebender77/honeypot/pkg/classifier"
	"github.com/bytebender77/honeypot/pkg/engine"
	"github.com/bytebender77/honeypot/pkg/intel"
	"github.com/bytebender77/honeypot/pkg/llm"
	"github.com/bytebender77/honeypot/pkg/llm/factory"
	"github.com/bytebender77/honeypot/pkg/persona"

	pktNats "github.com/bytebender77/honeypot/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	HoneypotController controller.IHoneypotController
	IntakeController   controller.IIntakeController

	// Background Services (Exposed for main.go to run)
	ReporterService service.IReporterService

	// WebSockets
	FeedHandler  *handler.FeedHandler
	WebSocketHub *websocket.Hub

	// Exposed for graceful shutdown
	NatsPublisher *pktNats.Publisher
	Logger        logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Model Backend
	// Missing credentials degrade the service to rule-based replies and
	// fail-safe verdicts instead of refusing to start.
	var llmProvider llm.LLMProvider
	if cfg.HasLLMKey() {
		provider, err := factory.NewLLMProvider(
			cfg.Ai.LLMProvider,
			cfg.Ai.LLMModel,
			cfg.Ai.OllamaBaseURL,
			cfg.Keys.Groq,
		)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
		}
		llmProvider = provider
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	} else {
		log.Printf("[WARN] No LLM credentials configured, running in degraded mode")
	}

	// 4. Pipeline Components
	sessionRepo := memory.NewSessionRepository()
	msgClassifier := classifier.NewClassifier(llmProvider, sysLogger)
	responder := persona.NewResponder(llmProvider, sysLogger)
	extractor := intel.NewExtractor(llmProvider, sysLogger)

	honeypotEngine := engine.NewEngine(
		sessionRepo,
		msgClassifier,
		responder,
		extractor,
		cfg.Honeypot.MaxTurns,
		sysLogger,
	)

	// 5. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run()

	alertMailer := mailer.NewAlertMailer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 6. Services
	publisherService := service.NewPublisherService(constant.TopicSessionCompleted, pubSub)

	honeypotService := service.NewHoneypotService(
		honeypotEngine,
		responder,
		extractor,
		publisherService,
		cfg.Ai.FastReplyOnly,
		cfg.HasLLMKey(),
		sysLogger,
	)

	reporterService := service.NewReporterService(
		pubSub,
		constant.TopicSessionCompleted,
		honeypotService,
		wsHub,
		natsPub,
		alertMailer,
		cfg.Honeypot.CallbackURL,
		cfg.Honeypot.AlertEmail,
		sysLogger,
	)

	// 7. Handlers & Controllers
	feedHandler := handler.NewFeedHandler(wsHub, sysLogger, cfg.Keys.Honeypot)

	return &Container{
		HoneypotController: controller.NewHoneypotController(honeypotService, cfg.Keys.Honeypot),
		IntakeController:   controller.NewIntakeController(honeypotService, cfg.Keys.Honeypot, cfg.HasLLMKey()),

		ReporterService: reporterService,

		FeedHandler:  feedHandler,
		WebSocketHub: wsHub,

		NatsPublisher: natsPub,
		Logger:        sysLogger,
	}
}
