package bootstrap

import (
	"context"
	"log"

	"collab-docs-be/internal/collab"
	"collab-docs-be/internal/config"
	"collab-docs-be/internal/controller"
	"collab-docs-be/internal/handler"
	"collab-docs-be/internal/pkg/logger"
	"collab-docs-be/internal/repository/unitofwork"
	"collab-docs-be/internal/service"
	"collab-docs-be/internal/websocket"
	"collab-docs-be/pkg/events"
	"collab-docs-be/pkg/llm/factory"

	pktNats "collab-docs-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	DocumentController controller.IDocumentController
	GenerateController controller.IGenerateController
	RevisionController controller.IRevisionController
	SystemController   controller.ISystemController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Realtime editing
	CollabHandler *handler.CollabHandler
	WebSocketHub  *websocket.Hub
	Sessions      *collab.Manager
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus (in-process, revision worker feeds off it)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// LLM provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 3. Services
	publisherService := service.NewPublisherService(cfg.App.RevisionTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.RevisionTopicName,
		uowFactory,
	)

	authService := service.NewAuthService(uowFactory)
	documentService := service.NewDocumentService(uowFactory, publisherService, natsPub)
	revisionService := service.NewRevisionService(uowFactory)

	// Revision history must not outlive its document.
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		err := natsSub.Subscribe("collab.DOCUMENT_DELETED", "revision_cleanup", func(ctx context.Context, evt events.Event) error {
			raw, _ := evt.Payload()["document_id"].(string)
			docId, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				return nil
			}
			return revisionService.PurgeForDocument(ctx, docId)
		})
		if err != nil {
			log.Printf("[WARN] Failed to subscribe to DOCUMENT_DELETED: %v", err)
		}
	}

	// 4. Realtime editing. The hub broadcasts for the sessions and the
	// sessions persist through the document service.
	wsLogger := logger.NewIsolatedLogger("logs/collab.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	sessions := collab.NewManager(documentService, wsHub, wsLogger)
	wsHub.AttachSessions(sessions)
	go wsHub.Run()

	generateService := service.NewGenerateService(uowFactory, llmProvider, sessions, documentService)

	collabHandler := handler.NewCollabHandler(wsHub, sysLogger)

	return &Container{
		AuthController:     controller.NewAuthController(authService),
		DocumentController: controller.NewDocumentController(documentService),
		GenerateController: controller.NewGenerateController(generateService),
		RevisionController: controller.NewRevisionController(revisionService),
		SystemController:   controller.NewSystemController(sysLogger),
		ConsumerService:    consumerService,
		CollabHandler:      collabHandler,
		WebSocketHub:       wsHub,
		Sessions:           sessions,
	}
}
