package bootstrap

import (
	"context"
	"log"

	"notebooklm-be/internal/config"
	"notebooklm-be/internal/controller"
	"notebooklm-be/internal/pkg/logger"
	"notebooklm-be/internal/repository/implementation"
	"notebooklm-be/internal/repository/memory"
	"notebooklm-be/internal/service"
	"notebooklm-be/internal/websocket"
	"notebooklm-be/pkg/extract"
	"notebooklm-be/pkg/llm/factory"
	"notebooklm-be/pkg/llm/gateway"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NotebookController controller.INotebookController
	SourceController   controller.ISourceController
	ChatController     controller.IChatController
	StudioController   controller.IStudioController

	// WebSockets
	WebSocketHub *websocket.Hub

	// Exposed for main.go shutdown handling
	Persistence service.IPersistenceService
	Providers   *factory.ProviderSet
	Logger      logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers and Gateway
	providerSet, err := factory.NewProviderSet(context.Background(), factory.Config{
		GeminiApiKey: cfg.Ai.GeminiApiKey,
		GeminiModel:  cfg.Ai.GeminiModel,
		SpeechModel:  cfg.Ai.SpeechModel,
		VideoModel:   cfg.Ai.VideoModel,
		OpenAIApiKey: cfg.Ai.OpenAIApiKey,
		OpenAIModel:  cfg.Ai.OpenAIModel,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize AI providers: %v", err)
	}

	aiGateway, err := gateway.NewGateway(
		providerSet.Providers,
		gateway.WithSpeech(providerSet.Speech),
		gateway.WithVideo(providerSet.Video),
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize AI gateway: %v", err)
	}

	extractor := extract.NewExtractor(aiGateway)

	// 4. Storage
	store := memory.NewNotebookStore()
	snapshotRepo := implementation.NewSnapshotRepository(db)
	persistenceService := service.NewPersistenceService(store, snapshotRepo, sysLogger)

	// Rehydrate notebook state from the last saved snapshot.
	if err := persistenceService.Restore(context.Background()); err != nil {
		log.Printf("[WARN] Failed to restore notebook state: %v", err)
	}

	// 5. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/events.log")
	wsHub := websocket.NewHub(pubSub, wsLogger)
	go wsHub.Run()

	// 6. Services
	publisherService := service.NewPublisherService(pubSub)

	notebookService := service.NewNotebookService(store, persistenceService, sysLogger)
	ingestionService := service.NewIngestionService(
		store,
		extractor,
		aiGateway,
		publisherService,
		persistenceService,
		sysLogger,
	)
	chatService := service.NewChatService(store, aiGateway, persistenceService, sysLogger)
	studioService := service.NewStudioService(
		store,
		aiGateway,
		publisherService,
		persistenceService,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		NotebookController: controller.NewNotebookController(notebookService),
		SourceController:   controller.NewSourceController(ingestionService, notebookService),
		ChatController:     controller.NewChatController(chatService),
		StudioController:   controller.NewStudioController(studioService),

		WebSocketHub: wsHub,
		Persistence:  persistenceService,
		Providers:    providerSet,
		Logger:       sysLogger,
	}
}
