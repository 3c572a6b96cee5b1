package bootstrap

import (
	"log"

	"ta-chatbot-be/internal/config"
	"ta-chatbot-be/internal/constant"
	"ta-chatbot-be/internal/controller"
	"ta-chatbot-be/internal/pkg/logger"
	"ta-chatbot-be/internal/repository/contract"
	"ta-chatbot-be/internal/repository/file"
	"ta-chatbot-be/internal/repository/implementation"
	"ta-chatbot-be/internal/repository/memory"
	"ta-chatbot-be/internal/repository/unitofwork"
	"ta-chatbot-be/internal/service"
	"ta-chatbot-be/pkg/embedding"
	"ta-chatbot-be/pkg/llm/factory"

	pktNats "ta-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController
	RosterController   controller.IRosterController

	// Background services, run by main.go
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS mirror is optional infra; absence is a warning, not a failure.
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] NATS unavailable, events will not be mirrored: %v", err)
			natsPub = nil
		}
	}

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbedModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Assistant.EmbedModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Assistant.EmbedModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Assistant.Model,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Assistant.Model)

	// 4. Credential backend
	var credentialSource contract.CredentialSource
	if cfg.Auth.CredentialBackend == "file" {
		credentialSource = file.NewCredentialFileSource(cfg.Auth.RosterFilePath, cfg.Auth.EmailDomain, sysLogger)
		log.Printf("[INFO] Using Credential Backend: FILE (%s)", cfg.Auth.RosterFilePath)
	} else {
		credentialSource = implementation.NewPostgresCredentialSource(
			implementation.NewUserRepository(db),
			cfg.Auth.EmailDomain,
			sysLogger,
		)
		log.Printf("[INFO] Using Credential Backend: POSTGRES")
	}

	// 5. In-memory session storage
	sessionRepo := memory.NewSessionRepository()

	// 6. Services
	settingsService := service.NewSettingsService(cfg.Assistant)
	publisherService := service.NewPublisherService(constant.TopicDocumentChanged, pubSub)

	indexService := service.NewIndexService(uowFactory, embeddingProvider, settingsService, sysLogger)
	consumerService := service.NewConsumerService(pubSub, constant.TopicDocumentChanged, indexService, sysLogger)

	var eventPublisher service.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}

	authService := service.NewAuthService(credentialSource, sessionRepo, eventPublisher, sysLogger, cfg.Auth, cfg.Assistant.CourseName)
	chatService := service.NewChatService(uowFactory, sessionRepo, indexService, embeddingProvider, llmProvider, settingsService, sysLogger)
	documentService := service.NewDocumentService(settingsService, publisherService, eventPublisher, sysLogger)
	rosterService := service.NewRosterService(uowFactory, eventPublisher, sysLogger)

	// 7. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService, cfg.Auth),
		ChatController:     controller.NewChatController(chatService),
		DocumentController: controller.NewDocumentController(documentService, indexService),
		RosterController:   controller.NewRosterController(rosterService),
		ConsumerService:    consumerService,
		Logger:             sysLogger,
	}
}
