package bootstrap

import (
	"log"
	"os"

	"kurum-asistan-be/internal/config"
	"kurum-asistan-be/internal/controller"
	"kurum-asistan-be/internal/pkg/logger"
	"kurum-asistan-be/internal/repository/implementation"
	"kurum-asistan-be/internal/repository/memory"
	"kurum-asistan-be/internal/service"
	"kurum-asistan-be/pkg/embedding"
	ollamallm "kurum-asistan-be/pkg/llm/ollama"
	pktNats "kurum-asistan-be/pkg/nats"
	"kurum-asistan-be/pkg/rag"
	"kurum-asistan-be/pkg/translate"
	"kurum-asistan-be/pkg/weather"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatbotController controller.IChatbotController
	TicketController  controller.ITicketController
	ReportController  controller.IReportController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
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

	// 3. AI Providers
	llmProvider := ollamallm.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.LLMModel)
	embeddingProvider := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)

	processor, err := rag.NewProcessor(
		cfg.App.VectorStoreDir,
		embeddingProvider,
		log.New(os.Stdout, "[rag] ", log.LstdFlags),
	)
	if err != nil {
		log.Fatalf("Failed to initialize vector index: %v", err)
	}

	// 4. Outbound Event Publisher (best-effort; app runs without NATS)
	var eventPublisher service.IEventPublisher
	if natsPublisher, err := pktNats.NewPublisher(cfg.App.NatsURL); err != nil {
		log.Printf("Warning: NATS unavailable, domain events disabled: %v", err)
	} else {
		eventPublisher = natsPublisher
	}

	// 5. Repositories
	turnRepo := implementation.NewChatTurnRepository(db)
	ticketRepo := implementation.NewTicketRepository(db)
	reportRepo := implementation.NewReportRepository(db)
	stateRepo := memory.NewStateRepository()

	// 6. Services
	publisherService := service.NewPublisherService(cfg.App.ProcessTopic, pubSub)

	reportService := service.NewReportService(
		reportRepo,
		processor,
		publisherService,
		llmProvider,
		cfg.App.UploadDir,
		cfg.Ai.SearchTopK,
		sysLogger,
	)

	chatbotService := service.NewChatbotService(
		stateRepo,
		turnRepo,
		ticketRepo,
		reportRepo,
		processor,
		llmProvider,
		weather.NewClient(cfg.Keys.OpenWeather),
		eventPublisher,
		sysLogger,
		cfg.Ai.SearchTopK,
	)

	ticketService := service.NewTicketService(ticketRepo)
	translateService := service.NewTranslateService(translate.NewClient(), sysLogger)

	consumerService := service.NewConsumerService(pubSub, cfg.App.ProcessTopic, reportService)

	// 7. Controllers
	return &Container{
		ChatbotController: controller.NewChatbotController(chatbotService, translateService),
		TicketController:  controller.NewTicketController(ticketService),
		ReportController:  controller.NewReportController(reportService),
		ConsumerService:   consumerService,
	}
}
