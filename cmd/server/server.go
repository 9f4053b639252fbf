package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/panscience/chat-server/internal/config"
	"github.com/panscience/chat-server/internal/domain/chat"
	"github.com/panscience/chat-server/internal/domain/conversation"
	"github.com/panscience/chat-server/internal/domain/document"
	"github.com/panscience/chat-server/internal/domain/transcript"
	"github.com/panscience/chat-server/internal/domain/user"
	"github.com/panscience/chat-server/internal/infrastructure/auth"
	"github.com/panscience/chat-server/internal/infrastructure/database"
	"github.com/panscience/chat-server/internal/infrastructure/docparser"
	"github.com/panscience/chat-server/internal/infrastructure/llmprovider"
	"github.com/panscience/chat-server/internal/infrastructure/logger"
	"github.com/panscience/chat-server/internal/infrastructure/observability"
	conversationrepo "github.com/panscience/chat-server/internal/infrastructure/repository/conversation"
	documentrepo "github.com/panscience/chat-server/internal/infrastructure/repository/document"
	transcriptrepo "github.com/panscience/chat-server/internal/infrastructure/repository/transcript"
	userrepo "github.com/panscience/chat-server/internal/infrastructure/repository/user"
	"github.com/panscience/chat-server/internal/infrastructure/transcriber"
	"github.com/panscience/chat-server/internal/interfaces/httpserver"
	"github.com/panscience/chat-server/internal/interfaces/httpserver/handlers"
	"github.com/panscience/chat-server/internal/worker"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if cfg.AutoMigrate {
		if err := database.AutoMigrate(ctx, db, log); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	}

	userRepository := userrepo.NewRepository(db)
	conversationRepository := conversationrepo.NewRepository(db)
	transcriptRepository := transcriptrepo.NewRepository(db)
	documentRepository := documentrepo.NewRepository(db)

	userService := user.NewService(userRepository, log)
	conversationService := conversation.NewService(conversationRepository, log)

	deepgramClient := transcriber.NewClient(transcriber.Config{
		APIKey:  cfg.DeepgramAPIKey,
		Model:   cfg.DeepgramModel,
		Timeout: cfg.TranscribeTimeout,
	})
	transcriptService := transcript.NewService(transcriptRepository, deepgramClient, cfg.MaxUploadBytes, log)

	documentService := document.NewService(documentRepository, docparser.NewParser(), cfg.MaxUploadBytes, log)

	llmClient := llmprovider.NewClient(llmprovider.Config{
		APIKey:      cfg.LLMAPIKey,
		BaseURL:     cfg.LLMBaseURL,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
	})

	titler := chat.NewTitler(llmClient, conversationService, log)
	titlePool := worker.NewTitlePool(titler, worker.Config{
		WorkerCount: cfg.TitleWorkerCount,
		QueueSize:   cfg.TitleQueueSize,
		TaskTimeout: cfg.TitleTaskTimeout,
	}, log)

	if err := titlePool.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start title pool")
	}
	defer func() {
		log.Info().Msg("stopping title pool")
		titlePool.Stop()
	}()

	chatService := chat.NewService(llmClient, conversationService, transcriptService, documentService, titlePool, log)

	tokenIssuer := auth.NewTokenIssuer(cfg.JWTSecretKey, cfg.AccessTokenTTL)

	handlerProvider := handlers.NewProvider(
		userService,
		tokenIssuer,
		conversationService,
		chatService,
		transcriptService,
		documentService,
		log,
	)

	httpServer := httpserver.New(cfg, log, handlerProvider, tokenIssuer, userService)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}
