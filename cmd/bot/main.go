package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourusername/shopping-assistant/config"
	"github.com/yourusername/shopping-assistant/internal/delivery/telegram"
	"github.com/yourusername/shopping-assistant/internal/domain/repository"
	"github.com/yourusername/shopping-assistant/internal/infrastructure/catalog"
	"github.com/yourusername/shopping-assistant/internal/infrastructure/gemini"
	"github.com/yourusername/shopping-assistant/internal/infrastructure/storage"
	"github.com/yourusername/shopping-assistant/internal/usecase"
	"github.com/yourusername/shopping-assistant/pkg/logger"
)

func main() {
	logger.Init()
	logger.InfoLogger.Println("starting shopping assistant bot...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required for the bot")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessionRepo := storage.NewMemorySessionRepository()
	catalogRepo := storage.NewMemoryCatalogRepository()
	go storage.RunIdleSessionCleanup(ctx, sessionRepo)

	devices, err := catalog.LoadDevicesCSV(cfg.DevicesCSVPath)
	if err != nil {
		logger.ErrorLogger.Printf("failed to load devices: %v", err)
	}
	plans, err := catalog.LoadPlansCSV(cfg.PlansCSVPath)
	if err != nil {
		logger.ErrorLogger.Printf("failed to load plans: %v", err)
	}
	_ = catalogRepo.ReplaceAll(ctx, devices, plans)
	logger.InfoLogger.Printf("catalog loaded: %d devices, %d plans", len(devices), len(plans))

	var aiRepo repository.AIRepository
	if cfg.GeminiAPIKey != "" {
		aiRepo, err = gemini.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("failed to create Gemini client: %v", err)
		}
		defer aiRepo.Close()
		logger.InfoLogger.Println("Gemini AI client ready")
	} else {
		logger.ErrorLogger.Println("GEMINI_API_KEY not set, running with fallback responses")
	}

	chatUseCase := usecase.NewChatUseCase(aiRepo, sessionRepo, catalogRepo, cfg.MaxContextSize, cfg.HistoryWindow)

	botHandler, err := telegram.NewBotHandler(cfg.TelegramToken, chatUseCase, cfg.WorkerCount)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := botHandler.Start(ctx); err != nil && ctx.Err() == nil {
			logger.ErrorLogger.Printf("bot stopped: %v", err)
		}
	}()
	logger.InfoLogger.Printf("bot authorized as @%s", botHandler.Username())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
	case <-done:
	}

	logger.InfoLogger.Println("shutting down...")
	cancel()
	<-done
}
