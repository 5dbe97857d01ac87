package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourusername/shopping-assistant/config"
	"github.com/yourusername/shopping-assistant/internal/delivery/httpapi"
	"github.com/yourusername/shopping-assistant/internal/domain/repository"
	"github.com/yourusername/shopping-assistant/internal/infrastructure/catalog"
	"github.com/yourusername/shopping-assistant/internal/infrastructure/gemini"
	"github.com/yourusername/shopping-assistant/internal/infrastructure/storage"
	"github.com/yourusername/shopping-assistant/internal/usecase"
	"github.com/yourusername/shopping-assistant/pkg/logger"
)

func main() {
	logger.Init()
	logger.InfoLogger.Println("starting shopping assistant API...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repositories (in-memory; sessions do not outlive the process).
	sessionRepo := storage.NewMemorySessionRepository()
	catalogRepo := storage.NewMemoryCatalogRepository()
	loadCatalog(ctx, cfg, catalogRepo)
	go storage.RunIdleSessionCleanup(ctx, sessionRepo)

	// Gemini AI client. Without credentials the assistant still runs
	// and answers with a fixed fallback response.
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
	handler := httpapi.NewHandler(chatUseCase, catalogRepo)
	router := httpapi.NewRouter(handler, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.InfoLogger.Printf("listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorLogger.Printf("server error: %v", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	logger.InfoLogger.Println("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.ErrorLogger.Printf("shutdown error: %v", err)
	}
}

// loadCatalog fills the catalog repository from the first configured
// source: Postgres, then an Excel price sheet, then the CSV files.
// A missing source leaves the catalog empty rather than failing.
func loadCatalog(ctx context.Context, cfg *config.Config, catalogRepo repository.CatalogRepository) {
	if cfg.CatalogDSN != "" {
		db, err := catalog.OpenPostgres(cfg.CatalogDSN)
		if err != nil {
			logger.ErrorLogger.Printf("catalog database unavailable: %v", err)
		} else {
			defer db.Close()
			devices, plans, err := catalog.LoadPostgres(db)
			if err != nil {
				logger.ErrorLogger.Printf("failed to load catalog from database: %v", err)
			} else {
				_ = catalogRepo.ReplaceAll(ctx, devices, plans)
				logger.InfoLogger.Printf("catalog loaded from database: %d devices, %d plans", len(devices), len(plans))
				return
			}
		}
	}

	if cfg.CatalogXLSXPath != "" {
		devices, plans, err := catalog.LoadExcel(cfg.CatalogXLSXPath)
		if err != nil {
			logger.ErrorLogger.Printf("failed to load catalog from %s: %v", cfg.CatalogXLSXPath, err)
		} else {
			_ = catalogRepo.ReplaceAll(ctx, devices, plans)
			logger.InfoLogger.Printf("catalog loaded from Excel: %d devices, %d plans", len(devices), len(plans))
			return
		}
	}

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
}
