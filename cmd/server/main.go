package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/finaware/statement-analyzer/internal/advisor"
	"github.com/finaware/statement-analyzer/internal/api"
	"github.com/finaware/statement-analyzer/internal/classify"
	"github.com/finaware/statement-analyzer/internal/config"
	"github.com/finaware/statement-analyzer/internal/ledger"
	"github.com/finaware/statement-analyzer/internal/pipeline"
	"github.com/finaware/statement-analyzer/internal/worker"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	vocab := classify.DefaultVocabulary()
	if cfg.VocabPath != "" {
		loaded, err := classify.LoadVocabulary(cfg.VocabPath)
		if err != nil {
			log.Warn("vocabulary override not loaded, using defaults",
				"path", cfg.VocabPath, "error", err)
		} else {
			vocab = loaded
		}
	}

	analyzer := pipeline.New(vocab, worker.New(cfg.ExtractWorkers), log)

	var loanCatalog *advisor.LoanCatalog
	if cfg.LoanCatalog != "" {
		loaded, err := advisor.LoadLoanCatalog(cfg.LoanCatalog)
		if err != nil {
			log.Warn("loan catalog not loaded, recommendations disabled",
				"path", cfg.LoanCatalog, "error", err)
		} else {
			loanCatalog = loaded
			log.Info("loan catalog loaded", "products", len(loaded.Products))
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.MaxUploadBytes,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	handler := &api.Handler{
		Analyzer:       analyzer,
		Ledger:         ledger.NewStore(),
		LoanCatalog:    loanCatalog,
		RequestTimeout: cfg.RequestTimeout,
		Log:            log,
	}
	handler.RegisterRoutes(app)

	go func() {
		log.Info("server starting", "addr", cfg.ListenAddr)
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
