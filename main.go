package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"

	"github.com/burnoutlab/orchestrator/api"
	"github.com/burnoutlab/orchestrator/config"
	"github.com/burnoutlab/orchestrator/emotion"
	"github.com/burnoutlab/orchestrator/llm"
	"github.com/burnoutlab/orchestrator/policy"
	"github.com/burnoutlab/orchestrator/service"
	"github.com/burnoutlab/orchestrator/store"
)

func main() {
	cfg := config.Load()

	log.Printf("Starting survey orchestrator...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("LLM URL: %s", cfg.LLMBaseURL)

	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	generator := llm.NewGenerator(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)

	var classifier emotion.Classifier
	switch {
	case os.Getenv(llm.EnvSurveyMode) == llm.ModeMock:
		classifier = emotion.NewMockClassifier()
	case cfg.EmotionURL != "":
		classifier = emotion.NewHTTPClassifier(cfg.EmotionURL, cfg.EmotionAPIKey, cfg.EmotionTimeout)
	}

	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	svc := service.New(db, generator, classifier, cfg)
	h := api.NewHandler(svc, db, policyEngine, cfg)

	server := echo.New()
	server.HideBanner = true

	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORS())

	h.RegisterRoutes(server)

	// Completed sessions are survey results already delivered to the
	// caller; housekeeping deletes them on a schedule.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.CleanupSchedule, func() {
		deleted, err := db.DeleteCompleted(context.Background())
		if err != nil {
			log.Printf("ERROR: session cleanup failed: %v", err)
			return
		}
		if deleted > 0 {
			log.Printf("INFO: cleaned up %d completed sessions", deleted)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule session cleanup: %v", err)
	}
	scheduler.Start()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down orchestrator...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Orchestrator stopped")
}
