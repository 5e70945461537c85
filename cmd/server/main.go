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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/a2a"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/api"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/config"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/credentials"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/generator"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/keywords"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/llm"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/logging"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/storage"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/store"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/wizard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	kv, err := storage.OpenSQLite(cfg.DataPath)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.String("path", cfg.DataPath), zap.Error(err))
	}
	defer kv.Close()

	ctx := context.Background()

	creds := credentials.New(kv, nil, logger)
	for key, value := range map[string]string{
		credentials.OpenAIKey:      cfg.OpenAIAPIKey,
		credentials.GeminiKey:      cfg.GeminiAPIKey,
		credentials.DeveloperToken: cfg.DeveloperToken,
	} {
		if err := creds.Seed(ctx, key, value); err != nil {
			logger.Fatal("Failed to seed credential", zap.String("key", key), zap.Error(err))
		}
	}

	completer, err := llm.New(cfg.LLM, creds, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	// OpenAI keys are checked live whichever provider generates
	creds.SetValidator(llm.NewOpenAI(creds, cfg.LLM.OpenAIURL, llm.Defaults{Model: cfg.LLM.OpenAIModel}, logger))

	st := store.New(kv, logger)
	st.Load(ctx)

	provider := keywords.NewSimulated(creds, cfg.AdLatency, logger)
	gen := generator.New(completer, keywords.NewPipeline(provider, logger), cfg.ICPTimeout, logger)

	apiHandler := api.NewHandler(
		st,
		gen,
		wizard.New(st, logger),
		creds,
		keywords.NewStatsService(provider, st, logger),
		logger,
	)
	a2aHandler := a2a.NewA2AHandler(gen, logger)

	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogging(logger))

	router.GET("/.well-known/agent.json", a2aHandler.ServeAgentCard)
	router.POST("/a2a/icp", a2aHandler.HandleICP)
	apiHandler.Register(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Marketing strategy agent starting",
			zap.String("port", cfg.Port),
			zap.String("llm_provider", cfg.LLM.Provider),
			zap.String("data_path", cfg.DataPath))
		logger.Info("Agent card available", zap.String("url", "http://localhost:"+cfg.Port+"/.well-known/agent.json"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
