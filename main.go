package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xiaot623/helpdesk/internal/adapter/llm"
	"github.com/xiaot623/helpdesk/internal/adapter/search"
	"github.com/xiaot623/helpdesk/internal/classify"
	"github.com/xiaot623/helpdesk/internal/config"
	"github.com/xiaot623/helpdesk/internal/contextstore"
	"github.com/xiaot623/helpdesk/internal/observability"
	"github.com/xiaot623/helpdesk/internal/repository"
	"github.com/xiaot623/helpdesk/internal/retrieval"
	"github.com/xiaot623/helpdesk/internal/service"
	"github.com/xiaot623/helpdesk/internal/session"
	transport "github.com/xiaot623/helpdesk/internal/transport/http"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting helpdesk orchestrator",
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("weaviate_url", cfg.WeaviateURL),
		zap.String("docs_dir", cfg.DocsDir))

	// Missing credentials degrade the process, they do not stop it; mock
	// mode and corpus-backed retrieval keep working.
	if cfg.OpenAIAPIKey == "" && os.Getenv(llm.EnvHelpdeskMode) != llm.ModeMock {
		logger.Warn("OPENAI_API_KEY is not set; generation will fail until configured")
	}

	metrics := observability.New(prometheus.DefaultRegisterer)

	var index search.Index
	if weaviateIndex, err := search.NewWeaviateIndex(cfg.WeaviateURL); err != nil {
		logger.Warn("search index unavailable, retrieval degrades to empty results",
			zap.Error(err))
	} else {
		index = weaviateIndex
	}

	store := contextstore.New(index, cfg.DocsDir, logger, metrics)
	retriever := retrieval.New(store, logger)
	classifier := classify.New(llm.NewRouter(cfg, logger), logger, metrics)
	generator := llm.NewGenerator(cfg, logger)
	sessions := session.NewManager(logger)

	var transcripts *repository.TranscriptStore
	if cfg.DatabaseURL != "" {
		ts, err := repository.NewTranscriptStore(cfg.DatabaseURL)
		if err != nil {
			logger.Warn("transcript store unavailable, turns will not be recorded",
				zap.Error(err))
		} else {
			transcripts = ts
			defer transcripts.Close()
		}
	}

	svc := service.New(sessions, retriever, classifier, generator, transcripts, cfg, logger, metrics)
	server := transport.NewServer(svc)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()
	logger.Info("helpdesk orchestrator ready", zap.Int("port", cfg.HTTPPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down gracefully", zap.Error(err))
	}
	logger.Info("helpdesk orchestrator stopped")
}

func newLogger(level string) *zap.Logger {
	logCfg := zap.NewProductionConfig()
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		logCfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	logger, err := logCfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
