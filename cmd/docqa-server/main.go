package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	docqa "github.com/hubenschmidt/go-docqa"
	"github.com/hubenschmidt/go-docqa/llm"
	"github.com/hubenschmidt/go-docqa/monitor"
)

func main() {
	godotenv.Load()

	logger := newLogger()
	defer logger.Sync()

	configPath := flag.String("config", getEnvOr("DOCQA_CONFIG", "docqa.yaml"), "path to config file")
	flag.Parse()

	cfg, err := docqa.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	client := docqa.NewUnifiedClient(docqa.UnifiedConfig{
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		OllamaURL:    os.Getenv("OLLAMA_URL"),
	})

	if ollamaURL := os.Getenv("OLLAMA_URL"); ollamaURL != "" {
		logOllamaModels(logger, ollamaURL)
	}

	eng, err := docqa.NewEngine(docqa.EngineConfig{
		Client:       client,
		Embedder:     client,
		ChatModel:    cfg.Models.Chat,
		EmbedModel:   cfg.Models.Embed,
		ChunkSize:    cfg.Chunker.Size,
		ChunkOverlap: cfg.Chunker.OverlapRunes(),
		TopK:         cfg.Retrieval.TopK,
		MinScore:     cfg.Retrieval.MinScore,
		Collector:    monitor.NewInMemoryCollector(),
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("create engine", zap.Error(err))
	}

	srv, err := docqa.NewServer(docqa.ServerConfig{
		Engine:         eng,
		DatabaseDSN:    getEnvOr("DATABASE_DSN", cfg.DatabaseDSN),
		MaxUploadBytes: cfg.MaxUploadMB << 20,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal("create server", zap.Error(err))
	}
	defer srv.Close()

	// In dev mode (DEV=1), serve only the API - the UI runs separately.
	// In prod mode, serve the embedded UI at /.
	handler := srv.Handler()
	if os.Getenv("DEV") == "" {
		mux := http.NewServeMux()
		mux.Handle("/", docqa.WebHandler())
		mux.Handle("/api/", http.StripPrefix("/api", srv.Handler()))
		handler = mux
	}

	addr := getEnvOr("ADDR", cfg.Addr)
	logger.Info("starting docqa server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if os.Getenv("DEBUG") != "" {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

// logOllamaModels reports which models the ollama/ prefix will route to.
func logOllamaModels(logger *zap.Logger, ollamaURL string) {
	models, err := llm.DiscoverOllamaModels(ollamaURL)
	if err != nil {
		logger.Warn("ollama model discovery failed", zap.String("url", ollamaURL), zap.Error(err))
		return
	}
	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Model
	}
	logger.Info("ollama models available", zap.Strings("models", names))
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
