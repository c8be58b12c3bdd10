package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apptravel/internal/config"
	"apptravel/internal/handler"
	"apptravel/internal/history"
	"apptravel/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Printf("App-Travel Model Server")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(cfg.Server.GinMode)

	// Upstream model
	upstream := service.NewOpenAIClient(&cfg.OpenAI)
	if upstream.IsEnabled() {
		log.Printf("✅ Upstream model client initialized")
		log.Printf("   - API Base: %s", cfg.OpenAI.APIBase)
		log.Printf("   - Chat model: %s", cfg.OpenAI.ChatModel)
		log.Printf("   - Chat MaxTokens: %d", cfg.OpenAI.ChatMaxTokens)
	} else {
		log.Println("⚠️  No upstream model configured - chat endpoints will answer 'Modele non charge'")
		log.Println("   Set OPENAI_API_BASE to an OpenAI-compatible endpoint (llama.cpp, Ollama /v1, ...)")
	}

	store := newHistoryStore(cfg)
	assistant := service.NewAssistant(upstream, store, cfg.ModelServer.ContextEntries)

	router := gin.Default()
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Content-Type", "Authorization", handler.RequestIDHeader}
	router.Use(cors.New(corsCfg))
	router.Use(handler.RequestID())

	handler.RegisterModelRoutes(router, handler.NewAssistantHandler(assistant))

	addr := fmt.Sprintf("%s:%d", cfg.ModelServer.Host, cfg.ModelServer.Port)
	log.Printf("🚀 Starting model server on %s", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down model server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Forced shutdown: %v", err)
	}
	log.Println("✅ Model server stopped")
}

// newHistoryStore picks the configured conversation store, falling back to
// memory when Redis cannot be reached at startup.
func newHistoryStore(cfg *config.Config) history.Store {
	limit := cfg.ModelServer.HistoryLimit

	if cfg.ModelServer.HistoryBackend != "redis" {
		log.Printf("✅ Using in-memory conversation history (limit %d)", limit)
		return history.NewMemoryStore(limit)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := history.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, falling back to in-memory history: %v", err)
		return history.NewMemoryStore(limit)
	}

	log.Printf("✅ Using Redis conversation history at %s (limit %d)", cfg.Redis.Addr, limit)
	return history.NewRedisStore(client, cfg.Redis.KeyPrefix, limit)
}
