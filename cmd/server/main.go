package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"apptravel/internal/config"
	"apptravel/internal/handler"
	"apptravel/internal/llama"
	"apptravel/internal/repository"
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
	// Print version info
	log.Printf("App-Travel Backend")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Database is optional: chat works without it, catalog endpoints degrade to empty answers
	var catalogRepo handler.DestinationReader
	var dbPinger handler.Pinger
	if cfg.PostgreSQL.Enabled {
		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			log.Printf("⚠️  PostgreSQL unavailable, continuing without database: %v", err)
		} else {
			defer repo.Close()
			catalogRepo, dbPinger = repo, repo
			log.Println("✅ Connected to PostgreSQL database")
		}
	} else {
		log.Println("⚠️  PostgreSQL is disabled - destinations will be empty")
	}

	// Model server discovery
	discoverer := llama.NewDiscoverer(
		cfg.Llama.CandidateURLs,
		cfg.Llama.DiscoveryCooldown,
		cfg.Llama.HealthTimeout,
		llama.HTTPProbe(&http.Client{Timeout: cfg.Llama.HealthTimeout}),
	)
	llamaClient := llama.NewClient(discoverer, llama.Options{
		Timeout:     cfg.Llama.GenerateTimeout,
		OllamaModel: cfg.Llama.OllamaModel,
		Temperature: cfg.Llama.Temperature,
	})
	log.Printf("✅ Llama client initialized")
	log.Printf("   - Candidates: %s", strings.Join(cfg.Llama.CandidateURLs, ", "))
	log.Printf("   - Discovery cooldown: %s", cfg.Llama.DiscoveryCooldown)

	// Initialize services
	ranker := service.NewRanker(cfg.Ranking.WeightRating, cfg.Ranking.WeightPrice)
	offers := service.NewOfferGenerator(cfg.Offers, ranker)
	intentExtractor := service.NewIntentExtractor(llamaClient)
	chatService := service.NewChatService(llamaClient, intentExtractor, offers, cfg.Offers.DefaultCity)

	log.Printf("✅ Services initialized (free mode: %t)", offers.FreeMode())

	// Initialize handlers
	chatHandler := handler.NewChatHandler(chatService)
	healthHandler := handler.NewHealthHandler(chatService, dbPinger)
	catalogHandler := handler.NewCatalogHandler(catalogRepo)

	// Setup Gin router
	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg.Server)))
	router.Use(handler.RequestID())

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	handler.RegisterBackendRoutes(router, chatHandler, healthHandler, catalogHandler)
	setupNoRoute(router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 Chat endpoint: http://localhost:%d/api/chat/", cfg.Server.Port)

	serve(addr, router)
}

// corsConfig builds the CORS policy from the comma separated server settings
func corsConfig(server config.ServerConfig) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = splitList(server.AllowedOrigins)
	cfg.AllowMethods = splitList(server.AllowedMethods)
	cfg.AllowHeaders = append(splitList(server.AllowedHeaders), handler.RequestIDHeader)
	cfg.ExposeHeaders = []string{handler.RequestIDHeader}
	return cfg
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// setupNoRoute answers unknown paths with JSON instead of the default text body
func setupNoRoute(router *gin.Engine) {
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Not found",
			"hint":  "See GET / for the list of endpoints",
		})
	})
}

// serve runs the HTTP server until SIGINT/SIGTERM, then drains in-flight requests
func serve(addr string, h http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Forced shutdown: %v", err)
	}
	log.Println("✅ Server stopped")
}
