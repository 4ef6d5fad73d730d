package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SscSPs/procurement_agent/internal/adapters/coingecko"
	"github.com/SscSPs/procurement_agent/internal/adapters/gemini"
	"github.com/SscSPs/procurement_agent/internal/adapters/openaichat"
	"github.com/SscSPs/procurement_agent/internal/adapters/openweather"
	"github.com/SscSPs/procurement_agent/internal/adapters/pdf"
	"github.com/SscSPs/procurement_agent/internal/adapters/telegram"
	"github.com/SscSPs/procurement_agent/internal/core/ports/gateways"
	"github.com/SscSPs/procurement_agent/internal/core/services"
	"github.com/SscSPs/procurement_agent/internal/handlers"
	"github.com/SscSPs/procurement_agent/internal/middleware"
	"github.com/SscSPs/procurement_agent/internal/platform/config"
	"github.com/SscSPs/procurement_agent/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

// @title Procurement Agent API
// @version 1.0
// @description Procurement decision assistant: live INR forex ranking, shipping weather, policy retrieval and an LLM planning agent.

// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	tracer := utils.InitializePosthogClient(cfg.TracingAPIKey, cfg.TracingEndpoint, logger)
	defer tracer.Close()

	llm, err := newLLMGateways(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to initialize LLM provider", slog.String("provider", cfg.LLMProvider), slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("LLM provider initialized", slog.String("provider", cfg.LLMProvider))

	container := services.NewServiceContainer(cfg, services.Gateways{
		MarketData: coingecko.NewClient(cfg.CoinGeckoBaseURL, cfg.CoinGeckoAPIKey, cfg.ProviderTimeout),
		Weather:    openweather.NewClient(cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey, cfg.ProviderTimeout),
		Documents:  pdf.NewReader(),
		Embedder:   llm.Embedder,
		Generator:  llm.Generator,
		Planner:    llm.Planner,
		Notifier:   telegram.NewNotifier(cfg.TelegramBaseURL, cfg.TelegramBotToken, cfg.TelegramChatID, cfg.ProviderTimeout),
		Tracer:     tracer,
	})

	if err := os.MkdirAll(cfg.UploadDir, 0o750); err != nil {
		logger.Error("Failed to create upload directory", slog.String("dir", cfg.UploadDir), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors, analytics)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	r.Use(middleware.PosthogMiddleware(tracer))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, container); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), cfg.NotifyDrainTimeout)
	defer cancelDrain()
	if dropped := container.Notification.Shutdown(drainCtx); dropped > 0 {
		logger.Warn("Discarded pending notifications", slog.Int("count", dropped))
	}

	logger.Info("Server exited")
}

// llmGateways are the model-backed ports, all served by the selected provider.
type llmGateways struct {
	Planner   gateways.Planner
	Generator gateways.TextGenerator
	Embedder  gateways.Embedder
}

func newLLMGateways(ctx context.Context, cfg *config.Config) (*llmGateways, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		client, err := openaichat.New(cfg.OpenAIAPIKey,
			openaichat.WithBaseURL(cfg.OpenAIBaseURL),
			openaichat.WithModel(cfg.LLMModel),
			openaichat.WithEmbeddingModel(cfg.EmbeddingModel),
			openaichat.WithTemperature(cfg.LLMTemperature),
		)
		if err != nil {
			return nil, err
		}
		return &llmGateways{Planner: client, Generator: client, Embedder: client}, nil
	case config.ProviderGemini:
		client, err := gemini.New(ctx, cfg.GeminiAPIKey,
			gemini.WithModel(cfg.LLMModel),
			gemini.WithEmbeddingModel(cfg.EmbeddingModel),
			gemini.WithTemperature(cfg.LLMTemperature),
		)
		if err != nil {
			return nil, err
		}
		return &llmGateways{Planner: client, Generator: client, Embedder: client}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowHeaders = append(c.AllowHeaders, "X-Request-ID")
	c.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	return c
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
