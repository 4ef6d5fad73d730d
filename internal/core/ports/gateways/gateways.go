// Package gateways declares the outbound ports the services depend on: market data,
// weather, LLM planning and generation, embeddings, document reading, chat
// notifications and tracing.
package gateways

import (
	"context"

	"github.com/SscSPs/procurement_agent/internal/core/domain"
)

// MarketDataProvider returns the bridge asset's price in each requested currency.
type MarketDataProvider interface {
	BridgeQuotes(ctx context.Context, asset string, currencies []string) (*domain.BridgeQuotes, error)
}

// WeatherProvider returns current conditions for a city.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, city string) (*domain.WeatherObservation, error)
}

// Embedder turns text into vectors with a fixed model. Document and query embeddings
// come from the same model so they are comparable.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// TextGenerator answers a single prompt.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Planner decides the next agent step given the conversation so far and the tools on offer.
type Planner interface {
	Plan(ctx context.Context, conv *domain.Conversation, tools []domain.ToolSpec) (*domain.PlanStep, error)
}

// DocumentReader extracts plain text from a stored document.
type DocumentReader interface {
	ReadText(ctx context.Context, path string) (string, error)
}

// ChatNotifier posts a message to a fixed chat destination.
type ChatNotifier interface {
	SendMessage(ctx context.Context, text string) error
	Configured() bool
}

// Tracer records analytics events. Implementations must not block.
type Tracer interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}
