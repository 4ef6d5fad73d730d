package services_test

import (
	"context"
	"strings"
	"sync"

	"github.com/SscSPs/procurement_agent/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock MarketDataProvider ---
type MockMarketDataProvider struct {
	mock.Mock
}

func (m *MockMarketDataProvider) BridgeQuotes(ctx context.Context, asset string, currencies []string) (*domain.BridgeQuotes, error) {
	args := m.Called(ctx, asset, currencies)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BridgeQuotes), args.Error(1)
}

// --- Mock WeatherProvider ---
type MockWeatherProvider struct {
	mock.Mock
}

func (m *MockWeatherProvider) CurrentWeather(ctx context.Context, city string) (*domain.WeatherObservation, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeatherObservation), args.Error(1)
}

// --- Mock DocumentReader ---
type MockDocumentReader struct {
	mock.Mock
}

func (m *MockDocumentReader) ReadText(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

// --- Mock TextGenerator ---
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

// keywordEmbedder embeds text as keyword counts so similarity is predictable.
type keywordEmbedder struct {
	mu       sync.Mutex
	keywords []string
	calls    int
	err      error
}

func newKeywordEmbedder() *keywordEmbedder {
	return &keywordEmbedder{keywords: []string{"payment", "supplier", "shipping", "warranty"}}
}

func (e *keywordEmbedder) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(e.keywords)+1)
	for i, k := range e.keywords {
		v[i] = float32(strings.Count(lower, k))
	}
	v[len(e.keywords)] = 0.01
	return v
}

func (e *keywordEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	err := e.err
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e *keywordEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.vector(text), nil
}

func (e *keywordEmbedder) fail(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

// --- Mock ChatNotifier ---
type MockChatNotifier struct {
	mock.Mock
}

func (m *MockChatNotifier) SendMessage(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func (m *MockChatNotifier) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

// recordingTracer collects traced events.
type recordingTracer struct {
	mu     sync.Mutex
	events []string
	ids    []string
}

func (t *recordingTracer) Enqueue(distinctID, event string, _ map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
	t.ids = append(t.ids, distinctID)
}

func (t *recordingTracer) Events() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.events...)
}

// scriptedPlanner replays a fixed sequence of plan steps and records what it was offered.
type scriptedPlanner struct {
	steps     []*domain.PlanStep
	err       error
	calls     int
	toolSets  [][]string
	lastConv  *domain.Conversation
	afterLast *domain.PlanStep
}

func (p *scriptedPlanner) Plan(_ context.Context, conv *domain.Conversation, tools []domain.ToolSpec) (*domain.PlanStep, error) {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	p.toolSets = append(p.toolSets, names)
	p.lastConv = conv
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if p.calls <= len(p.steps) {
		return p.steps[p.calls-1], nil
	}
	if p.afterLast != nil {
		return p.afterLast, nil
	}
	return &domain.PlanStep{Final: ""}, nil
}

func call(id, name string, args map[string]any) domain.ToolCall {
	return domain.ToolCall{ID: id, Name: name, Args: args}
}
