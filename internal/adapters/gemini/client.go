// Package gemini adapts the Gemini API to the planner, text generator and embedder ports.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/SscSPs/procurement_agent/internal/apperrors"
	"google.golang.org/genai"
)

const (
	DefaultModel          = "gemini-2.5-flash"
	DefaultEmbeddingModel = "gemini-embedding-001"

	taskTypeRetrievalDocument = "RETRIEVAL_DOCUMENT"
	taskTypeRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Client talks to one Gemini project with a chat model and an embedding model.
type Client struct {
	client         *genai.Client
	model          string
	embeddingModel string
	temperature    *float32
	baseURL        string
}

// Option configures a Client.
type Option func(*Client)

// WithModel sets the chat model used for planning and generation.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = strings.TrimPrefix(model, "models/")
		}
	}
}

// WithEmbeddingModel sets the model used for document and query embeddings.
func WithEmbeddingModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.embeddingModel = strings.TrimPrefix(model, "models/")
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Client) {
		c.temperature = genai.Ptr(float32(t))
	}
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// New creates a Gemini client. The API key is required.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key", apperrors.ErrNotConfigured)
	}

	c := &Client{model: DefaultModel, embeddingModel: DefaultEmbeddingModel}
	for _, opt := range opts {
		opt(c)
	}

	cfg := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	c.client = client
	return c, nil
}

// Generate answers a single prompt, optionally under a system instruction.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{Temperature: c.temperature}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", classify(err)
	}
	return resp.Text(), nil
}

// classify maps SDK failures onto the shared upstream error kinds.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: gemini: %v", apperrors.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: gemini: %v", apperrors.ErrTimeout, err)
		}
		return fmt.Errorf("%w: gemini: %v", apperrors.ErrNetwork, err)
	}

	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}

	switch code {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: gemini: %v", apperrors.ErrRateLimited, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: gemini: %v", apperrors.ErrUnauthorized, err)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: gemini: %v", apperrors.ErrTimeout, err)
	default:
		return fmt.Errorf("%w: gemini: %v", apperrors.ErrUpstream, err)
	}
}
