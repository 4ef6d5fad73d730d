// Package openaichat adapts OpenAI-compatible endpoints to the planner, text generator
// and embedder ports.
package openaichat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/SscSPs/procurement_agent/internal/apperrors"
	"github.com/SscSPs/procurement_agent/internal/core/domain"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	DefaultModel          = "gpt-4o-mini"
	DefaultEmbeddingModel = "text-embedding-3-small"
)

// Client drives the agent loop with OpenAI tool calling and embeds policy text.
type Client struct {
	client         openai.Client
	model          string
	embeddingModel string
	temperature    float64
	baseURL        string
	requestOpts    []option.RequestOption
}

// Option configures a Client.
type Option func(*Client)

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithEmbeddingModel sets the embedding model.
func WithEmbeddingModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.embeddingModel = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Client) {
		c.temperature = t
	}
}

// WithBaseURL targets an OpenAI-compatible endpoint other than the public API.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithRequestOptions appends raw SDK request options.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *Client) {
		c.requestOpts = append(c.requestOpts, opts...)
	}
}

// New creates a client. The API key is required; requests are never retried.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai api key", apperrors.ErrNotConfigured)
	}

	c := &Client{model: DefaultModel, embeddingModel: DefaultEmbeddingModel}
	for _, opt := range opts {
		opt(c)
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if c.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(c.baseURL))
	}
	clientOpts = append(clientOpts, c.requestOpts...)
	c.client = openai.NewClient(clientOpts...)
	return c, nil
}

// Plan asks the model for the next step of the conversation.
func (c *Client) Plan(ctx context.Context, conv *domain.Conversation, tools []domain.ToolSpec) (*domain.PlanStep, error) {
	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Messages:    toMessages(conv),
		Temperature: openai.Float(c.temperature),
	}
	if len(tools) > 0 {
		params.Tools = toTools(tools)
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classify(err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai returned no choices", apperrors.ErrMalformedResponse)
	}

	msg := completion.Choices[0].Message
	step := &domain.PlanStep{Raw: msg.ToParam()}
	for _, tc := range msg.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("%w: tool %s arguments: %v", apperrors.ErrMalformedResponse, tc.Function.Name, err)
			}
		}
		step.Calls = append(step.Calls, domain.ToolCall{ID: tc.ID, Name: tc.Function.Name, Args: args})
	}
	if len(step.Calls) == 0 {
		step.Final = msg.Content
	}
	return step, nil
}

// Generate answers a single prompt.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	step, err := c.Plan(ctx, domain.NewConversation(system, prompt), nil)
	if err != nil {
		return "", err
	}
	return step.Final, nil
}

func toMessages(conv *domain.Conversation) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if conv.System != "" {
		messages = append(messages, openai.SystemMessage(conv.System))
	}

	for _, turn := range conv.Turns {
		switch turn.Role {
		case domain.RoleUser:
			messages = append(messages, openai.UserMessage(turn.Text))
		case domain.RoleAssistant:
			if raw, ok := turn.Raw.(openai.ChatCompletionMessageParamUnion); ok {
				messages = append(messages, raw)
				continue
			}
			messages = append(messages, assistantMessage(turn))
		case domain.RoleTool:
			for _, r := range turn.Results {
				messages = append(messages, openai.ToolMessage(r.Output, r.CallID))
			}
		}
	}
	return messages
}

func assistantMessage(turn domain.Turn) openai.ChatCompletionMessageParamUnion {
	asst := &openai.ChatCompletionAssistantMessageParam{}
	if turn.Text != "" {
		asst.Content = openai.ChatCompletionAssistantMessageParamContentUnion{OfString: openai.String(turn.Text)}
	}
	for _, call := range turn.Calls {
		args, err := json.Marshal(call.Args)
		if err != nil || call.Args == nil {
			args = []byte("{}")
		}
		asst.ToolCalls = append(asst.ToolCalls, openai.ChatCompletionMessageToolCallParam{
			ID: call.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      call.Name,
				Arguments: string(args),
			},
		})
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: asst}
}

func toTools(tools []domain.ToolSpec) []openai.ChatCompletionToolParam {
	result := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		properties := map[string]any{}
		required := []string{}
		for _, p := range t.Params {
			properties[p.Name] = map[string]any{"type": "string", "description": p.Description}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		result = append(result, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters: shared.FunctionParameters{
					"type":       "object",
					"properties": properties,
					"required":   required,
				},
			},
		})
	}
	return result
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: openai: %v", apperrors.ErrTimeout, err)
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: openai: %v", apperrors.ErrRateLimited, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: openai: %v", apperrors.ErrUnauthorized, err)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%w: openai: %v", apperrors.ErrTimeout, err)
		default:
			return fmt.Errorf("%w: openai: %v", apperrors.ErrUpstream, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: openai: %v", apperrors.ErrTimeout, err)
		}
		return fmt.Errorf("%w: openai: %v", apperrors.ErrNetwork, err)
	}
	return fmt.Errorf("%w: openai: %v", apperrors.ErrUpstream, err)
}
