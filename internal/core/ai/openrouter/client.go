// Package openrouter is the OpenRouter chat-completions client.
package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"media-tracker/internal/infrastructure/config"
	"media-tracker/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://openrouter.ai/api/v1"

// Tool describes a function the model is forced to call.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// Client calls the OpenRouter API.
type Client struct {
	config *config.OpenRouterConfig
	client *resty.Client
}

// NewClient builds an OpenRouter client from configuration.
func NewClient(cfg *config.OpenRouterConfig) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("HTTP-Referer", "https://media-tracker.app").
		SetHeader("X-Title", "Media Tracker")

	return &Client{
		config: cfg,
		client: client,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type toolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type toolDef struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type chatRequest struct {
	Model       string      `json:"model"`
	Messages    []message   `json:"messages"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
	Temperature float64     `json:"temperature,omitempty"`
	Tools       []toolDef   `json:"tools,omitempty"`
	ToolChoice  *toolChoice `json:"tool_choice,omitempty"`
}

type toolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role      string     `json:"role"`
			Content   string     `json:"content"`
			ToolCalls []toolCall `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// CreateToolCall sends prompt with tool forced as the only permitted
// response mechanism and returns the raw tool-call arguments. A response
// that carries no matching tool invocation yields (nil, false, nil);
// transport and API errors are returned as errors.
func (c *Client) CreateToolCall(ctx context.Context, prompt string, tool Tool) (json.RawMessage, bool, error) {
	req := chatRequest{
		Model: c.config.Model,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.config.MaxTokens,
		Temperature: 0.7,
		Tools: []toolDef{
			{
				Type: "function",
				Function: toolFunction{
					Name:        tool.Name,
					Description: tool.Description,
					Parameters:  tool.Parameters,
				},
			},
		},
	}
	req.ToolChoice = &toolChoice{Type: "function"}
	req.ToolChoice.Function.Name = tool.Name

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		common.LogModelCall(time.Since(start), err, requestIDFromContext(ctx))
		return nil, false, fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		err := fmt.Errorf("OpenRouter API returned status %d: %s", resp.StatusCode(), resp.String())
		common.LogModelCall(time.Since(start), err, requestIDFromContext(ctx))
		return nil, false, err
	}

	var result chatResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, false, fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}

	common.LogModelCall(time.Since(start), nil, requestIDFromContext(ctx))

	if len(result.Choices) == 0 {
		common.LogWarn("empty choices in OpenRouter response",
			zap.String("model", c.config.Model),
		)
		return nil, false, nil
	}

	for _, call := range result.Choices[0].Message.ToolCalls {
		if call.Function.Name == tool.Name && call.Function.Arguments != "" {
			return json.RawMessage(call.Function.Arguments), true, nil
		}
	}

	common.LogWarn("no tool invocation in OpenRouter response",
		zap.String("model", c.config.Model),
		zap.String("tool", tool.Name),
		zap.Int("content_length", len(result.Choices[0].Message.Content)),
	)
	return nil, false, nil
}

type contextKey string

// RequestIDKey carries the request ID through contexts handed to the
// client.
const RequestIDKey contextKey = "request_id"

func requestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey).(string); ok {
		return v
	}
	return ""
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
