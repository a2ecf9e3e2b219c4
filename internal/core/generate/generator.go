// Package generate produces recommendation candidates from a generative
// model.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"media-tracker/internal/core/ai/openrouter"
	"media-tracker/internal/pkg/common"

	"go.uber.org/zap"
)

const toolName = "recommend_titles"

// candidateSchema is the JSON schema of the forced tool call: an array of
// {title, description} objects.
var candidateSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"recommendations": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"title": {"type": "string"},
					"description": {"type": "string"}
				},
				"required": ["title", "description"]
			}
		}
	},
	"required": ["recommendations"]
}`)

// ModelClient invokes the generative model with a single forced tool and
// returns the raw tool-call arguments. An absent tool invocation is
// (nil, false, nil), not an error.
type ModelClient interface {
	CreateToolCall(ctx context.Context, prompt string, tool openrouter.Tool) (json.RawMessage, bool, error)
}

// Generator asks the model for the next titles to consume.
type Generator struct {
	model ModelClient
}

// NewGenerator creates a candidate generator.
func NewGenerator(model ModelClient) *Generator {
	return &Generator{model: model}
}

type candidatePayload struct {
	Recommendations []common.Candidate `json:"recommendations"`
}

// Generate proposes candidates for the given content type based on the
// history titles. A model transport error is returned as-is; a response
// without a usable tool call yields an empty slice and nil error.
func (g *Generator) Generate(ctx context.Context, contentType common.ContentType, history []string) ([]common.Candidate, error) {
	prompt := buildPrompt(contentType, history)
	common.LogDebug("assembled recommendation prompt",
		zap.String("content_type", string(contentType)),
		zap.Int("history_items", len(history)),
	)

	tool := openrouter.Tool{
		Name:        toolName,
		Description: "Report the recommended titles with a short description for each.",
		Parameters:  candidateSchema,
	}

	args, ok, err := g.model.CreateToolCall(ctx, prompt, tool)
	if err != nil {
		return nil, fmt.Errorf("model invocation failed: %w", err)
	}
	if !ok {
		common.LogWarn("model returned no tool invocation, treating as empty generation",
			zap.String("content_type", string(contentType)),
		)
		return nil, nil
	}

	var payload candidatePayload
	if err := common.ParseJSONBytes(args, &payload); err != nil {
		common.LogWarn("failed to decode tool-call arguments, treating as empty generation",
			zap.Error(err),
			zap.Int("args_length", len(args)),
		)
		return nil, nil
	}

	candidates := make([]common.Candidate, 0, len(payload.Recommendations))
	for _, c := range payload.Recommendations {
		if strings.TrimSpace(c.Title) == "" {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func buildPrompt(contentType common.ContentType, history []string) string {
	var kind string
	switch contentType {
	case common.ContentTypeBook:
		kind = "books to read"
	case common.ContentTypeBlog:
		kind = "blogs to follow"
	default:
		kind = "movies to watch"
	}

	var b strings.Builder
	b.WriteString("I recently watched or read the following:\n")
	for _, line := range history {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nRecommend exactly 3 %s next. ", kind)
	b.WriteString("Give each a real, exact title and one short sentence describing it. ")
	fmt.Fprintf(&b, "Respond only through the %s tool.", toolName)
	return b.String()
}
