package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/conneroisu/groq-go"

	"adstudio/internal/fault"
)

// GroqClient is the alternate text provider. JSON mode is always on:
// the only consumer expects a JSON object back.
type GroqClient struct {
	client *groq.Client
	model  groq.ChatModel
}

func NewGroqClient(apiKey, model string) (*GroqClient, error) {
	client, err := groq.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	return &GroqClient{
		client: client,
		model:  groq.ChatModel(model),
	}, nil
}

func (c *GroqClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model: c.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: systemPrompt},
			{Role: groq.RoleUser, Content: userPrompt},
		},
		ResponseFormat: &groq.ChatResponseFormat{
			Type: "json_object",
		},
	})
	if err != nil {
		return "", classifyGroqErr(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fault.New(fault.KindEmptyResult, msgGeneric)
	}

	return resp.Choices[0].Message.Content, nil
}

// classifyGroqErr maps SDK errors onto the fault taxonomy. The SDK
// flattens provider responses into opaque errors, so this falls back to
// inspecting the text.
func classifyGroqErr(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "rate_limit"):
		return fault.Wrap(fault.KindRateLimited, msgRateLimited, err)
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") ||
		strings.Contains(msg, "invalid api key") || strings.Contains(msg, "quota"):
		return fault.Wrap(fault.KindAuthOrQuota, msgNoCredits, err)
	default:
		return fault.Wrap(fault.KindGeneric, msgGeneric, err)
	}
}
