package refiner

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"adstudio/internal/fault"
)

const (
	msgRateLimited  = "Limite de requisições excedido. Tente novamente em alguns instantes."
	msgBadKey       = "Créditos insuficientes ou chave de API inválida."
	msgRefineFailed = "Erro ao processar a conversa. Tente novamente."
)

var decisionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"reply":        {Type: genai.TypeString, Description: "Chat message for the user, in Portuguese"},
		"ready":        {Type: genai.TypeBoolean, Description: "Whether the image prompt is ready"},
		"final_prompt": {Type: genai.TypeString, Description: "Complete image prompt, empty when ready=false"},
	},
	Required: []string{"reply", "ready", "final_prompt"},
}

// GeminiModel runs the refinement decision on Gemini with a structured
// response schema, so the reply is JSON even before fence stripping.
type GeminiModel struct {
	client *genai.Client
	model  string
}

func NewGeminiModel(ctx context.Context, apiKey, model string) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiModel{client: client, model: model}, nil
}

func (m *GeminiModel) Decide(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   decisionSchema,
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), config)
	if err != nil {
		return "", classifyGeminiErr(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 || resp.Candidates[0].Content.Parts[0].Text == "" {
		return "", fault.New(fault.KindEmptyResult, msgRefineFailed)
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// classifyGeminiErr maps SDK errors onto the fault taxonomy by sniffing
// the message; the SDK does not expose a stable error type for these.
func classifyGeminiErr(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "resource_exhausted"), strings.Contains(msg, "quota"):
		return fault.Wrap(fault.KindRateLimited, msgRateLimited, err)
	case strings.Contains(msg, "401"), strings.Contains(msg, "403"),
		strings.Contains(msg, "api key"), strings.Contains(msg, "permission_denied"):
		return fault.Wrap(fault.KindAuthOrQuota, msgBadKey, err)
	default:
		return fault.Wrap(fault.KindGeneric, msgRefineFailed, err)
	}
}
