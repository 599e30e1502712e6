package refiner

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"adstudio/internal/fault"
	"adstudio/pkg/httputil"
)

const (
	openRouterTimeout = 60 * time.Second

	msgORRateLimited = "Limite de requisições da API OpenRouter excedido. Tente novamente em alguns instantes."
	msgORNoCredits   = "Créditos da OpenRouter esgotados. Recarregue sua conta."
	msgORFailed      = "Erro ao chamar a API OpenRouter"
)

// OpenRouterModel is the alternate decision backend. It has no
// structured-output mode, so the prompt's JSON contract does the work
// and the fence-strip fallback in parseReply absorbs sloppy output.
type OpenRouterModel struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type OpenRouterOptions struct {
	Model   string
	BaseURL string
}

type openRouterRequest struct {
	Model    string              `json:"model"`
	Messages []openRouterMessage `json:"messages"`
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterResponse struct {
	Choices []struct {
		Message openRouterMessage `json:"message"`
	} `json:"choices"`
}

func NewOpenRouterModel(apiKey string, opts OpenRouterOptions) *OpenRouterModel {
	return &OpenRouterModel{
		apiKey:     apiKey,
		model:      opts.Model,
		baseURL:    opts.BaseURL,
		httpClient: &http.Client{Timeout: openRouterTimeout},
	}
}

func (m *OpenRouterModel) Decide(ctx context.Context, prompt string) (string, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := httputil.PostJSON(ctx, m.httpClient, m.baseURL, header, openRouterRequest{
		Model:    m.model,
		Messages: []openRouterMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fault.Wrap(fault.KindGeneric, msgORFailed, err)
	}

	if !resp.OK() {
		slog.Error("openrouter refiner error", "status", resp.StatusCode, "body", string(resp.Body))
		return "", mapOpenRouterStatus(resp.StatusCode)
	}

	var parsed openRouterResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return "", fault.Wrap(fault.KindFormat, msgRefineFailed, err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fault.New(fault.KindEmptyResult, msgRefineFailed)
	}

	return parsed.Choices[0].Message.Content, nil
}

func mapOpenRouterStatus(status int) error {
	switch status {
	case http.StatusTooManyRequests:
		return fault.Upstream(fault.KindRateLimited, msgORRateLimited, status)
	case http.StatusPaymentRequired, http.StatusUnauthorized, http.StatusForbidden:
		return fault.Upstream(fault.KindAuthOrQuota, msgORNoCredits, status)
	default:
		return fault.Upstream(fault.KindGeneric, msgORFailed, status)
	}
}
