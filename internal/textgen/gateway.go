package textgen

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
	defaultGatewayURL = "https://ai.gateway.lovable.dev/v1/chat/completions"
	defaultTimeout    = 60 * time.Second
	roleSystem        = "system"
	roleUser          = "user"
)

// GatewayClient speaks the OpenAI-compatible chat-completions wire
// format against the deployment's AI gateway.
type GatewayClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type GatewayOptions struct {
	Model   string
	BaseURL string
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Message message `json:"message"`
}

func NewGatewayClient(apiKey string, opts GatewayOptions) *GatewayClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultGatewayURL
	}

	return &GatewayClient{
		apiKey:     apiKey,
		model:      opts.Model,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

func (c *GatewayClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := httputil.PostJSON(ctx, c.httpClient, c.baseURL, header, chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: roleSystem, Content: systemPrompt},
			{Role: roleUser, Content: userPrompt},
		},
		Temperature: 0.8,
	})
	if err != nil {
		return "", fault.Wrap(fault.KindGeneric, msgGeneric, err)
	}

	if !resp.OK() {
		slog.Error("ai gateway error", "status", resp.StatusCode, "body", string(resp.Body))
		return "", mapGatewayStatus(resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return "", fault.Wrap(fault.KindFormat, msgGeneric, err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fault.New(fault.KindEmptyResult, msgGeneric)
	}

	return parsed.Choices[0].Message.Content, nil
}

func mapGatewayStatus(status int) error {
	switch status {
	case http.StatusTooManyRequests:
		return fault.Upstream(fault.KindRateLimited, msgRateLimited, status)
	case http.StatusPaymentRequired:
		return fault.Upstream(fault.KindAuthOrQuota, msgNoCredits, status)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fault.Upstream(fault.KindAuthOrQuota, msgNoCredits, status)
	default:
		return fault.Upstream(fault.KindGeneric, msgGeneric, status)
	}
}
