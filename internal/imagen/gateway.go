package imagen

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"adstudio/internal/fault"
	"adstudio/pkg/httputil"
)

const defaultTimeout = 120 * time.Second

// ChatClient generates an image through an OpenAI-compatible
// chat-completions endpoint with image modality enabled. Both the AI
// gateway and OpenRouter speak this dialect, so one client covers both;
// only key, URL and model differ.
type ChatClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	extractor  Extractor
}

type ChatOptions struct {
	Model   string
	BaseURL string
}

type chatImageRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Modalities []string      `json:"modalities"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func NewChatClient(apiKey string, opts ChatOptions) *ChatClient {
	return &ChatClient{
		apiKey:     apiKey,
		model:      opts.Model,
		baseURL:    opts.BaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		extractor:  ChatImageExtractor{},
	}
}

// GenerateImage sends the already-framed prompt and returns the image
// payload (a URL or data URI, whatever the provider produced).
func (c *ChatClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := httputil.PostJSON(ctx, c.httpClient, c.baseURL, header, chatImageRequest{
		Model:      c.model,
		Messages:   []chatMessage{{Role: "user", Content: prompt}},
		Modalities: []string{"image", "text"},
	})
	if err != nil {
		return "", fault.Wrap(fault.KindGeneric, msgImageFailed, err)
	}

	if !resp.OK() {
		slog.Error("image provider error", "status", resp.StatusCode, "body", string(resp.Body))
		return "", mapImageStatus(resp.StatusCode)
	}

	image, err := c.extractor.Extract(resp.Body)
	if err == ErrNoImage {
		slog.Error("image provider returned no image", "body", string(resp.Body))
		return "", fault.New(fault.KindEmptyResult, msgNoImage)
	}
	if err != nil {
		return "", fault.Wrap(fault.KindFormat, msgNoImage, err)
	}
	return image, nil
}

func mapImageStatus(status int) error {
	switch status {
	case http.StatusTooManyRequests:
		return fault.Upstream(fault.KindRateLimited, msgRateLimited, status)
	case http.StatusPaymentRequired, http.StatusUnauthorized, http.StatusForbidden:
		return fault.Upstream(fault.KindAuthOrQuota, msgNoCredits, status)
	default:
		return fault.Upstream(fault.KindGeneric, msgImageFailed, status)
	}
}
