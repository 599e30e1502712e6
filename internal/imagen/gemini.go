package imagen

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"adstudio/internal/fault"
	"adstudio/pkg/httputil"
	"adstudio/pkg/prompts"
)

// GeminiGenerator calls the Generative Language REST API directly.
// Unlike the chat-dialect providers it takes the aspect ratio as a
// first-class request field, so it implements Generator itself instead
// of sitting behind SingleGenerator.
type GeminiGenerator struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	extractor  Extractor
	prompts    *prompts.Prompts
}

type GeminiOptions struct {
	Model   string
	BaseURL string
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string          `json:"responseModalities"`
	ImageConfig        geminiImageConfig `json:"imageConfig"`
}

type geminiImageConfig struct {
	AspectRatio string `json:"aspectRatio"`
}

func NewGeminiGenerator(apiKey string, opts GeminiOptions, p *prompts.Prompts) *GeminiGenerator {
	return &GeminiGenerator{
		apiKey:     apiKey,
		model:      opts.Model,
		baseURL:    opts.BaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		extractor:  ChainExtractor{InlineDataExtractor{}, B64JSONExtractor{}},
		prompts:    p,
	}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	aspect := ResolveAspect(req.AspectRatio)

	prompt, err := g.prompts.RenderImageBase(prompts.ImageParams{
		Aspect: aspect,
		Prompt: req.Prompt,
	})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		g.baseURL, g.model, url.QueryEscape(g.apiKey))

	resp, err := httputil.PostJSON(ctx, g.httpClient, endpoint, nil, geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig:        geminiImageConfig{AspectRatio: aspect},
		},
	})
	if err != nil {
		return nil, fault.Wrap(fault.KindGeneric, msgImageFailed, err)
	}

	if !resp.OK() {
		slog.Error("gemini image error", "status", resp.StatusCode, "body", string(resp.Body))
		return nil, mapGeminiStatus(resp.StatusCode)
	}

	image, err := g.extractor.Extract(resp.Body)
	if err == ErrNoImage {
		slog.Error("gemini returned no image data", "body", string(resp.Body))
		return nil, fault.New(fault.KindEmptyResult, msgGeminiNoImage)
	}
	if err != nil {
		return nil, fault.Wrap(fault.KindFormat, msgGeminiNoImage, err)
	}

	return &Result{Image: image}, nil
}

func mapGeminiStatus(status int) error {
	switch status {
	case http.StatusTooManyRequests:
		return fault.Upstream(fault.KindRateLimited, msgGeminiRate, status)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fault.Upstream(fault.KindAuthOrQuota, msgGeminiKey, status)
	default:
		return fault.Upstream(fault.KindGeneric, msgImageFailed, status)
	}
}
