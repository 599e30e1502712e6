package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"adstudio/internal/fault"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io/v1"
	defaultTimeout = 120 * time.Second

	msgTranscribeFailed = "Erro ao transcrever áudio"
)

// Client transcribes uploaded audio through the ElevenLabs
// speech-to-text endpoint.
type Client struct {
	apiKey     string
	model      string
	language   string
	baseURL    string
	httpClient *http.Client
}

type Options struct {
	Model    string
	Language string
	BaseURL  string
}

// Result mirrors the response body sent back to the caller. Text is a
// pointer so silence transcribes to an explicit null, not an empty
// string the frontend would render.
type Result struct {
	Text *string `json:"text"`
}

type transcriptResponse struct {
	Text string `json:"text"`
}

func NewClient(apiKey string, opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		apiKey:     apiKey,
		model:      opts.Model,
		language:   opts.Language,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Transcribe forwards the audio bytes and returns the recognized text.
// filename is only a hint for the provider's format detection.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (*Result, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fault.Wrap(fault.KindTranscription, msgTranscribeFailed, err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fault.Wrap(fault.KindTranscription, msgTranscribeFailed, err)
	}
	if err := form.WriteField("model_id", c.model); err != nil {
		return nil, fault.Wrap(fault.KindTranscription, msgTranscribeFailed, err)
	}
	if err := form.WriteField("language_code", c.language); err != nil {
		return nil, fault.Wrap(fault.KindTranscription, msgTranscribeFailed, err)
	}
	if err := form.Close(); err != nil {
		return nil, fault.Wrap(fault.KindTranscription, msgTranscribeFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/speech-to-text", &buf)
	if err != nil {
		return nil, fault.Wrap(fault.KindTranscription, msgTranscribeFailed, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fault.Wrap(fault.KindTranscription, msgTranscribeFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fault.Wrap(fault.KindTranscription, msgTranscribeFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("transcription provider error", "status", resp.StatusCode, "body", string(body))
		return nil, fault.Upstream(fault.KindTranscription, msgTranscribeFailed, resp.StatusCode)
	}

	var parsed transcriptResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fault.Wrap(fault.KindTranscription, msgTranscribeFailed, err)
	}

	result := &Result{}
	if parsed.Text != "" {
		result.Text = &parsed.Text
	}
	return result, nil
}
