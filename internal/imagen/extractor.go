package imagen

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoImage signals a well-formed provider response that carries no
// image payload. Adapters turn it into an empty-result fault.
var ErrNoImage = errors.New("no image payload in response")

// Extractor pulls the image payload out of one provider's raw response
// body. Each provider buries the image in a different place; calling
// code depends only on this interface, never on field paths.
type Extractor interface {
	Extract(raw []byte) (string, error)
}

// ChatImageExtractor reads the OpenAI-style multimodal shape:
// choices[0].message.images[0].image_url.url.
type ChatImageExtractor struct{}

type chatImageResponse struct {
	Choices []struct {
		Message struct {
			Images []struct {
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
}

func (ChatImageExtractor) Extract(raw []byte) (string, error) {
	var resp chatImageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("parse chat response: %w", err)
	}

	for _, c := range resp.Choices {
		for _, img := range c.Message.Images {
			if img.ImageURL.URL != "" {
				return img.ImageURL.URL, nil
			}
		}
	}
	return "", ErrNoImage
}

// InlineDataExtractor reads the Gemini shape:
// candidates[].content.parts[].inlineData.data (or fileData.data),
// wrapping the base64 payload into a data URI with its MIME type.
type InlineDataExtractor struct{}

type geminiImageResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData *inlinePayload `json:"inlineData"`
				FileData   *inlinePayload `json:"fileData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type inlinePayload struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

func (InlineDataExtractor) Extract(raw []byte) (string, error) {
	var resp geminiImageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("parse gemini response: %w", err)
	}

	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			for _, payload := range []*inlinePayload{part.InlineData, part.FileData} {
				if payload != nil && payload.Data != "" {
					return dataURI(payload.MimeType, payload.Data), nil
				}
			}
		}
	}
	return "", ErrNoImage
}

// B64JSONExtractor reads the OpenAI images-API shape: data[].b64_json.
type B64JSONExtractor struct{}

type imagesAPIResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

func (B64JSONExtractor) Extract(raw []byte) (string, error) {
	var resp imagesAPIResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("parse images response: %w", err)
	}

	for _, d := range resp.Data {
		if d.B64JSON != "" {
			return dataURI("", d.B64JSON), nil
		}
	}
	return "", ErrNoImage
}

// ChainExtractor tries each extractor in order until one finds an
// image. Parse errors stop the chain; only ErrNoImage moves on. Vendors
// behind the direct image API disagree on where the payload lives, so
// the adapter accepts both shapes.
type ChainExtractor []Extractor

func (c ChainExtractor) Extract(raw []byte) (string, error) {
	for _, e := range c {
		image, err := e.Extract(raw)
		if errors.Is(err, ErrNoImage) {
			continue
		}
		return image, err
	}
	return "", ErrNoImage
}

func dataURI(mimeType, base64Data string) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64Data
}
