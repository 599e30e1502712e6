package server

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"adstudio/internal/adcopy"
	"adstudio/internal/frames"
	"adstudio/internal/imagen"
	"adstudio/internal/refiner"
	"adstudio/internal/textgen"
	"adstudio/internal/transcribe"
	"adstudio/pkg/config"
	"adstudio/pkg/prompts"
)

// Build assembles the full service graph from configuration. Provider
// choices are made once here; handlers only ever see interfaces.
func Build(ctx context.Context, cfg *config.Config) (*Server, error) {
	p, err := prompts.Load()
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	textClient, err := buildTextClient(cfg)
	if err != nil {
		return nil, err
	}

	images, err := buildImageGenerator(cfg, p)
	if err != nil {
		return nil, err
	}

	frameClient := imagen.NewChatClient(cfg.GatewayAPIKey, imagen.ChatOptions{
		Model:   cfg.Frames.Model,
		BaseURL: cfg.Image.GatewayURL,
	})
	limiter := rate.NewLimiter(rate.Every(cfg.Frames.Interval), cfg.Frames.Burst)

	model, err := buildRefinerModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	transcriber := transcribe.NewClient(cfg.ElevenLabsAPIKey, transcribe.Options{
		Model:    cfg.Transcribe.Model,
		Language: cfg.Transcribe.Language,
		BaseURL:  cfg.Transcribe.BaseURL,
	})

	return New(
		adcopy.New(textClient, p),
		images,
		frames.New(frameClient, limiter, p),
		refiner.New(model, p),
		transcriber,
	), nil
}

func buildTextClient(cfg *config.Config) (textgen.Client, error) {
	switch cfg.Text.Provider {
	case "groq":
		return textgen.NewGroqClient(cfg.GroqAPIKey, cfg.Text.GroqModel)
	case "gateway":
		return textgen.NewGatewayClient(cfg.GatewayAPIKey, textgen.GatewayOptions{
			Model:   cfg.Text.Model,
			BaseURL: cfg.Text.GatewayURL,
		}), nil
	default:
		return nil, fmt.Errorf("unknown text provider %q", cfg.Text.Provider)
	}
}

func buildRefinerModel(ctx context.Context, cfg *config.Config) (refiner.Model, error) {
	switch cfg.Refiner.Provider {
	case "gemini":
		model, err := refiner.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.Refiner.Model)
		if err != nil {
			return nil, fmt.Errorf("build refiner: %w", err)
		}
		return model, nil
	case "openrouter":
		return refiner.NewOpenRouterModel(cfg.OpenRouterAPIKey, refiner.OpenRouterOptions{
			Model:   cfg.Refiner.OpenRouterModel,
			BaseURL: cfg.Refiner.OpenRouterURL,
		}), nil
	default:
		return nil, fmt.Errorf("unknown refiner provider %q", cfg.Refiner.Provider)
	}
}

func buildImageGenerator(cfg *config.Config, p *prompts.Prompts) (imagen.Generator, error) {
	gateway := func() *imagen.ChatClient {
		return imagen.NewChatClient(cfg.GatewayAPIKey, imagen.ChatOptions{
			Model:   cfg.Image.Model,
			BaseURL: cfg.Image.GatewayURL,
		})
	}

	switch cfg.Image.Provider {
	case "dual":
		return imagen.NewDualGenerator(gateway(), p), nil
	case "gateway":
		return imagen.NewSingleGenerator(gateway(), p), nil
	case "openrouter":
		client := imagen.NewChatClient(cfg.OpenRouterAPIKey, imagen.ChatOptions{
			Model:   cfg.Image.OpenRouterModel,
			BaseURL: cfg.Image.OpenRouterURL,
		})
		return imagen.NewSingleGenerator(client, p), nil
	case "gemini":
		return imagen.NewGeminiGenerator(cfg.GeminiAPIKey, imagen.GeminiOptions{
			Model:   cfg.Image.GeminiModel,
			BaseURL: cfg.Image.GeminiURL,
		}, p), nil
	default:
		return nil, fmt.Errorf("unknown image provider %q", cfg.Image.Provider)
	}
}
