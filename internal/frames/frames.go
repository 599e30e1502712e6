package frames

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"adstudio/internal/fault"
	"adstudio/pkg/prompts"
)

const msgMissingScript = "Script completo é necessário (scene1, scene2, scene3)"

// Script is the three-scene ad storyboard frames are rendered from.
type Script struct {
	Scene1 string `json:"scene1"`
	Scene2 string `json:"scene2"`
	Scene3 string `json:"scene3"`
}

type Request struct {
	Script   Script `json:"script"`
	Niche    string `json:"niche"`
	Platform string `json:"platform"`
}

// FrameClient renders one scene description into an image payload.
type FrameClient interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Generator renders the scenes one at a time, pacing calls with a rate
// limiter instead of fixed sleeps. The first scene that fails aborts
// the whole request; partial results are never returned.
type Generator struct {
	client  FrameClient
	limiter *rate.Limiter
	prompts *prompts.Prompts
}

func New(client FrameClient, limiter *rate.Limiter, p *prompts.Prompts) *Generator {
	return &Generator{client: client, limiter: limiter, prompts: p}
}

// Generate returns the rendered frames keyed scene1 through scene3.
func (g *Generator) Generate(ctx context.Context, req Request) (map[string]string, error) {
	scenes := []struct {
		key  string
		text string
	}{
		{key: "scene1", text: req.Script.Scene1},
		{key: "scene2", text: req.Script.Scene2},
		{key: "scene3", text: req.Script.Scene3},
	}

	for _, scene := range scenes {
		if strings.TrimSpace(scene.text) == "" {
			return nil, fault.New(fault.KindValidation, msgMissingScript)
		}
	}

	result := make(map[string]string, len(scenes))
	for _, scene := range scenes {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		prompt, err := g.prompts.RenderScene(prompts.SceneParams{
			Niche:       req.Niche,
			Platform:    req.Platform,
			Description: scene.text,
		})
		if err != nil {
			return nil, err
		}

		slog.Info("rendering frame", "scene", scene.key)
		image, err := g.client.GenerateImage(ctx, prompt)
		if err != nil {
			slog.Error("frame generation failed", "scene", scene.key, "error", err)
			return nil, err
		}
		result[scene.key] = image
	}

	return result, nil
}
