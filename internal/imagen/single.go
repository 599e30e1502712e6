package imagen

import (
	"context"

	"adstudio/pkg/prompts"
)

// ImageClient is the one-prompt-in, one-image-out contract the chat
// providers satisfy.
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// SingleGenerator frames the user prompt with the photographer base
// template and asks one provider for one image.
type SingleGenerator struct {
	client  ImageClient
	prompts *prompts.Prompts
}

func NewSingleGenerator(client ImageClient, p *prompts.Prompts) *SingleGenerator {
	return &SingleGenerator{client: client, prompts: p}
}

func (g *SingleGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	prompt, err := g.prompts.RenderImageBase(prompts.ImageParams{
		Aspect: ResolveAspect(req.AspectRatio),
		Prompt: req.Prompt,
	})
	if err != nil {
		return nil, err
	}

	image, err := g.client.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &Result{Image: image}, nil
}
