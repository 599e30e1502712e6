package imagen

import (
	"context"

	"golang.org/x/sync/errgroup"

	"adstudio/pkg/prompts"
)

// DualGenerator produces a natural and a corporate variant of the same
// prompt in parallel. All-or-nothing: if either variant fails the whole
// request fails with that variant's fault.
type DualGenerator struct {
	client  ImageClient
	prompts *prompts.Prompts
}

func NewDualGenerator(client ImageClient, p *prompts.Prompts) *DualGenerator {
	return &DualGenerator{client: client, prompts: p}
}

func (g *DualGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	base, err := g.prompts.RenderImageBase(prompts.ImageParams{
		Aspect: ResolveAspect(req.AspectRatio),
		Prompt: req.Prompt,
	})
	if err != nil {
		return nil, err
	}

	var natural, corporate string
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		natural, err = g.client.GenerateImage(ctx, base+"\n\n"+g.prompts.Image.StyleNatural)
		return err
	})
	eg.Go(func() error {
		var err error
		corporate, err = g.client.GenerateImage(ctx, base+"\n\n"+g.prompts.Image.StyleCorporate)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &Result{Images: &VariantPair{Natural: natural, Corporate: corporate}}, nil
}
