package adcopy

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"adstudio/internal/fault"
	"adstudio/internal/textgen"
	"adstudio/pkg/prompts"
)

const (
	msgMissingBrief = "Informe os dados do briefing ou um prompt livre."
	msgBadFormat    = "Formato de resposta inválido da IA"
	msgIncomplete   = "Resposta da IA incompleta"
)

// Brief is the caller's ad request: either the structured fields or a
// single free-form prompt.
type Brief struct {
	Niche          string `json:"niche"`
	Platform       string `json:"platform"`
	Objective      string `json:"objective"`
	ProductName    string `json:"productName"`
	TargetAudience string `json:"targetAudience"`
	MainBenefit    string `json:"mainBenefit"`
	Prompt         string `json:"prompt"`
}

type Script struct {
	Scene1 string `json:"scene1"`
	Scene2 string `json:"scene2"`
	Scene3 string `json:"scene3"`
}

type Content struct {
	Hook    string `json:"hook"`
	Script  Script `json:"script"`
	Caption string `json:"caption"`
	CTA     string `json:"cta"`
}

type Generator struct {
	client  textgen.Client
	prompts *prompts.Prompts
}

func New(client textgen.Client, p *prompts.Prompts) *Generator {
	return &Generator{client: client, prompts: p}
}

// Generate turns a brief into a complete ad. The generated copy is
// returned untouched; a response that parses but misses any required
// field is rejected rather than patched up.
func (g *Generator) Generate(ctx context.Context, brief Brief) (*Content, error) {
	structured := hasStructuredFields(brief)
	freeform := strings.TrimSpace(brief.Prompt) != ""

	if !structured && !freeform {
		return nil, fault.New(fault.KindValidation, msgMissingBrief)
	}

	params := prompts.AdCopyParams{
		Niche:          brief.Niche,
		Platform:       brief.Platform,
		ObjectiveLabel: objectiveLabel(brief.Objective),
		ProductName:    brief.ProductName,
		Audience:       brief.TargetAudience,
		Benefit:        brief.MainBenefit,
		Prompt:         brief.Prompt,
	}

	systemPrompt, err := g.prompts.RenderAdCopySystem(params)
	if err != nil {
		return nil, err
	}

	var userPrompt string
	if structured {
		userPrompt, err = g.prompts.RenderAdCopyBrief(params)
	} else {
		userPrompt, err = g.prompts.RenderAdCopyFreeform(params)
	}
	if err != nil {
		return nil, err
	}

	raw, err := g.client.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var content Content
	if err := json.Unmarshal([]byte(stripFences(raw)), &content); err != nil {
		slog.Error("unparseable ad copy from provider", "error", err, "raw", raw)
		return nil, fault.Wrap(fault.KindFormat, msgBadFormat, err)
	}

	if !complete(content) {
		slog.Error("incomplete ad copy from provider", "raw", raw)
		return nil, fault.New(fault.KindIncomplete, msgIncomplete)
	}

	return &content, nil
}

func hasStructuredFields(b Brief) bool {
	for _, field := range []string{b.Niche, b.Platform, b.Objective, b.ProductName, b.TargetAudience, b.MainBenefit} {
		if strings.TrimSpace(field) != "" {
			return true
		}
	}
	return false
}

func objectiveLabel(objective string) string {
	if objective == "leads" {
		return "geração de leads"
	}
	return "venda direta"
}

func complete(c Content) bool {
	return c.Hook != "" && c.Caption != "" && c.CTA != "" &&
		c.Script.Scene1 != "" && c.Script.Scene2 != "" && c.Script.Scene3 != ""
}

// stripFences drops markdown code-fence markers some models wrap JSON in.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
