package prompts

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

type Prompts struct {
	AdCopy  AdCopyPrompts  `yaml:"adcopy"`
	Image   ImagePrompts   `yaml:"image"`
	Frames  FramePrompts   `yaml:"frames"`
	Refiner RefinerPrompts `yaml:"refiner"`
}

type AdCopyPrompts struct {
	System   string `yaml:"system"`
	Brief    string `yaml:"brief"`
	Freeform string `yaml:"freeform"`
}

type ImagePrompts struct {
	Base           string            `yaml:"base"`
	RatioHints     map[string]string `yaml:"ratio_hints"`
	StyleNatural   string            `yaml:"style_natural"`
	StyleCorporate string            `yaml:"style_corporate"`
}

type FramePrompts struct {
	Scene string `yaml:"scene"`
}

type RefinerPrompts struct {
	System     string `yaml:"system"`
	Awaiting   string `yaml:"awaiting"`
	Deciding   string `yaml:"deciding"`
	Corrective string `yaml:"corrective"`
	Fallback   string `yaml:"fallback"`
}

type AdCopyParams struct {
	Niche          string
	Platform       string
	ObjectiveLabel string
	ProductName    string
	Audience       string
	Benefit        string
	Prompt         string
}

type ImageParams struct {
	Aspect    string
	RatioHint string
	Prompt    string
}

type SceneParams struct {
	Niche       string
	Platform    string
	Description string
}

type RefinerParams struct {
	Behavior     string
	Conversation string
}

func Load() (*Prompts, error) {
	return LoadFrom(defaultPromptsPath)
}

func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	return &p, nil
}

func (p *Prompts) RenderAdCopySystem(params AdCopyParams) (string, error) {
	return render(p.AdCopy.System, params)
}

func (p *Prompts) RenderAdCopyBrief(params AdCopyParams) (string, error) {
	return render(p.AdCopy.Brief, params)
}

func (p *Prompts) RenderAdCopyFreeform(params AdCopyParams) (string, error) {
	return render(p.AdCopy.Freeform, params)
}

// RenderImageBase builds the photographer framing around the user prompt.
// The ratio hint comes from RatioHints; unknown ratios get the 9:16 hint.
func (p *Prompts) RenderImageBase(params ImageParams) (string, error) {
	if params.RatioHint == "" {
		params.RatioHint = p.RatioHint(params.Aspect)
	}
	return render(p.Image.Base, params)
}

func (p *Prompts) RatioHint(aspect string) string {
	if hint, ok := p.Image.RatioHints[aspect]; ok {
		return hint
	}
	return p.Image.RatioHints["9:16"]
}

func (p *Prompts) RenderScene(params SceneParams) (string, error) {
	return render(p.Frames.Scene, params)
}

func (p *Prompts) RenderRefiner(params RefinerParams) (string, error) {
	return render(p.Refiner.System, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
