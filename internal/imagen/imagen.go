package imagen

import (
	"context"
	"strings"

	"adstudio/internal/fault"
)

// Request is a normalized image-generation request. AspectRatio outside
// the recognized set silently falls back to 9:16.
type Request struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspectRatio"`
}

// Result holds either a single image or a natural/corporate pair,
// depending on which strategy served the request. Payloads are data
// URIs or ready-to-fetch URLs; callers must handle both.
type Result struct {
	Image  string       `json:"image,omitempty"`
	Images *VariantPair `json:"images,omitempty"`
}

type VariantPair struct {
	Natural   string `json:"natural"`
	Corporate string `json:"corporate"`
}

// Generator is the strategy interface. The concrete strategy is picked
// once at startup from configuration and injected into the handler.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

const DefaultAspect = "9:16"

var recognizedAspects = map[string]bool{
	"1:1":  true,
	"4:5":  true,
	"9:16": true,
	"16:9": true,
}

func ResolveAspect(aspect string) string {
	if recognizedAspects[aspect] {
		return aspect
	}
	return DefaultAspect
}

const (
	msgPromptRequired = "Prompt é obrigatório e deve ser uma string"
	msgRateLimited    = "Limite de requisições excedido. Tente novamente em alguns instantes."
	msgNoCredits      = "Créditos insuficientes. Adicione créditos em Settings → Workspace → Usage."
	msgImageFailed    = "Erro ao gerar imagem"
	msgNoImage        = "Falha ao gerar imagem"
	msgGeminiRate     = "Limite de requisições da API do Google Gemini foi excedido. Tente novamente em instantes."
	msgGeminiKey      = "A chave da API Google Gemini é inválida ou não tem permissão para gerar imagens."
	msgGeminiNoImage  = "A API Google Gemini não retornou dados de imagem. Verifique se o modelo suporta geração de imagem."
)

func validate(req Request) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return fault.New(fault.KindValidation, msgPromptRequired)
	}
	return nil
}
