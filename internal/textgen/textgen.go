package textgen

import "context"

// Client produces a completion for a single system+user prompt pair.
// Implementations are selected by configuration at startup.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const (
	msgRateLimited = "Limite de requisições excedido. Tente novamente em alguns instantes."
	msgNoCredits   = "Créditos insuficientes. Adicione créditos em Settings → Workspace → Usage."
	msgGeneric     = "Erro ao gerar anúncio. Tente novamente."
)
