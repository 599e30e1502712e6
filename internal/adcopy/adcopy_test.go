package adcopy

import (
	"context"
	"strings"
	"testing"

	"adstudio/internal/fault"
	"adstudio/pkg/prompts"
)

const validAdJSON = `{
  "hook": "Pare de perder dinheiro todos os dias",
  "script": {
    "scene1": "Pessoa frustrada olhando boletos",
    "scene2": "Descoberta do método no celular",
    "scene3": "Comemorando resultados na tela"
  },
  "caption": "Você sabia que dá para dobrar a renda? 🚀",
  "cta": "Clique agora e garanta sua vaga"
}`

type stubClient struct {
	reply  string
	err    error
	calls  int
	system string
	user   string
}

func (s *stubClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	s.system = systemPrompt
	s.user = userPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func testPrompts() *prompts.Prompts {
	return &prompts.Prompts{
		AdCopy: prompts.AdCopyPrompts{
			System:   "copywriter para {{.Platform}}, nicho {{.Niche}}, objetivo {{.ObjectiveLabel}}, público {{.Audience}}, benefício {{.Benefit}}",
			Brief:    "Produto: {{.ProductName}}. Público: {{.Audience}}. Benefício: {{.Benefit}}.",
			Freeform: "Briefing livre: {{.Prompt}}",
		},
	}
}

func TestGenerateStructuredBrief(t *testing.T) {
	client := &stubClient{reply: validAdJSON}
	gen := New(client, testPrompts())

	content, err := gen.Generate(context.Background(), Brief{
		ProductName:    "Curso X",
		TargetAudience: "autônomos 30-45",
		MainBenefit:    "dobrar a renda em 60 dias",
		Objective:      "vendas",
		Platform:       "Instagram",
		Niche:          "finanças",
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if content.Hook == "" || content.Caption == "" || content.CTA == "" {
		t.Errorf("incomplete content: %+v", content)
	}
	if len(strings.Fields(content.Hook)) > 15 {
		t.Errorf("hook longer than 15 words: %q", content.Hook)
	}
	for i, scene := range []string{content.Script.Scene1, content.Script.Scene2, content.Script.Scene3} {
		if scene == "" {
			t.Errorf("scene%d is empty", i+1)
		}
	}

	if !strings.Contains(client.system, "venda direta") {
		t.Errorf("objective 'vendas' should map to venda direta, got system prompt: %s", client.system)
	}
	if !strings.Contains(client.user, "Curso X") {
		t.Errorf("user prompt missing product: %s", client.user)
	}
}

func TestGenerateLeadsObjective(t *testing.T) {
	client := &stubClient{reply: validAdJSON}
	gen := New(client, testPrompts())

	if _, err := gen.Generate(context.Background(), Brief{Niche: "fitness", Objective: "leads"}); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !strings.Contains(client.system, "geração de leads") {
		t.Errorf("objective 'leads' not mapped: %s", client.system)
	}
}

func TestGenerateFreeformPrompt(t *testing.T) {
	client := &stubClient{reply: validAdJSON}
	gen := New(client, testPrompts())

	if _, err := gen.Generate(context.Background(), Brief{Prompt: "anúncio para cafeteria artesanal"}); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !strings.Contains(client.user, "cafeteria artesanal") {
		t.Errorf("freeform prompt not forwarded: %s", client.user)
	}
}

func TestGenerateEmptyBrief(t *testing.T) {
	client := &stubClient{reply: validAdJSON}
	gen := New(client, testPrompts())

	_, err := gen.Generate(context.Background(), Brief{Prompt: "   "})
	f, ok := fault.As(err)
	if !ok || f.Kind != fault.KindValidation {
		t.Fatalf("expected validation fault, got %v", err)
	}
	if client.calls != 0 {
		t.Errorf("provider called %d times for invalid input, want 0", client.calls)
	}
}

func TestGenerateFencedJSON(t *testing.T) {
	client := &stubClient{reply: "```json\n" + validAdJSON + "\n```"}
	gen := New(client, testPrompts())

	content, err := gen.Generate(context.Background(), Brief{Niche: "moda"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if content.Hook == "" {
		t.Error("fenced JSON not parsed")
	}
}

func TestGenerateUnparseableResponse(t *testing.T) {
	client := &stubClient{reply: "Claro! Aqui está seu anúncio: gancho incrível..."}
	gen := New(client, testPrompts())

	_, err := gen.Generate(context.Background(), Brief{Niche: "moda"})
	f, ok := fault.As(err)
	if !ok || f.Kind != fault.KindFormat {
		t.Fatalf("expected format fault, got %v", err)
	}
}

func TestGenerateIncompleteResponse(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{
			name:  "missingCTA",
			reply: `{"hook":"h","script":{"scene1":"a","scene2":"b","scene3":"c"},"caption":"cap"}`,
		},
		{
			name:  "emptyScene",
			reply: `{"hook":"h","script":{"scene1":"a","scene2":"","scene3":"c"},"caption":"cap","cta":"go"}`,
		},
		{
			name:  "missingScript",
			reply: `{"hook":"h","caption":"cap","cta":"go"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := New(&stubClient{reply: tt.reply}, testPrompts())

			_, err := gen.Generate(context.Background(), Brief{Niche: "moda"})
			f, ok := fault.As(err)
			if !ok || f.Kind != fault.KindIncomplete {
				t.Fatalf("expected incomplete fault, got %v", err)
			}
		})
	}
}

func TestGenerateProviderErrorPassesThrough(t *testing.T) {
	upstream := fault.Upstream(fault.KindRateLimited, "Limite de requisições excedido. Tente novamente em alguns instantes.", 429)
	gen := New(&stubClient{err: upstream}, testPrompts())

	_, err := gen.Generate(context.Background(), Brief{Niche: "moda"})
	f, ok := fault.As(err)
	if !ok || f.Kind != fault.KindRateLimited {
		t.Fatalf("expected rate-limit fault passthrough, got %v", err)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: `{"a":1}`, want: `{"a":1}`},
		{name: "jsonFence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bareFence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "whitespace", input: "  \n```json\n{\"a\":1}\n```  ", want: `{"a":1}`},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.input); got != tt.want {
				t.Errorf("stripFences() = %q, want %q", got, tt.want)
			}
		})
	}
}
