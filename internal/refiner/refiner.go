package refiner

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"adstudio/internal/fault"
	"adstudio/pkg/prompts"
)

const (
	msgMessagesRequired = "Campo 'messages' é obrigatório"

	RoleUser      = "user"
	RoleAssistant = "assistant"

	// UIHintChat tells the frontend to stay in chat layout. It is set
	// only on the first assistant turn of a conversation.
	UIHintChat = "chat"
)

// Message is one turn of the caller-supplied conversation. The server
// keeps no session state; the full history arrives on every request.
type Message struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Decision is the refiner's verdict on the conversation so far. When
// Ready is true FinalPrompt carries the complete image prompt; when
// false Reply is a clarifying chat message and FinalPrompt serializes
// as an explicit null.
type Decision struct {
	Reply       string  `json:"reply"`
	Ready       bool    `json:"ready"`
	FinalPrompt *string `json:"finalPrompt"`
	UIHint      string  `json:"uiHint,omitempty"`
}

// Model produces the raw JSON decision for a fully assembled prompt.
type Model interface {
	Decide(ctx context.Context, prompt string) (string, error)
}

type Refiner struct {
	model   Model
	prompts *prompts.Prompts
}

func New(model Model, p *prompts.Prompts) *Refiner {
	return &Refiner{model: model, prompts: p}
}

// Refine derives the conversation phase from the history itself: before
// the first assistant turn the model may ask one round of questions,
// after it the model must decide. A model that keeps asking questions
// in the deciding phase gets exactly one corrective re-prompt.
func (r *Refiner) Refine(ctx context.Context, messages []Message) (*Decision, error) {
	if len(messages) == 0 {
		return nil, fault.New(fault.KindValidation, msgMessagesRequired)
	}

	deciding := hasAssistantTurn(messages)
	behavior := r.prompts.Refiner.Awaiting
	if deciding {
		behavior = r.prompts.Refiner.Deciding
	}

	prompt, err := r.prompts.RenderRefiner(prompts.RefinerParams{
		Behavior:     behavior,
		Conversation: transcript(messages),
	})
	if err != nil {
		return nil, err
	}

	reply, err := r.decide(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if deciding && !reply.Ready && strings.Contains(reply.Reply, "?") {
		slog.Warn("refiner asked questions in deciding phase, re-prompting")
		retry, err := r.decide(ctx, prompt+"\n\n"+r.prompts.Refiner.Corrective)
		if err != nil {
			return nil, err
		}
		if !retry.Ready && strings.Contains(retry.Reply, "?") {
			retry.Reply = r.prompts.Refiner.Fallback
		}
		reply = retry
	}

	decision := &Decision{Reply: reply.Reply, Ready: reply.Ready}
	if !deciding {
		decision.UIHint = UIHintChat
	}

	final := strings.TrimSpace(reply.FinalPrompt)
	if decision.Ready && final == "" {
		// Ready without a prompt is unusable; treat it as not ready.
		slog.Warn("refiner claimed ready without a final prompt")
		decision.Ready = false
	}
	if decision.Ready {
		decision.FinalPrompt = &final
	}

	return decision, nil
}

type modelReply struct {
	Reply       string `json:"reply"`
	Ready       bool   `json:"ready"`
	FinalPrompt string `json:"final_prompt"`
}

func (r *Refiner) decide(ctx context.Context, prompt string) (modelReply, error) {
	raw, err := r.model.Decide(ctx, prompt)
	if err != nil {
		return modelReply{}, err
	}

	reply, ok := parseReply(raw)
	if !ok {
		slog.Error("unparseable refiner reply", "raw", raw)
		return modelReply{Reply: r.prompts.Refiner.Fallback}, nil
	}
	return reply, nil
}

func parseReply(raw string) (modelReply, bool) {
	var reply modelReply
	if err := json.Unmarshal([]byte(raw), &reply); err == nil && reply.Reply != "" {
		return reply, true
	}

	stripped := stripFences(raw)
	if err := json.Unmarshal([]byte(stripped), &reply); err == nil && reply.Reply != "" {
		return reply, true
	}
	return modelReply{}, false
}

func hasAssistantTurn(messages []Message) bool {
	for _, m := range messages {
		if m.Role == RoleAssistant {
			return true
		}
	}
	return false
}

func transcript(messages []Message) string {
	var b strings.Builder
	for _, m := range messages {
		label := "Usuário"
		if m.Role == RoleAssistant {
			label = "Assistente"
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(m.Content)
		if m.ImageURL != "" {
			b.WriteString(" [imagem anexada]")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
