package frames

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"golang.org/x/time/rate"

	"adstudio/internal/fault"
	"adstudio/pkg/prompts"
)

func testPrompts() *prompts.Prompts {
	return &prompts.Prompts{
		Frames: prompts.FramePrompts{
			Scene: "Frame {{.Platform}} nicho {{.Niche}}: {{.Description}}",
		},
	}
}

func testLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

type stubClient struct {
	failAt  int // 1-based call index to fail on, 0 for never
	failErr error
	calls   int
	prompts []string
}

func (s *stubClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.failAt != 0 && s.calls == s.failAt {
		return "", s.failErr
	}
	return fmt.Sprintf("data:image/png;base64,frame%d", s.calls), nil
}

func fullScript() Script {
	return Script{
		Scene1: "Pessoa frustrada olhando boletos",
		Scene2: "Descoberta do método no celular",
		Scene3: "Comemorando resultados",
	}
}

func TestGenerateAllScenes(t *testing.T) {
	client := &stubClient{}
	gen := New(client, testLimiter(), testPrompts())

	result, err := gen.Generate(context.Background(), Request{
		Script:   fullScript(),
		Niche:    "finanças",
		Platform: "Instagram",
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if len(result) != 3 {
		t.Fatalf("got %d frames, want 3", len(result))
	}
	for _, key := range []string{"scene1", "scene2", "scene3"} {
		if result[key] == "" {
			t.Errorf("missing frame %s", key)
		}
	}
	if client.calls != 3 {
		t.Errorf("provider calls = %d, want 3", client.calls)
	}
	if !strings.Contains(client.prompts[0], "boletos") {
		t.Errorf("scene description not forwarded: %q", client.prompts[0])
	}
	if !strings.Contains(client.prompts[0], "Instagram") {
		t.Errorf("platform not in frame prompt: %q", client.prompts[0])
	}
}

func TestGenerateIncompleteScript(t *testing.T) {
	tests := []struct {
		name   string
		script Script
	}{
		{name: "empty", script: Script{}},
		{name: "missingScene2", script: Script{Scene1: "a", Scene3: "c"}},
		{name: "blankScene3", script: Script{Scene1: "a", Scene2: "b", Scene3: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{}
			gen := New(client, testLimiter(), testPrompts())

			_, err := gen.Generate(context.Background(), Request{Script: tt.script})
			f, ok := fault.As(err)
			if !ok || f.Kind != fault.KindValidation {
				t.Fatalf("expected validation fault, got %v", err)
			}
			if client.calls != 0 {
				t.Errorf("provider called %d times for invalid script, want 0", client.calls)
			}
		})
	}
}

func TestGenerateFailFast(t *testing.T) {
	upstream := fault.Upstream(fault.KindRateLimited, "limite", http.StatusTooManyRequests)
	client := &stubClient{failAt: 2, failErr: upstream}
	gen := New(client, testLimiter(), testPrompts())

	result, err := gen.Generate(context.Background(), Request{Script: fullScript()})
	if result != nil {
		t.Error("partial result returned after failure")
	}
	f, ok := fault.As(err)
	if !ok || f.Kind != fault.KindRateLimited {
		t.Fatalf("expected rate-limit fault, got %v", err)
	}
	if client.calls != 2 {
		t.Errorf("provider calls = %d, want 2 (no call after the failure)", client.calls)
	}
}

func TestGenerateContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &stubClient{}
	gen := New(client, testLimiter(), testPrompts())

	_, err := gen.Generate(ctx, Request{Script: fullScript()})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if client.calls != 0 {
		t.Errorf("provider calls = %d, want 0", client.calls)
	}
}
