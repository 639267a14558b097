package llm

import (
	"context"
	"errors"
	"testing"
)

type stubProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	p.calls++
	if p.err != nil {
		return GenerateResponse{}, p.err
	}
	return GenerateResponse{Text: p.text, Model: p.name}, nil
}

func TestManagerPrimarySucceeds(t *testing.T) {
	primary := &stubProvider{name: "primary", text: "hello"}
	fallback := &stubProvider{name: "fallback", text: "unused"}
	m := NewManager(primary, fallback)

	resp, err := m.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Text != "hello" {
		t.Fatalf("text = %q", resp.Text)
	}
	if fallback.calls != 0 {
		t.Fatal("fallback called although primary succeeded")
	}
}

func TestManagerFallsBackOnError(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("rate limited")}
	fallback := &stubProvider{name: "fallback", text: "rescued"}
	m := NewManager(primary, fallback)

	resp, err := m.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Text != "rescued" {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestManagerFallsBackOnEmptyText(t *testing.T) {
	primary := &stubProvider{name: "primary", text: "   "}
	fallback := &stubProvider{name: "fallback", text: "rescued"}
	m := NewManager(primary, fallback)

	resp, err := m.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Text != "rescued" {
		t.Fatalf("text = %q", resp.Text)
	}
}

func TestManagerNoFallback(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("down")}
	m := NewManager(primary, nil)

	if m.HasFallback() {
		t.Fatal("HasFallback() = true with nil fallback")
	}
	if _, err := m.Generate(context.Background(), GenerateRequest{Prompt: "p"}); err == nil {
		t.Fatal("expected error when primary fails without fallback")
	}
}

func TestManagerBothFail(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("down")}
	fallback := &stubProvider{name: "fallback", err: errors.New("also down")}
	m := NewManager(primary, fallback)

	_, err := m.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	if err == nil {
		t.Fatal("expected error when both providers fail")
	}
	if fallback.calls != 1 {
		t.Fatalf("fallback calls = %d, want 1", fallback.calls)
	}
}
