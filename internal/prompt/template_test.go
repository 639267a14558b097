package prompt

import (
	"strings"
	"testing"
)

func TestRenderSubstitutesVariables(t *testing.T) {
	tmpl := &Template{Key: "t", Body: "Write about {{title}} for {{audience}}."}
	out, err := tmpl.Render(map[string]any{"title": "Go testing", "audience": "beginners"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Write about Go testing for beginners." {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRenderSlotDefaults(t *testing.T) {
	tmpl := &Template{
		Key:   "t",
		Body:  "Tone: {{tone}}",
		Slots: []Slot{{Name: "tone", Default: "professional"}},
	}
	out, err := tmpl.Render(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Tone: professional" {
		t.Fatalf("default not applied: %q", out)
	}

	out, err = tmpl.Render(map[string]any{"tone": "casual"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Tone: casual" {
		t.Fatalf("explicit value not used: %q", out)
	}
}

func TestRenderOmitsFalsyConditionals(t *testing.T) {
	tmpl := &Template{Key: "t", Body: "A{{#if extra}}B{{extra}}{{/if}}C"}

	out, err := tmpl.Render(map[string]any{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "AC" {
		t.Fatalf("falsy conditional left residue: %q", out)
	}

	out, err = tmpl.Render(map[string]any{"extra": "x"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "ABxC" {
		t.Fatalf("truthy conditional not rendered: %q", out)
	}
}

func TestRenderNestedConditionals(t *testing.T) {
	tmpl := &Template{Key: "t", Body: "{{#if a}}1{{#if b}}2{{/if}}3{{/if}}"}

	out, err := tmpl.Render(map[string]any{"a": true, "b": false})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "13" {
		t.Fatalf("nested falsy branch leaked: %q", out)
	}

	out, err = tmpl.Render(map[string]any{"a": true, "b": true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "123" {
		t.Fatalf("nested truthy branch missing: %q", out)
	}
}

func TestRenderFalsyValues(t *testing.T) {
	tmpl := &Template{Key: "t", Body: "{{#if v}}yes{{/if}}"}
	for name, v := range map[string]any{
		"false":        false,
		"empty string": "",
		"whitespace":   "  ",
		"zero int":     0,
		"empty slice":  []string{},
	} {
		out, err := tmpl.Render(map[string]any{"v": v})
		if err != nil {
			t.Fatalf("%s: render: %v", name, err)
		}
		if out != "" {
			t.Fatalf("%s: expected omission, got %q", name, out)
		}
	}
}

func TestRenderStringSliceJoined(t *testing.T) {
	tmpl := &Template{Key: "t", Body: "Keywords: {{keywords}}"}
	out, err := tmpl.Render(map[string]any{"keywords": []string{"go", "testing"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Keywords: go, testing" {
		t.Fatalf("slice not joined: %q", out)
	}
}

func TestRenderIsPure(t *testing.T) {
	tmpl := &Template{Key: "t", Body: "{{a}}{{#if b}}x{{/if}}"}
	vars := map[string]any{"a": "1", "b": true}
	first, err := tmpl.Render(vars)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := tmpl.Render(vars)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if again != first {
			t.Fatalf("render not deterministic: %q vs %q", first, again)
		}
	}
}

func TestRenderUnterminatedConstructs(t *testing.T) {
	for name, body := range map[string]string{
		"unterminated variable":    "hello {{name",
		"unterminated conditional": "{{#if a}}body",
	} {
		tmpl := &Template{Key: "t", Body: body}
		if _, err := tmpl.Render(map[string]any{"a": true, "name": "x"}); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestStoreTenantOverride(t *testing.T) {
	s := NewStore()
	override := &Template{Key: KeyGenerate, TenantID: "acme", Body: "acme only: {{title}}"}
	if err := s.Register(override); err != nil {
		t.Fatalf("register override: %v", err)
	}
	s.Seal()

	got, err := s.Lookup(KeyGenerate, "acme")
	if err != nil {
		t.Fatalf("lookup tenant: %v", err)
	}
	if got.TenantID != "acme" {
		t.Fatalf("expected tenant override, got tenant %q", got.TenantID)
	}

	got, err = s.Lookup(KeyGenerate, "other")
	if err != nil {
		t.Fatalf("lookup other tenant: %v", err)
	}
	if got.TenantID != "" {
		t.Fatalf("expected global fallback, got tenant %q", got.TenantID)
	}
}

func TestStoreLookupUnknownKey(t *testing.T) {
	s := NewStore()
	if _, err := s.Lookup("does.not.exist", ""); err == nil {
		t.Fatal("expected ErrTemplateNotFound")
	}
}

func TestStoreSealRejectsRegister(t *testing.T) {
	s := NewStore()
	s.Seal()
	err := s.Register(&Template{Key: "x", Body: "y"})
	if err == nil {
		t.Fatal("expected error after seal")
	}
}

func TestBuiltinTemplatesRender(t *testing.T) {
	s := NewStore()

	out, err := s.Render(KeyGenerate, "", map[string]any{
		"title":        "A title",
		"seo_keywords": []string{"k1", "k2"},
		"has_research": false,
	})
	if err != nil {
		t.Fatalf("render generate: %v", err)
	}
	if strings.Contains(out, "{{") {
		t.Fatalf("unrendered syntax left in output: %q", out)
	}

	out, err = s.Render(KeyValidate, "", map[string]any{
		"title":        "A title",
		"target_score": 75,
		"content":      "body text",
	})
	if err != nil {
		t.Fatalf("render validate: %v", err)
	}
	if !strings.Contains(out, "75") {
		t.Fatalf("target score missing from validation prompt: %q", out)
	}
}
