package prompt

import (
	"fmt"
	"strings"
)

// Slot declares a variable a template may reference, with an optional
// default used when the render context omits it.
type Slot struct {
	Name    string `yaml:"name" json:"name"`
	Default string `yaml:"default,omitempty" json:"default,omitempty"`
}

// Template is a named prompt body with variable slots. TenantID is empty
// for global templates; a non-empty TenantID scopes an override.
type Template struct {
	Key      string `yaml:"key" json:"key"`
	TenantID string `yaml:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	Body     string `yaml:"body" json:"body"`
	Slots    []Slot `yaml:"slots,omitempty" json:"slots,omitempty"`
}

const (
	openVar  = "{{"
	closeVar = "}}"
	openIf   = "{{#if "
	closeIf  = "{{/if}}"
)

// Render substitutes variables into the template body. Referenced
// variables absent from vars resolve to the declared slot default, or to
// nothing. Conditional sections guarded by a falsy variable are omitted
// entirely, leaving no blank residue. Pure function of (template, vars).
func (t *Template) Render(vars map[string]any) (string, error) {
	defaults := make(map[string]string, len(t.Slots))
	for _, s := range t.Slots {
		defaults[s.Name] = s.Default
	}
	return renderFragment(t.Body, vars, defaults)
}

func renderFragment(body string, vars map[string]any, defaults map[string]string) (string, error) {
	var out strings.Builder
	for {
		idx := strings.Index(body, openVar)
		if idx == -1 {
			out.WriteString(body)
			return out.String(), nil
		}
		out.WriteString(body[:idx])
		body = body[idx:]

		if strings.HasPrefix(body, openIf) {
			guard, inner, rest, err := splitConditional(body)
			if err != nil {
				return "", err
			}
			if truthy(lookup(guard, vars, defaults)) {
				rendered, err := renderFragment(inner, vars, defaults)
				if err != nil {
					return "", err
				}
				out.WriteString(rendered)
			}
			body = rest
			continue
		}

		end := strings.Index(body, closeVar)
		if end == -1 {
			return "", fmt.Errorf("unterminated variable reference near %q", truncate(body, 40))
		}
		name := strings.TrimSpace(body[len(openVar):end])
		if name == "" {
			return "", fmt.Errorf("empty variable reference")
		}
		out.WriteString(stringify(lookup(name, vars, defaults)))
		body = body[end+len(closeVar):]
	}
}

// splitConditional takes a body starting at "{{#if " and returns the guard
// name, the enclosed fragment, and the remainder after the matching
// {{/if}}. Nested conditionals are respected.
func splitConditional(body string) (guard, inner, rest string, err error) {
	headEnd := strings.Index(body, closeVar)
	if headEnd == -1 {
		return "", "", "", fmt.Errorf("unterminated conditional open tag")
	}
	guard = strings.TrimSpace(body[len(openIf):headEnd])
	if guard == "" {
		return "", "", "", fmt.Errorf("conditional with empty guard")
	}

	scan := body[headEnd+len(closeVar):]
	depth := 1
	offset := 0
	for depth > 0 {
		nextOpen := strings.Index(scan[offset:], openIf)
		nextClose := strings.Index(scan[offset:], closeIf)
		if nextClose == -1 {
			return "", "", "", fmt.Errorf("unterminated conditional for guard %q", guard)
		}
		if nextOpen != -1 && nextOpen < nextClose {
			depth++
			offset += nextOpen + len(openIf)
			continue
		}
		depth--
		if depth == 0 {
			inner = scan[:offset+nextClose]
			rest = scan[offset+nextClose+len(closeIf):]
			return guard, inner, rest, nil
		}
		offset += nextClose + len(closeIf)
	}
	return "", "", "", fmt.Errorf("unterminated conditional for guard %q", guard)
}

func lookup(name string, vars map[string]any, defaults map[string]string) any {
	if v, ok := vars[name]; ok {
		return v
	}
	if d, ok := defaults[name]; ok && d != "" {
		return d
	}
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return strings.TrimSpace(t) != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case []string:
		return len(t) > 0
	default:
		return true
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ", ")
	default:
		return fmt.Sprintf("%v", t)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
