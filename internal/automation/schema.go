package automation

import (
	"fmt"
	"math"
)

// FieldType tags the variant of a configuration field. Each template's
// configuration schema is a closed set of these variants rather than an
// open-ended dynamic map.
type FieldType string

const (
	FieldString    FieldType = "string"
	FieldEnum      FieldType = "enum"
	FieldInteger   FieldType = "integer"
	FieldBoolean   FieldType = "boolean"
	FieldEnumArray FieldType = "enum_array"
)

// ConfigField describes one end-user-settable field in a template's
// configuration contract.
type ConfigField struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required,omitempty"`
	Default  any       `json:"default,omitempty"`
	// Enum lists allowed values for enum and enum_array fields.
	Enum []string `json:"enum,omitempty"`
	// Min and Max bound integer fields when set.
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// ValidateValue checks one supplied value against the field variant.
func (f *ConfigField) ValidateValue(v any) error {
	switch f.Type {
	case FieldString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("field %s: expected string, got %T", f.Name, v)
		}
	case FieldEnum:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("field %s: expected string, got %T", f.Name, v)
		}
		if !contains(f.Enum, s) {
			return fmt.Errorf("field %s: %q is not one of %v", f.Name, s, f.Enum)
		}
	case FieldInteger:
		n, ok := asInt(v)
		if !ok {
			return fmt.Errorf("field %s: expected integer, got %T", f.Name, v)
		}
		if f.Min != nil && n < *f.Min {
			return fmt.Errorf("field %s: %d below minimum %d", f.Name, n, *f.Min)
		}
		if f.Max != nil && n > *f.Max {
			return fmt.Errorf("field %s: %d above maximum %d", f.Name, n, *f.Max)
		}
	case FieldBoolean:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("field %s: expected boolean, got %T", f.Name, v)
		}
	case FieldEnumArray:
		items, ok := v.([]any)
		if !ok {
			if strs, sok := v.([]string); sok {
				for _, s := range strs {
					if !contains(f.Enum, s) {
						return fmt.Errorf("field %s: %q is not one of %v", f.Name, s, f.Enum)
					}
				}
				return nil
			}
			return fmt.Errorf("field %s: expected array, got %T", f.Name, v)
		}
		for _, item := range items {
			s, sok := item.(string)
			if !sok {
				return fmt.Errorf("field %s: array element %T is not a string", f.Name, item)
			}
			if !contains(f.Enum, s) {
				return fmt.Errorf("field %s: %q is not one of %v", f.Name, s, f.Enum)
			}
		}
	default:
		return fmt.Errorf("field %s: unknown field type %q", f.Name, f.Type)
	}
	return nil
}

// ValidateConfig checks a full configuration map against the schema:
// required fields present, no unknown keys, every value matching its
// variant.
func ValidateConfig(schema []ConfigField, cfg map[string]any) error {
	byName := make(map[string]*ConfigField, len(schema))
	for i := range schema {
		byName[schema[i].Name] = &schema[i]
	}

	for name, value := range cfg {
		field, ok := byName[name]
		if !ok {
			return fmt.Errorf("unknown configuration field %q", name)
		}
		if err := field.ValidateValue(value); err != nil {
			return err
		}
	}

	for i := range schema {
		f := &schema[i]
		if !f.Required {
			continue
		}
		if _, ok := cfg[f.Name]; !ok {
			if f.Default != nil {
				continue
			}
			return fmt.Errorf("required configuration field %q missing", f.Name)
		}
	}
	return nil
}

// ApplyDefaults fills unset fields that declare a default, returning a
// new map.
func ApplyDefaults(schema []ConfigField, cfg map[string]any) map[string]any {
	out := make(map[string]any, len(cfg)+len(schema))
	for k, v := range cfg {
		out[k] = v
	}
	for i := range schema {
		f := &schema[i]
		if f.Default == nil {
			continue
		}
		if _, ok := out[f.Name]; !ok {
			out[f.Name] = f.Default
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
