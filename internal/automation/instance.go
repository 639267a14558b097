package automation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AutomationInstance is a concrete, user-configured activation of a
// catalog template.
type AutomationInstance struct {
	ID                      string                `json:"id"`
	TemplateID              string                `json:"template_id"`
	ProviderConfiguration   map[Capability]string `json:"provider_configuration"`
	AutomationConfiguration map[string]any        `json:"automation_configuration,omitempty"`
	IsActive                bool                  `json:"is_active"`
	CreatedAt               time.Time             `json:"created_at"`
	UpdatedAt               time.Time             `json:"updated_at"`
}

// NewInstance validates provider choices and configuration against the
// catalog and builds an active instance. Every required capability must
// map to an allowed provider; entries for capabilities the template does
// not declare are rejected.
func NewInstance(reg *Registry, templateID string, providers map[Capability]string, cfg map[string]any) (*AutomationInstance, error) {
	tmpl, ok := reg.GetTemplateByID(templateID)
	if !ok {
		return nil, fmt.Errorf("unknown automation template %q", templateID)
	}

	for capability, provider := range providers {
		_, required := tmpl.RequiredProviders[capability]
		_, optional := tmpl.OptionalProviders[capability]
		if !required && !optional {
			return nil, fmt.Errorf("template %s does not declare capability %q", templateID, capability)
		}
		if !reg.ValidateProviderChoice(templateID, capability, provider) {
			return nil, fmt.Errorf("provider %q is not allowed for capability %q on template %s", provider, capability, templateID)
		}
	}

	for capability := range tmpl.RequiredProviders {
		if _, ok := providers[capability]; !ok {
			return nil, fmt.Errorf("required capability %q has no provider", capability)
		}
	}

	if err := ValidateConfig(tmpl.ConfigurationSchema, cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration for template %s: %w", templateID, err)
	}

	now := time.Now().UTC()
	return &AutomationInstance{
		ID:                      uuid.NewString(),
		TemplateID:              templateID,
		ProviderConfiguration:   providers,
		AutomationConfiguration: ApplyDefaults(tmpl.ConfigurationSchema, cfg),
		IsActive:                true,
		CreatedAt:               now,
		UpdatedAt:               now,
	}, nil
}
