package automation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTemplateByID(t *testing.T) {
	reg := NewRegistry()

	tmpl, ok := reg.GetTemplateByID("content-pipeline")
	require.True(t, ok)
	assert.Equal(t, "SEO Content Pipeline", tmpl.Name)

	_, ok = reg.GetTemplateByID("no-such-template")
	assert.False(t, ok)
}

func TestListTemplatesOrderStable(t *testing.T) {
	reg := NewRegistry()
	first := reg.ListTemplates()
	second := reg.ListTemplates()
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestGetTemplatesByCategory(t *testing.T) {
	reg := NewRegistry()

	contentTemplates := reg.GetTemplatesByCategory("content")
	require.NotEmpty(t, contentTemplates)
	for _, tmpl := range contentTemplates {
		assert.Equal(t, "content", tmpl.Category)
	}

	assert.Empty(t, reg.GetTemplatesByCategory("no-such-category"))
}

func TestValidateProviderChoice(t *testing.T) {
	reg := NewRegistry()

	// Required slot.
	assert.True(t, reg.ValidateProviderChoice("content-pipeline", CapabilityAI, ProviderAnthropic))
	// Optional slot.
	assert.True(t, reg.ValidateProviderChoice("content-pipeline", CapabilitySearch, ProviderTavily))
	// Real provider, wrong capability.
	assert.False(t, reg.ValidateProviderChoice("content-pipeline", CapabilityAI, ProviderSlack))
	// Capability the template does not declare.
	assert.False(t, reg.ValidateProviderChoice("content-pipeline", CapabilityEmail, ProviderResend))
	// Unknown provider.
	assert.False(t, reg.ValidateProviderChoice("content-pipeline", CapabilityAI, "made-up"))
	// Unknown template is false, not a panic or error.
	assert.False(t, reg.ValidateProviderChoice("no-such-template", CapabilityAI, ProviderAnthropic))
	// Unknown capability.
	assert.False(t, reg.ValidateProviderChoice("content-pipeline", Capability("telepathy"), ProviderAnthropic))
}

func TestEveryTemplateHasRequiredSlotOptions(t *testing.T) {
	reg := NewRegistry()
	for _, tmpl := range reg.ListTemplates() {
		require.NotEmpty(t, tmpl.RequiredProviders, "template %s has no required slots", tmpl.ID)
		for capability, providers := range tmpl.RequiredProviders {
			assert.NotEmpty(t, providers, "template %s capability %s has no allowed providers", tmpl.ID, capability)
		}
	}
}
