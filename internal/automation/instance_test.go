package automation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstance(t *testing.T) {
	reg := NewRegistry()

	inst, err := NewInstance(reg, "content-pipeline",
		map[Capability]string{
			CapabilityAI:     ProviderAnthropic,
			CapabilitySearch: ProviderTavily,
		},
		map[string]any{"min_seo_score": 80},
	)
	require.NoError(t, err)
	assert.NotEmpty(t, inst.ID)
	assert.True(t, inst.IsActive)
	assert.Equal(t, ProviderAnthropic, inst.ProviderConfiguration[CapabilityAI])
	// Defaults filled for unset fields, explicit values kept.
	assert.Equal(t, 80, inst.AutomationConfiguration["min_seo_score"])
	assert.Equal(t, 3, inst.AutomationConfiguration["max_iterations"])
}

func TestNewInstanceUnknownTemplate(t *testing.T) {
	reg := NewRegistry()
	_, err := NewInstance(reg, "no-such-template", nil, nil)
	assert.Error(t, err)
}

func TestNewInstanceMissingRequiredCapability(t *testing.T) {
	reg := NewRegistry()
	_, err := NewInstance(reg, "content-pipeline",
		map[Capability]string{CapabilitySearch: ProviderTavily}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required capability")
}

func TestNewInstanceUndeclaredCapability(t *testing.T) {
	reg := NewRegistry()
	_, err := NewInstance(reg, "content-pipeline",
		map[Capability]string{
			CapabilityAI:    ProviderAnthropic,
			CapabilityEmail: ProviderResend,
		}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not declare capability")
}

func TestNewInstanceDisallowedProvider(t *testing.T) {
	reg := NewRegistry()
	_, err := NewInstance(reg, "content-pipeline",
		map[Capability]string{CapabilityAI: "mystery-model"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
}

func TestNewInstanceInvalidConfig(t *testing.T) {
	reg := NewRegistry()
	_, err := NewInstance(reg, "content-pipeline",
		map[Capability]string{CapabilityAI: ProviderAnthropic},
		map[string]any{"min_seo_score": 200})
	assert.Error(t, err)
}
