package automation

// AutomationTemplate is a catalog entry describing a reusable automation
// pattern: which provider slots it needs, which it can optionally use,
// and what configuration its instances accept. Read-only at runtime.
type AutomationTemplate struct {
	ID                  string                  `json:"id"`
	Name                string                  `json:"name"`
	Category            string                  `json:"category"`
	Description         string                  `json:"description,omitempty"`
	RequiredProviders   map[Capability][]string `json:"required_providers"`
	OptionalProviders   map[Capability][]string `json:"optional_providers,omitempty"`
	ConfigurationSchema []ConfigField           `json:"configuration_schema,omitempty"`
}

// Registry is the static template catalog. Built once at startup from
// static data and never written afterwards, so concurrent readers need no
// synchronization.
type Registry struct {
	byID  map[string]*AutomationTemplate
	order []string
}

// NewRegistry builds the catalog from the built-in template set.
func NewRegistry() *Registry {
	return newRegistryWith(builtinTemplates())
}

func newRegistryWith(templates []*AutomationTemplate) *Registry {
	r := &Registry{
		byID:  make(map[string]*AutomationTemplate, len(templates)),
		order: make([]string, 0, len(templates)),
	}
	for _, t := range templates {
		if _, exists := r.byID[t.ID]; exists {
			continue
		}
		r.byID[t.ID] = t
		r.order = append(r.order, t.ID)
	}
	return r
}

// GetTemplateByID returns the template, or nil and false when absent.
func (r *Registry) GetTemplateByID(id string) (*AutomationTemplate, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// GetTemplatesByCategory returns templates in catalog insertion order.
func (r *Registry) GetTemplatesByCategory(category string) []*AutomationTemplate {
	var out []*AutomationTemplate
	for _, id := range r.order {
		t := r.byID[id]
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// ListTemplates returns all templates in catalog insertion order.
func (r *Registry) ListTemplates() []*AutomationTemplate {
	out := make([]*AutomationTemplate, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// ValidateProviderChoice reports whether provider is an allowed choice for
// capability on the given template. It returns false, never an error, when
// the template, capability or provider is unknown; callers distinguish
// "invalid template" from "invalid choice" via GetTemplateByID.
func (r *Registry) ValidateProviderChoice(templateID string, capability Capability, provider string) bool {
	t, ok := r.byID[templateID]
	if !ok {
		return false
	}
	if contains(t.RequiredProviders[capability], provider) {
		return true
	}
	return contains(t.OptionalProviders[capability], provider)
}

func intPtr(n int) *int { return &n }

func builtinTemplates() []*AutomationTemplate {
	return []*AutomationTemplate{
		{
			ID:          "content-pipeline",
			Name:        "SEO Content Pipeline",
			Category:    "content",
			Description: "Research, draft, score and refine content until it clears an SEO quality gate.",
			RequiredProviders: map[Capability][]string{
				CapabilityAI: {ProviderAnthropic, ProviderOpenAI, ProviderDeepSeek, ProviderGemini},
			},
			OptionalProviders: map[Capability][]string{
				CapabilitySearch:   {ProviderTavily, ProviderCustomSearch},
				CapabilityScraping: {ProviderBrowser, ProviderHTTPFetch},
			},
			ConfigurationSchema: []ConfigField{
				{Name: "min_seo_score", Type: FieldInteger, Min: intPtr(0), Max: intPtr(100), Default: 75},
				{Name: "max_iterations", Type: FieldInteger, Min: intPtr(1), Max: intPtr(10), Default: 3},
				{Name: "tone", Type: FieldEnum, Enum: []string{"informative", "persuasive", "casual", "technical"}, Default: "informative"},
				{Name: "use_research", Type: FieldBoolean, Default: false},
				{Name: "fallback_ai", Type: FieldEnum, Enum: []string{ProviderAnthropic, ProviderOpenAI, ProviderDeepSeek, ProviderGemini}},
			},
		},
		{
			ID:          "content-review-notify",
			Name:        "Review Notification",
			Category:    "content",
			Description: "Announce generated content awaiting review on a messaging channel.",
			RequiredProviders: map[Capability][]string{
				CapabilityMessaging: {ProviderSlack, ProviderTelegram, ProviderDiscord},
			},
			OptionalProviders: map[Capability][]string{
				CapabilityEmail: {ProviderResend, ProviderSendGrid},
			},
			ConfigurationSchema: []ConfigField{
				{Name: "notify_on", Type: FieldEnumArray, Enum: []string{"ready", "failed"}, Default: []string{"ready"}},
				{Name: "include_body_preview", Type: FieldBoolean, Default: false},
			},
		},
		{
			ID:          "competitor-digest",
			Name:        "Competitor Digest",
			Category:    "research",
			Description: "Scrape and summarize competitor pages into a periodic digest.",
			RequiredProviders: map[Capability][]string{
				CapabilityAI:       {ProviderAnthropic, ProviderOpenAI},
				CapabilityScraping: {ProviderBrowser, ProviderHTTPFetch},
			},
			OptionalProviders: map[Capability][]string{
				CapabilitySearch:    {ProviderTavily},
				CapabilityMessaging: {ProviderSlack, ProviderTelegram, ProviderDiscord},
			},
			ConfigurationSchema: []ConfigField{
				{Name: "digest_frequency", Type: FieldEnum, Enum: []string{"daily", "weekly"}, Default: "weekly", Required: true},
				{Name: "max_sources", Type: FieldInteger, Min: intPtr(1), Max: intPtr(25), Default: 5},
			},
		},
		{
			ID:          "newsletter-dispatch",
			Name:        "Newsletter Dispatch",
			Category:    "distribution",
			Description: "Send approved content to a mailing list.",
			RequiredProviders: map[Capability][]string{
				CapabilityEmail: {ProviderResend, ProviderSendGrid},
			},
			OptionalProviders: map[Capability][]string{
				CapabilityAI: {ProviderAnthropic, ProviderOpenAI},
			},
			ConfigurationSchema: []ConfigField{
				{Name: "subject_prefix", Type: FieldString},
				{Name: "send_window", Type: FieldEnum, Enum: []string{"morning", "afternoon", "evening"}, Default: "morning"},
			},
		},
	}
}
