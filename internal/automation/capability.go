package automation

// Capability is a functional role a provider fulfills within a template's
// provider slots.
type Capability string

const (
	CapabilityAI        Capability = "ai"
	CapabilityEmail     Capability = "email"
	CapabilityMessaging Capability = "messaging"
	CapabilityScraping  Capability = "scraping"
	CapabilitySearch    Capability = "search"
)

// Provider identifiers, per capability. The catalog references these; no
// provider is discovered at runtime.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderDeepSeek  = "deepseek"
	ProviderGemini    = "gemini"

	ProviderResend   = "resend"
	ProviderSendGrid = "sendgrid"

	ProviderSlack    = "slack"
	ProviderTelegram = "telegram"
	ProviderDiscord  = "discord"

	ProviderBrowser   = "browser"
	ProviderHTTPFetch = "http"

	ProviderTavily       = "tavily"
	ProviderCustomSearch = "custom"
)
