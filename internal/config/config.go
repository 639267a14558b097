package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Store     StoreConfig     `yaml:"store"`
	AI        AIConfig        `yaml:"ai"`
	Search    SearchConfig    `yaml:"search,omitempty"`
	Scrape    ScrapeConfig    `yaml:"scrape,omitempty"`
	Notify    NotifyConfig    `yaml:"notify,omitempty"`
	Scheduler SchedulerConfig `yaml:"scheduler,omitempty"`
	Pipeline  PipelineConfig  `yaml:"pipeline,omitempty"`
	Prompts   PromptsConfig   `yaml:"prompts,omitempty"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

// AIProviderConfig describes one configured text-generation provider.
type AIProviderConfig struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"` // "anthropic", "openai", "deepseek", or any openai-compatible alias
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type AIConfig struct {
	Primary   string             `yaml:"primary"`
	Fallback  string             `yaml:"fallback,omitempty"`
	Providers []AIProviderConfig `yaml:"providers"`
}

type SearchEngineConfig struct {
	Name     string         `yaml:"name"`
	Type     string         `yaml:"type"`
	APIKey   string         `yaml:"api_key,omitempty"`
	BaseURL  string         `yaml:"base_url,omitempty"`
	Enabled  bool           `yaml:"enabled"`
	Priority int            `yaml:"priority"`
	Options  map[string]any `yaml:"options,omitempty"`
}

type SearchConfig struct {
	Engines []SearchEngineConfig `yaml:"engines"`
}

type ScrapeConfig struct {
	// UseBrowser renders pages in a headless browser before extraction.
	// Plain HTTP fetching is used when disabled or when no browser is found.
	UseBrowser bool `yaml:"use_browser"`
	// ScreenSize is "WIDTHxHEIGHT" for the browser window, empty for default.
	ScreenSize string `yaml:"screen_size,omitempty"`
}

type SlackNotifyConfig struct {
	BotToken string `yaml:"bot_token,omitempty"`
	Channel  string `yaml:"channel,omitempty"`
}

type TelegramNotifyConfig struct {
	Token  string `yaml:"token,omitempty"`
	ChatID int64  `yaml:"chat_id,omitempty"`
}

type DiscordNotifyConfig struct {
	Token     string `yaml:"token,omitempty"`
	ChannelID string `yaml:"channel_id,omitempty"`
}

type EmailNotifyConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
	From    string `yaml:"from,omitempty"`
	To      string `yaml:"to,omitempty"`
}

type NotifyConfig struct {
	Slack    SlackNotifyConfig    `yaml:"slack,omitempty"`
	Telegram TelegramNotifyConfig `yaml:"telegram,omitempty"`
	Discord  DiscordNotifyConfig  `yaml:"discord,omitempty"`
	Email    EmailNotifyConfig    `yaml:"email,omitempty"`
}

type SchedulerConfig struct {
	Enabled bool `yaml:"enabled"`
	// Spec is a standard 5-field cron expression for the pending-plan sweep.
	Spec string `yaml:"spec,omitempty"`
	// UseResearch controls whether swept plans run the research step.
	UseResearch bool `yaml:"use_research"`
}

type PipelineConfig struct {
	// ProcessTimeoutSec bounds a single plan-processing run end to end.
	ProcessTimeoutSec int `yaml:"process_timeout_sec,omitempty"`
}

// PromptSlotConfig declares a template variable with an optional default.
type PromptSlotConfig struct {
	Name    string `yaml:"name"`
	Default string `yaml:"default,omitempty"`
}

// PromptOverrideConfig replaces or scopes a built-in prompt template.
// Overrides are registered at startup, before the store is sealed.
type PromptOverrideConfig struct {
	Key      string             `yaml:"key"`
	TenantID string             `yaml:"tenant_id,omitempty"`
	Body     string             `yaml:"body"`
	Slots    []PromptSlotConfig `yaml:"slots,omitempty"`
}

type PromptsConfig struct {
	Overrides []PromptOverrideConfig `yaml:"overrides,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8090},
		Logging: LoggingConfig{
			Level: "info",
		},
		Store: StoreConfig{Path: filepath.Join(".terra", "terra.db")},
		AI: AIConfig{
			Primary: "anthropic",
			Providers: []AIProviderConfig{
				{Name: "anthropic", Type: "anthropic", APIKey: "${ANTHROPIC_API_KEY}"},
				{Name: "openai", Type: "openai", APIKey: "${OPENAI_API_KEY}"},
			},
		},
		Search: SearchConfig{
			Engines: []SearchEngineConfig{
				{Name: "tavily", Type: "tavily", APIKey: "${TAVILY_API_KEY}", Enabled: true, Priority: 1},
			},
		},
		Scrape: ScrapeConfig{UseBrowser: false},
		Scheduler: SchedulerConfig{
			Enabled: false,
			Spec:    "*/5 * * * *",
		},
		Pipeline: PipelineConfig{ProcessTimeoutSec: 180},
	}
}

func defaultPath() string {
	return filepath.Join(".terra", "config.yaml")
}

// Load reads config from path, falling back to defaults when the file is
// missing. An empty path uses the default location. A .env file in the
// working directory is loaded first so ${VAR} references resolve.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = defaultPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.expandEnv()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.expandEnv()
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if path == "" {
		path = defaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// expandEnv resolves ${VAR} references in secret-bearing fields. Unset
// variables expand to the empty string, which downstream components treat
// as "not configured".
func (c *Config) expandEnv() {
	for i := range c.AI.Providers {
		c.AI.Providers[i].APIKey = expand(c.AI.Providers[i].APIKey)
		c.AI.Providers[i].BaseURL = expand(c.AI.Providers[i].BaseURL)
	}
	for i := range c.Search.Engines {
		c.Search.Engines[i].APIKey = expand(c.Search.Engines[i].APIKey)
	}
	c.Notify.Slack.BotToken = expand(c.Notify.Slack.BotToken)
	c.Notify.Telegram.Token = expand(c.Notify.Telegram.Token)
	c.Notify.Discord.Token = expand(c.Notify.Discord.Token)
	c.Notify.Email.APIKey = expand(c.Notify.Email.APIKey)
}

func expand(s string) string {
	return os.Expand(s, func(key string) string {
		return os.Getenv(key)
	})
}

// Provider returns the named AI provider config, or nil when absent.
func (c *AIConfig) Provider(name string) *AIProviderConfig {
	for i := range c.Providers {
		if c.Providers[i].Name == name {
			return &c.Providers[i]
		}
	}
	return nil
}
