package llm

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sashabaranov/go-openai"
)

// OpenAICompatProvider implements Provider for any OpenAI-compatible chat
// completion API. Known provider types resolve default endpoints and
// models; anything else must supply a base URL and model explicitly.
type OpenAICompatProvider struct {
	client *openai.Client
	name   string
	model  string
}

// OpenAICompatConfig holds configuration for an OpenAI-compatible provider.
type OpenAICompatConfig struct {
	Name    string
	Type    string
	APIKey  string
	BaseURL string
	Model   string
}

var openAICompatDefaults = map[string]struct {
	baseURL string
	model   string
}{
	"openai":   {"https://api.openai.com/v1", "gpt-4o"},
	"deepseek": {"https://api.deepseek.com/v1", "deepseek-chat"},
	"gemini":   {"https://generativelanguage.googleapis.com/v1beta/openai", "gemini-2.0-flash"},
	"grok":     {"https://api.x.ai/v1", "grok-2-latest"},
	"kimi":     {"https://api.moonshot.cn/v1", "moonshot-v1-8k"},
	"qwen":     {"https://dashscope.aliyuncs.com/compatible-mode/v1", "qwen-plus"},
}

var openAICompatAliases = map[string]string{
	"gpt":      "openai",
	"chatgpt":  "openai",
	"google":   "gemini",
	"xai":      "grok",
	"moonshot": "kimi",
	"qianwen":  "qwen",
	"tongyi":   "qwen",
}

// NewOpenAICompatProvider creates a provider for an OpenAI-compatible API.
func NewOpenAICompatProvider(cfg OpenAICompatConfig) (*OpenAICompatProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	typ := cfg.Type
	if canonical, ok := openAICompatAliases[typ]; ok {
		typ = canonical
	}

	baseURL := cfg.BaseURL
	model := cfg.Model
	if d, ok := openAICompatDefaults[typ]; ok {
		if baseURL == "" {
			baseURL = d.baseURL
		}
		if model == "" {
			model = d.model
		}
	}
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required for provider type %q", cfg.Type)
	}
	if model == "" {
		return nil, fmt.Errorf("model is required for provider type %q", cfg.Type)
	}
	if cfg.Name == "" {
		cfg.Name = typ
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = baseURL

	return &OpenAICompatProvider{
		client: openai.NewClientWithConfig(clientCfg),
		name:   cfg.Name,
		model:  model,
	}, nil
}

func (p *OpenAICompatProvider) Name() string {
	return p.name
}

func (p *OpenAICompatProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:     p.model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}
	if req.Temperature > 0 {
		chatReq.Temperature = req.Temperature
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return GenerateResponse{}, p.wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return GenerateResponse{}, &ProviderError{
			Provider: p.name,
			Message:  "empty completion response",
		}
	}

	return GenerateResponse{
		Text:  resp.Choices[0].Message.Content,
		Model: p.model,
	}, nil
}

func (p *OpenAICompatProvider) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider: p.name,
			Code:     strconv.Itoa(apiErr.HTTPStatusCode),
			Message:  apiErr.Message,
			Err:      err,
		}
	}
	return &ProviderError{Provider: p.name, Message: err.Error(), Err: err}
}
