package llm

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/liushuangls/go-anthropic/v2"
)

const anthropicDefaultModel = "claude-3-5-sonnet-latest"

// AnthropicProvider implements Provider against the Anthropic Messages API.
type AnthropicProvider struct {
	client *anthropic.Client
	name   string
	model  string
}

// AnthropicConfig holds Anthropic provider configuration.
type AnthropicConfig struct {
	Name    string
	APIKey  string
	BaseURL string
	Model   string
}

// NewAnthropicProvider creates an Anthropic-backed provider.
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = anthropicDefaultModel
	}
	if cfg.Name == "" {
		cfg.Name = "anthropic"
	}

	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(cfg.APIKey, opts...),
		name:   cfg.Name,
		model:  cfg.Model,
	}, nil
}

func (p *AnthropicProvider) Name() string {
	return p.name
}

func (p *AnthropicProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	msgReq := anthropic.MessagesRequest{
		Model:     anthropic.Model(p.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(req.Prompt),
		},
	}
	if req.System != "" {
		msgReq.System = req.System
	}
	if req.Temperature > 0 {
		t := req.Temperature
		msgReq.Temperature = &t
	}

	resp, err := p.client.CreateMessages(ctx, msgReq)
	if err != nil {
		return GenerateResponse{}, p.wrapError(err)
	}

	return GenerateResponse{
		Text:  resp.GetFirstContentText(),
		Model: p.model,
	}, nil
}

func (p *AnthropicProvider) wrapError(err error) error {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider: p.name,
			Code:     string(apiErr.Type),
			Message:  apiErr.Message,
			Err:      err,
		}
	}
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{
			Provider: p.name,
			Code:     strconv.Itoa(reqErr.StatusCode),
			Message:  reqErr.Error(),
			Err:      err,
		}
	}
	return &ProviderError{Provider: p.name, Message: err.Error(), Err: err}
}
