package client

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// Provider identifies the chat model backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
	ProviderGemini Provider = "gemini"
)

// Config selects and parameterizes the model backend.
type Config struct {
	Provider    Provider
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int
}

// GenerationError reports a failed generation attempt. Infra reports whether
// the failure is infrastructural (auth, quota, connectivity), in which case
// retrying the next element is pointless.
type GenerationError struct {
	Provider Provider
	Reason   string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %s: %v", e.Provider, e.Reason, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Infra reports whether the underlying failure looks infrastructural rather
// than content-related.
func (e *GenerationError) Infra() bool {
	if e.Err == nil {
		return false
	}
	msg := strings.ToLower(e.Err.Error())
	for _, marker := range []string{"401", "403", "429", "unauthorized", "quota", "rate limit", "connection refused", "no such host"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// GenerationRequest describes one element to document.
type GenerationRequest struct {
	FilePath    string
	ElementKind string
	ElementName string
	Signature   string
	CodeContext string
}

// Generator produces a Javadoc comment body for a code element.
type Generator interface {
	GenerateJavadoc(ctx context.Context, req GenerationRequest) (string, error)
}

// ChatGenerator implements Generator over a tool-capable chat model.
type ChatGenerator struct {
	cfg   Config
	model model.ToolCallingChatModel
}

// NewChatGenerator builds a generator for the configured provider.
func NewChatGenerator(ctx context.Context, cfg Config) (*ChatGenerator, error) {
	cm, err := newChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &ChatGenerator{cfg: cfg, model: cm}, nil
}

func newChatModel(ctx context.Context, cfg Config) (model.ToolCallingChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %s", cfg.Provider)
	}
	switch cfg.Provider {
	case ProviderOpenAI:
		temp := cfg.Temperature
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: &temp,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create openai model: %w", err)
		}
		return cm, nil
	case ProviderClaude:
		cm, err := claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create claude model: %w", err)
		}
		return cm, nil
	case ProviderGemini:
		gc, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		cm, err := gemini.NewChatModel(ctx, &gemini.Config{
			Client: gc,
			Model:  cfg.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini model: %w", err)
		}
		return cm, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}

// GenerateJavadoc asks the model for a Javadoc body for the element in req.
// The returned text is the raw model output; callers normalize it.
func (c *ChatGenerator) GenerateJavadoc(ctx context.Context, req GenerationRequest) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(BuildPrompt(req)),
	}

	resp, err := c.model.Generate(ctx, messages)
	if err != nil {
		return "", &GenerationError{Provider: c.cfg.Provider, Reason: fmt.Sprintf("%s %s", req.ElementKind, req.ElementName), Err: err}
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", &GenerationError{Provider: c.cfg.Provider, Reason: fmt.Sprintf("empty response for %s %s", req.ElementKind, req.ElementName), Err: fmt.Errorf("model returned no content")}
	}
	log.Printf("generated javadoc for %s %s in %s", req.ElementKind, req.ElementName, req.FilePath)
	return resp.Content, nil
}
