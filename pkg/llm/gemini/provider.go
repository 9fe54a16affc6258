package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"physio-notes-be/pkg/llm"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

type GeminiProvider struct {
	apiKey  string
	baseURL string
	model   string

	once      sync.Once
	client    *genai.Client
	clientErr error
}

var _ llm.LLMProvider = &GeminiProvider{}

func NewGeminiProvider(apiKey, baseURL, model string) *GeminiProvider {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &GeminiProvider{apiKey: apiKey, baseURL: baseURL, model: model}
}

// Client lazily builds the genai client; NewClient needs a context.
func (p *GeminiProvider) Client(ctx context.Context) (*genai.Client, error) {
	if p.apiKey == "" {
		return nil, llm.ErrNotConfigured
	}
	p.once.Do(func() {
		cfg := &genai.ClientConfig{
			Backend: genai.BackendGeminiAPI,
			APIKey:  p.apiKey,
		}
		if p.baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
		}
		p.client, p.clientErr = genai.NewClient(ctx, cfg)
	})
	return p.client, p.clientErr
}

func (p *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	client, err := p.Client(ctx)
	if err != nil {
		return "", err
	}
	options := llm.Apply(llm.Options{Model: p.model, Temperature: 0.7}, opts...)

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(options.Temperature)),
	}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.JSON {
		config.ResponseMIMEType = "application/json"
	}

	var system []string
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case llm.RoleSystem:
			system = append(system, msg.Content)
		case llm.RoleAssistant, "model":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	response, err := client.Models.GenerateContent(ctx, options.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return response.Text(), nil
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}
