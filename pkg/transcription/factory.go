package transcription

import "fmt"

type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewProvider builds the configured backend. "openai" is the default.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case "gemini":
		return NewGeminiProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported transcription provider: %s", cfg.Provider)
	}
}
