package factory

import (
	"context"
	"testing"

	"physio-notes-be/pkg/llm"
	"physio-notes-be/pkg/llm/gemini"
	"physio-notes-be/pkg/llm/ollama"
	"physio-notes-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(Config{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", o.BaseURL)

	p, err = NewLLMProvider(Config{})
	require.NoError(t, err)
	assert.IsType(t, &openai.OpenAIProvider{}, p)

	p, err = NewLLMProvider(Config{Provider: "gemini"})
	require.NoError(t, err)
	assert.IsType(t, &gemini.GeminiProvider{}, p)

	_, err = NewLLMProvider(Config{Provider: "bedrock"})
	assert.Error(t, err)
}

func TestProvidersWithoutKeyAreNotConfigured(t *testing.T) {
	for _, name := range []string{"openai", "gemini"} {
		p, err := NewLLMProvider(Config{Provider: name})
		require.NoError(t, err)
		_, err = p.Generate(context.Background(), "hello")
		assert.ErrorIs(t, err, llm.ErrNotConfigured, name)
	}
}
