package transcription

import (
	"bytes"
	"context"
	"errors"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

const defaultOpenAIModel = "whisper-1"

type OpenAIProvider struct {
	client openai.Client
	model  string
	apiKey string
}

func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	requestOpts := make([]option.RequestOption, 0, 2)
	if baseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		requestOpts = append(requestOpts, option.WithAPIKey(apiKey))
	}
	if strings.TrimSpace(model) == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{client: openai.NewClient(requestOpts...), model: model, apiKey: apiKey}
}

func (p *OpenAIProvider) Transcribe(ctx context.Context, audio Audio) (string, error) {
	if p.apiKey == "" {
		return "", &Error{Kind: KindNotConfigured}
	}

	params := openai.AudioTranscriptionNewParams{
		File:           openai.File(bytes.NewReader(audio.Data), audio.Filename, audio.MimeType),
		Model:          openai.AudioModel(p.model),
		ResponseFormat: openai.AudioResponseFormatJSON,
		Prompt:         param.NewOpt(strings.Join(PhysioKeywords, ", ")),
	}

	response, err := p.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if response == nil {
		return "", errors.New("audio transcriptions API returned nil response")
	}
	return response.Text, nil
}
