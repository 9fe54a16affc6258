package transcription

import (
	"context"
	"errors"
	"strings"

	"physio-notes-be/pkg/llm"
	"physio-notes-be/pkg/llm/gemini"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

type GeminiProvider struct {
	backend *gemini.GeminiProvider
	model   string
}

func NewGeminiProvider(apiKey, baseURL, model string) *GeminiProvider {
	if strings.TrimSpace(model) == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{backend: gemini.NewGeminiProvider(apiKey, baseURL, model), model: model}
}

func (p *GeminiProvider) Transcribe(ctx context.Context, audio Audio) (string, error) {
	client, err := p.backend.Client(ctx)
	if errors.Is(err, llm.ErrNotConfigured) {
		return "", &Error{Kind: KindNotConfigured}
	}
	if err != nil {
		return "", err
	}

	prompt := "Transcribe this physical therapy session accurately. Return only the transcript text." +
		" Prioritize these terms if present: " + strings.Join(PhysioKeywords, ", ") + "."
	contents := []*genai.Content{
		genai.NewContentFromParts(
			[]*genai.Part{
				genai.NewPartFromText(prompt),
				genai.NewPartFromBytes(audio.Data, audio.MimeType),
			},
			genai.RoleUser,
		),
	}

	response, err := client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return "", err
	}
	return response.Text(), nil
}
