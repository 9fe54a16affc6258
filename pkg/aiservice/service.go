package aiservice

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"physio-notes-be/pkg/llm"
)

const Temperature = 0.2

const SystemMessage = "You are a clinical documentation assistant for physical therapists and chiropractors. " +
	"You write SOAP notes using only information that is explicitly stated in the session transcript. " +
	"You always respond with a single valid JSON object and nothing else."

const groundingRules = `STRICT RULES:
- Use ONLY information explicitly stated in the transcript.
- Do NOT invent findings, measurements, test results, diagnoses or patient history.
- If information for a field is not mentioned, leave that field as an empty string or empty list.
- Do not add commentary outside the JSON object.

`

type Kind string

const (
	KindNotConfigured Kind = "not_configured"
	KindEmptyResponse Kind = "empty_response"
	KindUpstream      Kind = "upstream"
)

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "ai service: " + string(e.Kind)
	}
	return fmt.Sprintf("ai service: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// Completer turns a prompt into raw model output.
type Completer interface {
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	provider llm.LLMProvider
	model    string
}

func New(provider llm.LLMProvider, model string) *Service {
	return &Service{provider: provider, model: model}
}

// GenerateCompletion sends the prompt once and returns the response with any
// Markdown code fence removed.
func (s *Service) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	if s == nil || s.provider == nil {
		return "", &Error{Kind: KindNotConfigured}
	}

	opts := []llm.Option{llm.WithTemperature(Temperature), llm.WithJSONResponse()}
	if s.model != "" {
		opts = append(opts, llm.WithModel(s.model))
	}

	raw, err := s.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: SystemMessage},
		{Role: llm.RoleUser, Content: groundingRules + prompt},
	}, opts...)
	if errors.Is(err, llm.ErrNotConfigured) {
		return "", &Error{Kind: KindNotConfigured, Err: err}
	}
	if err != nil {
		return "", &Error{Kind: KindUpstream, Err: err}
	}

	out := StripCodeFence(raw)
	if out == "" {
		return "", &Error{Kind: KindEmptyResponse}
	}
	return out, nil
}

var fencePattern = regexp.MustCompile("(?s)^```[a-zA-Z0-9_-]*\\s*\n?(.*?)\\s*```$")

// StripCodeFence removes a surrounding ```json ... ``` wrapper.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}
