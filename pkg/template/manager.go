package template

import (
	"context"
	"fmt"
	"strings"

	"physio-notes-be/pkg/aiservice"
	"physio-notes-be/pkg/soap"

	"github.com/google/uuid"
)

const CustomPrefix = "custom-"

// CustomTemplateLoader fetches a user's custom template by id.
type CustomTemplateLoader interface {
	GetCustomTemplate(ctx context.Context, id uuid.UUID) (*CustomTemplate, error)
}

// ParseTemplateType splits a template type into a built-in key or a custom
// template id.
func ParseTemplateType(templateType string) (key string, customID *uuid.UUID, err error) {
	t := strings.ToLower(strings.TrimSpace(templateType))
	if strings.HasPrefix(t, CustomPrefix) {
		id, perr := uuid.Parse(strings.TrimPrefix(t, CustomPrefix))
		if perr != nil {
			return "", nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, templateType)
		}
		return "", &id, nil
	}
	if _, ok := lookupRegion(t); !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, templateType)
	}
	return t, nil, nil
}

type Result struct {
	TemplateType string         `json:"templateType"`
	Document     *soap.Document `json:"soap"`
	Warnings     []string       `json:"warnings,omitempty"`
	Prompt       string         `json:"-"`
	Raw          string         `json:"-"`
}

type Manager struct {
	loader CustomTemplateLoader
}

// NewManager returns a Manager. loader may be nil when custom templates are
// not available.
func NewManager(loader CustomTemplateLoader) *Manager {
	return &Manager{loader: loader}
}

// Resolve returns the strategy for templateType. Custom templates are
// fetched on every call.
func (m *Manager) Resolve(ctx context.Context, templateType string) (Strategy, error) {
	key, customID, err := ParseTemplateType(templateType)
	if err != nil {
		return nil, err
	}
	if customID == nil {
		region, _ := lookupRegion(key)
		return &regionStrategy{region: region}, nil
	}

	if m.loader == nil {
		return nil, fmt.Errorf("%w: custom templates unavailable", ErrUnknownTemplate)
	}
	tmpl, err := m.loader.GetCustomTemplate(ctx, *customID)
	if err != nil {
		return nil, fmt.Errorf("load custom template %s: %w", customID, err)
	}
	if tmpl == nil {
		return nil, fmt.Errorf("%w: custom template %s not found", ErrUnknownTemplate, customID)
	}
	if err := tmpl.Config.Validate(); err != nil {
		return nil, err
	}
	return &customStrategy{template: tmpl}, nil
}

// GenerateSOAP resolves the template, asks the completer for a note and
// decodes it.
func (m *Manager) GenerateSOAP(ctx context.Context, templateType, transcript string, completer aiservice.Completer) (*Result, error) {
	strategy, err := m.Resolve(ctx, templateType)
	if err != nil {
		return nil, err
	}

	prompt := strategy.BuildPrompt(transcript)
	raw, err := completer.GenerateCompletion(ctx, prompt)
	if err != nil {
		return nil, err
	}

	doc, warnings, err := strategy.Parse(raw)
	if err != nil {
		return nil, err
	}

	return &Result{
		TemplateType: strategy.Key(),
		Document:     doc,
		Warnings:     warnings,
		Prompt:       prompt,
		Raw:          raw,
	}, nil
}
