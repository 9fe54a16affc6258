package template

import (
	"errors"

	"physio-notes-be/pkg/soap"
)

var (
	ErrUnknownTemplate = errors.New("template: unknown template type")
	ErrInvalidConfig   = errors.New("template: invalid custom template config")
	ErrInvalidJSON     = soap.ErrInvalidJSON
	ErrNoSections      = soap.ErrNoSections
)

// KindOf names the template error for API responses.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrUnknownTemplate):
		return "unknown_template"
	case errors.Is(err, ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, ErrInvalidJSON):
		return "invalid_json"
	case errors.Is(err, ErrNoSections):
		return "no_sections"
	}
	return ""
}
