package dto

import (
	"time"

	"physio-notes-be/pkg/template"

	"github.com/google/uuid"
)

type CreateCustomTemplateRequest struct {
	Name        string                        `json:"name" validate:"required,max=255"`
	Description string                        `json:"description" validate:"max=2000"`
	Config      template.CustomTemplateConfig `json:"config"`
}

type UpdateCustomTemplateRequest struct {
	Id          uuid.UUID                     `json:"id" validate:"required"`
	Name        string                        `json:"name" validate:"required,max=255"`
	Description string                        `json:"description" validate:"max=2000"`
	Config      template.CustomTemplateConfig `json:"config"`
}

type CustomTemplateResponse struct {
	Id           uuid.UUID                     `json:"id"`
	Name         string                        `json:"name"`
	Description  string                        `json:"description"`
	Config       template.CustomTemplateConfig `json:"config"`
	TemplateType string                        `json:"templateType"`
	FieldCount   int                           `json:"fieldCount"`
	CreatedAt    time.Time                     `json:"createdAt"`
	UpdatedAt    *time.Time                    `json:"updatedAt,omitempty"`
}
