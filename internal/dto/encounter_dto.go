package dto

import (
	"physio-notes-be/pkg/soap"

	"github.com/google/uuid"
)

const (
	DefaultEncounterLimit = 20
	MaxEncounterLimit     = 100
)

type CreateEncounterRequest struct {
	TemplateType     string     `json:"templateType" validate:"required,max=64"`
	CustomTemplateId *uuid.UUID `json:"customTemplateId"`
	SessionTitle     string     `json:"sessionTitle" validate:"required,max=255"`
}

// UpdateEncounterRequest replaces the note body. Status and Transcript are
// left untouched when omitted.
type UpdateEncounterRequest struct {
	Id         uuid.UUID      `json:"id" validate:"required"`
	Soap       *soap.Document `json:"soap" validate:"required"`
	Status     soap.Status    `json:"status" validate:"omitempty,oneof=draft final"`
	Transcript *string        `json:"transcript"`
}
