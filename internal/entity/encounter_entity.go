package entity

import (
	"time"

	"physio-notes-be/pkg/soap"

	"github.com/google/uuid"
)

type Encounter struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	TemplateType     string
	CustomTemplateId *uuid.UUID
	SessionTitle     string
	Soap             soap.Document
	Transcript       string
	Status           soap.Status
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}
