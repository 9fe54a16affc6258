package soap

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft Status = "draft"
	StatusFinal Status = "final"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusFinal
}

// Encounter is a persisted patient session and the SOAP note generated for it.
type Encounter struct {
	ID               uuid.UUID  `json:"id"`
	TemplateType     string     `json:"templateType"`
	CustomTemplateID *uuid.UUID `json:"customTemplateId,omitempty"`
	SessionTitle     string     `json:"sessionTitle"`
	SOAP             *Document  `json:"soap"`
	Transcript       string     `json:"transcript,omitempty"`
	Status           Status     `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}
