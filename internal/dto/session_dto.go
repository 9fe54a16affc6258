package dto

import (
	"physio-notes-be/pkg/appstate"
	"physio-notes-be/pkg/soap"
)

type SelectTemplateRequest struct {
	TemplateType string `json:"templateType" validate:"required"`
}

type StartRecordingRequest struct {
	MimeType string `json:"mimeType"`
}

type SubmitSessionRequest struct {
	SessionTitle string `json:"sessionTitle" validate:"required,max=255"`
}

type CaptureErrorRequest struct {
	Name string `json:"name" validate:"required"`
}

type CaptureErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type SessionResponse struct {
	appstate.Snapshot
	Recording     bool            `json:"recording"`
	BufferedBytes int             `json:"bufferedBytes"`
	Note          *soap.Encounter `json:"note,omitempty"`
}

type StopRecordingResponse struct {
	SessionResponse
	AudioBytes int    `json:"audioBytes"`
	MimeType   string `json:"mimeType"`
}

// SessionEventMessage is published on the session events topic after every
// state transition.
type SessionEventMessage struct {
	UserId   string            `json:"user_id"`
	Snapshot appstate.Snapshot `json:"snapshot"`
}
