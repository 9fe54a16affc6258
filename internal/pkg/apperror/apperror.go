package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"physio-notes-be/pkg/aiservice"
	"physio-notes-be/pkg/appstate"
	"physio-notes-be/pkg/flow"
	"physio-notes-be/pkg/recorder"
	"physio-notes-be/pkg/template"
	"physio-notes-be/pkg/transcription"

	"github.com/gofiber/fiber/v2"
)

// AppError is the error handlers return. Code is the machine-readable kind
// sent to clients next to the HTTP status.
type AppError struct {
	Code    string
	Status  int
	Message string
	Details map[string]any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(status int, code, message string) *AppError {
	return &AppError{Code: code, Status: status, Message: message}
}

func NewInvalidRequest(msg string) *AppError {
	return New(http.StatusBadRequest, "invalid_request", msg)
}

func NewUnauthorized(msg string) *AppError {
	return New(http.StatusUnauthorized, "unauthorized", msg)
}

func NewNotFound(resource, identifier string) *AppError {
	return &AppError{
		Code:    "not_found",
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

func NewInternal(err error) *AppError {
	return &AppError{Code: "internal", Status: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}

// From converts any error into an AppError, mapping the typed errors of the
// domain packages to statuses and user-facing messages.
func From(err error) *AppError {
	if err == nil {
		return nil
	}

	var flowErr *flow.Error
	if errors.As(err, &flowErr) {
		inner := From(flowErr.Err)
		if inner == nil {
			inner = NewInternal(err)
		}
		mapped := *inner
		details := map[string]any{"stage": string(flowErr.Stage)}
		for k, v := range mapped.Details {
			details[k] = v
		}
		if flowErr.DraftID != nil {
			details["draftId"] = flowErr.DraftID.String()
		}
		mapped.Details = details
		mapped.Err = err
		return &mapped
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &AppError{Code: codeFromStatus(fiberErr.Code), Status: fiberErr.Code, Message: fiberErr.Message, Err: err}
	}

	var captureErr *recorder.CaptureError
	if errors.As(err, &captureErr) {
		return &AppError{Code: string(captureErr.Kind), Status: http.StatusBadRequest, Message: recorder.UserMessage(captureErr.Kind), Err: err}
	}

	if kind := transcription.KindOf(err); kind != "" {
		return &AppError{Code: string(kind), Status: transcriptionStatus(kind), Message: transcription.UserMessage(kind), Err: err}
	}

	var aiErr *aiservice.Error
	if errors.As(err, &aiErr) {
		switch aiErr.Kind {
		case aiservice.KindNotConfigured:
			return &AppError{Code: "not_configured", Status: http.StatusServiceUnavailable, Message: "AI note generation is not configured on this server.", Err: err}
		case aiservice.KindEmptyResponse:
			return &AppError{Code: "empty_response", Status: http.StatusBadGateway, Message: "The AI service returned an empty response. Please try again.", Err: err}
		default:
			msg := "The AI service failed."
			if aiErr.Err != nil {
				msg = "The AI service failed: " + aiErr.Err.Error()
			}
			return &AppError{Code: "upstream", Status: http.StatusBadGateway, Message: msg, Err: err}
		}
	}

	switch kind := template.KindOf(err); kind {
	case "unknown_template", "invalid_config":
		return &AppError{Code: kind, Status: http.StatusBadRequest, Message: err.Error(), Err: err}
	case "invalid_json", "no_sections":
		return &AppError{Code: kind, Status: http.StatusBadGateway, Message: "The AI response could not be read as a SOAP note. Please try again.", Err: err}
	}

	switch {
	case errors.Is(err, appstate.ErrInvalidTransition):
		return &AppError{Code: "invalid_transition", Status: http.StatusConflict, Message: err.Error(), Err: err}
	case errors.Is(err, flow.ErrBusy):
		return &AppError{Code: "busy", Status: http.StatusConflict, Message: "A note is already being generated.", Err: err}
	case errors.Is(err, flow.ErrSuperseded):
		return &AppError{Code: "superseded", Status: http.StatusConflict, Message: "The session was reset before the note finished. It was saved as a draft.", Err: err}
	case errors.Is(err, flow.ErrNoRecording):
		return &AppError{Code: "no_recording", Status: http.StatusConflict, Message: "There is no recording to submit.", Err: err}
	case errors.Is(err, flow.ErrTitleMissing):
		return &AppError{Code: "invalid_request", Status: http.StatusBadRequest, Message: "Session title is required.", Err: err}
	case errors.Is(err, recorder.ErrTooLarge):
		return &AppError{Code: "oversized", Status: http.StatusRequestEntityTooLarge, Message: transcription.UserMessage(transcription.KindOversized), Err: err}
	case errors.Is(err, recorder.ErrNotRecording), errors.Is(err, recorder.ErrAlreadyRecording):
		return &AppError{Code: "invalid_transition", Status: http.StatusConflict, Message: err.Error(), Err: err}
	}

	return NewInternal(err)
}

func transcriptionStatus(kind transcription.Kind) int {
	switch kind {
	case transcription.KindEmptyAudio, transcription.KindEmptyTranscript:
		return http.StatusUnprocessableEntity
	case transcription.KindOversized:
		return http.StatusRequestEntityTooLarge
	case transcription.KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case transcription.KindNetwork:
		return http.StatusGatewayTimeout
	case transcription.KindNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func codeFromStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}
