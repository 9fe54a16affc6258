package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"physio-notes-be/pkg/aiservice"
	"physio-notes-be/pkg/appstate"
	"physio-notes-be/pkg/flow"
	"physio-notes-be/pkg/recorder"
	"physio-notes-be/pkg/template"
	"physio-notes-be/pkg/transcription"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFromMapsDomainErrors(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{&transcription.Error{Kind: transcription.KindEmptyAudio}, "empty_audio", http.StatusUnprocessableEntity},
		{&transcription.Error{Kind: transcription.KindUnsupportedFormat}, "unsupported_format", http.StatusUnsupportedMediaType},
		{&recorder.CaptureError{Kind: recorder.KindPermissionDenied}, "permission_denied", http.StatusBadRequest},
		{&aiservice.Error{Kind: aiservice.KindNotConfigured}, "not_configured", http.StatusServiceUnavailable},
		{&aiservice.Error{Kind: aiservice.KindUpstream, Err: errors.New("quota exceeded")}, "upstream", http.StatusBadGateway},
		{fmt.Errorf("%w: x", template.ErrUnknownTemplate), "unknown_template", http.StatusBadRequest},
		{template.ErrNoSections, "no_sections", http.StatusBadGateway},
		{&appstate.TransitionError{Action: "stop recording", From: appstate.StateIdle}, "invalid_transition", http.StatusConflict},
		{flow.ErrBusy, "busy", http.StatusConflict},
		{flow.ErrSuperseded, "superseded", http.StatusConflict},
		{recorder.ErrTooLarge, "oversized", http.StatusRequestEntityTooLarge},
		{fiber.ErrNotFound, "not_found", http.StatusNotFound},
		{errors.New("boom"), "internal", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		got := From(tc.err)
		assert.Equal(t, tc.code, got.Code, tc.err.Error())
		assert.Equal(t, tc.status, got.Status, tc.err.Error())
	}
}

func TestFromFlowErrorCarriesStageAndDraft(t *testing.T) {
	draft := uuid.New()
	err := &flow.Error{Stage: flow.StageUpdate, DraftID: &draft, Err: NewInternal(errors.New("db down"))}

	got := From(err)
	assert.Equal(t, "internal", got.Code)
	assert.Equal(t, "update", got.Details["stage"])
	assert.Equal(t, draft.String(), got.Details["draftId"])
	assert.ErrorIs(t, got, err)
}

func TestFromKeepsAppError(t *testing.T) {
	orig := NewNotFound("encounter", "42")
	assert.Same(t, orig, From(fmt.Errorf("wrapped: %w", orig)))
	assert.Nil(t, From(nil))
}
