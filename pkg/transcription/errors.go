package transcription

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

type Kind string

const (
	KindEmptyAudio        Kind = "empty_audio"
	KindOversized         Kind = "oversized"
	KindUnsupportedFormat Kind = "unsupported_format"
	KindNetwork           Kind = "network"
	KindProvider          Kind = "provider"
	KindEmptyTranscript   Kind = "empty_transcript"
	KindNotConfigured     Kind = "not_configured"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = UserMessage(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("transcription %s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("transcription %s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of a transcription error, or "" for other errors.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

func UserMessage(kind Kind) string {
	switch kind {
	case KindEmptyAudio:
		return "The recording is empty. Please record again."
	case KindOversized:
		return "The recording is too long to transcribe (25 MB limit)."
	case KindUnsupportedFormat:
		return "The recording format is not supported."
	case KindNetwork:
		return "Could not reach the transcription service. Check your connection and try again."
	case KindEmptyTranscript:
		return "No speech was detected in the recording."
	case KindNotConfigured:
		return "Transcription is not configured on this server."
	default:
		return "Transcription failed. Please try again."
	}
}

// classify maps a provider failure to a typed Error.
func classify(err error) *Error {
	var te *Error
	if errors.As(err, &te) {
		return te
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), errors.As(err, &netErr):
		return &Error{Kind: KindNetwork, Err: err}
	}

	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		switch {
		case oaErr.StatusCode == 413:
			return &Error{Kind: KindOversized, Err: err}
		case oaErr.StatusCode == 400 && strings.Contains(strings.ToLower(oaErr.Message), "format"):
			return &Error{Kind: KindUnsupportedFormat, Err: err}
		}
		return &Error{Kind: KindProvider, Message: oaErr.Message, Err: err}
	}

	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return &Error{Kind: KindProvider, Message: gErr.Message, Err: err}
	}

	return &Error{Kind: KindProvider, Err: err}
}
