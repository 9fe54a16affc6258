package recorder

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotRecording     = errors.New("recorder: not recording")
	ErrAlreadyRecording = errors.New("recorder: already recording")
	ErrTooLarge         = errors.New("recorder: recording exceeds maximum size")
)

// Kind classifies microphone capture failures.
type Kind string

const (
	KindPermissionDenied Kind = "permission_denied"
	KindDeviceNotFound   Kind = "device_not_found"
	KindDeviceBusy       Kind = "device_busy"
	KindUnknown          Kind = "unknown"
)

// CaptureError is returned when the audio source cannot be opened.
type CaptureError struct {
	Kind Kind
	Err  error
}

func (e *CaptureError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("capture failed: %s", e.Kind)
	}
	return fmt.Sprintf("capture failed: %s: %v", e.Kind, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text shown to the clinician for a capture failure.
func UserMessage(kind Kind) string {
	switch kind {
	case KindPermissionDenied:
		return "Microphone access was denied. Please allow microphone access and try again."
	case KindDeviceNotFound:
		return "No microphone was found. Please connect a microphone and try again."
	case KindDeviceBusy:
		return "Your microphone is in use by another application. Close it and try again."
	default:
		return "Could not start recording. Please check your microphone and try again."
	}
}

// ClassifyDOMError maps the DOMException name reported by a browser's
// getUserMedia call to a capture Kind.
func ClassifyDOMError(name string) Kind {
	switch strings.TrimSpace(name) {
	case "NotAllowedError", "PermissionDeniedError", "SecurityError":
		return KindPermissionDenied
	case "NotFoundError", "DevicesNotFoundError", "OverconstrainedError":
		return KindDeviceNotFound
	case "NotReadableError", "TrackStartError", "AbortError":
		return KindDeviceBusy
	default:
		return KindUnknown
	}
}

// KindOf extracts the capture kind from err, or KindUnknown.
func KindOf(err error) Kind {
	var ce *CaptureError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}
