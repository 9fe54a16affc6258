package transcription

import (
	"context"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxBytes is the upload limit shared by the supported providers.
const MaxBytes = 25 * 1024 * 1024

var supportedTypes = []string{
	"audio/webm",
	"video/webm",
	"audio/ogg",
	"application/ogg",
	"audio/opus",
	"audio/wav",
	"audio/mpeg",
	"audio/mp4",
	"audio/x-m4a",
	"video/mp4",
	"audio/flac",
}

var extensions = map[string]string{
	"audio/webm":      "webm",
	"video/webm":      "webm",
	"audio/ogg":       "ogg",
	"application/ogg": "ogg",
	"audio/opus":      "ogg",
	"audio/wav":       "wav",
	"audio/mpeg":      "mp3",
	"audio/mp4":       "m4a",
	"audio/x-m4a":     "m4a",
	"video/mp4":       "mp4",
	"audio/flac":      "flac",
}

// PhysioKeywords bias providers toward clinical vocabulary.
var PhysioKeywords = []string{
	"ROM", "MMT", "McMurray", "Lachman", "Hawkins-Kennedy", "Neer",
	"FABER", "FADIR", "SLR", "Spurling", "anterior drawer", "valgus", "varus",
	"flexion", "extension", "abduction", "adduction", "goniometry", "palpation",
	"HEP", "VAS", "NPRS",
}

type Audio struct {
	Data     []byte
	MimeType string
	Filename string
}

// Provider is a speech-to-text backend.
type Provider interface {
	Transcribe(ctx context.Context, audio Audio) (string, error)
}

// Validate checks audio before it is sent anywhere and fills in MimeType
// and Filename from the sniffed content.
func Validate(audio *Audio) error {
	if len(audio.Data) == 0 {
		return &Error{Kind: KindEmptyAudio}
	}
	if len(audio.Data) > MaxBytes {
		return &Error{Kind: KindOversized}
	}

	detected := mimetype.Detect(audio.Data)
	matched := ""
	for _, t := range supportedTypes {
		if detected.Is(t) {
			matched = t
			break
		}
	}
	if matched == "" {
		return &Error{Kind: KindUnsupportedFormat, Message: "unsupported audio type " + detected.String()}
	}

	if audio.MimeType == "" || !strings.HasPrefix(audio.MimeType, "audio/") {
		audio.MimeType = matched
		if strings.HasPrefix(matched, "video/") {
			audio.MimeType = "audio/" + strings.TrimPrefix(matched, "video/")
		}
	}
	if audio.Filename == "" {
		audio.Filename = "recording." + extensions[matched]
	}
	return nil
}

// Client validates audio and classifies provider failures. It makes a
// single attempt per call.
type Client struct {
	provider Provider
}

func NewClient(provider Provider) *Client {
	return &Client{provider: provider}
}

func (c *Client) Transcribe(ctx context.Context, audio Audio) (string, error) {
	if err := Validate(&audio); err != nil {
		return "", err
	}
	if c.provider == nil {
		return "", &Error{Kind: KindNotConfigured}
	}

	text, err := c.provider.Transcribe(ctx, audio)
	if err != nil {
		return "", classify(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &Error{Kind: KindEmptyTranscript}
	}
	return text, nil
}
