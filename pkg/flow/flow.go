package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"physio-notes-be/pkg/aiservice"
	"physio-notes-be/pkg/appstate"
	"physio-notes-be/pkg/recorder"
	"physio-notes-be/pkg/soap"
	"physio-notes-be/pkg/template"
	"physio-notes-be/pkg/transcription"

	"github.com/google/uuid"
)

var (
	ErrBusy         = errors.New("flow: a submission is already in progress")
	ErrNoRecording  = errors.New("flow: no recording to submit")
	ErrTitleMissing = errors.New("flow: session title is required")
	// ErrSuperseded is returned by a Submit whose session was reset while it ran.
	ErrSuperseded = errors.New("flow: session was reset during submission")
)

// Stage names the step of Submit that failed.
type Stage string

const (
	StageTranscribe Stage = "transcribe"
	StageGenerate   Stage = "generate"
	StageCreate     Stage = "create"
	StageUpdate     Stage = "update"
	StageSuperseded Stage = "superseded"
)

// Error reports a failed submission. DraftID is set when the encounter row
// was created but could not be updated; that draft is left in place.
type Error struct {
	Stage   Stage
	DraftID *uuid.UUID
	Err     error
}

func (e *Error) Error() string {
	if e.DraftID != nil {
		return fmt.Sprintf("%s failed (draft %s left behind): %v", e.Stage, e.DraftID, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// EncounterStore persists encounters in two steps: Create inserts an empty
// draft, Update writes the generated note.
type EncounterStore interface {
	Create(ctx context.Context, templateType string, customTemplateID *uuid.UUID, title string) (*soap.Encounter, error)
	Update(ctx context.Context, id uuid.UUID, doc *soap.Document, status soap.Status, transcript string) (*soap.Encounter, error)
	Get(ctx context.Context, id uuid.UUID) (*soap.Encounter, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio transcription.Audio) (string, error)
}

type Generator interface {
	GenerateSOAP(ctx context.Context, templateType, transcript string, completer aiservice.Completer) (*template.Result, error)
}

type Dependencies struct {
	Recorder    *recorder.Recorder
	Transcriber Transcriber
	Templates   Generator
	Completer   aiservice.Completer
	Store       EncounterStore
}

// Outcome is the result of a successful Submit.
type Outcome struct {
	Encounter  *soap.Encounter `json:"encounter"`
	Transcript string          `json:"transcript"`
	Warnings   []string        `json:"warnings,omitempty"`
}

// Flow drives one user's record → transcribe → generate → save lifecycle.
type Flow struct {
	deps  Dependencies
	state *appstate.Machine

	mu         sync.Mutex
	submitting bool
	// generation changes on every reset; a Submit that started under an
	// older generation must leave the current session alone.
	generation uint64
	pending    *recorder.Blob
	note       *soap.Encounter
}

func New(deps Dependencies) *Flow {
	if deps.Recorder == nil {
		deps.Recorder = recorder.New(nil)
	}
	return &Flow{deps: deps, state: appstate.New()}
}

// Observe registers fn for state snapshots after every transition.
func (f *Flow) Observe(fn func(appstate.Snapshot)) {
	f.state.Observe(fn)
}

func (f *Flow) Snapshot() appstate.Snapshot {
	return f.state.Snapshot()
}

// Note returns the encounter currently being edited or viewed.
func (f *Flow) Note() *soap.Encounter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.note
}

func (f *Flow) Recorder() *recorder.Recorder {
	return f.deps.Recorder
}

func (f *Flow) SelectTemplate(templateType string) error {
	if _, _, err := template.ParseTemplateType(templateType); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.state.SelectTemplate(strings.ToLower(strings.TrimSpace(templateType))); err != nil {
		return err
	}
	f.note = nil
	return nil
}

// StartRecording opens the recorder. mimeType describes pushed chunks.
func (f *Flow) StartRecording(ctx context.Context, mimeType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if s := f.state.State(); s != appstate.StateTemplateSelected {
		return &appstate.TransitionError{Action: "start recording", From: s}
	}
	if err := f.deps.Recorder.Start(ctx, mimeType); err != nil {
		return err
	}
	if err := f.state.StartRecording(); err != nil {
		f.deps.Recorder.Discard()
		return err
	}
	f.pending = nil
	return nil
}

func (f *Flow) WriteChunk(chunk []byte) error {
	return f.deps.Recorder.Write(chunk)
}

// StopRecording finalizes the audio and moves to processing. Submit must
// follow.
func (f *Flow) StopRecording() (recorder.Blob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.state.StopRecording(); err != nil {
		return recorder.Blob{}, err
	}
	blob, err := f.deps.Recorder.Stop()
	if err != nil {
		f.resetLocked()
		return recorder.Blob{}, err
	}
	f.pending = &blob
	return blob, nil
}

// Submit transcribes the pending recording, generates the note with the
// selected template and saves it. Any failure returns the session to idle.
func (f *Flow) Submit(ctx context.Context, title string) (*Outcome, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleMissing
	}

	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	if s := f.state.State(); s != appstate.StateProcessing {
		f.mu.Unlock()
		return nil, &appstate.TransitionError{Action: "submit", From: s}
	}
	if f.pending == nil {
		f.mu.Unlock()
		return nil, ErrNoRecording
	}
	f.submitting = true
	gen := f.generation
	blob := *f.pending
	templateType := f.state.SelectedTemplate()
	f.mu.Unlock()

	outcome, err := f.process(ctx, blob, templateType, title)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		if err != nil {
			return nil, err
		}
		id := outcome.Encounter.ID
		return nil, &Error{Stage: StageSuperseded, DraftID: &id, Err: ErrSuperseded}
	}
	f.submitting = false
	if err != nil {
		f.resetLocked()
		return nil, err
	}
	f.pending = nil
	if terr := f.state.FinishProcessing(outcome.Encounter.ID); terr != nil {
		return nil, terr
	}
	f.note = outcome.Encounter
	return outcome, nil
}

func (f *Flow) process(ctx context.Context, blob recorder.Blob, templateType, title string) (*Outcome, error) {
	if f.deps.Transcriber == nil {
		return nil, &Error{Stage: StageTranscribe, Err: &transcription.Error{Kind: transcription.KindNotConfigured}}
	}
	transcript, err := f.deps.Transcriber.Transcribe(ctx, transcription.Audio{Data: blob.Data, MimeType: blob.MimeType})
	if err != nil {
		return nil, &Error{Stage: StageTranscribe, Err: err}
	}

	result, err := f.deps.Templates.GenerateSOAP(ctx, templateType, transcript, f.deps.Completer)
	if err != nil {
		return nil, &Error{Stage: StageGenerate, Err: err}
	}

	_, customID, _ := template.ParseTemplateType(templateType)
	created, err := f.deps.Store.Create(ctx, templateType, customID, title)
	if err != nil {
		return nil, &Error{Stage: StageCreate, Err: err}
	}

	updated, err := f.deps.Store.Update(ctx, created.ID, result.Document, soap.StatusDraft, transcript)
	if err != nil {
		id := created.ID
		return nil, &Error{Stage: StageUpdate, DraftID: &id, Err: err}
	}

	return &Outcome{Encounter: updated, Transcript: transcript, Warnings: result.Warnings}, nil
}

// ViewNote loads an encounter and shows it. Allowed from any state; an
// active recording is discarded.
func (f *Flow) ViewNote(ctx context.Context, id uuid.UUID) (*soap.Encounter, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	f.mu.Unlock()

	enc, err := f.deps.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deps.Recorder.Recording() {
		f.deps.Recorder.Discard()
	}
	f.pending = nil
	if err := f.state.ViewNote(enc.ID); err != nil {
		return nil, err
	}
	f.note = enc
	return enc, nil
}

func (f *Flow) CreateNewNote() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.state.CreateNewNote(); err != nil {
		return err
	}
	f.note = nil
	return nil
}

// Reset discards any recording and returns to idle. An in-flight Submit
// keeps running; its saved draft is reported to that caller only.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

func (f *Flow) resetLocked() {
	f.generation++
	f.submitting = false
	f.deps.Recorder.Discard()
	f.pending = nil
	f.note = nil
	f.state.Reset()
}
