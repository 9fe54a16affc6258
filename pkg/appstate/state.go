package appstate

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// State models the note-taking lifecycle of one user session.
type State string

const (
	StateIdle             State = "idle"
	StateTemplateSelected State = "template_selected"
	StateRecording        State = "recording"
	StateProcessing       State = "processing"
	StateEditing          State = "editing"
	StateViewing          State = "viewing"
)

var ErrInvalidTransition = errors.New("invalid state transition")

// TransitionError names the rejected transition.
type TransitionError struct {
	Action string
	From   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s while %s", ErrInvalidTransition, e.Action, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Snapshot is an immutable copy of the machine state.
type Snapshot struct {
	State            State      `json:"state"`
	SelectedTemplate string     `json:"selectedTemplate,omitempty"`
	NoteID           *uuid.UUID `json:"noteId,omitempty"`
}

// Machine is a guarded finite state machine. Transitions from a state that
// does not allow them return a *TransitionError and leave the state intact.
type Machine struct {
	mu               sync.Mutex
	state            State
	selectedTemplate string
	noteID           *uuid.UUID
	observers        []func(Snapshot)
}

func New() *Machine {
	return &Machine{state: StateIdle}
}

// Observe registers fn to receive a snapshot after every successful transition.
func (m *Machine) Observe(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) SelectedTemplate() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedTemplate
}

// SelectTemplate selects a template. Selecting the currently selected
// template again deselects it and returns to idle.
func (m *Machine) SelectTemplate(templateType string) error {
	return m.transition("select template", func() bool {
		switch m.state {
		case StateIdle, StateEditing, StateViewing:
			m.state = StateTemplateSelected
			m.selectedTemplate = templateType
			m.noteID = nil
		case StateTemplateSelected:
			if m.selectedTemplate == templateType {
				m.state = StateIdle
				m.selectedTemplate = ""
			} else {
				m.selectedTemplate = templateType
			}
		default:
			return false
		}
		return true
	})
}

func (m *Machine) StartRecording() error {
	return m.transition("start recording", func() bool {
		if m.state != StateTemplateSelected {
			return false
		}
		m.state = StateRecording
		return true
	})
}

func (m *Machine) StopRecording() error {
	return m.transition("stop recording", func() bool {
		if m.state != StateRecording {
			return false
		}
		m.state = StateProcessing
		return true
	})
}

// FinishProcessing moves to editing with the generated note.
func (m *Machine) FinishProcessing(noteID uuid.UUID) error {
	return m.transition("finish processing", func() bool {
		if m.state != StateProcessing {
			return false
		}
		m.state = StateEditing
		m.noteID = &noteID
		return true
	})
}

func (m *Machine) CreateNewNote() error {
	return m.transition("create new note", func() bool {
		if m.state != StateEditing && m.state != StateViewing {
			return false
		}
		m.state = StateIdle
		m.selectedTemplate = ""
		m.noteID = nil
		return true
	})
}

// ViewNote is accepted from any state; the caller fetches the note first.
func (m *Machine) ViewNote(noteID uuid.UUID) error {
	return m.transition("view note", func() bool {
		m.state = StateViewing
		m.noteID = &noteID
		return true
	})
}

// Reset returns to idle from any state and clears the selection.
func (m *Machine) Reset() {
	_ = m.transition("reset", func() bool {
		m.state = StateIdle
		m.selectedTemplate = ""
		m.noteID = nil
		return true
	})
}

// transition runs apply under the lock. apply reports false to reject the
// action from the current state, leaving it unchanged.
func (m *Machine) transition(action string, apply func() bool) error {
	m.mu.Lock()
	from := m.state
	if !apply() {
		m.mu.Unlock()
		return &TransitionError{Action: action, From: from}
	}
	snap := m.snapshotLocked()
	observers := make([]func(Snapshot), len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
	return nil
}

func (m *Machine) snapshotLocked() Snapshot {
	snap := Snapshot{State: m.state, SelectedTemplate: m.selectedTemplate}
	if m.noteID != nil {
		id := *m.noteID
		snap.NoteID = &id
	}
	return snap
}
