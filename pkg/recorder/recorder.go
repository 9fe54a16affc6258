package recorder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

// MaxBytes is the largest recording the transcription endpoints accept.
const MaxBytes = 25 * 1024 * 1024

const (
	readChunkSize = 32 * 1024
	pumpGrace     = 4 * time.Second
)

// Capture is a live audio capture.
type Capture interface {
	io.Reader
	Stop() error
}

// Source opens audio captures. A Recorder without a Source works in push
// mode: callers feed chunks through Write.
type Source interface {
	Start(ctx context.Context) (Capture, error)
	MimeType() string
}

// Blob is a finalized recording.
type Blob struct {
	Data     []byte
	MimeType string
}

func (b Blob) Size() int {
	return len(b.Data)
}

type Recorder struct {
	source   Source
	maxBytes int

	mu        sync.Mutex
	recording bool
	stopping  bool
	mimeType  string
	chunks    [][]byte
	size      int
	capture   Capture
	cancel    context.CancelFunc
	pumpDone  chan struct{}
	pumpErr   error
}

func New(source Source) *Recorder {
	return &Recorder{source: source, maxBytes: MaxBytes}
}

// Start begins a recording. mimeType describes pushed chunks and is ignored
// when a Source is attached.
func (r *Recorder) Start(ctx context.Context, mimeType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return ErrAlreadyRecording
	}

	r.chunks = nil
	r.size = 0
	r.pumpErr = nil
	r.mimeType = mimeType

	if r.source != nil {
		captureCtx, cancel := context.WithCancel(ctx)
		capture, err := r.source.Start(captureCtx)
		if err != nil {
			cancel()
			var ce *CaptureError
			if !errors.As(err, &ce) {
				err = &CaptureError{Kind: KindUnknown, Err: err}
			}
			return err
		}
		r.mimeType = r.source.MimeType()
		r.capture = capture
		r.cancel = cancel
		r.pumpDone = make(chan struct{})
		go r.pump(capture, r.pumpDone)
	}

	r.recording = true
	return nil
}

// Write appends a chunk of encoded audio to the current recording.
func (r *Recorder) Write(chunk []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.appendLocked(chunk)
}

func (r *Recorder) appendLocked(chunk []byte) error {
	if !r.recording {
		return ErrNotRecording
	}
	if len(chunk) == 0 {
		return nil
	}
	if r.size+len(chunk) > r.maxBytes {
		return ErrTooLarge
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	r.chunks = append(r.chunks, buf)
	r.size += len(buf)
	return nil
}

// Stop finalizes the recording into a single Blob and releases the source.
func (r *Recorder) Stop() (Blob, error) {
	r.mu.Lock()
	if !r.recording || r.stopping {
		r.mu.Unlock()
		return Blob{}, ErrNotRecording
	}
	r.stopping = true
	capture, cancel, done := r.capture, r.cancel, r.pumpDone
	r.mu.Unlock()

	var stopErr error
	if capture != nil {
		stopErr = capture.Stop()
		select {
		case <-done:
		case <-time.After(pumpGrace):
		}
		cancel()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	blob := Blob{Data: bytes.Join(r.chunks, nil), MimeType: r.mimeType}
	pumpErr := r.pumpErr
	r.resetLocked()

	if pumpErr != nil {
		return blob, pumpErr
	}
	return blob, stopErr
}

// Discard drops buffered audio and releases the source without producing a Blob.
func (r *Recorder) Discard() {
	r.mu.Lock()
	capture, cancel := r.capture, r.cancel
	r.resetLocked()
	r.mu.Unlock()

	if capture != nil {
		_ = capture.Stop()
		cancel()
	}
}

func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Size returns the number of buffered bytes.
func (r *Recorder) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

func (r *Recorder) resetLocked() {
	r.recording = false
	r.stopping = false
	r.chunks = nil
	r.size = 0
	r.capture = nil
	r.cancel = nil
	r.pumpDone = nil
	r.pumpErr = nil
}

func (r *Recorder) pump(capture Capture, done chan struct{}) {
	defer close(done)

	buf := make([]byte, readChunkSize)
	for {
		n, err := capture.Read(buf)
		if n > 0 {
			r.mu.Lock()
			if r.capture != capture {
				r.mu.Unlock()
				return
			}
			appendErr := r.appendLocked(buf[:n])
			if appendErr != nil {
				r.pumpErr = appendErr
			}
			r.mu.Unlock()
			if appendErr != nil {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.mu.Lock()
				if r.capture == capture && !r.stopping {
					r.pumpErr = err
				}
				r.mu.Unlock()
			}
			return
		}
	}
}
