package recorder

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCapture struct {
	*bytes.Reader
	stopped bool
}

func (c *fakeCapture) Stop() error {
	c.stopped = true
	return nil
}

type fakeSource struct {
	capture *fakeCapture
	err     error
}

func (s *fakeSource) Start(context.Context) (Capture, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.capture, nil
}

func (s *fakeSource) MimeType() string { return "audio/ogg" }

func TestPushModeJoinsChunks(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Start(context.Background(), "audio/webm"))

	require.NoError(t, r.Write([]byte("abc")))
	require.NoError(t, r.Write(nil))
	require.NoError(t, r.Write([]byte("def")))
	assert.Equal(t, 6, r.Size())

	blob, err := r.Stop()
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdef"), blob.Data)
	assert.Equal(t, "audio/webm", blob.MimeType)
	assert.False(t, r.Recording())
	assert.Equal(t, 0, r.Size())
}

func TestWriteAndStopRequireRecording(t *testing.T) {
	r := New(nil)

	assert.ErrorIs(t, r.Write([]byte("x")), ErrNotRecording)
	_, err := r.Stop()
	assert.ErrorIs(t, err, ErrNotRecording)

	require.NoError(t, r.Start(context.Background(), "audio/webm"))
	assert.ErrorIs(t, r.Start(context.Background(), "audio/webm"), ErrAlreadyRecording)
}

func TestWriteRejectsOversizedRecording(t *testing.T) {
	r := New(nil)
	r.maxBytes = 4
	require.NoError(t, r.Start(context.Background(), "audio/webm"))

	require.NoError(t, r.Write([]byte("abc")))
	assert.ErrorIs(t, r.Write([]byte("de")), ErrTooLarge)
	assert.Equal(t, 3, r.Size())
}

func TestDiscardDropsAudio(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Start(context.Background(), "audio/webm"))
	require.NoError(t, r.Write([]byte("abc")))

	r.Discard()
	assert.False(t, r.Recording())
	_, err := r.Stop()
	assert.ErrorIs(t, err, ErrNotRecording)
}

func TestSourceModePumpsCapture(t *testing.T) {
	capture := &fakeCapture{Reader: bytes.NewReader([]byte("opus-frames"))}
	r := New(&fakeSource{capture: capture})

	require.NoError(t, r.Start(context.Background(), ""))
	<-r.pumpDone

	blob, err := r.Stop()
	require.NoError(t, err)
	assert.True(t, capture.stopped)
	assert.Equal(t, []byte("opus-frames"), blob.Data)
	assert.Equal(t, "audio/ogg", blob.MimeType)
}

func TestSourceStartErrorsAreCaptureErrors(t *testing.T) {
	r := New(&fakeSource{err: &CaptureError{Kind: KindDeviceBusy}})
	err := r.Start(context.Background(), "")
	assert.Equal(t, KindDeviceBusy, KindOf(err))
	assert.False(t, r.Recording())

	r = New(&fakeSource{err: errors.New("boom")})
	err = r.Start(context.Background(), "")
	assert.Equal(t, KindUnknown, KindOf(err))
	var ce *CaptureError
	assert.ErrorAs(t, err, &ce)
}

func TestClassifyDOMError(t *testing.T) {
	assert.Equal(t, KindPermissionDenied, ClassifyDOMError("NotAllowedError"))
	assert.Equal(t, KindDeviceNotFound, ClassifyDOMError("NotFoundError"))
	assert.Equal(t, KindDeviceBusy, ClassifyDOMError("NotReadableError"))
	assert.Equal(t, KindUnknown, ClassifyDOMError("TypeError"))
}

func TestClassifyFFmpegError(t *testing.T) {
	assert.Equal(t, KindPermissionDenied, ClassifyFFmpegError("hw:0: Permission denied"))
	assert.Equal(t, KindDeviceBusy, ClassifyFFmpegError("cannot open audio device hw:1 (Device or resource busy)"))
	assert.Equal(t, KindDeviceNotFound, ClassifyFFmpegError("default: No such file or directory"))
	assert.Equal(t, KindUnknown, ClassifyFFmpegError("something else"))
}

func TestUserMessagesAreDistinct(t *testing.T) {
	messages := map[string]bool{}
	for _, k := range []Kind{KindPermissionDenied, KindDeviceNotFound, KindDeviceBusy, KindUnknown} {
		messages[UserMessage(k)] = true
	}
	assert.Len(t, messages, 4)
}
