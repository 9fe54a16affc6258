package recorder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// FFmpegSource captures the local microphone through an ffmpeg subprocess
// and encodes it as webm/opus, the same container browsers upload.
type FFmpegSource struct {
	Command     string
	InputFormat string
	InputDevice string
}

func NewFFmpegSource(command, inputFormat, inputDevice string) *FFmpegSource {
	if command == "" {
		command = "ffmpeg"
	}
	if inputFormat == "" {
		inputFormat = "pulse"
	}
	if inputDevice == "" {
		inputDevice = "default"
	}
	return &FFmpegSource{Command: command, InputFormat: inputFormat, InputDevice: inputDevice}
}

func (s *FFmpegSource) MimeType() string {
	return "audio/webm"
}

func (s *FFmpegSource) Start(ctx context.Context) (Capture, error) {
	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", s.InputFormat,
		"-i", s.InputDevice,
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "libopus",
		"-f", "webm",
		"-",
	}

	cmd := exec.CommandContext(ctx, s.Command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &CaptureError{Kind: KindUnknown, Err: fmt.Errorf("ffmpeg stdout pipe: %w", err)}
	}
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, &CaptureError{Kind: KindDeviceNotFound, Err: err}
		}
		return nil, &CaptureError{Kind: KindUnknown, Err: err}
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	select {
	case err := <-waitErr:
		detail := strings.TrimSpace(stderr.String())
		if err == nil {
			err = errors.New("ffmpeg exited before capture started")
		}
		return nil, &CaptureError{Kind: ClassifyFFmpegError(detail), Err: fmt.Errorf("%w: %s", err, detail)}
	case <-time.After(250 * time.Millisecond):
	}

	return &ffmpegCapture{
		stdout:  stdout,
		stderr:  &stderr,
		process: cmd.Process,
		waitErr: waitErr,
	}, nil
}

// ClassifyFFmpegError maps ffmpeg's device error output to a capture Kind.
func ClassifyFFmpegError(stderr string) Kind {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "permission denied"), strings.Contains(lower, "operation not permitted"):
		return KindPermissionDenied
	case strings.Contains(lower, "device or resource busy"), strings.Contains(lower, "resource temporarily unavailable"):
		return KindDeviceBusy
	case strings.Contains(lower, "no such file or directory"),
		strings.Contains(lower, "no such device"),
		strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "unknown input format"):
		return KindDeviceNotFound
	default:
		return KindUnknown
	}
}

type ffmpegCapture struct {
	stdout io.ReadCloser
	stderr *bytes.Buffer

	process *os.Process
	waitErr <-chan error

	stopOnce sync.Once
	stopErr  error
}

func (c *ffmpegCapture) Read(p []byte) (int, error) {
	return c.stdout.Read(p)
}

// Stop interrupts ffmpeg so it flushes the webm trailer, killing it if it
// does not exit promptly.
func (c *ffmpegCapture) Stop() error {
	c.stopOnce.Do(func() {
		if c.process != nil {
			_ = c.process.Signal(os.Interrupt)
		}

		select {
		case err, ok := <-c.waitErr:
			if ok {
				c.stopErr = normalizeExitErr(err)
			}
		case <-time.After(1200 * time.Millisecond):
			if c.process != nil {
				_ = c.process.Kill()
			}
			if err, ok := <-c.waitErr; ok {
				c.stopErr = normalizeExitErr(err)
			}
		}

		if c.stopErr != nil && c.stderr.Len() > 0 {
			c.stopErr = fmt.Errorf("%w: %s", c.stopErr, strings.TrimSpace(c.stderr.String()))
		}
	})
	return c.stopErr
}

func normalizeExitErr(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}
