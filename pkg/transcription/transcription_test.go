package transcription

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type stubProvider struct {
	calls int
	got   Audio
	text  string
	err   error
}

func (s *stubProvider) Transcribe(_ context.Context, audio Audio) (string, error) {
	s.calls++
	s.got = audio
	return s.text, s.err
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func wavHeader() []byte {
	data := make([]byte, 44)
	copy(data[0:], "RIFF")
	copy(data[8:], "WAVEfmt ")
	copy(data[36:], "data")
	return data
}

type ClientSuite struct {
	suite.Suite
	provider *stubProvider
	client   *Client
}

func (s *ClientSuite) SetupTest() {
	s.provider = &stubProvider{text: "  patient reports knee pain  "}
	s.client = NewClient(s.provider)
}

func (s *ClientSuite) TestEmptyAudioFailsBeforeProviderCall() {
	_, err := s.client.Transcribe(context.Background(), Audio{})
	s.Equal(KindEmptyAudio, KindOf(err))
	s.Zero(s.provider.calls)
}

func (s *ClientSuite) TestOversizedAudioIsRejected() {
	_, err := s.client.Transcribe(context.Background(), Audio{Data: make([]byte, MaxBytes+1)})
	s.Equal(KindOversized, KindOf(err))
	s.Zero(s.provider.calls)
}

func (s *ClientSuite) TestUnsupportedFormatIsRejected() {
	_, err := s.client.Transcribe(context.Background(), Audio{Data: []byte("just some plain text")})
	s.Equal(KindUnsupportedFormat, KindOf(err))
	s.Zero(s.provider.calls)
}

func (s *ClientSuite) TestTranscribeTrimsAndFillsMetadata() {
	text, err := s.client.Transcribe(context.Background(), Audio{Data: wavHeader()})
	s.Require().NoError(err)
	s.Equal("patient reports knee pain", text)
	s.Equal(1, s.provider.calls)
	s.Equal("audio/wav", s.provider.got.MimeType)
	s.Equal("recording.wav", s.provider.got.Filename)
}

func (s *ClientSuite) TestEmptyTranscript() {
	s.provider.text = "   "
	_, err := s.client.Transcribe(context.Background(), Audio{Data: wavHeader()})
	s.Equal(KindEmptyTranscript, KindOf(err))
}

func (s *ClientSuite) TestProviderErrorsAreClassified() {
	s.provider.err = fmt.Errorf("post: %w", timeoutErr{})
	_, err := s.client.Transcribe(context.Background(), Audio{Data: wavHeader()})
	s.Equal(KindNetwork, KindOf(err))

	s.provider.err = context.DeadlineExceeded
	_, err = s.client.Transcribe(context.Background(), Audio{Data: wavHeader()})
	s.Equal(KindNetwork, KindOf(err))

	s.provider.err = errors.New("model overloaded")
	_, err = s.client.Transcribe(context.Background(), Audio{Data: wavHeader()})
	s.Equal(KindProvider, KindOf(err))
	s.Equal(3, s.provider.calls)
}

func (s *ClientSuite) TestMissingProvider() {
	_, err := NewClient(nil).Transcribe(context.Background(), Audio{Data: wavHeader()})
	s.Equal(KindNotConfigured, KindOf(err))
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func TestValidateKeepsCallerMimeType(t *testing.T) {
	audio := Audio{Data: wavHeader(), MimeType: "audio/x-wav", Filename: "visit.wav"}
	require.NoError(t, Validate(&audio))
	assert.Equal(t, "audio/x-wav", audio.MimeType)
	assert.Equal(t, "visit.wav", audio.Filename)
}

func TestUserMessagesPerKind(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range []Kind{KindEmptyAudio, KindOversized, KindUnsupportedFormat, KindNetwork, KindProvider, KindEmptyTranscript, KindNotConfigured} {
		seen[UserMessage(k)] = true
	}
	assert.Len(t, seen, 7)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIProvider{}, p)

	p, err = NewProvider(Config{Provider: "gemini"})
	require.NoError(t, err)
	_, err = p.Transcribe(context.Background(), Audio{Data: wavHeader()})
	assert.Equal(t, KindNotConfigured, KindOf(err))

	_, err = NewProvider(Config{Provider: "deepgram"})
	assert.Error(t, err)
}
