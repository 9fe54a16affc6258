package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"physio-notes-be/internal/dto"
	"physio-notes-be/internal/pkg/logger"
	"physio-notes-be/internal/repository/memory"
	"physio-notes-be/pkg/aiservice"
	"physio-notes-be/pkg/appstate"
	"physio-notes-be/pkg/flow"
	"physio-notes-be/pkg/recorder"
	"physio-notes-be/pkg/template"

	"github.com/google/uuid"
)

const defaultChunkMimeType = "audio/webm"

// ISessionService drives each user's server-side recording session.
type ISessionService interface {
	Get(ctx context.Context, userId uuid.UUID) *dto.SessionResponse
	SelectTemplate(ctx context.Context, userId uuid.UUID, req *dto.SelectTemplateRequest) (*dto.SessionResponse, error)
	Start(ctx context.Context, userId uuid.UUID, req *dto.StartRecordingRequest) (*dto.SessionResponse, error)
	WriteChunk(ctx context.Context, userId uuid.UUID, chunk []byte) (*dto.SessionResponse, error)
	Stop(ctx context.Context, userId uuid.UUID) (*dto.StopRecordingResponse, error)
	Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitSessionRequest) (*flow.Outcome, error)
	View(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionResponse, error)
	New(ctx context.Context, userId uuid.UUID) (*dto.SessionResponse, error)
	Reset(ctx context.Context, userId uuid.UUID) *dto.SessionResponse
	ClassifyCaptureError(req *dto.CaptureErrorRequest) *dto.CaptureErrorResponse
}

type sessionService struct {
	sessions         *memory.SessionRepository
	encounters       IEncounterService
	customTemplates  ICustomTemplateService
	transcriber      flow.Transcriber
	completer        aiservice.Completer
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewSessionService(
	sessions *memory.SessionRepository,
	encounters IEncounterService,
	customTemplates ICustomTemplateService,
	transcriber flow.Transcriber,
	completer aiservice.Completer,
	publisherService IPublisherService,
	log logger.ILogger,
) ISessionService {
	s := &sessionService{
		sessions:         sessions,
		encounters:       encounters,
		customTemplates:  customTemplates,
		transcriber:      transcriber,
		completer:        completer,
		publisherService: publisherService,
		logger:           log,
	}
	sessions.OnEvicted(func(userID string, f *flow.Flow) {
		s.logger.Debug("SessionService", "Session expired", map[string]interface{}{"user_id": userID})
		f.Reset()
	})
	return s
}

func (s *sessionService) flowFor(userId uuid.UUID) *flow.Flow {
	f, _ := s.sessions.GetOrCreate(userId, func() *flow.Flow {
		f := flow.New(flow.Dependencies{
			Recorder:    recorder.New(nil),
			Transcriber: s.transcriber,
			Templates:   template.NewManager(s.customTemplates.Loader(userId)),
			Completer:   s.completer,
			Store:       s.encounters.Store(userId),
		})
		f.Observe(func(snap appstate.Snapshot) {
			s.publishState(userId, snap)
		})
		return f
	})
	return f
}

func (s *sessionService) publishState(userId uuid.UUID, snap appstate.Snapshot) {
	if s.publisherService == nil {
		return
	}
	payload, err := json.Marshal(dto.SessionEventMessage{UserId: userId.String(), Snapshot: snap})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(context.Background(), payload); err != nil {
		s.logger.Warn("SessionService", "Failed to publish session state", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
}

func sessionResponse(f *flow.Flow) *dto.SessionResponse {
	rec := f.Recorder()
	return &dto.SessionResponse{
		Snapshot:      f.Snapshot(),
		Recording:     rec.Recording(),
		BufferedBytes: rec.Size(),
		Note:          f.Note(),
	}
}

func (s *sessionService) Get(ctx context.Context, userId uuid.UUID) *dto.SessionResponse {
	return sessionResponse(s.flowFor(userId))
}

func (s *sessionService) SelectTemplate(ctx context.Context, userId uuid.UUID, req *dto.SelectTemplateRequest) (*dto.SessionResponse, error) {
	f := s.flowFor(userId)
	if err := f.SelectTemplate(req.TemplateType); err != nil {
		return nil, err
	}
	return sessionResponse(f), nil
}

func (s *sessionService) Start(ctx context.Context, userId uuid.UUID, req *dto.StartRecordingRequest) (*dto.SessionResponse, error) {
	mimeType := defaultChunkMimeType
	if req != nil && strings.TrimSpace(req.MimeType) != "" {
		mimeType = strings.TrimSpace(req.MimeType)
	}

	f := s.flowFor(userId)
	if err := f.StartRecording(ctx, mimeType); err != nil {
		return nil, err
	}
	return sessionResponse(f), nil
}

func (s *sessionService) WriteChunk(ctx context.Context, userId uuid.UUID, chunk []byte) (*dto.SessionResponse, error) {
	f := s.flowFor(userId)
	if err := f.WriteChunk(chunk); err != nil {
		return nil, err
	}
	return sessionResponse(f), nil
}

func (s *sessionService) Stop(ctx context.Context, userId uuid.UUID) (*dto.StopRecordingResponse, error) {
	f := s.flowFor(userId)
	blob, err := f.StopRecording()
	if err != nil {
		return nil, err
	}
	return &dto.StopRecordingResponse{
		SessionResponse: *sessionResponse(f),
		AudioBytes:      blob.Size(),
		MimeType:        blob.MimeType,
	}, nil
}

func (s *sessionService) Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitSessionRequest) (*flow.Outcome, error) {
	f := s.flowFor(userId)
	outcome, err := f.Submit(ctx, req.SessionTitle)
	if err != nil {
		details := map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		}
		var flowErr *flow.Error
		if errors.As(err, &flowErr) {
			details["stage"] = string(flowErr.Stage)
			if flowErr.DraftID != nil {
				details["draft_id"] = flowErr.DraftID.String()
			}
		}
		s.logger.Error("SessionService", "Note generation failed", details)
		return nil, err
	}

	s.logger.Info("SessionService", "Note generated", map[string]interface{}{
		"user_id":      userId.String(),
		"encounter_id": outcome.Encounter.ID.String(),
		"template":     outcome.Encounter.TemplateType,
		"warnings":     len(outcome.Warnings),
	})
	return outcome, nil
}

func (s *sessionService) View(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionResponse, error) {
	f := s.flowFor(userId)
	if _, err := f.ViewNote(ctx, id); err != nil {
		return nil, err
	}
	return sessionResponse(f), nil
}

func (s *sessionService) New(ctx context.Context, userId uuid.UUID) (*dto.SessionResponse, error) {
	f := s.flowFor(userId)
	if err := f.CreateNewNote(); err != nil {
		return nil, err
	}
	return sessionResponse(f), nil
}

func (s *sessionService) Reset(ctx context.Context, userId uuid.UUID) *dto.SessionResponse {
	f := s.flowFor(userId)
	f.Reset()
	return sessionResponse(f)
}

func (s *sessionService) ClassifyCaptureError(req *dto.CaptureErrorRequest) *dto.CaptureErrorResponse {
	kind := recorder.ClassifyDOMError(req.Name)
	return &dto.CaptureErrorResponse{
		Kind:    string(kind),
		Message: recorder.UserMessage(kind),
	}
}
